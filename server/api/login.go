package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/cfgkit/server/dao"
	"github.com/dekarrin/cfgkit/server/middle"
	"github.com/dekarrin/cfgkit/server/result"
	"github.com/dekarrin/cfgkit/server/serr"
	"github.com/dekarrin/cfgkit/server/token"
)

// HTTPCreateLogin returns a HandlerFunc that uses the API to log in an
// account with a username and password and return the auth token for it.
func (api API) HTTPCreateLogin() http.HandlerFunc {
	return api.Endpoint(api.epCreateLogin)
}

func (api API) epCreateLogin(req *http.Request) result.Result {
	loginData := LoginRequest{}
	if err := parseJSON(req, &loginData); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if loginData.Username == "" {
		return result.BadRequest("username: property is empty or missing from request", "empty username")
	}
	if loginData.Password == "" {
		return result.BadRequest("password: property is empty or missing from request", "empty password")
	}

	acc, err := api.Backend.Login(req.Context(), loginData.Username, loginData.Password)
	if err != nil {
		if errors.Is(err, serr.ErrBadCredentials) {
			return result.Unauthorized(serr.ErrBadCredentials.Error(), "account '%s': %s", loginData.Username, err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	tok, err := token.Generate(api.Secret, acc)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := LoginResponse{Token: tok, AccountID: acc.ID.String()}
	return result.Created(resp, "account '"+acc.Username+"' successfully logged in")
}

// HTTPDeleteLogin returns a HandlerFunc that deletes the active login for an
// account. Only admin accounts can delete logins for accounts other than
// themselves.
func (api API) HTTPDeleteLogin() http.HandlerFunc {
	return api.Endpoint(api.epDeleteLogin)
}

func (api API) epDeleteLogin(req *http.Request) result.Result {
	id := requireIDParam(req)
	acc := req.Context().Value(middle.AuthUser).(dao.Account)

	if id != acc.ID && acc.Role != dao.Admin {
		return result.Forbidden("account '%s' (role %s) logout of account %s: forbidden", acc.Username, acc.Role, id)
	}

	loggedOut, err := api.Backend.Logout(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not log out account: " + err.Error())
	}

	otherStr := "self"
	if id != acc.ID {
		otherStr = "account '" + loggedOut.Username + "'"
	}

	return result.NoContent("account '%s' successfully logged out %s", acc.Username, otherStr)
}

// HTTPCreateToken returns a HandlerFunc that creates a new token for the
// account the client is logged in as.
func (api API) HTTPCreateToken() http.HandlerFunc {
	return api.Endpoint(api.epCreateToken)
}

func (api API) epCreateToken(req *http.Request) result.Result {
	acc := req.Context().Value(middle.AuthUser).(dao.Account)

	tok, err := token.Generate(api.Secret, acc)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := LoginResponse{Token: tok, AccountID: acc.ID.String()}
	return result.Created(resp, "account '"+acc.Username+"' successfully created new token")
}
