package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/dekarrin/cfgkit/server/dao"
	"github.com/dekarrin/cfgkit/server/middle"
	"github.com/dekarrin/cfgkit/server/result"
	"github.com/dekarrin/cfgkit/server/serr"
)

func accountModel(acc dao.Account) AccountModel {
	return AccountModel{
		URI:            PathPrefix + "/accounts/" + acc.ID.String(),
		ID:             acc.ID.String(),
		Username:       acc.Username,
		Role:           acc.Role.String(),
		Created:        acc.Created.Format(time.RFC3339),
		LastLoginTime:  acc.LastLoginTime.Format(time.RFC3339),
		LastLogoutTime: acc.LastLogoutTime.Format(time.RFC3339),
	}
}

// HTTPGetAllAccounts returns a HandlerFunc that retrieves all existing
// accounts. Only an admin account can call this endpoint.
func (api API) HTTPGetAllAccounts() http.HandlerFunc {
	return api.Endpoint(api.epGetAllAccounts)
}

func (api API) epGetAllAccounts(req *http.Request) result.Result {
	acc := req.Context().Value(middle.AuthUser).(dao.Account)

	if acc.Role != dao.Admin {
		return result.Forbidden("account '%s' (role %s): forbidden", acc.Username, acc.Role)
	}

	accs, err := api.Backend.GetAllAccounts(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]AccountModel, len(accs))
	for i := range accs {
		resp[i] = accountModel(accs[i])
	}

	return result.OK(resp, "account '%s' got all accounts", acc.Username)
}

// HTTPCreateAccount returns a HandlerFunc that creates a new account. Only
// an admin account can directly create new accounts with a role other than
// Normal.
func (api API) HTTPCreateAccount() http.HandlerFunc {
	return api.Endpoint(api.epCreateAccount)
}

func (api API) epCreateAccount(req *http.Request) result.Result {
	acc := req.Context().Value(middle.AuthUser).(dao.Account)

	var createReq AccountCreateRequest
	if err := parseJSON(req, &createReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if createReq.Username == "" {
		return result.BadRequest("username: property is empty or missing from request", "empty username")
	}
	if createReq.Password == "" {
		return result.BadRequest("password: property is empty or missing from request", "empty password")
	}

	role := dao.Normal
	if createReq.Role != "" {
		var err error
		role, err = dao.ParseRole(createReq.Role)
		if err != nil {
			return result.BadRequest("role: "+err.Error(), "role: %s", err.Error())
		}
	}
	if role != dao.Normal && acc.Role != dao.Admin {
		return result.Forbidden("account '%s' (role %s) creation of %s account: forbidden", acc.Username, acc.Role, role)
	}

	newAcc, err := api.Backend.CreateAccount(req.Context(), createReq.Username, createReq.Password, role)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return result.Conflict("account with that username already exists", "account '%s' already exists", createReq.Username)
		} else if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp := accountModel(newAcc)
	return result.Created(resp, "account '%s' (%s) created", resp.Username, resp.ID)
}

// HTTPGetAccount returns a HandlerFunc that gets an existing account. All
// accounts may retrieve themselves, but only an admin account can retrieve
// details on other accounts.
func (api API) HTTPGetAccount() http.HandlerFunc {
	return api.Endpoint(api.epGetAccount)
}

func (api API) epGetAccount(req *http.Request) result.Result {
	id := requireIDParam(req)
	acc := req.Context().Value(middle.AuthUser).(dao.Account)

	if id != acc.ID && acc.Role != dao.Admin {
		return result.Forbidden("account '%s' (role %s) get account %s: forbidden", acc.Username, acc.Role, id)
	}

	target, err := api.Backend.GetAccount(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		} else if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get account: " + err.Error())
	}

	otherStr := "self"
	if id != acc.ID {
		otherStr = "account '" + target.Username + "'"
	}

	return result.OK(accountModel(target), "account '%s' successfully got %s", acc.Username, otherStr)
}

// HTTPDeleteAccount returns a HandlerFunc that deletes an account. All
// accounts may delete themselves, but only an admin account may delete
// another account.
func (api API) HTTPDeleteAccount() http.HandlerFunc {
	return api.Endpoint(api.epDeleteAccount)
}

func (api API) epDeleteAccount(req *http.Request) result.Result {
	id := requireIDParam(req)
	acc := req.Context().Value(middle.AuthUser).(dao.Account)

	if id != acc.ID && acc.Role != dao.Admin {
		return result.Forbidden("account '%s' (role %s) delete account %s: forbidden", acc.Username, acc.Role, id)
	}

	deleted, err := api.Backend.DeleteAccount(req.Context(), id.String())
	if err != nil && !errors.Is(err, serr.ErrNotFound) {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError("could not delete account: " + err.Error())
	}

	otherStr := "self"
	if id != acc.ID {
		otherStr = "account '" + deleted.Username + "'"
	}

	return result.NoContent("account '%s' successfully deleted %s", acc.Username, otherStr)
}
