package api

import (
	"net/http"

	"github.com/dekarrin/cfgkit/internal/version"
	"github.com/dekarrin/cfgkit/server/dao"
	"github.com/dekarrin/cfgkit/server/middle"
	"github.com/dekarrin/cfgkit/server/result"
)

// HTTPGetInfo returns a HandlerFunc that retrieves information on the API and
// server.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return api.Endpoint(api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	loggedIn := req.Context().Value(middle.AuthLoggedIn).(bool)

	var resp InfoModel
	resp.Version.Server = version.Current
	resp.Version.API = version.APICurrent

	whoStr := "unauthed client"
	if loggedIn {
		acc := req.Context().Value(middle.AuthUser).(dao.Account)
		whoStr = "account '" + acc.Username + "'"
	}
	return result.OK(resp, "%s got API info", whoStr)
}
