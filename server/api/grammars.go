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

func grammarModel(g dao.Grammar) GrammarModel {
	return GrammarModel{
		URI:      PathPrefix + "/grammars/" + g.ID.String(),
		ID:       g.ID.String(),
		OwnerID:  g.OwnerID.String(),
		Name:     g.Name,
		Source:   g.Source,
		Created:  g.Created.Format(time.RFC3339),
		Modified: g.Modified.Format(time.RFC3339),
	}
}

func analysisRunModel(run dao.AnalysisRun) AnalysisRunModel {
	return AnalysisRunModel{
		URI:       PathPrefix + "/grammars/" + run.GrammarID.String() + "/analyses/" + run.ID.String(),
		ID:        run.ID.String(),
		GrammarID: run.GrammarID.String(),
		Kind:      string(run.Kind),
		Input:     run.Input,
		Result:    run.Result,
		Accepted:  run.Accepted,
		Created:   run.Created.Format(time.RFC3339),
	}
}

func grammarErrResult(acc dao.Account, err error, failMsg string) result.Result {
	if errors.Is(err, serr.ErrBadArgument) {
		return result.BadRequest(err.Error(), err.Error())
	} else if errors.Is(err, serr.ErrNotFound) {
		return result.NotFound()
	}
	return result.InternalServerError(failMsg + ": " + err.Error())
}

// HTTPCreateGrammar returns a HandlerFunc that stores a new grammar owned by
// the logged-in account.
func (api API) HTTPCreateGrammar() http.HandlerFunc {
	return api.Endpoint(api.epCreateGrammar)
}

func (api API) epCreateGrammar(req *http.Request) result.Result {
	acc := req.Context().Value(middle.AuthUser).(dao.Account)

	var createReq GrammarCreateRequest
	if err := parseJSON(req, &createReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	g, err := api.Backend.CreateGrammar(req.Context(), acc.ID, createReq.Name, createReq.Source)
	if err != nil {
		return grammarErrResult(acc, err, "could not create grammar")
	}

	resp := grammarModel(g)
	return result.Created(resp, "account '%s' created grammar '%s' (%s)", acc.Username, resp.Name, resp.ID)
}

// HTTPListGrammars returns a HandlerFunc that lists grammars owned by the
// logged-in account.
func (api API) HTTPListGrammars() http.HandlerFunc {
	return api.Endpoint(api.epListGrammars)
}

func (api API) epListGrammars(req *http.Request) result.Result {
	acc := req.Context().Value(middle.AuthUser).(dao.Account)

	gs, err := api.Backend.ListGrammars(req.Context(), acc.ID)
	if err != nil {
		return grammarErrResult(acc, err, "could not list grammars")
	}

	resp := make([]GrammarModel, len(gs))
	for i := range gs {
		resp[i] = grammarModel(gs[i])
	}

	return result.OK(resp, "account '%s' listed grammars", acc.Username)
}

func (api API) requireOwnedGrammar(req *http.Request) (dao.Account, dao.Grammar, *result.Result) {
	id := requireIDParam(req)
	acc := req.Context().Value(middle.AuthUser).(dao.Account)

	g, err := api.Backend.GetGrammar(req.Context(), id.String())
	if err != nil {
		r := grammarErrResult(acc, err, "could not get grammar")
		return acc, dao.Grammar{}, &r
	}

	if g.OwnerID != acc.ID && acc.Role != dao.Admin {
		r := result.Forbidden("account '%s' (role %s) access to grammar %s: forbidden", acc.Username, acc.Role, id)
		return acc, dao.Grammar{}, &r
	}

	return acc, g, nil
}

// HTTPGetGrammar returns a HandlerFunc that retrieves a single grammar owned
// by the logged-in account (or any grammar, for an admin account).
func (api API) HTTPGetGrammar() http.HandlerFunc {
	return api.Endpoint(api.epGetGrammar)
}

func (api API) epGetGrammar(req *http.Request) result.Result {
	acc, g, errResult := api.requireOwnedGrammar(req)
	if errResult != nil {
		return *errResult
	}
	return result.OK(grammarModel(g), "account '%s' got grammar '%s'", acc.Username, g.Name)
}

// HTTPUpdateGrammar returns a HandlerFunc that replaces the name and source
// of an existing grammar.
func (api API) HTTPUpdateGrammar() http.HandlerFunc {
	return api.Endpoint(api.epUpdateGrammar)
}

func (api API) epUpdateGrammar(req *http.Request) result.Result {
	acc, g, errResult := api.requireOwnedGrammar(req)
	if errResult != nil {
		return *errResult
	}

	var updateReq GrammarCreateRequest
	if err := parseJSON(req, &updateReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if updateReq.Name == "" {
		updateReq.Name = g.Name
	}

	updated, err := api.Backend.UpdateGrammar(req.Context(), g.ID.String(), updateReq.Name, updateReq.Source)
	if err != nil {
		return grammarErrResult(acc, err, "could not update grammar")
	}

	return result.OK(grammarModel(updated), "account '%s' updated grammar '%s'", acc.Username, updated.Name)
}

// HTTPDeleteGrammar returns a HandlerFunc that deletes a stored grammar.
func (api API) HTTPDeleteGrammar() http.HandlerFunc {
	return api.Endpoint(api.epDeleteGrammar)
}

func (api API) epDeleteGrammar(req *http.Request) result.Result {
	acc, g, errResult := api.requireOwnedGrammar(req)
	if errResult != nil {
		return *errResult
	}

	if _, err := api.Backend.DeleteGrammar(req.Context(), g.ID.String()); err != nil {
		return grammarErrResult(acc, err, "could not delete grammar")
	}

	return result.NoContent("account '%s' deleted grammar '%s'", acc.Username, g.Name)
}

// HTTPListAnalysisRuns returns a HandlerFunc that lists the analysis history
// recorded against a grammar.
func (api API) HTTPListAnalysisRuns() http.HandlerFunc {
	return api.Endpoint(api.epListAnalysisRuns)
}

func (api API) epListAnalysisRuns(req *http.Request) result.Result {
	acc, g, errResult := api.requireOwnedGrammar(req)
	if errResult != nil {
		return *errResult
	}

	runs, err := api.Backend.ListAnalysisRuns(req.Context(), g.ID.String())
	if err != nil {
		return grammarErrResult(acc, err, "could not list analysis runs")
	}

	resp := make([]AnalysisRunModel, len(runs))
	for i := range runs {
		resp[i] = analysisRunModel(runs[i])
	}

	return result.OK(resp, "account '%s' listed analysis runs for grammar '%s'", acc.Username, g.Name)
}

// HTTPAnalyzeNull returns a HandlerFunc that computes the nullable-variable
// set of a grammar and records the result as an analysis run.
func (api API) HTTPAnalyzeNull() http.HandlerFunc {
	return api.Endpoint(api.epAnalyzeNull)
}

func (api API) epAnalyzeNull(req *http.Request) result.Result {
	acc, g, errResult := api.requireOwnedGrammar(req)
	if errResult != nil {
		return *errResult
	}

	run, err := api.Backend.AnalyzeNull(req.Context(), g.ID.String())
	if err != nil {
		return grammarErrResult(acc, err, "could not run NULL analysis")
	}

	return result.Created(analysisRunModel(run), "account '%s' computed NULL for grammar '%s'", acc.Username, g.Name)
}

// HTTPAnalyzeFirstFollow returns a HandlerFunc that computes FIRST and
// FOLLOW sets for a grammar and records the result as an analysis run.
func (api API) HTTPAnalyzeFirstFollow() http.HandlerFunc {
	return api.Endpoint(api.epAnalyzeFirstFollow)
}

func (api API) epAnalyzeFirstFollow(req *http.Request) result.Result {
	acc, g, errResult := api.requireOwnedGrammar(req)
	if errResult != nil {
		return *errResult
	}

	run, err := api.Backend.AnalyzeFirstFollow(req.Context(), g.ID.String())
	if err != nil {
		return grammarErrResult(acc, err, "could not run FIRST/FOLLOW analysis")
	}

	return result.Created(analysisRunModel(run), "account '%s' computed FIRST/FOLLOW for grammar '%s'", acc.Username, g.Name)
}

// HTTPRemoveLeftRecursion returns a HandlerFunc that rewrites a grammar's
// source to remove left recursion, recording the transformed text as an
// analysis run without altering the stored grammar.
func (api API) HTTPRemoveLeftRecursion() http.HandlerFunc {
	return api.Endpoint(api.epRemoveLeftRecursion)
}

func (api API) epRemoveLeftRecursion(req *http.Request) result.Result {
	acc, g, errResult := api.requireOwnedGrammar(req)
	if errResult != nil {
		return *errResult
	}

	run, err := api.Backend.RemoveLeftRecursion(req.Context(), g.ID.String())
	if err != nil {
		return grammarErrResult(acc, err, "could not remove left recursion")
	}

	return result.Created(analysisRunModel(run), "account '%s' removed left recursion from grammar '%s'", acc.Username, g.Name)
}

// HTTPBuildLL1Table returns a HandlerFunc that builds the LL(1) parsing
// table for a grammar and records the result as an analysis run.
func (api API) HTTPBuildLL1Table() http.HandlerFunc {
	return api.Endpoint(api.epBuildLL1Table)
}

func (api API) epBuildLL1Table(req *http.Request) result.Result {
	acc, g, errResult := api.requireOwnedGrammar(req)
	if errResult != nil {
		return *errResult
	}

	run, err := api.Backend.BuildLL1Table(req.Context(), g.ID.String())
	if err != nil {
		return grammarErrResult(acc, err, "could not build LL(1) table")
	}

	return result.Created(analysisRunModel(run), "account '%s' built LL(1) table for grammar '%s'", acc.Username, g.Name)
}

// HTTPRunEarleyParse returns a HandlerFunc that attempts to recognize a
// whitespace-separated token stream against a grammar using the Earley
// algorithm, recording the result as an analysis run.
func (api API) HTTPRunEarleyParse() http.HandlerFunc {
	return api.Endpoint(api.epRunEarleyParse)
}

func (api API) epRunEarleyParse(req *http.Request) result.Result {
	acc, g, errResult := api.requireOwnedGrammar(req)
	if errResult != nil {
		return *errResult
	}

	var parseReq EarleyParseRequest
	if err := parseJSON(req, &parseReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	run, err := api.Backend.RunEarleyParse(req.Context(), g.ID.String(), parseReq.Input)
	if err != nil {
		return grammarErrResult(acc, err, "could not run Earley parse")
	}

	return result.Created(analysisRunModel(run), "account '%s' ran Earley parse against grammar '%s'", acc.Username, g.Name)
}
