// Package server assembles the HTTP API, auth middleware, and persistence
// layer into a runnable cfgkit server.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/dekarrin/cfgkit/server/api"
	"github.com/dekarrin/cfgkit/server/dao"
	"github.com/dekarrin/cfgkit/server/middle"
	"github.com/dekarrin/cfgkit/server/tunas"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// CFGKitServer holds everything needed to serve the cfgkit HTTP API: the
// underlying persistence store and the http.Server that fronts it.
type CFGKitServer struct {
	db  dao.Store
	srv *http.Server
}

// New builds a CFGKitServer from cfg, connecting to the configured
// persistence layer and wiring the full set of API routes behind the auth
// and panic-recovery middleware.
func New(addr string, cfg Config) (CFGKitServer, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return CFGKitServer{}, err
	}

	store, err := cfg.DB.Connect()
	if err != nil {
		return CFGKitServer{}, err
	}

	apiV1 := api.API{
		Backend:     tunas.Service{DB: store},
		UnauthDelay: cfg.UnauthDelay(),
		Secret:      cfg.TokenSecret,
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middle.DontPanic())

	r.Route(api.PathPrefix, func(r chi.Router) {
		r.Get("/info", apiV1.HTTPGetInfo())

		r.Post("/login", apiV1.HTTPCreateLogin())

		r.Group(func(r chi.Router) {
			r.Use(middle.RequireAuth(store.Accounts(), cfg.TokenSecret, cfg.UnauthDelay(), dao.Account{}))

			r.Delete("/login/{id}", apiV1.HTTPDeleteLogin())
			r.Post("/tokens", apiV1.HTTPCreateToken())

			r.Get("/accounts", apiV1.HTTPGetAllAccounts())
			r.Post("/accounts", apiV1.HTTPCreateAccount())
			r.Get("/accounts/{id}", apiV1.HTTPGetAccount())
			r.Delete("/accounts/{id}", apiV1.HTTPDeleteAccount())

			r.Post("/grammars", apiV1.HTTPCreateGrammar())
			r.Get("/grammars", apiV1.HTTPListGrammars())
			r.Get("/grammars/{id}", apiV1.HTTPGetGrammar())
			r.Put("/grammars/{id}", apiV1.HTTPUpdateGrammar())
			r.Delete("/grammars/{id}", apiV1.HTTPDeleteGrammar())

			r.Get("/grammars/{id}/analyses", apiV1.HTTPListAnalysisRuns())
			r.Post("/grammars/{id}/analyses/null", apiV1.HTTPAnalyzeNull())
			r.Post("/grammars/{id}/analyses/first-follow", apiV1.HTTPAnalyzeFirstFollow())
			r.Post("/grammars/{id}/analyses/remove-left-recursion", apiV1.HTTPRemoveLeftRecursion())
			r.Post("/grammars/{id}/analyses/ll1-table", apiV1.HTTPBuildLL1Table())
			r.Post("/grammars/{id}/analyses/earley-parse", apiV1.HTTPRunEarleyParse())
		})
	})

	return CFGKitServer{
		db: store,
		srv: &http.Server{
			Addr:    addr,
			Handler: r,
		},
	}, nil
}

// Store returns the persistence store the server is using. This is the same
// store backing every request the server handles; it can be used to seed
// initial data (such as an admin account) before ServeForever is called.
func (s CFGKitServer) Store() dao.Store {
	return s.db
}

// ServeForever starts serving requests and blocks until the server is shut
// down or encounters a fatal error.
func (s CFGKitServer) ServeForever() error {
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server, waiting for in-flight requests to
// complete or ctx to be canceled, and closes the underlying persistence
// store.
func (s CFGKitServer) Shutdown(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return err
	}
	return s.db.Close()
}

// ShutdownTimeout is the default grace period to give in-flight requests
// when the server receives a shutdown signal.
const ShutdownTimeout = 10 * time.Second
