/*
Cfgserver starts a cfgkit server and begins listening for new connections.

Usage:

	cfgserver [flags]
	cfgserver [flags] -l [[ADDRESS]:PORT]

Once started, the server listens for HTTP requests and responds to them
using a JSON REST API under /api/v1. By default, it listens on
localhost:8080; this can be changed with the --listen/-l flag (or the
CFGKIT_LISTEN_ADDRESS environment variable).

If a JWT token secret is not given, one is automatically generated at
startup. As a consequence, in this mode of operation all tokens are
rendered invalid as soon as the server shuts down. This is suitable for
testing, but a secret must be given via either CLI flag or environment
variable if running in production.

The flags are:

	-v, --version
		Give the current version of the server and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, defaults to the value of environment variable
		CFGKIT_LISTEN_ADDRESS, and if that is not given, defaults to
		localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are fewer
		than 32 bytes in the secret, it is repeated until it is; the maximum
		size is 64 bytes. If not given, defaults to the value of environment
		variable CFGKIT_TOKEN_SECRET. If no secret is specified, a random
		secret is generated.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of: inmem,
		sqlite. sqlite needs the path to a data directory, e.g.
		sqlite:path/to/db_dir. If not given, defaults to the value of
		environment variable CFGKIT_DATABASE, and if that is not given,
		defaults to an in-memory database.

	-c, --config FILE
		Load a TOML configuration file setting token_secret, db, and/or
		unauth_delay_millis. Values from flags or environment variables take
		precedence over the file; the file takes precedence over built-in
		defaults.
*/
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dekarrin/cfgkit/internal/version"
	"github.com/dekarrin/cfgkit/server"
	"github.com/dekarrin/cfgkit/server/dao"
	"github.com/dekarrin/cfgkit/server/serr"
	"github.com/dekarrin/cfgkit/server/tunas"
	"github.com/spf13/pflag"
)

const (
	EnvListen = "CFGKIT_LISTEN_ADDRESS"
	EnvSecret = "CFGKIT_TOKEN_SECRET"
	EnvDB     = "CFGKIT_DATABASE"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of the server and then exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB      = pflag.String("db", "", "Use the given DB connection string.")
	flagConfig  = pflag.StringP("config", "c", "", "Load a TOML configuration file. Flags and environment variables override values it sets.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("cfgkit server v%s (API v%s)\n", version.Current, version.APICurrent)
		return
	}

	if args := pflag.Args(); len(args) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	// file config is the base layer; env vars and flags override it below.
	var fileCfg server.Config
	if *flagConfig != "" {
		var err error
		fileCfg, err = server.LoadConfigFile(*flagConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			os.Exit(1)
		}
	}

	listenAddr := os.Getenv(EnvListen)
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr == "" {
		listenAddr = "localhost:8080"
	}

	dbConnStr := os.Getenv(EnvDB)
	if pflag.Lookup("db").Changed {
		dbConnStr = *flagDB
	}

	dbCfg := fileCfg.DB
	if dbConnStr != "" {
		var err error
		dbCfg, err = server.ParseDBConnString(dbConnStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err)
			os.Exit(1)
		}
	}
	if dbCfg.Type == server.DatabaseNone {
		dbCfg = server.Database{Type: server.DatabaseInMemory}
	}

	tokSecStr := os.Getenv(EnvSecret)
	if pflag.Lookup("secret").Changed {
		tokSecStr = *flagSecret
	}
	if tokSecStr == "" && len(fileCfg.TokenSecret) > 0 {
		tokSecStr = string(fileCfg.TokenSecret)
	}

	var tokSecret []byte
	if tokSecStr != "" {
		tokSecret = []byte(tokSecStr)
		for len(tokSecret) < server.MinSecretSize {
			doubled := make([]byte, len(tokSecret)*2)
			copy(doubled, tokSecret)
			copy(doubled[len(tokSecret):], tokSecret)
			tokSecret = doubled
		}
		if len(tokSecret) > server.MaxSecretSize {
			tokSecret = tokSecret[:server.MaxSecretSize]
		}
	} else {
		tokSecret = make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(tokSecret); err != nil {
			fmt.Fprintf(os.Stderr, "Could not generate token secret: %s\n", err)
			os.Exit(1)
		}
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
	}

	cfg := server.Config{
		TokenSecret: tokSecret,
		DB:          dbCfg,
	}

	srv, err := server.New(listenAddr, cfg)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err)
	}
	log.Printf("DEBUG Server initialized")

	// immediately create the admin account so we have someone we can log in
	// as, against the same store the running server is using.
	svc := tunas.Service{DB: srv.Store()}
	_, err = svc.CreateAccount(context.Background(), "admin", "password", dao.Admin)
	if err != nil && !errors.Is(err, serr.ErrAlreadyExists) {
		log.Printf("ERROR could not create initial admin account: %v", err)
		os.Exit(2)
	}
	if !errors.Is(err, serr.ErrAlreadyExists) {
		log.Printf("INFO  Added initial admin account with password 'password'...")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Printf("INFO  Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("ERROR error during shutdown: %v", err)
		}
	}()

	log.Printf("INFO  Starting cfgkit server %s on %s...", version.Current, listenAddr)
	if err := srv.ServeForever(); err != nil {
		log.Fatalf("FATAL %s", err)
	}
}
