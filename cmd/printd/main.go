// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opnprint/printd

// @title printd authorization core
// @version 1.0
// @description Demonstration HTTP surface for the is_authorized engine: printer listing, job submission/status/cancel, and an admin endpoint, each gated by internal/location policy through internal/middleware.Authorize.
// @contact.name GitHub Repository
// @contact.url https://github.com/opnprint/printd/issues
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
// @host localhost:631
// @BasePath /
// @schemes http https
// @tag.name Core
// @tag.description Liveness
// @tag.name Printers
// @tag.description Printer listing
// @tag.name Jobs
// @tag.description Job submission, status, and cancellation
// @tag.name Admin
// @tag.description System-group-gated administrative endpoints
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opnprint/printd/internal/api"
	"github.com/opnprint/printd/internal/audit"
	"github.com/opnprint/printd/internal/authz"
	"github.com/opnprint/printd/internal/cache"
	"github.com/opnprint/printd/internal/config"
	"github.com/opnprint/printd/internal/credential"
	"github.com/opnprint/printd/internal/identity"
	"github.com/opnprint/printd/internal/logging"
	"github.com/opnprint/printd/internal/middleware"
	"github.com/opnprint/printd/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("printd: failed to load configuration")
	}

	logging.Init(cfg.Logging.ToLoggingConfig())

	table, err := cfg.BuildLocationTable()
	if err != nil {
		logging.Fatal().Err(err).Msg("printd: failed to build location table")
	}

	defaultAuthType, err := config.ParseCredentialType(cfg.DefaultAuthType)
	if err != nil {
		logging.Fatal().Err(err).Msg("printd: invalid default_auth_type")
	}

	db := identity.DefaultOSDatabase()
	md5Store := identity.NewMD5File(cfg.PasswordMD5Path)

	basic, err := buildBasicAuthenticator(cfg, db)
	if err != nil {
		logging.Fatal().Err(err).Msg("printd: failed to build authenticator")
	}
	verifier := credential.NewVerifier(basic, md5Store, nil)

	ifaceCache := cache.NewInterfaceCache(5 * time.Minute)

	var auditStore audit.Store
	var badgerStore *audit.BadgerStore
	if cfg.Audit.Enabled {
		badgerStore, err = audit.NewBadgerStore(cfg.Audit.DBPath)
		if err != nil {
			logging.Fatal().Err(err).Msg("printd: failed to open audit store")
		}
		auditStore = badgerStore
	} else {
		auditStore = audit.NewMemoryStore(10000)
	}
	auditLogger := audit.NewLogger(auditStore, audit.DefaultConfig())
	observer := audit.NewAuthzObserver(auditLogger)

	orchCfg := authz.Config{
		ServerName:      cfg.ServerName,
		DefaultAuthType: defaultAuthType,
		SystemGroups:    cfg.SystemGroups,
		RootUsername:    cfg.RootUsername,
	}
	orch := authz.New(orchCfg, ifaceCache, db, md5Store, verifier, observer)

	jobs := api.NewJobStore()
	perfMonitor := middleware.NewPerformanceMonitor(1000)
	handler := api.NewHandler(jobs, []string{"laser1", "laser2"}, cfg.ServerName, perfMonitor)

	router := api.NewRouter(api.RouterConfig{
		Orchestrator: orch,
		Table:        table,
		Handler:      handler,
		Jobs:         jobs,
		ChiMiddleware: &api.ChiMiddlewareConfig{
			CORSAllowedOrigins: cfg.HTTP.CORSOrigins,
			RateLimitRequests:  cfg.HTTP.RateLimitPerMin,
			RateLimitWindow:    time.Minute,
		},
		Performance:   perfMonitor,
		EnableSwagger: cfg.HTTP.EnableSwagger,
		EnableMetrics: cfg.Metrics.Enabled,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Listen,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slogger := logging.NewSlogLogger()
	tree, err := supervisor.NewSupervisorTree(slogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("printd: failed to build supervisor tree")
	}

	tree.AddAPIService(supervisor.NewHTTPServerService(httpServer, 10*time.Second))
	tree.AddMessagingService(supervisor.NewInterfaceRefreshService(ifaceCache, 5*time.Minute))

	if cfg.Audit.Enabled {
		tree.AddDataService(supervisor.NewAuditRetentionService(auditStore, 30*24*time.Hour, time.Hour, slogger))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("listen", cfg.HTTP.Listen).Msg("printd: starting")

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()

	logging.Info().Msg("printd: shutting down")
	if err := <-errCh; err != nil && ctx.Err() == nil {
		logging.Error().Err(err).Msg("printd: supervisor tree exited with error")
	}

	if err := auditLogger.Close(); err != nil {
		logging.Warn().Err(err).Msg("printd: failed to close audit logger")
	}

	if badgerStore != nil {
		if err := badgerStore.Close(); err != nil {
			logging.Warn().Err(err).Msg("printd: failed to close audit store")
		}
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("printd: service failed to stop within shutdown timeout")
		}
	}

	os.Exit(0)
}

// buildBasicAuthenticator selects the pluggable-auth-host or local
// crypt/shadow backend per cfg.PluggableAuth.Kind via
// credential.NewAuthenticator, optionally wrapped in a failed-attempt
// throttle. The pluggable host itself talks to an external PAM-like
// dialogue and is not constructed here, so "host" only succeeds when
// a PluggableHost is injected by an embedder of this package.
func buildBasicAuthenticator(cfg *config.Config, db identity.Database) (credential.Authenticator, error) {
	breakerCfg := cfg.Breaker.ToHostAuthenticatorConfig("pluggable-auth-host")
	inner, err := credential.NewAuthenticator(cfg.PluggableAuth.Kind, nil, breakerCfg, db, nil)
	if err != nil {
		return nil, err
	}

	if !cfg.Throttle.Enabled {
		return inner, nil
	}
	return newThrottledAuthenticator(inner, cfg.Throttle.ToCredentialThrottleConfig()), nil
}

// throttledAuthenticator gates inner behind credential.Throttle: a
// subject exceeding its rate is denied without ever reaching inner.
// credential.Throttle deliberately doesn't self-gate, so that
// enforcement lives here instead of inside the credential package.
type throttledAuthenticator struct {
	inner    credential.Authenticator
	throttle *credential.Throttle
}

func newThrottledAuthenticator(inner credential.Authenticator, cfg credential.ThrottleConfig) *throttledAuthenticator {
	return &throttledAuthenticator{inner: inner, throttle: credential.NewThrottle(inner, cfg)}
}

func (a *throttledAuthenticator) Authenticate(ctx context.Context, username, password string) (credential.Outcome, error) {
	if !a.throttle.Allow("user:" + username) {
		return credential.OutcomeDenied, nil
	}
	return a.inner.Authenticate(ctx, username, password)
}
