// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opnprint/printd

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opnprint/printd/internal/authz"
	"github.com/opnprint/printd/internal/location"
	"github.com/opnprint/printd/internal/middleware"
)

// RouterConfig collects everything NewRouter needs to assemble the
// demonstration HTTP layer: the authorization engine, its location
// table, the demonstration handlers, and the transport-level
// middleware tuning.
type RouterConfig struct {
	Orchestrator  *authz.Orchestrator
	Table         *location.Table
	Handler       *Handler
	Jobs          *JobStore
	ChiMiddleware *ChiMiddlewareConfig
	Performance   *middleware.PerformanceMonitor
	EnableSwagger bool
	EnableMetrics bool
}

// NewRouter builds the chi.Mux exercising the authorization engine end
// to end. Its own prefix matching (chi's route tree) is incidental:
// every protected route re-resolves its policy from cfg.Table via
// internal/middleware.Authorize rather than trusting chi's match.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	mw := NewChiMiddleware(cfg.ChiMiddleware)

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())
	r.Use(mw.RateLimit())
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
	r.Use(chiMiddleware(middleware.Compression))
	if cfg.Performance != nil {
		r.Use(cfg.Performance.Middleware)
	}

	r.Get("/health", cfg.Handler.Health)

	jobOwner := func(r *http.Request) string {
		return cfg.Jobs.Owner(chi.URLParam(r, "id"))
	}

	r.Get("/printers", middleware.Authorize(cfg.Orchestrator, cfg.Table, nil, cfg.Handler.ListPrinters))
	r.Post("/jobs", middleware.Authorize(cfg.Orchestrator, cfg.Table, nil, cfg.Handler.SubmitJob))
	r.Get("/jobs/{id}", middleware.Authorize(cfg.Orchestrator, cfg.Table, jobOwner, cfg.Handler.JobStatus))
	r.Post("/jobs/{id}/cancel", middleware.Authorize(cfg.Orchestrator, cfg.Table, jobOwner, cfg.Handler.CancelJob))
	r.Get("/admin/info", middleware.Authorize(cfg.Orchestrator, cfg.Table, nil, cfg.Handler.AdminInfo))
	r.Get("/admin/performance", middleware.Authorize(cfg.Orchestrator, cfg.Table, nil, cfg.Handler.AdminPerformance))

	if cfg.EnableMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	if cfg.EnableSwagger {
		r.Get("/swagger/doc.json", ServeOpenAPIDocument)
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
			httpSwagger.DeepLinking(true),
			httpSwagger.DocExpansion("list"),
			httpSwagger.DomID("swagger-ui"),
		))
	}

	return r
}
