// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opnprint/printd

package api

import (
	"encoding/base64"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/opnprint/printd/internal/middleware"
)

// Job is a demonstration print job, just enough state to exercise
// "@OWNER" principal matching on the status/cancel endpoints.
type Job struct {
	ID      string    `json:"id"`
	Owner   string    `json:"owner"`
	Printer string    `json:"printer"`
	Status  string    `json:"status"`
	Created time.Time `json:"created"`
}

// JobStore is an in-memory job table backing the demonstration
// endpoints. It has no bearing on the authorization engine's own
// semantics; it exists only to give the "@OWNER" principal something
// concrete to match against.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewJobStore returns an empty job store.
func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]*Job)}
}

// Submit creates a job owned by owner and returns it.
func (s *JobStore) Submit(owner, printer string) *Job {
	job := &Job{ID: uuid.New().String(), Owner: owner, Printer: printer, Status: "pending", Created: time.Now()}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()
	return job
}

// Get retrieves a job by ID.
func (s *JobStore) Get(id string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	return job, ok
}

// Owner returns the owning username for id, or "" if id is unknown.
// Satisfies middleware.OwnerResolver when closed over the job ID path
// parameter.
func (s *JobStore) Owner(id string) string {
	job, ok := s.Get(id)
	if !ok {
		return ""
	}
	return job.Owner
}

// Cancel marks a job canceled.
func (s *JobStore) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return false
	}
	job.Status = "canceled"
	return true
}

// Handler holds the demonstration endpoints' dependencies.
type Handler struct {
	jobs     *JobStore
	printers []string
	server   string
	perf     *middleware.PerformanceMonitor
}

// NewHandler builds a Handler. printers is the static demonstration
// printer list; server is the value reported by Health. perf is the
// monitor AdminPerformance reports from; pass nil to disable the endpoint.
func NewHandler(jobs *JobStore, printers []string, server string, perf *middleware.PerformanceMonitor) *Handler {
	return &Handler{jobs: jobs, printers: printers, server: server, perf: perf}
}

// requestingUsername resolves the IPP "requesting-user-name" for job
// ownership purposes: the X-IPP-Requesting-User-Name header if present,
// otherwise the Basic-auth username. This is ownership bookkeeping, not
// a second credential check — internal/middleware.Authorize has already
// gated the request before a handler runs.
func requestingUsername(r *http.Request) string {
	if name := r.Header.Get("X-IPP-Requesting-User-Name"); name != "" {
		return name
	}
	raw := r.Header.Get("Authorization")
	if !strings.HasPrefix(raw, "Basic ") {
		return ""
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(raw, "Basic "))
	if err != nil {
		return ""
	}
	parts := strings.SplitN(string(decoded), ":", 2)
	return parts[0]
}

// Health reports liveness.
//
// @Summary Report daemon liveness
// @Description Returns a static liveness payload for monitoring probes.
// @Tags Core
// @Produce json
// @Success 200 {object} api.APIResponse
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "ok", "server": h.server})
}

// ListPrinters lists the configured printers.
//
// @Summary List printers
// @Description Returns the demonstration printer list. Gated by the /printers location policy.
// @Tags Printers
// @Produce json
// @Success 200 {object} api.APIResponse
// @Router /printers [get]
func (h *Handler) ListPrinters(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.printers)
}

// SubmitJob creates a job owned by the requesting user.
//
// @Summary Submit a print job
// @Description Creates a job owned by the requesting user. Gated by the /jobs location policy.
// @Tags Jobs
// @Produce json
// @Success 201 {object} api.APIResponse
// @Router /jobs [post]
func (h *Handler) SubmitJob(w http.ResponseWriter, r *http.Request) {
	owner := requestingUsername(r)
	printer := r.URL.Query().Get("printer")
	if printer == "" && len(h.printers) > 0 {
		printer = h.printers[0]
	}
	job := h.jobs.Submit(owner, printer)
	NewResponseWriter(w, r).Created(job)
}

// JobStatus reports one job's state.
//
// @Summary Get job status
// @Description Returns job state. Gated by the /jobs location policy with "@OWNER" principal matching.
// @Tags Jobs
// @Produce json
// @Success 200 {object} api.APIResponse
// @Failure 404 {object} api.APIResponse
// @Router /jobs/{id} [get]
func (h *Handler) JobStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, ok := h.jobs.Get(id)
	if !ok {
		NewResponseWriter(w, r).NotFound("job not found")
		return
	}
	NewResponseWriter(w, r).Success(job)
}

// CancelJob cancels one job.
//
// @Summary Cancel a print job
// @Description Cancels a job. Gated by the /jobs location policy with "@OWNER" principal matching.
// @Tags Jobs
// @Produce json
// @Success 200 {object} api.APIResponse
// @Failure 404 {object} api.APIResponse
// @Router /jobs/{id}/cancel [post]
func (h *Handler) CancelJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.jobs.Cancel(id) {
		NewResponseWriter(w, r).NotFound("job not found")
		return
	}
	job, _ := h.jobs.Get(id)
	NewResponseWriter(w, r).Success(job)
}

// AdminInfo reports static server identity, reachable only under the
// "@SYSTEM"-gated /admin location.
//
// @Summary Report admin-only server info
// @Description Returns server identity. Gated by the /admin location policy, typically restricted to "@SYSTEM".
// @Tags Admin
// @Produce json
// @Success 200 {object} api.APIResponse
// @Router /admin/info [get]
func (h *Handler) AdminInfo(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"server":        h.server,
		"printer_count": len(h.printers),
		"job_count":     func() int { h.jobs.mu.RLock(); defer h.jobs.mu.RUnlock(); return len(h.jobs.jobs) }(),
	})
}

// AdminPerformance reports per-endpoint request latency, reachable
// only under the "@SYSTEM"-gated /admin location.
//
// @Summary Report endpoint latency statistics
// @Description Returns request count and latency percentiles per endpoint. Gated by the /admin location policy.
// @Tags Admin
// @Produce json
// @Success 200 {object} api.APIResponse
// @Router /admin/performance [get]
func (h *Handler) AdminPerformance(w http.ResponseWriter, r *http.Request) {
	if h.perf == nil {
		NewResponseWriter(w, r).Success([]middleware.EndpointStats{})
		return
	}
	NewResponseWriter(w, r).Success(h.perf.GetStats())
}
