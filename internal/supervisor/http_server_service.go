// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opnprint/printd

package supervisor

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// HTTPServerService wraps an *http.Server as a suture.Service: it
// serves until the context is canceled, then shuts down gracefully
// within shutdownTimeout.
type HTTPServerService struct {
	server          *http.Server
	shutdownTimeout time.Duration
}

// NewHTTPServerService returns a service wrapping server.
func NewHTTPServerService(server *http.Server, shutdownTimeout time.Duration) *HTTPServerService {
	return &HTTPServerService{server: server, shutdownTimeout: shutdownTimeout}
}

// Serve implements suture.Service.
func (s *HTTPServerService) Serve(ctx context.Context) error {
	return s.serveOn(ctx, nil)
}

// serveOn runs the server against listener, or binds server.Addr via
// ListenAndServe when listener is nil. Split out so tests can supply a
// listener bound to an ephemeral port instead of a fixed address.
func (s *HTTPServerService) serveOn(ctx context.Context, listener net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		if listener != nil {
			errCh <- s.server.Serve(listener)
			return
		}
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// String implements fmt.Stringer for supervisor logging.
func (s *HTTPServerService) String() string {
	return "http-server:" + s.server.Addr
}
