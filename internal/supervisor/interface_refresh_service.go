// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opnprint/printd

package supervisor

import (
	"context"
	"time"
)

// interfaceRefresher is satisfied by cache.InterfaceCache. Declared
// locally so this package doesn't import internal/cache.
type interfaceRefresher interface {
	Refresh()
}

// InterfaceRefreshService periodically re-enumerates local network
// interfaces, keeping a cache.InterfaceCache warm for "@LOCAL"/"@IF"
// mask evaluation without paying for a syscall on every request.
type InterfaceRefreshService struct {
	cache    interfaceRefresher
	interval time.Duration
}

// NewInterfaceRefreshService returns a service that calls cache.Refresh
// on the given interval, suture.Service-style.
func NewInterfaceRefreshService(cache interfaceRefresher, interval time.Duration) *InterfaceRefreshService {
	return &InterfaceRefreshService{cache: cache, interval: interval}
}

// Serve implements suture.Service.
func (s *InterfaceRefreshService) Serve(ctx context.Context) error {
	s.cache.Refresh()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.cache.Refresh()
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (s *InterfaceRefreshService) String() string {
	return "interface-refresh"
}
