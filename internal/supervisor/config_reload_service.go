// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opnprint/printd

package supervisor

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"github.com/opnprint/printd/internal/config"
)

// ConfigReloadService polls for configuration changes and applies them,
// the printd.yaml analogue of sending cupsd a SIGHUP.
type ConfigReloadService struct {
	interval time.Duration
	logger   *slog.Logger
	current  *config.Config
	onReload func(*config.Config)
}

// NewConfigReloadService returns a service that reloads configuration
// on the given interval and invokes onReload whenever the reloaded
// config differs from the last applied one. initial is the config
// already in effect at startup, used as the first comparison baseline.
func NewConfigReloadService(initial *config.Config, interval time.Duration, logger *slog.Logger, onReload func(*config.Config)) *ConfigReloadService {
	return &ConfigReloadService{
		interval: interval,
		logger:   logger,
		current:  initial,
		onReload: onReload,
	}
}

// Serve implements suture.Service.
func (s *ConfigReloadService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.reload()
		}
	}
}

func (s *ConfigReloadService) reload() {
	next, err := config.Load()
	if err != nil {
		s.logger.Warn("config reload failed", "error", err)
		return
	}
	if configEqual(s.current, next) {
		return
	}
	s.logger.Info("configuration changed, applying reload")
	s.current = next
	if s.onReload != nil {
		s.onReload(next)
	}
}

// configEqual reports whether two loaded configs are equivalent. Config
// holds slices, so plain equality doesn't apply; reflect.DeepEqual is
// fine here since reloads happen on the order of minutes, not per
// request.
func configEqual(a, b *config.Config) bool {
	if a == nil || b == nil {
		return a == b
	}
	return reflect.DeepEqual(*a, *b)
}

// String implements fmt.Stringer for supervisor logging.
func (s *ConfigReloadService) String() string {
	return "config-reload"
}
