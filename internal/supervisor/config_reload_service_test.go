// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opnprint/printd

package supervisor

import (
	"context"
	"testing"
	"time"

	"github.com/opnprint/printd/internal/config"
)

func TestConfigEqualDetectsNoChange(t *testing.T) {
	a, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !configEqual(a, b) {
		t.Error("two loads of identical environment should compare equal")
	}
}

func TestConfigEqualDetectsChange(t *testing.T) {
	a, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b.ServerName = a.ServerName + "-changed"

	if configEqual(a, b) {
		t.Error("expected changed ServerName to compare unequal")
	}
}

func TestConfigEqualHandlesNil(t *testing.T) {
	if !configEqual(nil, nil) {
		t.Error("nil, nil should compare equal")
	}
	cfg := &config.Config{}
	if configEqual(nil, cfg) || configEqual(cfg, nil) {
		t.Error("nil vs non-nil should compare unequal")
	}
}

func TestConfigReloadServiceInvokesCallbackOnChange(t *testing.T) {
	initial, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// Force the baseline away from what Load() will return so the
	// first tick is guaranteed to observe a change.
	stale := *initial
	stale.ServerName = initial.ServerName + "-stale"

	reloaded := make(chan *config.Config, 1)
	svc := NewConfigReloadService(&stale, 10*time.Millisecond, testLogger(), func(c *config.Config) {
		select {
		case reloaded <- c:
		default:
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	_ = svc.Serve(ctx)

	select {
	case got := <-reloaded:
		if got.ServerName != initial.ServerName {
			t.Errorf("reloaded config ServerName = %q, want %q", got.ServerName, initial.ServerName)
		}
	default:
		t.Error("expected onReload to be invoked")
	}
}

func TestConfigReloadServiceString(t *testing.T) {
	svc := NewConfigReloadService(&config.Config{}, time.Minute, testLogger(), nil)
	if svc.String() != "config-reload" {
		t.Errorf("unexpected String(): %q", svc.String())
	}
}
