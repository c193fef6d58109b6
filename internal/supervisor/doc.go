// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opnprint/printd

/*
Package supervisor provides process supervision for printd's background
services using suture v4. It implements a hierarchical supervisor tree
with automatic restart, failure isolation, and graceful shutdown,
Erlang/OTP-style.

# Overview

The supervisor tree organizes services into three layers for failure
isolation:

	RootSupervisor ("printd")
	├── DataSupervisor ("data-layer")
	│   └── AuditRetentionService (periodic badger store pruning)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── InterfaceRefreshService (local interface snapshot refresh)
	│   └── ConfigReloadService (config file change detection)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

This hierarchy ensures that a stalled config reload doesn't affect
in-flight HTTP requests, and an interface enumeration failure doesn't
take down the audit retention sweep.

# Key Features

Automatic Restart:
  - Crashed services are automatically restarted
  - Exponential backoff prevents restart storms
  - Configurable failure thresholds and decay rates

Failure Isolation:
  - Services are organized into logical groups
  - Child supervisor failures don't propagate upward
  - Each layer has independent failure counting

Graceful Shutdown:
  - Context cancellation triggers orderly shutdown
  - Configurable shutdown timeout per service
  - UnstoppedServiceReport for debugging hangs

Structured Logging:
  - Integration with slog for structured events
  - Logs service starts, stops, failures, and restarts
  - Event hooks via sutureslog adapter

# Usage Example

	import (
	    "log/slog"
	    "github.com/opnprint/printd/internal/supervisor"
	)

	func main() {
	    logger := slog.Default()
	    config := supervisor.DefaultTreeConfig()

	    tree, err := supervisor.NewSupervisorTree(logger, config)
	    if err != nil {
	        log.Fatal(err)
	    }

	    tree.AddMessagingService(supervisor.NewInterfaceRefreshService(ifaceCache, 30*time.Second))
	    tree.AddMessagingService(supervisor.NewConfigReloadService(cfg, 10*time.Second, logger, onReload))
	    tree.AddDataService(supervisor.NewAuditRetentionService(store, retention, time.Hour, logger))

	    ctx := context.Background()
	    if err := tree.Serve(ctx); err != nil {
	        log.Printf("Supervisor stopped: %v", err)
	    }
	}

# Configuration

The TreeConfig controls restart behavior:

	config := supervisor.TreeConfig{
	    FailureThreshold: 5.0,
	    FailureDecay:     30.0,
	    FailureBackoff:   15 * time.Second,
	    ShutdownTimeout:  10 * time.Second,
	}

Default values match suture's production-ready defaults.

# Service Interface

All services must implement suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Return behavior:
  - Return nil: Service stopped cleanly, will not be restarted
  - Return error: Service crashed, will be restarted
  - Context canceled: Shutdown requested, return promptly

# Debugging Shutdown Issues

If services don't stop within the timeout:

	report, err := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    log.Printf("Service didn't stop: %v", svc)
	}

# See Also

  - github.com/thejerf/suture/v4: Underlying library
  - internal/cache: InterfaceCache refreshed by InterfaceRefreshService
  - internal/audit: Store pruned by AuditRetentionService
*/
package supervisor
