// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache provides InterfaceCache, the production
// hostmask.InterfaceSource: a TTL-refreshed snapshot of local network
// interfaces, so every "@LOCAL"/"@IF(name)" mask evaluation doesn't pay
// for a fresh net.Interfaces() syscall.
//
// Usage:
//
//	ifaces := cache.NewInterfaceCache(30 * time.Second)
//	ifaces.Refresh() // populate before first use
//	orch := authz.New(cfg, ifaces, db, md5Store, verifier, observer)
package cache
