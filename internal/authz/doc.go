// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package authz implements the top-level is_authorized(client, owner)
// orchestrator: given a resolved Location and a Client, it produces a
// Decision by combining host matching, credential verification, and
// user/group principal checks.
//
// # Flow
//
//	Request -> location.Table.FindBest -> authz.Orchestrator.IsAuthorized -> Decision
//	                                            |
//	                               credential.Verifier (Basic/Digest/BasicDigest)
//
// Unlike a role-based access control model, the orchestrator evaluates
// an ordered list of Allow/Deny host masks (see hostVerdict) where later
// rules in the configured Order overwrite earlier ones, then layers
// credential verification and principal checks on top. This mirrors the
// semantics of a location-based access policy rather than a role graph,
// so there is no role hierarchy, policy CSV, or permission cache here.
//
// # Usage
//
//	orch := authz.New(cfg, ifaces, db, md5Store, verifier, observer)
//	decision := orch.IsAuthorized(ctx, loc, client, owner)
//	w.WriteHeader(decision.StatusCode())
//
// # See Also
//
//   - internal/credential: pluggable Basic/Digest/BasicDigest verification
//   - internal/location: Location/Table/Authmask definitions
//   - internal/audit: persists DecisionResult via the Observer interface
package authz
