// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package identity resolves usernames and groups against the platform
// user database and the passwd.md5 fallback store, including the
// synthetic "@SYSTEM"/"@OWNER" group expansions the orchestrator
// relies on.
package identity

import (
	"strings"

	"github.com/opnprint/printd/internal/logging"
)

// PasswdEntry is the subset of a platform passwd/shadow record the
// engine needs.
type PasswdEntry struct {
	Username     string
	GID          int
	PasswordHash string // from passwd; "x" or empty means "see shadow"
	ShadowHash   string // from shadow, when present
	HasShadow    bool
}

// BlankPassword reports whether this entry must never authenticate:
// blank stored passwords must never be treated as a match.
func (e *PasswdEntry) BlankPassword() bool {
	if e.HasShadow {
		return e.ShadowHash == ""
	}
	return e.PasswordHash == ""
}

// EffectiveHash returns the hash to compare against: the shadow hash
// when present, otherwise the passwd hash.
func (e *PasswdEntry) EffectiveHash() string {
	if e.HasShadow {
		return e.ShadowHash
	}
	return e.PasswordHash
}

// GroupEntry is the subset of a platform group record the engine needs.
type GroupEntry struct {
	Name    string
	GID     int
	Members []string
}

// Database is the platform user-database collaborator. Implementations
// must pair every lookup with the matching "end" call internally since
// Go has no notion of getpwent/endpwent state to leak across
// goroutines.
type Database interface {
	LookupUser(username string) (*PasswdEntry, bool)
	LookupGroup(name string) (*GroupEntry, bool)
}

// MD5Store resolves user/group entries from the passwd.md5 fallback
// file (internal/identity.MD5File implements this against a real path;
// tests can substitute a map-backed fake).
type MD5Store interface {
	// Lookup returns the 32-hex-character MD5 HA1 for username, scoped
	// to group when group is non-empty, and whether an entry was
	// found.
	Lookup(username, group string) (string, bool)
}

// IsMember reports whether username appears (case-insensitively) in
// group's member list.
func (g *GroupEntry) IsMember(username string) bool {
	for _, m := range g.Members {
		if strings.EqualFold(m, username) {
			return true
		}
	}
	return false
}

// CheckGroup reports whether username belongs to groupName: true when
// the system group exists and the user is a member (by name or primary
// GID), or, failing that, when the MD5 password file has a
// "user:group:*" entry — letting the MD5 store define groups the
// system database doesn't know about.
func CheckGroup(db Database, md5 MD5Store, username string, user *PasswdEntry, groupName string) bool {
	if username == "" || groupName == "" {
		return false
	}

	group, found := db.LookupGroup(groupName)
	if found {
		if group.IsMember(username) {
			return true
		}
		if user != nil && group.GID == user.GID {
			return true
		}
	}

	if md5 != nil {
		if _, ok := md5.Lookup(username, groupName); ok {
			return true
		}
	}

	return false
}

// ExpandSystemGroups returns true if username belongs to any of the
// configured system groups, per the "@SYSTEM" principal expansion.
func ExpandSystemGroups(db Database, md5 MD5Store, username string, user *PasswdEntry, systemGroups []string) bool {
	for _, g := range systemGroups {
		if CheckGroup(db, md5, username, user, g) {
			return true
		}
	}
	return false
}

// LogLookupFailure records a non-fatal lookup miss at debug level; the
// engine treats "user not found" as a credential failure, not a system
// error.
func LogLookupFailure(username string) {
	logging.Debug().Str("username", username).Msg("identity: no passwd entry")
}
