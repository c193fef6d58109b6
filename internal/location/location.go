// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package location implements the location table: the ordered collection
// of path-prefix authorization policies that the orchestrator in
// internal/authz consults for every request. It owns the Location and
// Authmask data model and the longest-prefix-with-method-mask matching
// algorithm used to pick the "best" policy for a request.
package location

import (
	"strings"
	"sync"
)

// Limit is a bitmask of the HTTP methods (plus a synthetic IPP bit) a
// Location's policy applies to.
type Limit uint32

const (
	LimitGet Limit = 1 << iota
	LimitPost
	LimitPut
	LimitDelete
	LimitHead
	LimitOptions
	LimitTrace
	LimitIPP

	LimitAll = LimitGet | LimitPost | LimitPut | LimitDelete | LimitHead | LimitOptions | LimitTrace | LimitIPP
)

// Order controls both the evaluation order of allow/deny masks and the
// default verdict when no mask matches.
type Order int

const (
	// OrderDenyAllow starts from Deny and lets a later Allow match win
	// ("Order Deny,Allow" in the historical configuration grammar).
	OrderDenyAllow Order = iota
	// OrderAllowDeny starts from Allow and lets a later Deny match win
	// ("Order Allow,Deny").
	OrderAllowDeny
)

// Level is the access level a Location requires.
type Level int

const (
	LevelAnonymous Level = iota
	LevelUser
	LevelGroup
)

// CredentialType selects how credentials are verified.
type CredentialType int

const (
	TypeNone CredentialType = iota
	TypeBasic
	TypeDigest
	TypeBasicDigest
)

// Satisfy controls whether host-level allow alone is sufficient.
type Satisfy int

const (
	// SatisfyAll requires both the host check and the credential check
	// to succeed.
	SatisfyAll Satisfy = iota
	// SatisfyAny allows either the host check or the credential check
	// to succeed on its own.
	SatisfyAny
)

// Encryption is the minimum transport security a Location requires.
type Encryption int

const (
	EncryptionIfRequested Encryption = iota
	EncryptionRequired
	EncryptionNever
)

// MaskKind tags the variant carried by an Authmask.
type MaskKind int

const (
	MaskIP MaskKind = iota
	MaskName
	MaskInterface
)

// Authmask is a single allow/deny predicate: an IP network, a
// hostname/domain suffix, or a local-interface reference. Exactly one of
// the fields below is meaningful, selected by Kind.
type Authmask struct {
	Kind MaskKind

	// IP network, valid when Kind == MaskIP. IPv4 addresses are carried
	// in word 3 with words 0-2 zero, matching the client address form
	// internal/hostmask consumes.
	Address [4]uint32
	Netmask [4]uint32

	// Name is the hostname/domain string (MaskName, leading '.' means
	// "suffix match") or the interface identifier (MaskInterface, "*"
	// means "any local interface"). Length mirrors the source's cached
	// string length used for suffix comparison.
	Name   string
	Length int
}

// NewIPMask builds an IP/netmask authmask.
func NewIPMask(address, netmask [4]uint32) Authmask {
	return Authmask{Kind: MaskIP, Address: address, Netmask: netmask}
}

// NewNameMask builds a hostname/domain authmask.
func NewNameMask(name string) Authmask {
	return Authmask{Kind: MaskName, Name: name, Length: len(name)}
}

// NewInterfaceMask builds a local-interface authmask. name is "*" for
// "any local interface" or a specific interface identifier.
func NewInterfaceMask(name string) Authmask {
	return Authmask{Kind: MaskInterface, Name: name, Length: len(name)}
}

// Location is a single path-prefix authorization policy, matching the
// fields of the original cupsd_location_t record field for field.
type Location struct {
	Path   string
	length int

	Limit Limit
	// Op is the IPP operation identifier used for logging when Limit
	// includes LimitIPP. Zero when not applicable.
	Op int

	Order      Order
	Level      Level
	Type       CredentialType
	Satisfy    Satisfy
	Encryption Encryption

	// Names is the ordered list of principals/groups: "@SYSTEM",
	// "@OWNER", "@name" (group), or a bare username.
	Names []string

	Allow []Authmask
	Deny  []Authmask
}

// AddName appends name to the Location's principal list, refusing a
// duplicate rather than silently growing an unbounded list (mirrors
// cupsdAddName's allocate-then-append, made idempotent).
func (l *Location) AddName(name string) {
	for _, existing := range l.Names {
		if existing == name {
			return
		}
	}
	l.Names = append(l.Names, name)
}

// AddAllow appends an allow mask to the Location.
func (l *Location) AddAllow(mask Authmask) {
	l.Allow = append(l.Allow, mask)
}

// AddDeny appends a deny mask to the Location.
func (l *Location) AddDeny(mask Authmask) {
	l.Deny = append(l.Deny, mask)
}

// Copy returns a deep copy of l: every owned slice (Names, Allow, Deny)
// and the strings they contain are duplicated so that mutating the copy
// never touches the original.
func (l *Location) Copy() *Location {
	cp := &Location{
		Path:       l.Path,
		length:     l.length,
		Limit:      l.Limit,
		Op:         l.Op,
		Order:      l.Order,
		Level:      l.Level,
		Type:       l.Type,
		Satisfy:    l.Satisfy,
		Encryption: l.Encryption,
	}
	if len(l.Names) > 0 {
		cp.Names = append([]string(nil), l.Names...)
	}
	if len(l.Allow) > 0 {
		cp.Allow = append([]Authmask(nil), l.Allow...)
	}
	if len(l.Deny) > 0 {
		cp.Deny = append([]Authmask(nil), l.Deny...)
	}
	return cp
}

// usesCaseInsensitivePrefix reports whether uri falls under a queue
// namespace ("/printers/" or "/classes/"), where prefix and path
// comparisons are case-insensitive.
func usesCaseInsensitivePrefix(uri string) bool {
	return strings.HasPrefix(uri, "/printers/") || strings.HasPrefix(uri, "/classes/")
}

// hasPrefix reports whether loc.Path is a prefix of uri, honoring the
// case-sensitivity rule for printer/class resource paths.
func (l *Location) hasPrefix(uri string, caseInsensitive bool) bool {
	if l.length > len(uri) {
		return false
	}
	prefix := uri[:l.length]
	if caseInsensitive {
		return strings.EqualFold(prefix, l.Path)
	}
	return prefix == l.Path
}

// Table is the ordered, owning collection of Locations. Callers hold
// Refs (opaque indices), never pointers, across mutation: a Ref remains
// valid for the lifetime of the Table it was issued from, but Locations
// added after configuration reload live in a new Table.
type Table struct {
	mu        sync.RWMutex
	locations []Location
}

// Ref identifies a Location within a Table.
type Ref int

// NewTable returns an empty location table.
func NewTable() *Table {
	return &Table{}
}

// Add appends a new, zero-initialized (but for Path) Location and
// returns its Ref. Duplicate paths are permitted; FindBest selects
// purely by longest-prefix length, ties broken by insertion order.
func (t *Table) Add(path string) Ref {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.locations = append(t.locations, Location{Path: path, length: len(path)})
	return Ref(len(t.locations) - 1)
}

// AddLocation appends a fully-built Location (as produced by
// config.LocationConfig.Build) and returns its Ref, recomputing the
// unexported length field from Path so hasPrefix matching works the
// same as for a Location built incrementally via Add.
func (t *Table) AddLocation(loc *Location) Ref {
	t.mu.Lock()
	defer t.mu.Unlock()

	cp := *loc
	cp.length = len(cp.Path)
	t.locations = append(t.locations, cp)
	return Ref(len(t.locations) - 1)
}

// Get resolves ref to its Location within t. The returned pointer is
// only valid until the next call to Add on this Table.
func (t *Table) Get(ref Ref) *Location {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if int(ref) < 0 || int(ref) >= len(t.locations) {
		return nil
	}
	return &t.locations[ref]
}

// FindByName performs a case-insensitive exact match on path.
func (t *Table) FindByName(path string) (Ref, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i := range t.locations {
		if strings.EqualFold(t.locations[i].Path, path) {
			return Ref(i), true
		}
	}
	return 0, false
}

// stripPPDSuffix removes the trailing ".ppd" suffix from a /printers/ or
// /classes/ URI before matching.
func stripPPDSuffix(uri string) string {
	if len(uri) <= 4 {
		return uri
	}
	if !usesCaseInsensitivePrefix(uri) {
		return uri
	}
	if strings.EqualFold(uri[len(uri)-4:], ".ppd") {
		return uri[:len(uri)-4]
	}
	return uri
}

// FindBest returns the Location with the longest Path that is a prefix
// of requestPath and whose Limit intersects method, or false if none
// qualifies. Ties (equal length) are broken by first-insertion: this
// scan only replaces the current best on a strictly greater length, so
// the earliest-added qualifier of the longest length wins.
func (t *Table) FindBest(requestPath string, method Limit) (Ref, bool) {
	uri := stripPPDSuffix(requestPath)
	caseInsensitive := usesCaseInsensitivePrefix(uri)

	t.mu.RLock()
	defer t.mu.RUnlock()

	best := -1
	bestLen := 0
	for i := range t.locations {
		loc := &t.locations[i]
		if loc.Path == "" || loc.Path[0] != '/' {
			continue
		}
		if loc.length <= bestLen {
			continue
		}
		if loc.Limit&method == 0 {
			continue
		}
		if !loc.hasPrefix(uri, caseInsensitive) {
			continue
		}
		best = i
		bestLen = loc.length
	}
	if best < 0 {
		return 0, false
	}
	return Ref(best), true
}

// Copy deep-copies the Location at ref into a new Table entry and
// returns its Ref. If the copy fails validation the new entry is
// removed and ok is false; as implemented here with Go slices the copy
// itself cannot partially fail, but the signature preserves the
// source's "roll back on failure" contract for callers layering
// validation on top (internal/config does).
func (t *Table) Copy(ref Ref) (Ref, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if int(ref) < 0 || int(ref) >= len(t.locations) {
		return 0, false
	}
	cp := t.locations[ref].Copy()
	t.locations = append(t.locations, *cp)
	return Ref(len(t.locations) - 1), true
}

// RemoveAll destroys every Location in the table.
func (t *Table) RemoveAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.locations = nil
}

// Len returns the number of Locations currently in the table.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.locations)
}

// MethodLimit maps an HTTP method name (or the synthetic states the
// original scheduler tracks: WAITING/CLOSE/STATUS) to its Limit bit.
func MethodLimit(method string) Limit {
	switch strings.ToUpper(method) {
	case "GET":
		return LimitGet
	case "HEAD":
		return LimitHead
	case "POST":
		return LimitPost
	case "PUT":
		return LimitPut
	case "DELETE":
		return LimitDelete
	case "OPTIONS":
		return LimitOptions
	case "TRACE":
		return LimitTrace
	default:
		// WAITING, CLOSE, STATUS, and anything unrecognized map to ALL.
		return LimitAll
	}
}
