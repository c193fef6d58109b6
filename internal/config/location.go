// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"strings"

	"github.com/opnprint/printd/internal/location"
)

// LocationConfig is the on-disk/env representation of a Location, using
// the same mask and principal grammar as the classic cupsd.conf
// Location blocks.
type LocationConfig struct {
	Path       string   `koanf:"path" validate:"required"`
	Methods    []string `koanf:"methods"`
	Order      string   `koanf:"order" validate:"omitempty,oneof=allow-deny deny-allow"`
	Level      string   `koanf:"level" validate:"omitempty,oneof=anonymous user group"`
	Type       string   `koanf:"type" validate:"omitempty,oneof=none basic digest basic-digest"`
	Satisfy    string   `koanf:"satisfy" validate:"omitempty,oneof=all any"`
	Encryption string   `koanf:"encryption" validate:"omitempty,oneof=if-requested required never"`
	Names      []string `koanf:"names" validate:"omitempty,dive,principal"`
	Allow      []string `koanf:"allow" validate:"omitempty,dive,authmask"`
	Deny       []string `koanf:"deny" validate:"omitempty,dive,authmask"`
}

// Build converts lc into a location.Location, parsing the mask grammar
// for Allow/Deny entries.
func (lc LocationConfig) Build() (*location.Location, error) {
	if !strings.HasPrefix(lc.Path, "/") {
		return nil, fmt.Errorf("config: location path %q must start with /", lc.Path)
	}

	limit, err := methodsToLimit(lc.Methods)
	if err != nil {
		return nil, fmt.Errorf("config: location %q: %w", lc.Path, err)
	}

	loc := &location.Location{
		Path:  lc.Path,
		Limit: limit,
	}

	switch lc.Order {
	case "", "allow-deny":
		loc.Order = location.OrderAllowDeny
	case "deny-allow":
		loc.Order = location.OrderDenyAllow
	default:
		return nil, fmt.Errorf("config: location %q: invalid order %q", lc.Path, lc.Order)
	}

	switch lc.Level {
	case "", "anonymous":
		loc.Level = location.LevelAnonymous
	case "user":
		loc.Level = location.LevelUser
	case "group":
		loc.Level = location.LevelGroup
	default:
		return nil, fmt.Errorf("config: location %q: invalid level %q", lc.Path, lc.Level)
	}

	switch lc.Type {
	case "", "none":
		loc.Type = location.TypeNone
	case "basic":
		loc.Type = location.TypeBasic
	case "digest":
		loc.Type = location.TypeDigest
	case "basic-digest":
		loc.Type = location.TypeBasicDigest
	default:
		return nil, fmt.Errorf("config: location %q: invalid type %q", lc.Path, lc.Type)
	}

	switch lc.Satisfy {
	case "", "all":
		loc.Satisfy = location.SatisfyAll
	case "any":
		loc.Satisfy = location.SatisfyAny
	default:
		return nil, fmt.Errorf("config: location %q: invalid satisfy %q", lc.Path, lc.Satisfy)
	}

	switch lc.Encryption {
	case "", "if-requested":
		loc.Encryption = location.EncryptionIfRequested
	case "required":
		loc.Encryption = location.EncryptionRequired
	case "never":
		loc.Encryption = location.EncryptionNever
	default:
		return nil, fmt.Errorf("config: location %q: invalid encryption %q", lc.Path, lc.Encryption)
	}

	for _, name := range lc.Names {
		loc.AddName(name)
	}

	for _, raw := range lc.Allow {
		mask, err := ParseAuthmask(raw)
		if err != nil {
			return nil, fmt.Errorf("config: location %q: allow: %w", lc.Path, err)
		}
		loc.AddAllow(mask)
	}
	for _, raw := range lc.Deny {
		mask, err := ParseAuthmask(raw)
		if err != nil {
			return nil, fmt.Errorf("config: location %q: deny: %w", lc.Path, err)
		}
		loc.AddDeny(mask)
	}

	return loc, nil
}

func methodsToLimit(methods []string) (location.Limit, error) {
	if len(methods) == 0 {
		return location.LimitAll, nil
	}
	var limit location.Limit
	for _, m := range methods {
		switch strings.ToUpper(m) {
		case "GET":
			limit |= location.LimitGet
		case "HEAD":
			limit |= location.LimitHead
		case "POST":
			limit |= location.LimitPost
		case "PUT":
			limit |= location.LimitPut
		case "DELETE":
			limit |= location.LimitDelete
		case "OPTIONS":
			limit |= location.LimitOptions
		case "TRACE":
			limit |= location.LimitTrace
		case "IPP":
			limit |= location.LimitIPP
		case "ALL":
			limit |= location.LimitAll
		default:
			return 0, fmt.Errorf("unknown method %q", m)
		}
	}
	return limit, nil
}
