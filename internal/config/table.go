// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"

	"github.com/opnprint/printd/internal/location"
)

// BuildLocationTable builds a location.Table from every LocationConfig
// in c, in declaration order.
func (c *Config) BuildLocationTable() (*location.Table, error) {
	table := location.NewTable()
	for _, lc := range c.Locations {
		loc, err := lc.Build()
		if err != nil {
			return nil, err
		}
		table.AddLocation(loc)
	}
	return table, nil
}

// ParseCredentialType converts the on-disk auth-type string into a
// location.CredentialType, the same vocabulary LocationConfig.Type
// uses.
func ParseCredentialType(s string) (location.CredentialType, error) {
	switch s {
	case "", "none":
		return location.TypeNone, nil
	case "basic":
		return location.TypeBasic, nil
	case "digest":
		return location.TypeDigest, nil
	case "basic-digest":
		return location.TypeBasicDigest, nil
	default:
		return 0, fmt.Errorf("config: invalid default_auth_type %q", s)
	}
}
