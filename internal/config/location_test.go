// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opnprint/printd/internal/location"
)

func TestLocationConfigBuildDefaults(t *testing.T) {
	lc := LocationConfig{Path: "/"}
	loc, err := lc.Build()
	require.NoError(t, err)
	assert.Equal(t, location.LimitAll, loc.Limit)
	assert.Equal(t, location.OrderAllowDeny, loc.Order)
	assert.Equal(t, location.LevelAnonymous, loc.Level)
	assert.Equal(t, location.TypeNone, loc.Type)
	assert.Equal(t, location.SatisfyAll, loc.Satisfy)
	assert.Equal(t, location.EncryptionIfRequested, loc.Encryption)
}

func TestLocationConfigBuildFullPolicy(t *testing.T) {
	lc := LocationConfig{
		Path:       "/admin",
		Methods:    []string{"GET", "POST"},
		Order:      "deny-allow",
		Level:      "user",
		Type:       "basic",
		Satisfy:    "any",
		Encryption: "required",
		Names:      []string{"alice", "@SYSTEM"},
		Allow:      []string{"127.0.0.1"},
		Deny:       []string{"0.0.0.0/0"},
	}
	loc, err := lc.Build()
	require.NoError(t, err)
	assert.Equal(t, location.LimitGet|location.LimitPost, loc.Limit)
	assert.Equal(t, location.OrderDenyAllow, loc.Order)
	assert.Equal(t, location.LevelUser, loc.Level)
	assert.Equal(t, location.TypeBasic, loc.Type)
	assert.Equal(t, location.SatisfyAny, loc.Satisfy)
	assert.Equal(t, location.EncryptionRequired, loc.Encryption)
	assert.Equal(t, []string{"alice", "@SYSTEM"}, loc.Names)
	require.Len(t, loc.Allow, 1)
	require.Len(t, loc.Deny, 1)
}

func TestLocationConfigBuildRejectsPathWithoutLeadingSlash(t *testing.T) {
	_, err := LocationConfig{Path: "admin"}.Build()
	assert.Error(t, err)
}

func TestLocationConfigBuildRejectsUnknownMethod(t *testing.T) {
	_, err := LocationConfig{Path: "/", Methods: []string{"PATCH"}}.Build()
	assert.Error(t, err)
}

func TestLocationConfigBuildRejectsInvalidOrder(t *testing.T) {
	_, err := LocationConfig{Path: "/", Order: "sideways"}.Build()
	assert.Error(t, err)
}

func TestLocationConfigBuildRejectsInvalidMask(t *testing.T) {
	_, err := LocationConfig{Path: "/", Allow: []string{"10.0.0.0/abc"}}.Build()
	assert.Error(t, err)
}
