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

func TestParseAuthmaskLocal(t *testing.T) {
	mask, err := ParseAuthmask("@LOCAL")
	require.NoError(t, err)
	assert.Equal(t, location.MaskInterface, mask.Kind)
	assert.Equal(t, "*", mask.Name)
}

func TestParseAuthmaskNamedInterface(t *testing.T) {
	mask, err := ParseAuthmask("@IF(eth0)")
	require.NoError(t, err)
	assert.Equal(t, location.MaskInterface, mask.Kind)
	assert.Equal(t, "eth0", mask.Name)
}

func TestParseAuthmaskDomainSuffix(t *testing.T) {
	mask, err := ParseAuthmask(".example.com")
	require.NoError(t, err)
	assert.Equal(t, location.MaskName, mask.Kind)
	assert.Equal(t, ".example.com", mask.Name)
}

func TestParseAuthmaskBareHostname(t *testing.T) {
	mask, err := ParseAuthmask("trusted.example")
	require.NoError(t, err)
	assert.Equal(t, location.MaskName, mask.Kind)
	assert.Equal(t, "trusted.example", mask.Name)
}

func TestParseAuthmaskBareIPDefaultsToHostMask(t *testing.T) {
	mask, err := ParseAuthmask("127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, location.MaskIP, mask.Kind)
	assert.Equal(t, [4]uint32{0, 0, 0, 0xffffffff}, mask.Netmask)
}

func TestParseAuthmaskCIDR(t *testing.T) {
	mask, err := ParseAuthmask("10.0.0.0/8")
	require.NoError(t, err)
	assert.Equal(t, location.MaskIP, mask.Kind)
	assert.Equal(t, [4]uint32{0, 0, 0, 0xff000000}, mask.Netmask)
	assert.Equal(t, [4]uint32{0, 0, 0, 0x0a000000}, mask.Address)
}

func TestParseAuthmaskExplicitNetmask(t *testing.T) {
	mask, err := ParseAuthmask("192.168.1.0/255.255.255.0")
	require.NoError(t, err)
	assert.Equal(t, [4]uint32{0, 0, 0, 0xffffff00}, mask.Netmask)
}

func TestParseAuthmaskInvalidCIDRErrors(t *testing.T) {
	_, err := ParseAuthmask("10.0.0.0/abc")
	assert.Error(t, err)
}

func TestParseAuthmaskIPv6(t *testing.T) {
	mask, err := ParseAuthmask("2001:db8::1")
	require.NoError(t, err)
	assert.Equal(t, location.MaskIP, mask.Kind)
	assert.Equal(t, [4]uint32{0xffffffff, 0xffffffff, 0xffffffff, 0xffffffff}, mask.Netmask)
}
