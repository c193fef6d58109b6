// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterfaceCacheRefreshPopulatesSnapshot(t *testing.T) {
	c := NewInterfaceCache(time.Minute)
	c.enumerate = func() ([]rawInterface, error) {
		return []rawInterface{
			{
				iface: net.Interface{Name: "lo", Flags: net.FlagUp | net.FlagLoopback},
				addrs: []net.Addr{&net.IPNet{IP: net.ParseIP("127.0.0.1"), Mask: net.CIDRMask(8, 32)}},
			},
			{
				iface: net.Interface{Name: "eth0", Flags: net.FlagUp},
				addrs: []net.Addr{&net.IPNet{IP: net.ParseIP("10.0.0.5"), Mask: net.CIDRMask(24, 32)}},
			},
		}, nil
	}

	c.Refresh()
	ifaces := c.Interfaces()
	require.Len(t, ifaces, 2)

	byName := map[string]bool{}
	for _, iface := range ifaces {
		byName[iface.Name] = iface.Local
	}
	assert.False(t, byName["lo"])
	assert.True(t, byName["eth0"])
}

func TestInterfaceCacheReusesSnapshotWithinTTL(t *testing.T) {
	c := NewInterfaceCache(time.Hour)
	calls := 0
	c.enumerate = func() ([]rawInterface, error) {
		calls++
		return nil, nil
	}

	c.Interfaces()
	c.Interfaces()
	assert.Equal(t, 1, calls)
}

func TestInterfaceCacheZeroTTLAlwaysRefreshes(t *testing.T) {
	c := NewInterfaceCache(0)
	calls := 0
	c.enumerate = func() ([]rawInterface, error) {
		calls++
		return nil, nil
	}

	c.Interfaces()
	c.Interfaces()
	assert.Equal(t, 2, calls)
}

func TestInterfaceCacheRefreshIgnoresEnumerationError(t *testing.T) {
	c := NewInterfaceCache(time.Minute)
	c.enumerate = func() ([]rawInterface, error) {
		return nil, &net.AddrError{Err: "boom", Addr: "x"}
	}

	c.Refresh()
	assert.Empty(t, c.Interfaces())
}
