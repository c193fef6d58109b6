// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"net"
	"sync"
	"time"

	"github.com/opnprint/printd/internal/hostmask"
)

// rawInterface pairs a net.Interface with its resolved addresses, so
// tests can stub enumeration without depending on real syscalls.
type rawInterface struct {
	iface net.Interface
	addrs []net.Addr
}

// InterfaceCache is the production hostmask.InterfaceSource: it
// snapshots net.Interfaces() and re-enumerates only when the TTL has
// elapsed or Refresh is called explicitly, since syscall enumeration
// on every "@LOCAL"/"*" check would be wasteful under load.
type InterfaceCache struct {
	mu        sync.RWMutex
	ttl       time.Duration
	snapshot  []hostmask.Interface
	expiresAt time.Time
	enumerate func() ([]rawInterface, error)
}

// NewInterfaceCache creates an InterfaceCache with the given TTL. A
// non-positive ttl disables caching: every Interfaces() call
// re-enumerates.
func NewInterfaceCache(ttl time.Duration) *InterfaceCache {
	return &InterfaceCache{
		ttl:       ttl,
		enumerate: enumerateSystemInterfaces,
	}
}

// enumerateSystemInterfaces resolves the real local interface list via
// the net package.
func enumerateSystemInterfaces() ([]rawInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	raw := make([]rawInterface, 0, len(ifaces))
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		raw = append(raw, rawInterface{iface: iface, addrs: addrs})
	}
	return raw, nil
}

// Interfaces returns the current snapshot, refreshing it first if the
// TTL has elapsed.
func (c *InterfaceCache) Interfaces() []hostmask.Interface {
	c.mu.RLock()
	fresh := c.ttl > 0 && time.Now().Before(c.expiresAt)
	snapshot := c.snapshot
	c.mu.RUnlock()

	if fresh {
		return snapshot
	}

	c.Refresh()

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// Refresh forces re-enumeration of local interfaces, matching
// cupsdNetIFUpdate() being called before the "*" scan.
func (c *InterfaceCache) Refresh() {
	raw, err := c.enumerate()
	if err != nil {
		return
	}

	snapshot := make([]hostmask.Interface, 0, len(raw))
	for _, r := range raw {
		local := r.iface.Flags&net.FlagUp != 0 && r.iface.Flags&net.FlagLoopback == 0
		for _, addr := range r.addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			entry, ok := toHostmaskInterface(r.iface.Name, ipNet, local)
			if !ok {
				continue
			}
			snapshot = append(snapshot, entry)
		}
	}

	c.mu.Lock()
	c.snapshot = snapshot
	c.expiresAt = time.Now().Add(c.ttl)
	c.mu.Unlock()
}

func toHostmaskInterface(name string, ipNet *net.IPNet, local bool) (hostmask.Interface, bool) {
	if v4 := ipNet.IP.To4(); v4 != nil {
		return hostmask.Interface{
			Name:    name,
			Family:  hostmask.FamilyIPv4,
			Address: [4]uint32{0, 0, 0, beUint32(v4)},
			Netmask: [4]uint32{0, 0, 0, beUint32(ipNet.Mask)},
			Local:   local,
		}, true
	}

	v6 := ipNet.IP.To16()
	if v6 == nil {
		return hostmask.Interface{}, false
	}
	mask := ipNet.Mask
	if len(mask) != net.IPv6len {
		return hostmask.Interface{}, false
	}
	return hostmask.Interface{
		Name:    name,
		Family:  hostmask.FamilyIPv6,
		Address: [4]uint32{beUint32(v6[0:4]), beUint32(v6[4:8]), beUint32(v6[8:12]), beUint32(v6[12:16])},
		Netmask: [4]uint32{beUint32(mask[0:4]), beUint32(mask[4:8]), beUint32(mask[8:12]), beUint32(mask[12:16])},
		Local:   local,
	}, true
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
