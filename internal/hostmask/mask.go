// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package hostmask implements the mask evaluator: testing one client
// (IP address, hostname) against an ordered list of location.Authmask
// predicates. It is a pure function of its inputs plus an injected
// interface snapshot (internal/cache provides the refreshed copy the
// "*"/named-interface cases consult).
package hostmask

import (
	"strings"

	"github.com/opnprint/printd/internal/location"
)

// Family distinguishes the address family of a local interface.
type Family int

const (
	FamilyIPv4 Family = iota
	FamilyIPv6
)

// Interface describes one local network interface, in the same 4-word
// address form used for client addresses (IPv4 lives in word 3 only).
type Interface struct {
	Name    string
	Family  Family
	Address [4]uint32
	Netmask [4]uint32
	// Local reports whether this interface should participate in
	// "@LOCAL"/"*" matching (loopback and administratively-down
	// interfaces are excluded by the collaborator that builds the
	// snapshot).
	Local bool
}

// InterfaceSource supplies the current snapshot of local interfaces.
// internal/cache.InterfaceCache is the production implementation; tests
// provide a static slice.
type InterfaceSource interface {
	Interfaces() []Interface
	// Refresh forces the source to re-enumerate before Interfaces is
	// read, matching cupsdNetIFUpdate() being called before the "*"
	// scan in cupsdCheckAuth.
	Refresh()
}

// staticSource lets callers that already hold a snapshot satisfy
// InterfaceSource without a cache.
type staticSource []Interface

func (s staticSource) Interfaces() []Interface { return []Interface(s) }
func (s staticSource) Refresh()                {}

// StaticSource wraps a fixed interface list as an InterfaceSource.
func StaticSource(ifaces []Interface) InterfaceSource {
	return staticSource(ifaces)
}

// Check iterates masks in order and returns true on the first match.
// clientIP is the 4-word address form (word 3 for IPv4, full words
// for IPv6); clientHost is the resolved hostname.
func Check(clientIP [4]uint32, clientHost string, masks []location.Authmask, ifaces InterfaceSource) bool {
	for _, mask := range masks {
		switch mask.Kind {
		case location.MaskIP:
			if ipMatches(clientIP, mask.Address, mask.Netmask) {
				return true
			}

		case location.MaskName:
			if nameMatches(clientHost, mask.Name, mask.Length) {
				return true
			}

		case location.MaskInterface:
			if interfaceMatches(clientIP, mask.Name, ifaces) {
				return true
			}
		}
	}
	return false
}

func ipMatches(client, address, netmask [4]uint32) bool {
	for k := 0; k < 4; k++ {
		if client[k]&netmask[k] != address[k] {
			return false
		}
	}
	return true
}

func nameMatches(clientHost, maskName string, maskLen int) bool {
	if strings.EqualFold(clientHost, maskName) {
		return true
	}
	if len(maskName) == 0 || maskName[0] != '.' {
		return false
	}
	if len(clientHost) < maskLen {
		return false
	}
	tail := clientHost[len(clientHost)-maskLen:]
	return strings.EqualFold(tail, maskName)
}

func interfaceMatches(clientIP [4]uint32, name string, ifaces InterfaceSource) bool {
	if ifaces == nil {
		return false
	}
	ifaces.Refresh()

	if name == "*" {
		for _, iface := range ifaces.Interfaces() {
			if iface.Local && subnetMatches(clientIP, iface) {
				return true
			}
		}
		return false
	}

	for _, iface := range ifaces.Interfaces() {
		if iface.Name == name {
			return subnetMatches(clientIP, iface)
		}
	}
	return false
}

func subnetMatches(clientIP [4]uint32, iface Interface) bool {
	if iface.Family == FamilyIPv4 {
		return clientIP[3]&iface.Netmask[3] == iface.Address[3]&iface.Netmask[3]
	}
	for k := 0; k < 4; k++ {
		if clientIP[k]&iface.Netmask[k] != iface.Address[k]&iface.Netmask[k] {
			return false
		}
	}
	return true
}
