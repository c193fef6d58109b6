// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/opnprint/printd/internal/location"
)

// ParseAuthmask parses one allow/deny entry using cupsd.conf's mask
// grammar: "@LOCAL" -> any local interface, "@IF(name)" -> a named
// interface, a leading "." -> domain suffix, an IPv4/IPv6 literal with
// an optional netmask -> IP mask, otherwise a bare exact hostname.
func ParseAuthmask(raw string) (location.Authmask, error) {
	s := strings.TrimSpace(raw)
	switch {
	case s == "@LOCAL":
		return location.NewInterfaceMask("*"), nil

	case strings.HasPrefix(s, "@IF(") && strings.HasSuffix(s, ")"):
		name := strings.TrimSuffix(strings.TrimPrefix(s, "@IF("), ")")
		if name == "" {
			return location.Authmask{}, fmt.Errorf("config: empty interface name in %q", raw)
		}
		return location.NewInterfaceMask(name), nil

	case strings.HasPrefix(s, "."):
		return location.NewNameMask(s), nil

	case looksLikeIP(s):
		return parseIPMask(s)

	default:
		return location.NewNameMask(s), nil
	}
}

func looksLikeIP(s string) bool {
	host := s
	if i := strings.IndexByte(s, '/'); i >= 0 {
		host = s[:i]
	}
	return net.ParseIP(host) != nil
}

// parseIPMask accepts "addr", "addr/bits" (CIDR), or "addr/netmask".
func parseIPMask(s string) (location.Authmask, error) {
	slash := strings.IndexByte(s, '/')
	if slash < 0 {
		ip := net.ParseIP(s)
		if ip == nil {
			return location.Authmask{}, fmt.Errorf("config: invalid IP address %q", s)
		}
		words := ipToWords(ip)
		return location.NewIPMask(words, allOnesMask(ip)), nil
	}

	addrPart, maskPart := s[:slash], s[slash+1:]
	ip := net.ParseIP(addrPart)
	if ip == nil {
		return location.Authmask{}, fmt.Errorf("config: invalid IP address %q", addrPart)
	}

	if maskIP := net.ParseIP(maskPart); maskIP != nil {
		return location.NewIPMask(ipToWords(ip), ipToWords(maskIP)), nil
	}

	_, ipNet, err := net.ParseCIDR(s)
	if err != nil {
		return location.Authmask{}, fmt.Errorf("config: invalid network %q: %w", s, err)
	}
	return location.NewIPMask(ipToWords(ip), ipMaskToWords(ip, ipNet.Mask)), nil
}

// ipToWords converts ip into the 4-word form internal/hostmask expects:
// IPv4 addresses occupy word 3 only, IPv6 addresses occupy all 4 words
// big-endian.
func ipToWords(ip net.IP) [4]uint32 {
	if v4 := ip.To4(); v4 != nil {
		return [4]uint32{0, 0, 0, beUint32(v4)}
	}
	v6 := ip.To16()
	var words [4]uint32
	for i := 0; i < 4; i++ {
		words[i] = beUint32(v6[i*4 : i*4+4])
	}
	return words
}

func ipMaskToWords(ip net.IP, mask net.IPMask) [4]uint32 {
	if ip.To4() != nil {
		full := make(net.IPMask, 4)
		copy(full, mask)
		return [4]uint32{0, 0, 0, beUint32(full)}
	}
	full := make(net.IPMask, 16)
	copy(full, mask)
	var words [4]uint32
	for i := 0; i < 4; i++ {
		words[i] = beUint32(full[i*4 : i*4+4])
	}
	return words
}

func allOnesMask(ip net.IP) [4]uint32 {
	if ip.To4() != nil {
		return [4]uint32{0, 0, 0, 0xffffffff}
	}
	return [4]uint32{0xffffffff, 0xffffffff, 0xffffffff, 0xffffffff}
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
