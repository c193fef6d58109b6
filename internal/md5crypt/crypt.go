// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package md5crypt implements the portable MD5-crypt ("$1$salt$...")
// password hash used as the local fallback when no pluggable
// authentication host is configured, plus the trait boundary for
// deferring to the platform's traditional crypt() for any other salt
// form. This reproduces the FreeBSD crypt_md5 algorithm bit-for-bit,
// including its exact radix-64 byte-group permutation, since
// internal/credential compares against stored hashes byte-for-byte.
package md5crypt

import (
	"crypto/md5"
	"strings"
)

const md5Prefix = "$1$"

// radix64Alphabet is the exact alphabet the original to64() uses; it is
// not standard base64, so encoding/base64 cannot substitute for it.
const radix64Alphabet = "./0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// to64 encodes the low n*6 bits of v into n radix-64 characters.
func to64(v uint32, n int) string {
	var b strings.Builder
	for ; n > 0; n-- {
		b.WriteByte(radix64Alphabet[v&0x3f])
		v >>= 6
	}
	return b.String()
}

// saltData extracts the up-to-8-character salt segment between "$1$"
// and the next '$' (or end of string).
func saltData(salt string) string {
	rest := strings.TrimPrefix(salt, md5Prefix)
	if i := strings.IndexByte(rest, '$'); i >= 0 && i <= 8 {
		return rest[:i]
	}
	if len(rest) > 8 {
		return rest[:8]
	}
	return rest
}

// IsMD5Crypt reports whether salt uses the "$1$" scheme.
func IsMD5Crypt(salt string) bool {
	return strings.HasPrefix(salt, md5Prefix)
}

// Crypt computes the MD5-crypt hash of password using salt (which may
// be a bare salt string or a full "$1$salt$hash" value; only the salt
// segment is used). The result is "$1$<salt>$<22 radix-64 chars>".
func Crypt(password, salt string) string {
	saltSeg := saltData(salt)
	pwBytes := []byte(password)
	pwlen := len(pwBytes)

	alt := md5.New()
	alt.Write(pwBytes)
	alt.Write([]byte(saltSeg))
	alt.Write(pwBytes)
	altDigest := alt.Sum(nil)

	primary := md5.New()
	primary.Write(pwBytes)
	primary.Write([]byte(md5Prefix))
	primary.Write([]byte(saltSeg))

	for i := pwlen; i > 0; i -= 16 {
		n := 16
		if i < 16 {
			n = i
		}
		primary.Write(altDigest[:n])
	}

	for i := pwlen; i > 0; i >>= 1 {
		if i&1 != 0 {
			primary.Write([]byte{0})
		} else {
			primary.Write(pwBytes[:1])
		}
	}

	digest := primary.Sum(nil)

	for i := 0; i < 1000; i++ {
		round := md5.New()
		if i&1 != 0 {
			round.Write(pwBytes)
		} else {
			round.Write(digest)
		}
		if i%3 != 0 {
			round.Write([]byte(saltSeg))
		}
		if i%7 != 0 {
			round.Write(pwBytes)
		}
		if i&1 != 0 {
			round.Write(digest)
		} else {
			round.Write(pwBytes)
		}
		digest = round.Sum(nil)
	}

	var out strings.Builder
	out.WriteString(md5Prefix)
	out.WriteString(saltSeg)
	out.WriteByte('$')

	for i := 0; i < 5; i++ {
		var n uint32
		if i < 4 {
			n = (uint32(digest[i])<<8|uint32(digest[i+6]))<<8 | uint32(digest[i+12])
		} else {
			n = (uint32(digest[i])<<8|uint32(digest[i+6]))<<8 | uint32(digest[5])
		}
		out.WriteString(to64(n, 4))
	}
	out.WriteString(to64(uint32(digest[11]), 2))

	return out.String()
}

// TraditionalCrypter defers to the platform's traditional crypt() for
// any salt that is not "$1$...". It is an injected collaborator
// because the standard library has no crypt(3) binding.
type TraditionalCrypter interface {
	Crypt(password, salt string) (string, error)
}

// Verify compares password, hashed with the scheme stored works, against
// stored. If stored begins "$1$" this uses Crypt directly; otherwise it
// defers to traditional, which may be nil if no platform binding is
// configured (verification then fails closed).
func Verify(password, stored string, traditional TraditionalCrypter) bool {
	if stored == "" {
		return false
	}
	if IsMD5Crypt(stored) {
		return Crypt(password, stored) == stored
	}
	if traditional == nil {
		return false
	}
	hashed, err := traditional.Crypt(password, stored)
	if err != nil {
		return false
	}
	return hashed == stored
}
