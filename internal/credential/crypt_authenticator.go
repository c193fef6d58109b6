// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package credential

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/opnprint/printd/internal/identity"
	"github.com/opnprint/printd/internal/md5crypt"
)

// CryptAuthenticator is the fallback Basic-authenticator used when no
// pluggable host is configured: it compares against the platform
// passwd/shadow record via the portable MD5-crypt routine, extended to
// recognize bcrypt hashes ("$2a$"/"$2b$"/"$2y$") for deployments that
// provisioned them.
type CryptAuthenticator struct {
	db          identity.Database
	traditional md5crypt.TraditionalCrypter
}

// NewCryptAuthenticator builds a CryptAuthenticator. traditional may be
// nil; any stored hash that is neither MD5-crypt nor bcrypt then fails
// closed.
func NewCryptAuthenticator(db identity.Database, traditional md5crypt.TraditionalCrypter) *CryptAuthenticator {
	return &CryptAuthenticator{db: db, traditional: traditional}
}

// Authenticate implements Authenticator.
func (a *CryptAuthenticator) Authenticate(ctx context.Context, username, password string) (Outcome, error) {
	user, found := a.db.LookupUser(username)
	if !found {
		identity.LogLookupFailure(username)
		return OutcomeDenied, nil
	}
	if user.BlankPassword() {
		return OutcomeDenied, nil
	}

	stored := user.EffectiveHash()
	if isBcryptHash(stored) {
		if bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil {
			return OutcomeOK, nil
		}
		return OutcomeDenied, nil
	}

	if md5crypt.Verify(password, stored, a.traditional) {
		return OutcomeOK, nil
	}
	return OutcomeDenied, nil
}

func isBcryptHash(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}
