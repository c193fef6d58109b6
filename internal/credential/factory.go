// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opnprint/printd

package credential

import (
	"fmt"

	"github.com/opnprint/printd/internal/identity"
	"github.com/opnprint/printd/internal/md5crypt"
)

// NewAuthenticator selects a Basic-authentication backend by kind,
// mirroring the HAVE_LIBPAM / AIX-usersec.h / crypt-fallback branch a
// platform print daemon chooses between at build or config time. kind
// is "host" (external pluggable authentication host, circuit-breaker
// wrapped) or "crypt" (local passwd/shadow with MD5-crypt/bcrypt
// verification). AIX's usersec.h dialogue has no Go-reachable
// equivalent and is not emulated; host and crypt cover the trait
// boundary the engine itself needs.
func NewAuthenticator(kind string, host PluggableHost, hostCfg HostAuthenticatorConfig, db identity.Database, traditional md5crypt.TraditionalCrypter) (Authenticator, error) {
	switch kind {
	case "", "crypt":
		return NewCryptAuthenticator(db, traditional), nil
	case "host":
		if host == nil {
			return nil, fmt.Errorf("credential: kind %q requires a PluggableHost", kind)
		}
		return NewHostAuthenticator(host, hostCfg), nil
	default:
		return nil, fmt.Errorf("credential: unknown authenticator kind %q", kind)
	}
}
