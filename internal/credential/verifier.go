// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package credential

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/opnprint/printd/internal/identity"
	"github.com/opnprint/printd/internal/location"
)

// Request is the subset of the client's presented credentials and
// request context a Verifier needs.
type Request struct {
	Username string
	Password string // cleartext, for Basic and BasicDigest
	Response string // digest response hash, for Digest
	Nonce    string // Authorization nonce sub-field, for Digest
	Method   string
	URI      string
	Hostname string
}

// Verifier dispatches Basic/Digest/BasicDigest verification.
type Verifier struct {
	basic  Authenticator
	md5    identity.MD5Store
	digest DigestHelper
}

// NewVerifier builds a Verifier. digest may be nil, in which case
// MD5Digest{} is used.
func NewVerifier(basic Authenticator, md5 identity.MD5Store, digest DigestHelper) *Verifier {
	if digest == nil {
		digest = MD5Digest{}
	}
	return &Verifier{basic: basic, md5: md5, digest: digest}
}

// Verify checks req against credType, consulting names/systemGroups to
// resolve the MD5 entry for Digest/BasicDigest. Any mismatch, absent
// record, or unsupported type yields OutcomeDenied, never OutcomeOK:
// verification fails closed.
func (v *Verifier) Verify(ctx context.Context, credType location.CredentialType, names, systemGroups []string, req Request) (Outcome, error) {
	switch credType {
	case location.TypeBasic:
		return v.basic.Authenticate(ctx, req.Username, req.Password)
	case location.TypeDigest:
		return v.verifyDigest(req, names, systemGroups), nil
	case location.TypeBasicDigest:
		return v.verifyBasicDigest(req, names, systemGroups), nil
	default:
		return OutcomeDenied, fmt.Errorf("credential: unsupported credential type %v", credType)
	}
}

func (v *Verifier) verifyDigest(req Request, names, systemGroups []string) Outcome {
	if !strings.EqualFold(req.Nonce, req.Hostname) {
		return OutcomeDenied
	}
	ha1, ok := v.lookupGroupHA1(req.Username, names, systemGroups)
	if !ok {
		return OutcomeDenied
	}
	expected := v.digest.Final(req.Nonce, req.Method, req.URI, ha1)
	if constantTimeEqual(expected, req.Response) {
		return OutcomeOK
	}
	return OutcomeDenied
}

func (v *Verifier) verifyBasicDigest(req Request, names, systemGroups []string) Outcome {
	ha1, ok := v.lookupGroupHA1(req.Username, names, systemGroups)
	if !ok {
		return OutcomeDenied
	}
	computed := v.digest.HA1(req.Username, DigestRealm, req.Password)
	if constantTimeEqual(computed, ha1) {
		return OutcomeOK
	}
	return OutcomeDenied
}

// lookupGroupHA1 resolves the MD5 entry for username scoped to one of
// the policy's named groups, expanding "@SYSTEM" to systemGroups.
func (v *Verifier) lookupGroupHA1(username string, names, systemGroups []string) (string, bool) {
	groups := groupNamesFromPrincipals(names, systemGroups)
	if len(groups) == 0 {
		return v.md5.Lookup(username, "")
	}
	for _, g := range groups {
		if hash, ok := v.md5.Lookup(username, g); ok {
			return hash, true
		}
	}
	return "", false
}

func groupNamesFromPrincipals(names, systemGroups []string) []string {
	var groups []string
	for _, n := range names {
		if !strings.HasPrefix(n, "@") {
			continue
		}
		switch tag := n[1:]; tag {
		case "SYSTEM":
			groups = append(groups, systemGroups...)
		case "OWNER":
			// not a group; matched against the resource owner elsewhere.
		default:
			groups = append(groups, tag)
		}
	}
	return groups
}

func constantTimeEqual(a, b string) bool {
	return len(a) == len(b) && subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
