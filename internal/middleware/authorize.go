// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package middleware

import (
	"encoding/base64"
	"net"
	"net/http"
	"strings"

	"github.com/opnprint/printd/internal/authz"
	"github.com/opnprint/printd/internal/location"
)

// OwnerResolver looks up the owning username for a request path, for
// "@OWNER" principal matching. Handlers that don't track ownership
// (most of them) can pass a resolver that always returns "".
type OwnerResolver func(r *http.Request) string

// Authorize wraps next with the is_authorized engine: it resolves the
// best-matching location from table, builds a Client from the request,
// and rejects with the decision's status code on anything but OK.
func Authorize(orch *authz.Orchestrator, table *location.Table, owner OwnerResolver, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := location.MethodLimit(r.Method)
		ref, found := table.FindBest(r.URL.Path, limit)

		var loc *location.Location
		if found {
			loc = table.Get(ref)
		}

		client := clientFromRequest(r)

		var ownerName string
		if owner != nil {
			ownerName = owner(r)
		}

		decision := orch.IsAuthorized(r.Context(), loc, client, ownerName)
		if decision != authz.DecisionOK {
			if decision == authz.DecisionUnauthorized {
				w.Header().Set("WWW-Authenticate", authenticateChallenge(loc))
			}
			http.Error(w, decision.String(), decision.StatusCode())
			return
		}

		next(w, r)
	}
}

func authenticateChallenge(loc *location.Location) string {
	if loc == nil || loc.Type == location.TypeDigest || loc.Type == location.TypeBasicDigest {
		return `Digest realm="CUPS"`
	}
	return `Basic realm="CUPS"`
}

// clientFromRequest builds an authz.Client from an inbound HTTP
// request, parsing the Basic/Digest Authorization header.
func clientFromRequest(r *http.Request) authz.Client {
	client := authz.Client{
		Hostname:         hostnameFromRequest(r),
		IP:               ipFromRequest(r),
		Secured:          r.TLS != nil,
		Method:           r.Method,
		URI:              r.URL.RequestURI(),
		AuthorizationRaw: r.Header.Get("Authorization"),
	}

	parseAuthorizationHeader(&client)

	if name := r.Header.Get("X-IPP-Requesting-User-Name"); name != "" {
		client.IPPRequestingUserName = name
	}

	return client
}

func hostnameFromRequest(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func ipFromRequest(r *http.Request) [4]uint32 {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return [4]uint32{}
	}
	if v4 := ip.To4(); v4 != nil {
		return [4]uint32{0, 0, 0, beUint32(v4)}
	}
	v6 := ip.To16()
	return [4]uint32{beUint32(v6[0:4]), beUint32(v6[4:8]), beUint32(v6[8:12]), beUint32(v6[12:16])}
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// parseAuthorizationHeader fills in client's Username/Password (Basic)
// or Response/Nonce (Digest) fields from AuthorizationRaw.
func parseAuthorizationHeader(client *authz.Client) {
	raw := client.AuthorizationRaw
	switch {
	case strings.HasPrefix(raw, "Basic "):
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(raw, "Basic "))
		if err != nil {
			return
		}
		parts := strings.SplitN(string(decoded), ":", 2)
		client.Username = parts[0]
		if len(parts) == 2 {
			client.Password = parts[1]
		}
	case strings.HasPrefix(raw, "Digest "):
		fields := parseDigestFields(strings.TrimPrefix(raw, "Digest "))
		client.Username = fields["username"]
		client.Response = fields["response"]
		client.Nonce = fields["nonce"]
	}
}

func parseDigestFields(s string) map[string]string {
	fields := make(map[string]string)
	for _, part := range strings.Split(s, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		fields[kv[0]] = strings.Trim(kv[1], `"`)
	}
	return fields
}
