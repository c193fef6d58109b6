// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package authz implements the top-level authorization orchestrator:
// is_authorized(client, owner) → Decision, composing the mask
// evaluator, credential verifier, and identity resolver under a
// location's policy.
package authz

import (
	"context"
	"strings"

	"github.com/opnprint/printd/internal/credential"
	"github.com/opnprint/printd/internal/hostmask"
	"github.com/opnprint/printd/internal/identity"
	"github.com/opnprint/printd/internal/location"
)

// Decision is the orchestrator's top-level verdict, mapped by the HTTP
// layer to a status code.
type Decision int

const (
	DecisionOK Decision = iota
	DecisionUnauthorized
	DecisionForbidden
	DecisionUpgradeRequired
)

func (d Decision) String() string {
	switch d {
	case DecisionOK:
		return "ok"
	case DecisionUnauthorized:
		return "unauthorized"
	case DecisionForbidden:
		return "forbidden"
	case DecisionUpgradeRequired:
		return "upgrade-required"
	default:
		return "unknown"
	}
}

// StatusCode maps Decision to its HTTP status.
func (d Decision) StatusCode() int {
	switch d {
	case DecisionOK:
		return 200
	case DecisionUnauthorized:
		return 401
	case DecisionForbidden:
		return 403
	case DecisionUpgradeRequired:
		return 426
	default:
		return 500
	}
}

// Client is the immutable per-request view the orchestrator consumes.
type Client struct {
	Hostname              string
	IP                    [4]uint32
	Secured               bool
	Username              string
	Password              string // Basic / BasicDigest cleartext
	Response              string // Digest response hash
	Nonce                 string // Authorization nonce sub-field
	AuthorizationRaw      string
	Method                string
	URI                   string
	IPPRequestingUserName string // non-empty when the IPP request carries one
}

// Config is the process-wide, configuration-time-immutable state the
// engine needs, injected rather than read from globals.
type Config struct {
	ServerName      string
	DefaultAuthType location.CredentialType
	SystemGroups    []string
	RootUsername    string // defaults to "root"
}

func (c Config) rootUsername() string {
	if c.RootUsername == "" {
		return "root"
	}
	return c.RootUsername
}

// Observer receives a notification for every decision the orchestrator
// reaches; audit logging and metrics are wired in through this trait
// rather than baked into the decision logic itself.
type Observer interface {
	Observe(ctx context.Context, result DecisionResult)
}

// DecisionResult is what an Observer is told about a completed call.
type DecisionResult struct {
	Decision Decision
	Username string
	Hostname string
	Path     string
	Method   string
	Reason   string
}

type hostVerdict int

const (
	verdictDeny hostVerdict = iota
	verdictAllow
)

// Orchestrator implements is_authorized.
type Orchestrator struct {
	cfg      Config
	ifaces   hostmask.InterfaceSource
	db       identity.Database
	md5      identity.MD5Store
	verifier *credential.Verifier
	observer Observer
}

// New builds an Orchestrator. observer may be nil.
func New(cfg Config, ifaces hostmask.InterfaceSource, db identity.Database, md5 identity.MD5Store, verifier *credential.Verifier, observer Observer) *Orchestrator {
	return &Orchestrator{cfg: cfg, ifaces: ifaces, db: db, md5: md5, verifier: verifier, observer: observer}
}

// IsAuthorized decides whether client may proceed. loc is the
// best-matching location for the request (nil when find_best found
// none); owner is the resource owner's username, used for "@OWNER"
// principal matching (empty when the request has no associated owner).
func (o *Orchestrator) IsAuthorized(ctx context.Context, loc *location.Location, client Client, owner string) Decision {
	if loc == nil {
		if strings.EqualFold(client.Hostname, "localhost") || strings.EqualFold(client.Hostname, o.cfg.ServerName) {
			return o.finish(ctx, client, "", DecisionOK, "no policy; trusted host")
		}
		return o.finish(ctx, client, "", DecisionForbidden, "no policy; untrusted host")
	}

	auth := o.hostVerdict(loc, client)

	if loc.Satisfy == location.SatisfyAll && auth == verdictDeny {
		return o.finish(ctx, client, loc.Path, DecisionForbidden, "satisfy-all and host denied")
	}

	if loc.Encryption == location.EncryptionRequired && !client.Secured {
		return o.finish(ctx, client, loc.Path, DecisionUpgradeRequired, "encryption required")
	}

	if loc.Level == location.LevelAnonymous || (loc.Type == location.TypeNone && len(loc.Names) == 0) {
		return o.finish(ctx, client, loc.Path, DecisionOK, "anonymous shortcut")
	}

	if loc.Type == location.TypeNone && loc.Limit&location.LimitIPP != 0 && client.IPPRequestingUserName != "" {
		return o.finish(ctx, client, loc.Path, DecisionOK, "unauthenticated IPP bypass")
	}

	if client.Username == "" {
		if loc.Satisfy == location.SatisfyAll || auth == verdictDeny {
			return o.finish(ctx, client, loc.Path, DecisionUnauthorized, "no username presented")
		}
		return o.finish(ctx, client, loc.Path, DecisionOK, "host allow suffices under satisfy-any")
	}

	credType := loc.Type
	if credType == location.TypeNone {
		credType = o.cfg.DefaultAuthType
	}

	localCert := strings.EqualFold(client.Hostname, "localhost") && strings.HasPrefix(client.AuthorizationRaw, "Local")

	var user *identity.PasswdEntry
	if localCert {
		u, found := o.db.LookupUser(client.Username)
		if !found {
			identity.LogLookupFailure(client.Username)
		}
		user = u
	} else {
		outcome, err := o.verifier.Verify(ctx, credType, loc.Names, o.cfg.SystemGroups, credential.Request{
			Username: client.Username,
			Password: client.Password,
			Response: client.Response,
			Nonce:    client.Nonce,
			Method:   client.Method,
			URI:      client.URI,
			Hostname: client.Hostname,
		})
		if err != nil || outcome != credential.OutcomeOK {
			return o.finish(ctx, client, loc.Path, DecisionUnauthorized, "credential verification failed")
		}
		u, found := o.db.LookupUser(client.Username)
		if !found {
			identity.LogLookupFailure(client.Username)
		}
		user = u
	}

	if strings.EqualFold(client.Username, o.cfg.rootUsername()) {
		return o.finish(ctx, client, loc.Path, DecisionOK, "root bypass")
	}

	switch loc.Level {
	case location.LevelUser:
		if len(loc.Names) == 0 {
			return o.finish(ctx, client, loc.Path, DecisionOK, "user level, empty principal list")
		}
		for _, name := range loc.Names {
			if o.principalMatches(name, client.Username, user, owner) {
				return o.finish(ctx, client, loc.Path, DecisionOK, "principal match: "+name)
			}
		}
		return o.finish(ctx, client, loc.Path, DecisionUnauthorized, "no principal matched")

	case location.LevelGroup:
		if loc.Type != location.TypeBasic {
			return o.finish(ctx, client, loc.Path, DecisionOK, "group level, non-basic type")
		}
		for _, name := range loc.Names {
			group := strings.TrimPrefix(name, "@")
			if name == "@SYSTEM" {
				if identity.ExpandSystemGroups(o.db, o.md5, client.Username, user, o.cfg.SystemGroups) {
					return o.finish(ctx, client, loc.Path, DecisionOK, "system group match")
				}
				continue
			}
			if identity.CheckGroup(o.db, o.md5, client.Username, user, group) {
				return o.finish(ctx, client, loc.Path, DecisionOK, "group match: "+group)
			}
		}
		return o.finish(ctx, client, loc.Path, DecisionUnauthorized, "no group matched")

	default:
		return o.finish(ctx, client, loc.Path, DecisionOK, "no principal-level restriction")
	}
}

func (o *Orchestrator) principalMatches(name, username string, user *identity.PasswdEntry, owner string) bool {
	switch {
	case name == "@OWNER":
		return owner != "" && strings.EqualFold(username, owner)
	case name == "@SYSTEM":
		return identity.ExpandSystemGroups(o.db, o.md5, username, user, o.cfg.SystemGroups)
	case strings.HasPrefix(name, "@"):
		return identity.CheckGroup(o.db, o.md5, username, user, name[1:])
	default:
		return strings.EqualFold(name, username)
	}
}

// hostVerdict evaluates the allow/deny mask list: the second
// evaluation deliberately overwrites the first ("Allow wins"/"Deny
// wins" depending on order), mirroring Apache semantics.
func (o *Orchestrator) hostVerdict(loc *location.Location, client Client) hostVerdict {
	if strings.EqualFold(client.Hostname, "localhost") {
		return verdictAllow
	}

	switch loc.Order {
	case location.OrderDenyAllow:
		auth := verdictDeny
		if hostmask.Check(client.IP, client.Hostname, loc.Deny, o.ifaces) {
			auth = verdictDeny
		}
		if hostmask.Check(client.IP, client.Hostname, loc.Allow, o.ifaces) {
			auth = verdictAllow
		}
		return auth
	default: // location.OrderAllowDeny
		auth := verdictAllow
		if hostmask.Check(client.IP, client.Hostname, loc.Allow, o.ifaces) {
			auth = verdictAllow
		}
		if hostmask.Check(client.IP, client.Hostname, loc.Deny, o.ifaces) {
			auth = verdictDeny
		}
		return auth
	}
}

func (o *Orchestrator) finish(ctx context.Context, client Client, path string, decision Decision, reason string) Decision {
	if o.observer != nil {
		o.observer.Observe(ctx, DecisionResult{
			Decision: decision,
			Username: client.Username,
			Hostname: client.Hostname,
			Path:     path,
			Method:   client.Method,
			Reason:   reason,
		})
	}
	return decision
}
