// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/opnprint/printd/internal/logging"
)

// OSDatabase implements Database against the platform's flat-file user
// database (/etc/passwd, /etc/shadow, /etc/group), the concrete
// collaborator behind getpwnam()/getgrnam() on a Unix host. Go's
// os/user package is deliberately not used here: it exposes no
// password hash, since glibc keeps that in /etc/shadow behind
// getspnam(), so authentication needs the files read directly.
//
// Each lookup re-reads its file, matching MD5File's "no caching"
// stance and cupsd's own getpwnam_r()/getspnam_r() semantics.
type OSDatabase struct {
	PasswdPath string
	ShadowPath string
	GroupPath  string
}

// DefaultOSDatabase returns an OSDatabase reading the standard system
// paths.
func DefaultOSDatabase() *OSDatabase {
	return &OSDatabase{
		PasswdPath: "/etc/passwd",
		ShadowPath: "/etc/shadow",
		GroupPath:  "/etc/group",
	}
}

// LookupUser implements Database.
func (d *OSDatabase) LookupUser(username string) (*PasswdEntry, bool) {
	entry, ok := d.lookupPasswd(username)
	if !ok {
		return nil, false
	}

	if shadow, ok := d.lookupShadow(username); ok {
		entry.HasShadow = true
		entry.ShadowHash = shadow
	}

	return entry, true
}

func (d *OSDatabase) lookupPasswd(username string) (*PasswdEntry, bool) {
	file, err := os.Open(d.PasswdPath)
	if err != nil {
		logging.Error().Err(err).Str("path", d.PasswdPath).Msg("identity: unable to open passwd database")
		return nil, false
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ":")
		// name:passwd:uid:gid:gecos:home:shell
		if len(fields) < 7 || fields[0] != username {
			continue
		}
		gid, _ := strconv.Atoi(fields[3])
		return &PasswdEntry{
			Username:     fields[0],
			GID:          gid,
			PasswordHash: fields[1],
		}, true
	}
	return nil, false
}

func (d *OSDatabase) lookupShadow(username string) (string, bool) {
	file, err := os.Open(d.ShadowPath)
	if err != nil {
		// /etc/shadow is usually root-only; a permission failure here
		// just means authentication falls back to the passwd hash.
		return "", false
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ":")
		// name:passwd:lastchg:min:max:warn:inactive:expire
		if len(fields) < 2 || fields[0] != username {
			continue
		}
		return fields[1], true
	}
	return "", false
}

// LookupGroup implements Database.
func (d *OSDatabase) LookupGroup(name string) (*GroupEntry, bool) {
	file, err := os.Open(d.GroupPath)
	if err != nil {
		logging.Error().Err(err).Str("path", d.GroupPath).Msg("identity: unable to open group database")
		return nil, false
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ":")
		// name:passwd:gid:members
		if len(fields) < 4 || fields[0] != name {
			continue
		}
		gid, _ := strconv.Atoi(fields[2])
		var members []string
		if fields[3] != "" {
			members = strings.Split(fields[3], ",")
		}
		return &GroupEntry{Name: fields[0], GID: gid, Members: members}, true
	}
	return nil, false
}
