// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"bufio"
	"os"
	"strings"

	"github.com/opnprint/printd/internal/logging"
)

// MaxMD5FieldLength is the fixed field width passwd.md5 lines use,
// matching cupsdGetMD5Passwd's "%32[^:]:%32[^:]:%32s" scan.
const MaxMD5FieldLength = 32

// MD5File reads the line-based passwd.md5 fallback password store,
// re-reading the file on every lookup rather than caching entries.
type MD5File struct {
	Path string
}

// NewMD5File returns an MD5File reading from path.
func NewMD5File(path string) *MD5File {
	return &MD5File{Path: path}
}

// Lookup implements MD5Store: it returns the 32-char hex HA1 for the
// first line whose user matches exactly and whose group matches
// exactly (or group is "").
func (f *MD5File) Lookup(username, group string) (string, bool) {
	file, err := os.Open(f.Path)
	if err != nil {
		logging.Error().Err(err).Str("path", f.Path).Msg("identity: unable to open passwd.md5")
		return "", false
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.SplitN(line, ":", 3)
		if len(fields) != 3 {
			logging.Error().Str("line", line).Msg("identity: bad MD5 password line")
			continue
		}

		user, grp, hash := fields[0], fields[1], fields[2]
		if len(user) > MaxMD5FieldLength || len(grp) > MaxMD5FieldLength || len(hash) > MaxMD5FieldLength {
			logging.Error().Str("line", line).Msg("identity: bad MD5 password line")
			continue
		}

		if user == username && (group == "" || grp == group) {
			return hash, true
		}
	}
	if err := scanner.Err(); err != nil {
		logging.Error().Err(err).Str("path", f.Path).Msg("identity: error reading passwd.md5")
		return "", false
	}

	return "", false
}
