// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestOSDatabaseLookupUserWithShadow(t *testing.T) {
	dir := t.TempDir()
	passwd := writeTestFile(t, dir, "passwd", "alice:x:1000:1000:Alice:/home/alice:/bin/sh\nbob:x:1001:1001:Bob:/home/bob:/bin/sh\n")
	shadow := writeTestFile(t, dir, "shadow", "alice:$1$abc$def:19000:0:99999:7:::\n")

	db := &OSDatabase{PasswdPath: passwd, ShadowPath: shadow, GroupPath: filepath.Join(dir, "group")}

	entry, ok := db.LookupUser("alice")
	require.True(t, ok)
	assert.Equal(t, 1000, entry.GID)
	assert.True(t, entry.HasShadow)
	assert.Equal(t, "$1$abc$def", entry.EffectiveHash())
}

func TestOSDatabaseLookupUserWithoutShadowFallsBackToPasswdHash(t *testing.T) {
	dir := t.TempDir()
	passwd := writeTestFile(t, dir, "passwd", "carol:cryptedhash:1002:1002:Carol:/home/carol:/bin/sh\n")

	db := &OSDatabase{PasswdPath: passwd, ShadowPath: filepath.Join(dir, "missing-shadow"), GroupPath: filepath.Join(dir, "group")}

	entry, ok := db.LookupUser("carol")
	require.True(t, ok)
	assert.False(t, entry.HasShadow)
	assert.Equal(t, "cryptedhash", entry.EffectiveHash())
}

func TestOSDatabaseLookupUserMissing(t *testing.T) {
	dir := t.TempDir()
	passwd := writeTestFile(t, dir, "passwd", "alice:x:1000:1000:Alice:/home/alice:/bin/sh\n")

	db := &OSDatabase{PasswdPath: passwd, ShadowPath: filepath.Join(dir, "shadow"), GroupPath: filepath.Join(dir, "group")}

	_, ok := db.LookupUser("nobody")
	assert.False(t, ok)
}

func TestOSDatabaseLookupGroup(t *testing.T) {
	dir := t.TempDir()
	group := writeTestFile(t, dir, "group", "wheel:x:10:alice,bob\nstaff:x:20:\n")

	db := &OSDatabase{PasswdPath: filepath.Join(dir, "passwd"), ShadowPath: filepath.Join(dir, "shadow"), GroupPath: group}

	entry, ok := db.LookupGroup("wheel")
	require.True(t, ok)
	assert.Equal(t, 10, entry.GID)
	assert.True(t, entry.IsMember("alice"))
	assert.False(t, entry.IsMember("carol"))

	empty, ok := db.LookupGroup("staff")
	require.True(t, ok)
	assert.Empty(t, empty.Members)
}

func TestOSDatabaseLookupGroupMissing(t *testing.T) {
	dir := t.TempDir()
	group := writeTestFile(t, dir, "group", "wheel:x:10:alice\n")

	db := &OSDatabase{PasswdPath: filepath.Join(dir, "passwd"), ShadowPath: filepath.Join(dir, "shadow"), GroupPath: group}

	_, ok := db.LookupGroup("nosuch")
	assert.False(t, ok)
}
