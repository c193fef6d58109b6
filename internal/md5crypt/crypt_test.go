// printd - authorization core for a CUPS-compatible print server daemon
// Copyright 2026 opnprint contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package md5crypt

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCryptIsDeterministic(t *testing.T) {
	a := Crypt("hunter2", "$1$abcdefgh$")
	b := Crypt("hunter2", "$1$abcdefgh$")
	assert.Equal(t, a, b)
}

func TestCryptFormat(t *testing.T) {
	hash := Crypt("hunter2", "$1$abcdefgh$")
	assert.True(t, strings.HasPrefix(hash, "$1$abcdefgh$"))

	fields := strings.Split(hash, "$")
	// "", "1", "abcdefgh", "<22 chars>"
	if assert.Len(t, fields, 4) {
		assert.Equal(t, "1", fields[1])
		assert.Equal(t, "abcdefgh", fields[2])
		assert.Len(t, fields[3], 22)
	}
}

func TestCryptDifferentPasswordsDiffer(t *testing.T) {
	a := Crypt("hunter2", "$1$abcdefgh$")
	b := Crypt("hunter3", "$1$abcdefgh$")
	assert.NotEqual(t, a, b)
}

func TestCryptDifferentSaltsDiffer(t *testing.T) {
	a := Crypt("hunter2", "$1$aaaaaaaa$")
	b := Crypt("hunter2", "$1$bbbbbbbb$")
	assert.NotEqual(t, a, b)
}

func TestCryptAcceptsFullHashAsSaltSource(t *testing.T) {
	full := Crypt("hunter2", "$1$abcdefgh$")
	again := Crypt("hunter2", full)
	assert.Equal(t, full, again)
}

func TestSaltDataTruncatesToEightChars(t *testing.T) {
	hash := Crypt("x", "$1$0123456789$")
	assert.True(t, strings.HasPrefix(hash, "$1$01234567$"))
}

func TestSaltDataStopsAtDollar(t *testing.T) {
	hash := Crypt("x", "$1$abc$")
	assert.True(t, strings.HasPrefix(hash, "$1$abc$"))
}

func TestTo64Encoding(t *testing.T) {
	assert.Equal(t, ".", to64(0, 1))
	assert.Equal(t, "/", to64(1, 1))
	assert.Equal(t, "0", to64(2, 1))
}

func TestIsMD5Crypt(t *testing.T) {
	assert.True(t, IsMD5Crypt("$1$abc$def"))
	assert.False(t, IsMD5Crypt("abc123"))
}

type fakeTraditional struct {
	hash string
	err  error
}

func (f *fakeTraditional) Crypt(password, salt string) (string, error) {
	return f.hash, f.err
}

func TestVerifyMD5Scheme(t *testing.T) {
	hash := Crypt("hunter2", "$1$abcdefgh$")
	assert.True(t, Verify("hunter2", hash, nil))
	assert.False(t, Verify("wrong", hash, nil))
}

func TestVerifyTraditionalScheme(t *testing.T) {
	trad := &fakeTraditional{hash: "ab12cd34efgh"}
	assert.True(t, Verify("hunter2", "ab12cd34efgh", trad))
}

func TestVerifyTraditionalWithoutCollaboratorFailsClosed(t *testing.T) {
	assert.False(t, Verify("hunter2", "ab12cd34efgh", nil))
}

func TestVerifyTraditionalErrorFailsClosed(t *testing.T) {
	trad := &fakeTraditional{err: errors.New("boom")}
	assert.False(t, Verify("hunter2", "ab12cd34efgh", trad))
}

func TestVerifyEmptyStoredFailsClosed(t *testing.T) {
	assert.False(t, Verify("hunter2", "", nil))
}
