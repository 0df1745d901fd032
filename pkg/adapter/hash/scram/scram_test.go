// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package scram_test

import (
	"strings"
	"testing"

	"github.com/momeni/furucamera/pkg/adapter/hash/scram"
	scrami "github.com/momeni/furucamera/pkg/core/scram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ scrami.HashVerifier = scram.SHA256()

func TestHashFormat(t *testing.T) {
	h, err := scram.SHA256().Hash("secret", "c2FsdHNhbHQ=", 4096)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(h, "SCRAM-SHA-256$4096:c2FsdHNhbHQ=$"))
	assert.Len(t, strings.Split(h, "$"), 3)

	_, err = scram.SHA256().Hash("", "", 4096)
	assert.Error(t, err)
	_, err = scram.SHA256().Hash("secret", "", 100)
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	m := scram.SHA256()
	h, err := m.Hash("camera-admin", "", scram.DefaultIters)
	require.NoError(t, err)

	ok, err := m.Verify("camera-admin", h)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Verify("camera-admin2", h)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = m.Verify("", h)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyMalformed(t *testing.T) {
	m := scram.SHA256()
	h1, err := scram.SHA1().Hash("pw", "", 4096)
	require.NoError(t, err)
	for _, tc := range []struct {
		name, hash string
	}{
		{"empty", ""},
		{"other mechanism", h1},
		{"no keys", "SCRAM-SHA-256$4096:c2FsdA=="},
		{"bad iters", "SCRAM-SHA-256$x:c2FsdA==$AA==:AA=="},
		{"bad key", "SCRAM-SHA-256$4096:c2FsdA==$!!:AA=="},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := m.Verify("pw", tc.hash)
			assert.Error(t, err)
		})
	}
}
