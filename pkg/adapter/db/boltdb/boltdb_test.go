// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package boltdb_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/momeni/furucamera/pkg/adapter/db/boltdb"
	"github.com/momeni/furucamera/pkg/core/model"
	"github.com/momeni/furucamera/pkg/core/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ repo.FallbackStore = (*boltdb.Store)(nil)

func TestLoadSave(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fallback.db")
	s, err := boltdb.Open(path, time.Second)
	require.NoError(t, err)

	ls, ok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "nothing is stored yet")
	assert.Nil(t, ls)

	samples := model.Samples()
	require.NoError(t, s.Save(ctx, samples))
	ls, ok, err = s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, samples, ls)

	require.NoError(t, s.Save(ctx, nil))
	ls, ok, err = s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "stored empty array is not seeded again")
	assert.Equal(t, []*model.Listing{}, ls)
	require.NoError(t, s.Close())

	s, err = boltdb.Open(path, time.Second)
	require.NoError(t, err)
	defer s.Close()
	_, ok, err = s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "data must persist across reopening")
}
