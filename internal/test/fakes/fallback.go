// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fakes

import (
	"context"
	"sync"

	"github.com/momeni/furucamera/pkg/core/model"
)

// FallbackStore is an in-memory repo.FallbackStore.
type FallbackStore struct {
	mu    sync.Mutex
	ls    []*model.Listing
	ok    bool
	saves int
	err   error
}

// Fail makes the following operations return err (if not nil).
func (fs *FallbackStore) Fail(err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.err = err
}

// Saves returns the number of successful Save calls.
func (fs *FallbackStore) Saves() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.saves
}

func (fs *FallbackStore) Load(context.Context) ([]*model.Listing, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.err != nil {
		return nil, false, fs.err
	}
	out := make([]*model.Listing, 0, len(fs.ls))
	for _, l := range fs.ls {
		out = append(out, clone(l))
	}
	return out, fs.ok, nil
}

func (fs *FallbackStore) Save(_ context.Context, ls []*model.Listing) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.err != nil {
		return fs.err
	}
	fs.ls = make([]*model.Listing, 0, len(ls))
	for _, l := range ls {
		fs.ls = append(fs.ls, clone(l))
	}
	fs.ok = true
	fs.saves++
	return nil
}
