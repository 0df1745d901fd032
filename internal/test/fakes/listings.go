// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fakes

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/furucamera/pkg/core/cerr"
	"github.com/momeni/furucamera/pkg/core/model"
	"github.com/momeni/furucamera/pkg/core/repo"
)

// Listings is an in-memory repo.Listings. Its clock moves forward by
// one millisecond per mutation, so timestamps are strictly ordered.
type Listings struct {
	mu    sync.Mutex
	rows  []*model.Listing // in insertion order
	clock time.Time
	err   error
	calls int
}

// NewListings creates an empty in-memory listings repository.
func NewListings() *Listings {
	return &Listings{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Fail makes the following queries return err (if not nil).
func (ls *Listings) Fail(err error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.err = err
}

// Calls returns the number of queries which were run so far.
func (ls *Listings) Calls() int {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.calls
}

func (ls *Listings) Conn(repo.Conn) repo.ListingsConnQueryer {
	return queryer{ls}
}

func (ls *Listings) Tx(repo.Tx) repo.ListingsTxQueryer {
	return queryer{ls}
}

type queryer struct {
	*Listings
}

func clone(l *model.Listing) *model.Listing {
	c := *l
	c.Images = append([]string{}, l.Images...)
	if l.CreatedAt != nil {
		t := *l.CreatedAt
		c.CreatedAt = &t
	}
	if l.UpdatedAt != nil {
		t := *l.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}

// begin locks ls and counts a query, returning the injected failure.
// Caller must unlock ls.mu.
func (q queryer) begin() error {
	q.mu.Lock()
	q.calls++
	if q.err != nil {
		return cerr.Unavailable(fmt.Errorf("query: %w", q.err))
	}
	return nil
}

func (q queryer) tick() *time.Time {
	q.clock = q.clock.Add(time.Millisecond)
	t := q.clock
	return &t
}

func (q queryer) List(context.Context) ([]*model.Listing, error) {
	defer q.mu.Unlock()
	if err := q.begin(); err != nil {
		return nil, err
	}
	out := make([]*model.Listing, 0, len(q.rows))
	for i := len(q.rows) - 1; i >= 0; i-- {
		out = append(out, clone(q.rows[i]))
	}
	return out, nil
}

func (q queryer) Create(_ context.Context, lf model.ListingFields) (*model.Listing, error) {
	defer q.mu.Unlock()
	if err := q.begin(); err != nil {
		return nil, err
	}
	now := q.tick()
	l := &model.Listing{
		ID:            uuid.New(),
		ListingFields: lf,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	l = clone(l)
	q.rows = append(q.rows, l)
	return clone(l), nil
}

func (q queryer) Update(_ context.Context, id uuid.UUID, lp model.ListingPatch) (*model.Listing, error) {
	defer q.mu.Unlock()
	if err := q.begin(); err != nil {
		return nil, err
	}
	l := model.FindListing(q.rows, id)
	if l == nil {
		return nil, cerr.NotFound(fmt.Errorf("listing %s", id))
	}
	l.ListingFields = lp.Apply(l.ListingFields)
	l.UpdatedAt = q.tick()
	return clone(l), nil
}

func (q queryer) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	defer q.mu.Unlock()
	if err := q.begin(); err != nil {
		return false, err
	}
	for i, l := range q.rows {
		if l.ID == id {
			q.rows = append(q.rows[:i], q.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (q queryer) Count(context.Context) (int64, error) {
	defer q.mu.Unlock()
	if err := q.begin(); err != nil {
		return 0, err
	}
	return int64(len(q.rows)), nil
}

func (q queryer) Seed(_ context.Context, ls []*model.Listing) (int64, error) {
	defer q.mu.Unlock()
	if err := q.begin(); err != nil {
		return 0, err
	}
	var n int64
	for _, l := range ls {
		if model.FindListing(q.rows, l.ID) != nil {
			continue
		}
		c := clone(l)
		c.CreatedAt = q.tick()
		c.UpdatedAt = c.CreatedAt
		q.rows = append(q.rows, c)
		n++
	}
	return n, nil
}
