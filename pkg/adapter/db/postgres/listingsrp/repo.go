// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package listingsrp implements the repo.Listings interface over the
// listings table of a PostgreSQL database.
package listingsrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/furucamera/pkg/adapter/db/postgres"
	"github.com/momeni/furucamera/pkg/core/model"
	"github.com/momeni/furucamera/pkg/core/repo"
)

// Repo is the stateless listings repository. Its queries are bound to
// a connection or transaction by the Conn and Tx methods.
type Repo struct{}

var _ repo.Listings = (*Repo)(nil)

// New instantiates the listings repository.
func New() *Repo {
	return &Repo{}
}

// Conn binds the listings queries to c which must be a *postgres.Conn.
func (listings *Repo) Conn(c repo.Conn) repo.ListingsConnQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

// Tx binds the listings queries to tx which must be a *postgres.Tx.
func (listings *Repo) Tx(tx repo.Tx) repo.ListingsTxQueryer {
	return queryer[*postgres.Tx]{q: tx.(*postgres.Tx)}
}

type queryer[Q postgres.Queryer] struct {
	q Q
}

func (lq queryer[Q]) List(ctx context.Context) ([]*model.Listing, error) {
	return List(ctx, lq.q)
}

func (lq queryer[Q]) Create(ctx context.Context, lf model.ListingFields) (*model.Listing, error) {
	return Create(ctx, lq.q, lf)
}

func (lq queryer[Q]) Update(ctx context.Context, id uuid.UUID, lp model.ListingPatch) (*model.Listing, error) {
	return Update(ctx, lq.q, id, lp)
}

func (lq queryer[Q]) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return Delete(ctx, lq.q, id)
}

func (lq queryer[Q]) Count(ctx context.Context) (int64, error) {
	return Count(ctx, lq.q)
}

func (lq queryer[Q]) Seed(ctx context.Context, ls []*model.Listing) (int64, error) {
	return Seed(ctx, lq.q, ls)
}
