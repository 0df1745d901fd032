// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/furucamera/pkg/core/model"
)

// ListingsConnQueryer is the listings queryer which works with a Conn.
type ListingsConnQueryer interface {
	ListingsQueryer
}

// ListingsTxQueryer is the listings queryer which works within a Tx.
type ListingsTxQueryer interface {
	ListingsQueryer
}

// ListingsQueryer lists the queries over the listings table.
type ListingsQueryer interface {
	// List returns all listings, newest first (by created_at).
	List(ctx context.Context) ([]*model.Listing, error)

	// Create inserts one listing and returns it as persisted, having
	// the backend assigned id, created_at, and updated_at.
	Create(ctx context.Context, lf model.ListingFields) (*model.Listing, error)

	// Update applies the lp non-nil fields to the id listing and sets
	// its updated_at to the current clock time. A missing id results
	// in a not found error.
	Update(
		ctx context.Context, id uuid.UUID, lp model.ListingPatch,
	) (*model.Listing, error)

	// Delete removes the id listing and reports if it existed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// Count returns the number of listings.
	Count(ctx context.Context) (int64, error)

	// Seed inserts ls listings with their ids, skipping the ones which
	// exist already, and returns the number of inserted rows.
	Seed(ctx context.Context, ls []*model.Listing) (int64, error)
}

// Listings is the listings repository. Its Conn and Tx methods unwrap
// the given connection or transaction and bind the queries to them.
type Listings interface {
	Conn(Conn) ListingsConnQueryer
	Tx(Tx) ListingsTxQueryer
}
