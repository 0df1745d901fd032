// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package listingsuc contains the listings UseCase which supports the
// camera listings related use cases:
//  1. Listing, creating, updating, and deleting listings,
//  2. Uploading and deleting listing images,
//  3. Browsing the storefront, with a local fallback store when the
//     database is unreachable, and showing a product detail.
//
// Backend failures are logged and returned as cerr.Unavailable errors,
// together with a sentinel value (nil listing, empty slice, or false)
// so callers which only check the value observe a safe default.
package listingsuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/furucamera/pkg/core/cerr"
	"github.com/momeni/furucamera/pkg/core/log"
	"github.com/momeni/furucamera/pkg/core/model"
	"github.com/momeni/furucamera/pkg/core/repo"
)

// UseCase represents the listings use case. It holds a database
// connection pool, the listings repository instance (to be guided with
// the DB pool), the image object store, and the use case settings.
type UseCase struct {
	pool       repo.Pool
	listingsrp repo.Listings
	images     repo.ImageStore

	fallback     repo.FallbackStore
	bucket       string
	cacheTTL     time.Duration
	contactPhone string
	extOf        func(contentType string) string
	now          func() time.Time
}

// New instantiates a listings use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(
	p repo.Pool, l repo.Listings, s repo.ImageStore, opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{pool: p, listingsrp: l, images: s}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.bucket == "" {
		uc.bucket = DefaultBucket
	}
	if uc.cacheTTL == 0 {
		uc.cacheTTL = time.Hour
	}
	if uc.contactPhone == "" {
		uc.contactPhone = model.DefaultContactPhone
	}
	if uc.extOf == nil {
		uc.extOf = stdExtension
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc, nil
}

// backendErr makes sure that err carries a client facing category.
// Errors which are not categorized by the adapters (e.g., failing to
// acquire a connection) indicate an unavailable backend.
func backendErr(err error) error {
	var ce *cerr.Error
	if errors.As(err, &ce) {
		return err
	}
	return cerr.Unavailable(err)
}

// ListAll returns all listings, newest first. On failure, the error is
// logged and returned along with an empty (non-nil) slice, so callers
// which only check the slice observe an empty collection.
func (listings *UseCase) ListAll(ctx context.Context) ([]*model.Listing, error) {
	var ls []*model.Listing
	err := listings.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		ls, err = listings.listingsrp.Conn(c).List(ctx)
		return err
	})
	if err != nil {
		log.Error(ctx, "fetching listings failed", log.Err("err", err))
		return []*model.Listing{}, backendErr(fmt.Errorf("list: %w", err))
	}
	return ls, nil
}

// Create inserts a new listing with lf fields. The backend assigns its
// id and timestamps. A negative price is rejected as a bad request
// without reaching the database. On failure, a nil listing is returned
// and the error is logged.
func (listings *UseCase) Create(
	ctx context.Context, lf model.ListingFields,
) (*model.Listing, error) {
	if err := lf.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	if lf.Images == nil {
		lf.Images = []string{}
	}
	var l *model.Listing
	err := listings.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		l, err = listings.listingsrp.Conn(c).Create(ctx, lf)
		return err
	})
	if err != nil {
		log.Error(ctx, "creating listing failed",
			slog.String("title", lf.Title), log.Err("err", err),
		)
		return nil, backendErr(fmt.Errorf("create: %w", err))
	}
	log.Info(ctx, "listing created", log.UUID("id", l.ID))
	return l, nil
}

// Update merges the lp non-nil fields into the id listing and refreshes
// its updated_at timestamp. An unknown id results in a not found error.
// On failure, a nil listing is returned and the error is logged.
func (listings *UseCase) Update(
	ctx context.Context, id uuid.UUID, lp model.ListingPatch,
) (*model.Listing, error) {
	if err := lp.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	var l *model.Listing
	err := listings.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		l, err = listings.listingsrp.Conn(c).Update(ctx, id, lp)
		return err
	})
	if err != nil {
		log.Error(ctx, "updating listing failed",
			log.UUID("id", id), log.Err("err", err),
		)
		return nil, backendErr(fmt.Errorf("update %s: %w", id, err))
	}
	log.Info(ctx, "listing updated", log.UUID("id", id))
	return l, nil
}

// Delete removes the id listing and reports if the deletion succeeded.
// Deleting an absent listing succeeds too, so Delete is idempotent.
// On failure, false is returned and the error is logged.
func (listings *UseCase) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var found bool
	err := listings.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		found, err = listings.listingsrp.Conn(c).Delete(ctx, id)
		return err
	})
	if err != nil {
		log.Error(ctx, "deleting listing failed",
			log.UUID("id", id), log.Err("err", err),
		)
		return false, backendErr(fmt.Errorf("delete %s: %w", id, err))
	}
	if !found {
		log.Debug(ctx, "deleted listing was absent", log.UUID("id", id))
	}
	return true, nil
}
