// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package listingsuc

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/momeni/furucamera/pkg/core/cerr"
	"github.com/momeni/furucamera/pkg/core/log"
	"github.com/momeni/furucamera/pkg/core/model"
	"github.com/momeni/furucamera/pkg/core/repo"
)

// Source tells where the storefront listings were read from.
type Source string

const (
	SourceBackend  Source = "backend"
	SourceFallback Source = "fallback"
)

// Browse returns the storefront listings. They are read from the
// database by ListAll. If that read fails and a fallback store is
// configured, the stored listings are returned instead. A fallback
// store which holds nothing yet is seeded with the sample listings
// which are returned too.
func (listings *UseCase) Browse(ctx context.Context) ([]*model.Listing, Source, error) {
	ls, err := listings.ListAll(ctx)
	if err == nil {
		return ls, SourceBackend, nil
	}
	if listings.fallback == nil {
		return ls, SourceBackend, err
	}
	fls, ferr := listings.loadFallback(ctx)
	if ferr != nil {
		return []*model.Listing{}, SourceFallback, errors.Join(err, ferr)
	}
	log.Warn(ctx, "browsing fallback listings", log.Err("cause", err))
	return fls, SourceFallback, nil
}

func (listings *UseCase) loadFallback(ctx context.Context) ([]*model.Listing, error) {
	ls, ok, err := listings.fallback.Load(ctx)
	if err != nil {
		log.Error(ctx, "loading fallback listings failed", log.Err("err", err))
		return nil, cerr.Unavailable(fmt.Errorf("fallback load: %w", err))
	}
	if ok {
		return ls, nil
	}
	ls = model.Samples()
	if err = listings.fallback.Save(ctx, ls); err != nil {
		// samples are still shown, they will be saved next time
		log.Warn(ctx, "seeding fallback listings failed", log.Err("err", err))
	}
	return ls, nil
}

// Detail returns the id listing and up to model.MaxRelated listings
// which are related to it, as selected by model.Related among the
// browsed listings. A listing which is missing from the database is
// looked up in the fallback store too, if that store holds listings
// already. It is not seeded in this case. An unknown id results in a
// not found error.
func (listings *UseCase) Detail(
	ctx context.Context, id uuid.UUID,
) (*model.Listing, []*model.Listing, error) {
	ls, src, err := listings.Browse(ctx)
	if err != nil {
		return nil, nil, err
	}
	l := model.FindListing(ls, id)
	if l == nil && src == SourceBackend && listings.fallback != nil {
		fls, ok, ferr := listings.fallback.Load(ctx)
		if ferr != nil {
			log.Warn(ctx, "loading fallback listings failed", log.Err("err", ferr))
		} else if ok {
			if fl := model.FindListing(fls, id); fl != nil {
				ls, l = fls, fl
			}
		}
	}
	if l == nil {
		return nil, nil, cerr.NotFound(fmt.Errorf("listing %s", id))
	}
	return l, model.Related(l, ls), nil
}

// ContactLink returns the chat deep link which asks the seller about
// the id listing.
func (listings *UseCase) ContactLink(ctx context.Context, id uuid.UUID) (string, error) {
	l, _, err := listings.Detail(ctx, id)
	if err != nil {
		return "", err
	}
	return model.ContactLink(listings.contactPhone, l), nil
}

// Status describes the database connectivity.
type Status struct {
	Connected bool
	Listings  int64 // number of rows, valid if Connected
}

// State returns connected or offline.
func (s Status) State() string {
	if s.Connected {
		return "connected"
	}
	return "offline"
}

// Status counts the listings in order to check the database
// connectivity. Failures are logged and reported as offline.
func (listings *UseCase) Status(ctx context.Context) Status {
	var n int64
	err := listings.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		n, err = listings.listingsrp.Conn(c).Count(ctx)
		return err
	})
	if err != nil {
		log.Error(ctx, "database connection check failed", log.Err("err", err))
		return Status{}
	}
	return Status{Connected: true, Listings: n}
}
