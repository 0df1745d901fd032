// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package listingsrp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/momeni/furucamera/pkg/adapter/db/postgres"
	"github.com/momeni/furucamera/pkg/core/cerr"
	"github.com/momeni/furucamera/pkg/core/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const insertListing = `INSERT INTO listings(
	title, description, price, images, condition, year, brand
) VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id, title, description, price, images, condition, year, brand,
	created_at, updated_at`

const seedListing = `INSERT INTO listings(
	id, title, description, price, images, condition, year, brand
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO NOTHING`

func models(gls []gListing) []*model.Listing {
	ls := make([]*model.Listing, 0, len(gls))
	for i := range gls {
		ls = append(ls, gls[i].Model())
	}
	return ls
}

func List[Q postgres.Queryer](ctx context.Context, q Q) ([]*model.Listing, error) {
	var gls []gListing
	res := q.GORM(ctx).Order("created_at DESC").Find(&gls)
	if err := res.Error; err != nil {
		return nil, postgres.Classify("select listings", err)
	}
	return models(gls), nil
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, lf model.ListingFields) (*model.Listing, error) {
	var gls []gListing
	res := q.GORM(ctx).Raw(
		insertListing,
		lf.Title, lf.Description, lf.Price, imageList(lf.Images),
		lf.Condition, lf.Year, lf.Brand,
	).Scan(&gls)
	if err := res.Error; err != nil {
		return nil, postgres.Classify("insert listing", err)
	}
	if n := len(gls); n != 1 {
		return nil, cerr.Unavailable(
			fmt.Errorf("expected one inserted row, but got %d", n),
		)
	}
	return gls[0].Model(), nil
}

func patchColumns(lp model.ListingPatch) map[string]any {
	cols := make(map[string]any, 8)
	if lp.Title != nil {
		cols["title"] = *lp.Title
	}
	if lp.Description != nil {
		cols["description"] = *lp.Description
	}
	if lp.Price != nil {
		cols["price"] = *lp.Price
	}
	if lp.Images != nil {
		cols["images"] = imageList(*lp.Images)
	}
	if lp.Condition != nil {
		cols["condition"] = *lp.Condition
	}
	if lp.Year != nil {
		cols["year"] = *lp.Year
	}
	if lp.Brand != nil {
		cols["brand"] = *lp.Brand
	}
	// now() is frozen within a transaction, but clock_timestamp() is not
	cols["updated_at"] = gorm.Expr("clock_timestamp()")
	return cols
}

func Update[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID, lp model.ListingPatch) (*model.Listing, error) {
	var gls []gListing
	res := q.GORM(ctx).Model(&gls).Clauses(clause.Returning{}).Where(
		"id = ?", id,
	).Updates(patchColumns(lp))
	if err := res.Error; err != nil {
		return nil, postgres.Classify("update listing", err)
	}
	if n := len(gls); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("listing %s: expected one row, but got %d", id, n),
		)
	}
	return gls[0].Model(), nil
}

func Delete[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID) (bool, error) {
	res := q.GORM(ctx).Where("id = ?", id).Delete(&gListing{})
	if err := res.Error; err != nil {
		return false, postgres.Classify("delete listing", err)
	}
	return res.RowsAffected > 0, nil
}

func Count[Q postgres.Queryer](ctx context.Context, q Q) (int64, error) {
	var n int64
	res := q.GORM(ctx).Model(&gListing{}).Count(&n)
	if err := res.Error; err != nil {
		return 0, postgres.Classify("count listings", err)
	}
	return n, nil
}

func Seed[Q postgres.Queryer](ctx context.Context, q Q, ls []*model.Listing) (int64, error) {
	var total int64
	for _, l := range ls {
		n, err := q.Exec(
			ctx, seedListing,
			l.ID, l.Title, l.Description, l.Price, imageList(l.Images),
			l.Condition, l.Year, l.Brand,
		)
		if err != nil {
			return total, postgres.Classify("seed listing", err)
		}
		total += n
	}
	return total, nil
}
