// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package schemarp

import (
	"context"
	"fmt"

	"github.com/momeni/furucamera/pkg/adapter/db/postgres"
)

// ddl statements are executed one at a time, so a failing statement
// may be identified in the returned error.
var ddl = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
	`CREATE TABLE IF NOT EXISTS listings (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	title text NOT NULL DEFAULT '',
	description text NOT NULL DEFAULT '',
	price double precision NOT NULL DEFAULT 0 CHECK (price >= 0),
	images jsonb NOT NULL DEFAULT '[]'::jsonb,
	condition text NOT NULL DEFAULT '',
	year text NOT NULL DEFAULT '',
	brand text NOT NULL DEFAULT '',
	created_at timestamptz NOT NULL DEFAULT clock_timestamp(),
	updated_at timestamptz NOT NULL DEFAULT clock_timestamp()
)`,
	`CREATE INDEX IF NOT EXISTS listings_created_at_idx
	ON listings (created_at DESC)`,
}

// CreateTables creates the listings table and its index if they are
// missing. Existing tables are left intact.
func CreateTables[Q postgres.Queryer](ctx context.Context, q Q) error {
	for i, stmt := range ddl {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return postgres.Classify(
				fmt.Sprintf("ddl statement #%d", i+1), err,
			)
		}
	}
	return nil
}
