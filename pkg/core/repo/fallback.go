// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/furucamera/pkg/core/model"
)

// FallbackStore is a local store which keeps a copy of the storefront
// listings, so they can be shown when the database is unreachable.
type FallbackStore interface {
	// Load returns the stored listings. The ok result is false when
	// nothing is stored yet.
	Load(ctx context.Context) (ls []*model.Listing, ok bool, err error)

	// Save replaces the stored listings with ls.
	Save(ctx context.Context, ls []*model.Listing) error
}
