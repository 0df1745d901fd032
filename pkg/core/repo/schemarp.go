// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// SchemaQueryer manages the database tables of the listings.
type SchemaQueryer interface {
	// CreateTables creates the listings table and its indices
	// unless they exist already.
	CreateTables(ctx context.Context) error
}

// Schema is the schema management repository.
type Schema interface {
	Tx(Tx) SchemaQueryer
}
