// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// Queryer is the common statement execution interface of Conn and Tx.
type Queryer interface {
	// Exec runs sql with args and returns the affected rows count.
	Exec(ctx context.Context, sql string, args ...any) (count int64, err error)

	// Query runs sql with args and returns the resulting rows.
	// Caller must close the returned rows.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// Rows is an iterator over a query result.
type Rows interface {
	Close()
	Err() error
	Next() bool
	Scan(dest ...any) error
	Values() ([]any, error)
}
