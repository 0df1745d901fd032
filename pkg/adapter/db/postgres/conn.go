// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"

	"github.com/momeni/furucamera/pkg/core/repo"
	"gorm.io/gorm"
)

// session runs statements on one GORM session, which is either bound
// to a dedicated connection or to a transaction. Parameters in sql may
// be numbered like $1, $2, etc. or use the ? and @name placeholders
// of GORM. With args, sql must contain exactly one statement.
type session struct {
	db *gorm.DB
}

// Exec runs sql with args and returns the number of affected rows.
func (s session) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	res := s.db.WithContext(ctx).Exec(sql, args...)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// Query runs sql with args and returns its result set. No other
// statement may run on the same session until the returned rows are
// closed.
func (s session) Query(ctx context.Context, sql string, args ...any) (repo.Rows, error) {
	rows, err := s.db.WithContext(ctx).Raw(sql, args...).Rows()
	return rowsAdapter{rows}, err
}

// GORM returns the session *gorm.DB which operates on ctx, so the
// repository packages may build their queries with GORM.
func (s session) GORM(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// Conn is one database connection which is taken from a Pool.
// It is unsafe to be used concurrently.
type Conn struct {
	session
}

var _ repo.Conn = (*Conn)(nil)

// IsConn marks Conn as a repo.Conn.
func (c *Conn) IsConn() {}
