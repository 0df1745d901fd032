// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres implements the repo.Pool, repo.Conn, and repo.Tx
// interfaces using GORM over the pgx PostgreSQL driver. Repository
// packages, named like listingsrp, use the Queryer type constraint
// in order to run their queries on either a Conn or a Tx.
package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/furucamera/pkg/core/cerr"
)

// PostgreSQL error codes which are reported to clients distinctly.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	codeUniqueViolation  = "23505"
	codeCheckViolation   = "23514"
	codeInvalidTextRepr  = "22P02"
	codeNotNullViolation = "23502"
	codeUndefinedTable   = "42P01"
)

// Classify wraps err with the client facing category of its
// PostgreSQL error code. Constraint violations are reported as bad
// requests or conflicts, while other errors (e.g., connection issues
// or a missing table) indicate an unavailable backend.
// A nil err is returned as nil.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	err = fmt.Errorf("%s: %w", op, err)
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return cerr.Unavailable(err)
	}
	switch pgErr.Code {
	case codeCheckViolation, codeNotNullViolation, codeInvalidTextRepr:
		return cerr.BadRequest(err)
	case codeUniqueViolation:
		return cerr.Conflict(err)
	default:
		return cerr.Unavailable(err)
	}
}

// IsUndefinedTable reports if err indicates a missing table, e.g.,
// when the database is not initialized yet.
func IsUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUndefinedTable
}
