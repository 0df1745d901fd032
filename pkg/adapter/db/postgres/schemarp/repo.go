// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schemarp implements the repo.Schema interface which creates
// the listings table of a fresh installation.
package schemarp

import (
	"context"

	"github.com/momeni/furucamera/pkg/adapter/db/postgres"
	"github.com/momeni/furucamera/pkg/core/repo"
)

// Repo is the stateless schema repository.
type Repo struct{}

var _ repo.Schema = (*Repo)(nil)

// New instantiates the schema repository.
func New() *Repo {
	return &Repo{}
}

// Tx binds the DDL statements to tx which must be a *postgres.Tx, so
// a half-created schema is never committed.
func (schema *Repo) Tx(tx repo.Tx) repo.SchemaQueryer {
	return txQueryer{tx: tx.(*postgres.Tx)}
}

type txQueryer struct {
	tx *postgres.Tx
}

func (tq txQueryer) CreateTables(ctx context.Context) error {
	return CreateTables(ctx, tq.tx)
}
