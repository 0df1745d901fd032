// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package fakes is an internal helper for the test packages. It
// provides in-memory implementations of the repo interfaces, so use
// cases and restful resources may be tested without a PostgreSQL
// server or an object storage. Each fake has an Err field which makes
// its next operations fail, simulating an unreachable backend.
package fakes

import (
	"context"
	"errors"
	"sync"

	"github.com/momeni/furucamera/pkg/core/repo"
)

// ErrOffline is the default injected backend failure.
var ErrOffline = errors.New("backend is offline")

// Pool is a repo.Pool which hands out Conn instances without any
// real database connection.
type Pool struct {
	mu  sync.Mutex
	err error
}

// Fail makes the following Conn calls return err (if not nil).
func (p *Pool) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *Pool) Conn(ctx context.Context, handler repo.ConnHandler) error {
	p.mu.Lock()
	err := p.err
	p.mu.Unlock()
	if err != nil {
		return err
	}
	return handler(ctx, Conn{})
}

// Conn is a connection of the fake Pool. Its Exec and Query methods
// fail since fakes do not run SQL statements.
type Conn struct{}

var errNoSQL = errors.New("fake connections do not run SQL")

func (Conn) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errNoSQL
}

func (Conn) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, errNoSQL
}

func (c Conn) Tx(ctx context.Context, handler repo.TxHandler) error {
	return handler(ctx, Tx{})
}

func (Conn) IsConn() {}

// Tx is a transaction of the fake Conn.
type Tx struct{}

func (Tx) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errNoSQL
}

func (Tx) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, errNoSQL
}

func (Tx) IsTx() {}
