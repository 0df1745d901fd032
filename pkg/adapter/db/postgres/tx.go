// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/momeni/furucamera/pkg/core/repo"
)

// Tx is a READ-COMMITTED transaction which is begun on a Conn.
// It is unsafe to be used concurrently.
type Tx struct {
	session
}

var _ repo.Tx = (*Tx)(nil)

// IsTx marks Tx as a repo.Tx.
func (tx *Tx) IsTx() {}

type TxHandler = repo.TxHandler

// Tx begins a transaction on c and runs f within it. The transaction
// is committed if f returns nil and is rolled back if f fails or
// panics. A panic is reported as an error after the rollback.
func (c *Conn) Tx(ctx context.Context, f TxHandler) (err error) {
	db := c.db.WithContext(ctx).Begin()
	if db.Error != nil {
		return fmt.Errorf("begin tx: %w", db.Error)
	}
	defer func() {
		r := recover()
		switch {
		case r != nil:
			err = fmt.Errorf("panicked: %v", r)
		case err == nil:
			if cerr := db.Commit().Error; cerr != nil {
				err = fmt.Errorf("commit: %w", cerr)
			}
			return
		default:
			err = fmt.Errorf("handler: %w", err)
		}
		if rerr := db.Rollback().Error; rerr != nil {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rerr))
		}
	}()
	return f(ctx, &Tx{session{db: db}})
}
