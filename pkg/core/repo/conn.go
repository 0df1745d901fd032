// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// TxHandler is a callback which runs inside a database transaction.
// Returning a nil error commits the transaction and a non-nil error
// rolls it back.
type TxHandler func(context.Context, Tx) error

// Conn represents one database connection which is taken from a Pool.
// It is unsafe to be used concurrently.
type Conn interface {
	Queryer

	// Tx begins a transaction and passes it to the handler.
	Tx(ctx context.Context, handler TxHandler) error

	// IsConn method prevents a non-Conn object (such as a Tx) to
	// mistakenly implement the Conn interface.
	IsConn()
}
