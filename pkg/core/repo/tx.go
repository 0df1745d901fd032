// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Tx is a database transaction which is begun by Conn.Tx.
// It is unsafe to be used concurrently. Statements of one Tx observe
// the READ-COMMITTED isolation level of PostgreSQL by default, so
// listings which are committed by other admins in the meantime may be
// visible to the following statements.
type Tx interface {
	Queryer

	// IsTx keeps a Conn from implementing the Tx interface.
	IsTx()
}
