// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo defines the repository interfaces which are implemented
// by the adapters layer and are used by the use cases layer. The
// listings repository is backed by a relational database, while images
// are kept by an object store and the storefront fallback listings are
// kept by a local key/value store.
package repo

import "context"

// ConnHandler is a callback which is given a connection taken from
// a Pool. The connection is released after the callback returns.
type ConnHandler func(context.Context, Conn) error

// Pool represents a database connection pool.
// It is safe to be used concurrently.
type Pool interface {
	// Conn acquires a connection and passes it to the handler.
	// Returned error is the handler error or an acquisition error.
	Conn(ctx context.Context, handler ConnHandler) error
}
