// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"
	"errors"
	"io"
)

// ErrObjectExists indicates that an object with the same key exists
// in the bucket and it may not be overwritten.
var ErrObjectExists = errors.New("object already exists")

// Object is a blob which is going to be put in an ImageStore.
type Object struct {
	Key          string
	Body         io.Reader
	Size         int64 // -1 if unknown
	ContentType  string
	CacheControl string
}

// ImageStore is an S3-compatible object storage which keeps the
// uploaded listing images. All methods are safe for concurrent use.
type ImageStore interface {
	// Put stores obj in bucket without overwriting an existing object.
	// If obj.Key exists, ErrObjectExists is returned.
	Put(ctx context.Context, bucket string, obj Object) error

	// URL returns the publicly reachable URL of the key object.
	URL(bucket, key string) string

	// Exists reports if the key object is present in bucket.
	Exists(ctx context.Context, bucket, key string) (bool, error)

	// Remove deletes the key object from bucket.
	Remove(ctx context.Context, bucket, key string) error
}
