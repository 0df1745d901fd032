// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package boltdb implements the repo.FallbackStore interface using a
// local bbolt key/value database file. The storefront listings which
// must be shown when the main database is unreachable are kept as one
// JSON encoded array under a fixed key.
package boltdb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/momeni/furucamera/pkg/core/log"
	"github.com/momeni/furucamera/pkg/core/model"
	bolt "go.etcd.io/bbolt"
)

// Names of the bucket and key which keep the fallback listings.
const (
	Bucket = "storefront"
	Key    = "cameraListings"
)

// Store is a fallback listings store. It is safe for concurrent use.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the path database file. If another process
// holds the file, Open waits up to timeout before failing.
func Open(path string, timeout time.Duration) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(Bucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating %q bucket: %w", Bucket, err)
	}
	return &Store{db: db}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the stored listings. The ok flag is false if nothing
// was stored yet, so the caller may seed the store.
func (s *Store) Load(ctx context.Context) (ls []*model.Listing, ok bool, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(Bucket)).Get([]byte(Key))
		if v == nil {
			return nil
		}
		ok = true
		// v is only valid during the transaction, but Unmarshal copies
		return json.Unmarshal(v, &ls)
	})
	if err != nil {
		return nil, false, fmt.Errorf("loading %s/%s: %w", Bucket, Key, err)
	}
	if ok && ls == nil {
		ls = []*model.Listing{}
	}
	return ls, ok, nil
}

// Save replaces the stored listings by ls.
func (s *Store) Save(ctx context.Context, ls []*model.Listing) error {
	if ls == nil {
		ls = []*model.Listing{}
	}
	v, err := json.Marshal(ls)
	if err != nil {
		return fmt.Errorf("marshaling listings: %w", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(Bucket)).Put([]byte(Key), v)
	})
	if err != nil {
		return fmt.Errorf("saving %s/%s: %w", Bucket, Key, err)
	}
	log.Debug(ctx, "fallback listings are saved", slog.Int("count", len(ls)))
	return nil
}
