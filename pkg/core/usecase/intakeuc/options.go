// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package intakeuc

import (
	"errors"
	"fmt"
	"time"
)

// Option represents a configuration option of the intake use case.
// Each option may be passed at most once to the New function.
type Option func(r *Registry) error

// WithMaxBatch limits the number of image files which may be added by
// a single drop or file selection. Larger batches are rejected as a
// whole. Default value is DefaultMaxBatch.
func WithMaxBatch(n int) Option {
	return func(r *Registry) error {
		if n < 1 {
			return fmt.Errorf("max batch size (%d) is not positive", n)
		}
		if r.maxBatch != 0 {
			return errors.New("max batch size is already configured")
		}
		r.maxBatch = n
		return nil
	}
}

// WithParallelism limits the number of files of a batch which may be
// uploaded concurrently. Default value is 1, so files are uploaded one
// after the other.
func WithParallelism(n int) Option {
	return func(r *Registry) error {
		if n < 1 {
			return fmt.Errorf("parallelism (%d) is not positive", n)
		}
		if r.parallelism != 0 {
			return errors.New("parallelism is already configured")
		}
		r.parallelism = n
		return nil
	}
}

// WithOrphanPolicy chooses what happens to the stored object of an
// image which is removed from a draft. Default policy is OrphanKeep.
func WithOrphanPolicy(p OrphanPolicy) Option {
	return func(r *Registry) error {
		if _, err := ParseOrphanPolicy(string(p)); err != nil {
			return err
		}
		if r.orphans != "" {
			return errors.New("orphan policy is already configured")
		}
		r.orphans = p
		return nil
	}
}

// WithDraftTTL sets how long an untouched draft is kept in the
// registry. Default value is DefaultDraftTTL.
func WithDraftTTL(ttl time.Duration) Option {
	return func(r *Registry) error {
		if ttl < time.Second {
			return fmt.Errorf("draft ttl (%v) is less than 1s", ttl)
		}
		if r.ttl != 0 {
			return errors.New("draft ttl is already configured")
		}
		r.ttl = ttl
		return nil
	}
}

// WithObserver registers an observer which is informed about the
// processed and rejected batches.
func WithObserver(o Observer) Option {
	return func(r *Registry) error {
		if o == nil {
			return errors.New("observer is nil")
		}
		if r.observer != nil {
			return errors.New("observer is already configured")
		}
		r.observer = o
		return nil
	}
}

// WithClock replaces the time.Now function which is used for tracking
// the drafts idle times.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		if r.now != nil {
			return errors.New("clock is already configured")
		}
		r.now = now
		return nil
	}
}
