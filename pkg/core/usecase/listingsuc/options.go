// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package listingsuc

import (
	"errors"
	"fmt"
	"time"

	"github.com/momeni/furucamera/pkg/core/repo"
)

// Option is a functional option for the listings use case.
type Option func(uc *UseCase) error

// WithBucket option configures the default object storage bucket of
// the uploaded images. Without this option, DefaultBucket is used.
func WithBucket(bucket string) Option {
	return func(uc *UseCase) error {
		if bucket == "" {
			return errors.New("bucket name is empty")
		}
		if uc.bucket != "" {
			return errors.New("bucket is already configured")
		}
		uc.bucket = bucket
		return nil
	}
}

// WithCacheTTL option configures the max-age of the cache directive
// which is stored with each uploaded image. The ttl is truncated to
// seconds and must be at least one second.
func WithCacheTTL(ttl time.Duration) Option {
	return func(uc *UseCase) error {
		if ttl < time.Second {
			return fmt.Errorf("cache ttl (%v) is less than 1s", ttl)
		}
		if uc.cacheTTL != 0 {
			return errors.New("cache ttl is already configured")
		}
		uc.cacheTTL = ttl.Truncate(time.Second)
		return nil
	}
}

// WithFallbackStore option configures the local store which is used
// by Browse and Detail when the database may not be read.
// Without it, browsing failures are returned to the caller.
func WithFallbackStore(fs repo.FallbackStore) Option {
	return func(uc *UseCase) error {
		if fs == nil {
			return errors.New("fallback store is nil")
		}
		if uc.fallback != nil {
			return errors.New("fallback store is already configured")
		}
		uc.fallback = fs
		return nil
	}
}

// WithContactPhone option configures the seller phone number of the
// contact deep links, in international format without a plus sign.
func WithContactPhone(phone string) Option {
	return func(uc *UseCase) error {
		if phone == "" {
			return errors.New("contact phone is empty")
		}
		for _, r := range phone {
			if r < '0' || r > '9' {
				return fmt.Errorf("contact phone %q has a non-digit", phone)
			}
		}
		if uc.contactPhone != "" {
			return errors.New("contact phone is already configured")
		}
		uc.contactPhone = phone
		return nil
	}
}

// WithExtensionLookup option configures how a file extension (without
// the leading dot) is inferred from a content type when an uploaded
// file name has no extension. The lookup returns an empty string for
// unknown content types.
func WithExtensionLookup(extOf func(contentType string) string) Option {
	return func(uc *UseCase) error {
		if extOf == nil {
			return errors.New("extension lookup is nil")
		}
		if uc.extOf != nil {
			return errors.New("extension lookup is already configured")
		}
		uc.extOf = extOf
		return nil
	}
}

// WithClock option replaces the clock which is used for generation of
// the uploaded object keys.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		if uc.now != nil {
			return errors.New("clock is already configured")
		}
		uc.now = now
		return nil
	}
}
