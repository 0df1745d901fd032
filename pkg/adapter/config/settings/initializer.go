// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settings provides the helpers which are shared by the config
// sections for filling their optional (pointer) fields with defaults,
// checking their boundaries, and decoding human-readable durations.
package settings

// Nil2Zero makes the nil (*t) pointer point to a newly allocated zero
// value of T. A non-nil (*t) is kept intact.
func Nil2Zero[T any](t **T) {
	if *t == nil {
		*t = new(T)
	}
}

// OverwriteNil makes the nil (*dst) pointer point to a copy of the
// src default value. A non-nil (*dst) or a nil src is ignored, so a
// setting which is given by the config file or an environment variable
// is never replaced.
func OverwriteNil[T any](dst **T, src *T) {
	if *dst != nil || src == nil {
		return
	}
	v := *src
	*dst = &v
}
