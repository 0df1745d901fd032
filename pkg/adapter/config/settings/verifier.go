// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"cmp"
	"fmt"
)

// OutOfRangeError reports a setting which violates its boundaries.
// Min and Max are nil when the corresponding boundary is not checked.
type OutOfRangeError[T cmp.Ordered] struct {
	Value T
	Min   *T
	Max   *T
}

// Error implements error interface and reports the violated boundary.
func (e *OutOfRangeError[T]) Error() string {
	if e.Min != nil && e.Value < *e.Min {
		return fmt.Sprintf("%v is less than min %v", e.Value, *e.Min)
	}
	return fmt.Sprintf("%v is greater than max %v", e.Value, *e.Max)
}

// VerifyRange checks that the (*value) setting is either nil or falls
// within the minb and maxb boundaries. A nil boundary is not checked.
// Boundary values must be consistent, so minb must not be greater than
// maxb. The value is never modified. The returned error is an
// *OutOfRangeError[T] if the value is out of range.
func VerifyRange[T cmp.Ordered](value **T, minb, maxb *T) error {
	if minb != nil && maxb != nil && *minb > *maxb {
		panic(fmt.Sprintf("min %v is greater than max %v", *minb, *maxb))
	}
	if *value == nil {
		return nil
	}
	v := **value
	if (minb != nil && v < *minb) || (maxb != nil && v > *maxb) {
		return &OutOfRangeError[T]{Value: v, Min: minb, Max: maxb}
	}
	return nil
}
