// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// By the way, it is acceptable to annotate structs in this package with
// serialization tags since adding more tags does not complicate the
// definition of a struct, but can prevent unnecessary duplication.
package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Currency is the single fixed currency of all listing prices.
const Currency = "AED"

// Conditions lists the condition labels which clients offer while
// editing a listing. A listing condition is a free-text field and
// these labels are suggestions, so they are not enforced.
var Conditions = []string{"Mint", "Excellent", "Very Good", "Good", "Fair"}

// ErrNegativePrice indicates that a listing price is less than zero.
var ErrNegativePrice = errors.New("price must be non-negative")

// ListingFields contains the user editable fields of a listing.
// It is also the input of a create operation because the identifier
// and timestamps are always assigned by the backend.
type ListingFields struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Images      []string `json:"images"`
	Condition   string   `json:"condition"`
	Year        string   `json:"year,omitempty"` // free text, like 1981
	Brand       string   `json:"brand"`
}

// Validate returns ErrNegativePrice if the price is less than zero.
// Other fields are accepted as they are.
func (lf ListingFields) Validate() error {
	if lf.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// Listing models one camera-for-sale record.
// The ID is immutable once it is assigned. The CreatedAt and UpdatedAt
// are nil for a listing which is constructed by a client and is not
// persisted yet (e.g., the sample listings).
type Listing struct {
	ID uuid.UUID `json:"id"`
	ListingFields

	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// ListingPatch describes a partial update of a listing. Each nil field
// is left unchanged and each non-nil field replaces the current value.
// An empty (but non-nil) Images slice clears all images.
type ListingPatch struct {
	Title       *string
	Description *string
	Price       *float64
	Images      *[]string
	Condition   *string
	Year        *string
	Brand       *string
}

// Validate returns ErrNegativePrice if the patch is going to set
// a negative price.
func (lp ListingPatch) Validate() error {
	if lp.Price != nil && *lp.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// IsEmpty reports if the patch does not change any field.
func (lp ListingPatch) IsEmpty() bool {
	return lp.Title == nil && lp.Description == nil &&
		lp.Price == nil && lp.Images == nil &&
		lp.Condition == nil && lp.Year == nil && lp.Brand == nil
}

// Apply merges the patch into a copy of the lf fields and returns it.
func (lp ListingPatch) Apply(lf ListingFields) ListingFields {
	if lp.Title != nil {
		lf.Title = *lp.Title
	}
	if lp.Description != nil {
		lf.Description = *lp.Description
	}
	if lp.Price != nil {
		lf.Price = *lp.Price
	}
	if lp.Images != nil {
		lf.Images = append([]string{}, (*lp.Images)...)
	}
	if lp.Condition != nil {
		lf.Condition = *lp.Condition
	}
	if lp.Year != nil {
		lf.Year = *lp.Year
	}
	if lp.Brand != nil {
		lf.Brand = *lp.Brand
	}
	return lf
}

// FindListing returns the listing with the given id from ls, or nil.
func FindListing(ls []*Listing, id uuid.UUID) *Listing {
	for _, l := range ls {
		if l.ID == id {
			return l
		}
	}
	return nil
}
