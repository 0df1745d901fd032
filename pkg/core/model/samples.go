// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"github.com/google/uuid"
)

// PlaceholderImage is the image reference of the sample listings.
const PlaceholderImage = "/placeholder.svg?height=400&width=400"

// Sample listing identifiers are fixed, so seeding them twice does not
// duplicate them.
var (
	SampleCanonID = uuid.MustParse("5b3c1f0e-7a43-4b59-9f0c-0c1a6e1d2a01")
	SampleNikonID = uuid.MustParse("5b3c1f0e-7a43-4b59-9f0c-0c1a6e1d2a02")
)

// Samples returns a fresh copy of the two demonstration listings which
// are shown by the storefront when no backend data is reachable and
// may be inserted by the db init command.
func Samples() []*Listing {
	return []*Listing{
		{
			ID: SampleCanonID,
			ListingFields: ListingFields{
				Title: "Canon AE-1 Program",
				Description: "Classic 35mm SLR camera in excellent " +
					"condition. Perfect for film photography " +
					"enthusiasts.",
				Price: 1100,
				Images: []string{
					PlaceholderImage,
				},
				Condition: "Excellent",
				Year:      "1981",
				Brand:     "Canon",
			},
		},
		{
			ID: SampleNikonID,
			ListingFields: ListingFields{
				Title: "Nikon FM2",
				Description: "Professional mechanical SLR camera. " +
					"Built like a tank and ready for any adventure.",
				Price: 1650,
				Images: []string{
					PlaceholderImage,
				},
				Condition: "Very Good",
				Year:      "1982",
				Brand:     "Nikon",
			},
		},
	}
}
