// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"math"
)

// MaxRelated is the maximum number of related listings which are shown
// alongside a product detail.
const MaxRelated = 3

// relatedPriceRatio is the relative price distance which makes two
// listings related, even if they have distinct brands.
const relatedPriceRatio = 0.3

// Related selects up to MaxRelated listings from all which are related
// to the current listing. A listing is related if it is not the current
// listing itself and either has the same brand or its price differs by
// less than 30 percent of the current price. The order of all is kept.
func Related(current *Listing, all []*Listing) []*Listing {
	rel := make([]*Listing, 0, MaxRelated)
	for _, l := range all {
		if len(rel) == MaxRelated {
			break
		}
		if l.ID == current.ID {
			continue
		}
		if l.Brand == current.Brand ||
			math.Abs(l.Price-current.Price) < current.Price*relatedPriceRatio {
			rel = append(rel, l)
		}
	}
	return rel
}
