// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model_test

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/momeni/furucamera/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ExampleContactLink() {
	l := model.Samples()[1]
	fmt.Println(model.ContactLink("", l))
	// Output:
	// https://wa.me/971522083985?text=Hi%21%20I%27m%20interested%20in%20the%20Nikon%20FM2%20%28AED%201%2C650%29.%20Could%20you%20provide%20more%20details%3F
}

func TestContactLinkDecodes(t *testing.T) {
	l := model.Samples()[0]
	l.Title = "Leica M3 & lens"
	l.Price = 12500.5
	link := model.ContactLink("441234", l)
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, "/441234", u.Path)
	assert.Equal(t,
		"Hi! I'm interested in the Leica M3 & lens (AED 12,500.5). "+
			"Could you provide more details?",
		u.Query().Get("text"),
	)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "0", model.FormatPrice(0))
	assert.Equal(t, "999", model.FormatPrice(999))
	assert.Equal(t, "1,100", model.FormatPrice(1100))
	assert.Equal(t, "1,234,567.25", model.FormatPrice(1234567.25))
}
