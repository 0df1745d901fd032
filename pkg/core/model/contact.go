// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultContactPhone is the seller phone number which receives the
// storefront inquiries when no other number is configured.
const DefaultContactPhone = "971522083985"

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders price with thousands separators, like 1,650.
func FormatPrice(price float64) string {
	return pricePrinter.Sprint(
		number.Decimal(price, number.MaxFractionDigits(3)),
	)
}

// InquiryMessage returns the prefilled chat message which asks about
// the l listing.
func InquiryMessage(l *Listing) string {
	return fmt.Sprintf(
		"Hi! I'm interested in the %s (%s %s). "+
			"Could you provide more details?",
		l.Title, Currency, FormatPrice(l.Price),
	)
}

// ContactLink returns the chat deep link which opens a conversation
// with the phone number and the inquiry message of l prefilled.
func ContactLink(phone string, l *Listing) string {
	if phone == "" {
		phone = DefaultContactPhone
	}
	text := strings.ReplaceAll(url.QueryEscape(InquiryMessage(l)), "+", "%20")
	return "https://wa.me/" + phone + "?text=" + text
}
