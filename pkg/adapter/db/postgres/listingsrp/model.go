// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package listingsrp

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/furucamera/pkg/core/model"
)

type gListing struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid"`
	Title       string
	Description string
	Price       float64
	Images      imageList `gorm:"type:jsonb"`
	Condition   string
	Year        string
	Brand       string
	CreatedAt   time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false"`
}

func (gl *gListing) TableName() string {
	return "listings"
}

func (gl *gListing) Model() *model.Listing {
	created, updated := gl.CreatedAt, gl.UpdatedAt
	return &model.Listing{
		ID: gl.ID,
		ListingFields: model.ListingFields{
			Title:       gl.Title,
			Description: gl.Description,
			Price:       gl.Price,
			Images:      append([]string{}, gl.Images...),
			Condition:   gl.Condition,
			Year:        gl.Year,
			Brand:       gl.Brand,
		},
		CreatedAt: &created,
		UpdatedAt: &updated,
	}
}

// imageList is the jsonb representation of the ordered listing images.
type imageList []string

// Value implements driver.Valuer. A nil list is stored as an empty
// json array because the images column may not be null.
func (il imageList) Value() (driver.Value, error) {
	if il == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(il))
	if err != nil {
		return nil, fmt.Errorf("marshalling images: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (il *imageList) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*il = imageList{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported images column type: %T", src)
	}
	var imgs []string
	if err := json.Unmarshal(data, &imgs); err != nil {
		return fmt.Errorf("unmarshalling images: %w", err)
	}
	if imgs == nil {
		imgs = []string{}
	}
	*il = imgs
	return nil
}
