// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package listingsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/furucamera/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/furucamera/pkg/core/model"
)

type rawListingIDReq struct {
	ListingID string `uri:"lid" binding:"required,uuid"`
}

type rawCreateListingReq struct {
	Title       string   `form:"title" binding:"required"`
	Description string   `form:"description"`
	Price       *float64 `form:"price" binding:"required"`
	Condition   string   `form:"condition"`
	Year        string   `form:"year"`
	Brand       string   `form:"brand"`
	Intake      string   `form:"intake" binding:"omitempty,uuid"`
	Images      string   `form:"images"` // comma-separated URLs
}

type rawUpdateListingReq struct {
	Title       *string  `form:"title"`
	Description *string  `form:"description"`
	Price       *float64 `form:"price"`
	Condition   *string  `form:"condition"`
	Year        *string  `form:"year"`
	Brand       *string  `form:"brand"`
	Intake      string   `form:"intake" binding:"omitempty,uuid"`
	Images      *string  `form:"images"`
}

type createListingReq struct {
	Fields model.ListingFields
	Intake uuid.UUID // uuid.Nil if no draft is used
}

type updateListingReq struct {
	ID     uuid.UUID
	Patch  model.ListingPatch
	Intake uuid.UUID
}

func dserListingID(c *gin.Context) (uuid.UUID, bool) {
	req := &rawListingIDReq{}
	if ok := serdser.BindURI(c, req); !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ListingID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"lid": []string{"Path param lid is not UUID."},
		})
		return uuid.Nil, false
	}
	return id, true
}

// draftImages returns the images of the intake draft, if any.
// Failures are written as the response and reported by a false ok.
func (rs *resource) draftImages(c *gin.Context, intake string) (
	id uuid.UUID, images []string, ok bool,
) {
	if intake == "" {
		return uuid.Nil, nil, true
	}
	id = uuid.MustParse(intake) // validated by the binding
	in, err := rs.intakes.Get(id)
	if err != nil {
		serdser.SerErr(c, err)
		return uuid.Nil, nil, false
	}
	return id, in.Images(), true
}

func (rs *resource) closeIntake(c *gin.Context, id uuid.UUID) {
	if id != uuid.Nil {
		rs.intakes.Close(c, id)
	}
}

func (rs *resource) dserCreateListingReq(c *gin.Context) *createListingReq {
	req := &rawCreateListingReq{}
	if ok := serdser.Bind(c, req, binding.Form); !ok {
		return nil
	}
	id, drafts, ok := rs.draftImages(c, req.Intake)
	if !ok {
		return nil
	}
	return &createListingReq{
		Fields: model.ListingFields{
			Title:       req.Title,
			Description: req.Description,
			Price:       *req.Price,
			Images:      model.MergeImages(drafts, req.Images),
			Condition:   req.Condition,
			Year:        req.Year,
			Brand:       req.Brand,
		},
		Intake: id,
	}
}

// dserUpdateListingReq builds a patch which only changes the given
// fields. The images are replaced if an intake draft or an images text
// is given.
func (rs *resource) dserUpdateListingReq(c *gin.Context) *updateListingReq {
	lid, ok := dserListingID(c)
	if !ok {
		return nil
	}
	req := &rawUpdateListingReq{}
	if ok := serdser.Bind(c, req, binding.Form); !ok {
		return nil
	}
	id, drafts, ok := rs.draftImages(c, req.Intake)
	if !ok {
		return nil
	}
	val := &updateListingReq{
		ID: lid,
		Patch: model.ListingPatch{
			Title:       req.Title,
			Description: req.Description,
			Price:       req.Price,
			Condition:   req.Condition,
			Year:        req.Year,
			Brand:       req.Brand,
		},
		Intake: id,
	}
	if req.Intake != "" || req.Images != nil {
		text := ""
		if req.Images != nil {
			text = *req.Images
		}
		images := model.MergeImages(drafts, text)
		val.Patch.Images = &images
	}
	if val.Patch.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "no listing field is given",
		})
		return nil
	}
	return val
}
