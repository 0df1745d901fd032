// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package imagesrs realizes the images resource which uploads or
// deletes single listing image objects, independent of any draft.
package imagesrs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/furucamera/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/furucamera/pkg/core/cerr"
	"github.com/momeni/furucamera/pkg/core/usecase/listingsuc"
)

// FileField is the multipart form field which carries the image file.
const FileField = "file"

type resource struct {
	listings *listingsuc.UseCase
}

type uploadReq struct {
	Bucket string `form:"bucket"`
}

type deleteReq struct {
	URL    string `form:"url" binding:"required"`
	Bucket string `form:"bucket"`
}

// Register instantiates a resource adapting the listings use case
// instance with the relevant REST APIs including:
//  1. POST request to /api/fcweb/v1/admin/images
//     in order to upload one image file and obtain its public URL,
//  2. DELETE request to /api/fcweb/v1/admin/images
//     in order to delete the object of an image URL.
//
// Both requests accept an optional bucket, defaulting to the listing
// images bucket.
func Register(r *gin.RouterGroup, listings *listingsuc.UseCase) {
	rs := &resource{listings: listings}
	r.POST("images", rs.UploadImage)
	r.DELETE("images", rs.DeleteImage)
}

func (rs *resource) UploadImage(c *gin.Context) {
	req := &uploadReq{}
	if ok := serdser.Bind(c, req, binding.FormMultipart); !ok {
		return
	}
	fh, err := c.FormFile(FileField)
	if errors.Is(err, http.ErrMissingFile) {
		serdser.SerErr(c, cerr.BadRequest(errors.New("file is required")))
		return
	} else if err != nil {
		serdser.SerErr(c, serdser.FormErr(err))
		return
	}
	u, err := rs.listings.UploadImageTo(c, req.Bucket, serdser.NewFormFile(c, fh))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": u})
}

func (rs *resource) DeleteImage(c *gin.Context) {
	req := &deleteReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return
	}
	ok, err := rs.listings.DeleteImageFrom(c, req.Bucket, req.URL)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": ok})
}
