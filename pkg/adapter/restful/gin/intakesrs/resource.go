// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package intakesrs realizes the image intake resource. Each intake is
// a server side draft of the images of a listing form which accepts
// dropped or picked image files and removal requests.
package intakesrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/furucamera/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/furucamera/pkg/core/model"
	"github.com/momeni/furucamera/pkg/core/usecase/intakeuc"
	"github.com/momeni/furucamera/pkg/core/usecase/listingsuc"
)

type resource struct {
	intakes  *intakeuc.Registry
	listings *listingsuc.UseCase
}

// Register instantiates a resource adapting the intakes registry with
// the relevant REST APIs including:
//  1. POST request to /api/fcweb/v1/admin/intakes
//     in order to open a draft, optionally for an existing listing,
//  2. GET request to /api/fcweb/v1/admin/intakes/:iid
//     in order to fetch the draft state and images,
//  3. PATCH request to /api/fcweb/v1/admin/intakes/:iid
//     in order to report drag-enter or drag-leave events,
//  4. POST request to /api/fcweb/v1/admin/intakes/:iid/files
//     in order to process a batch of dropped or picked files,
//  5. DELETE request to /api/fcweb/v1/admin/intakes/:iid/images/:idx
//     in order to remove one image,
//  6. DELETE request to /api/fcweb/v1/admin/intakes/:iid/images
//     in order to remove all images,
//  7. DELETE request to /api/fcweb/v1/admin/intakes/:iid
//     in order to discard the draft.
func Register(
	r *gin.RouterGroup,
	intakes *intakeuc.Registry, listings *listingsuc.UseCase,
) {
	rs := &resource{intakes: intakes, listings: listings}
	r.POST("intakes", rs.OpenIntake)
	r.GET("intakes/:iid", rs.FetchIntake)
	r.PATCH("intakes/:iid", rs.UpdateIntake)
	r.POST("intakes/:iid/files", rs.AddFiles)
	r.DELETE("intakes/:iid/images/:idx", rs.RemoveImage)
	r.DELETE("intakes/:iid/images", rs.ClearImages)
	r.DELETE("intakes/:iid", rs.CloseIntake)
}

func (rs *resource) OpenIntake(c *gin.Context) {
	req := rs.dserOpenIntakeReq(c)
	if req == nil {
		return
	}
	var existing []string
	urlText := ""
	if req.Listing != nil {
		l, _, err := rs.listings.Detail(c, *req.Listing)
		if err != nil {
			serdser.SerErr(c, err)
			return
		}
		existing, urlText = model.SplitImages(l.Images)
	}
	in := rs.intakes.Open(c, existing, nil)
	c.JSON(http.StatusCreated, gin.H{
		"intake":    in.Snapshot(),
		"images":    urlText,
		"max_batch": rs.intakes.MaxBatch(),
	})
}

func (rs *resource) FetchIntake(c *gin.Context) {
	in := rs.dserIntake(c)
	if in == nil {
		return
	}
	c.JSON(http.StatusOK, in.Snapshot())
}

func (rs *resource) UpdateIntake(c *gin.Context) {
	in := rs.dserIntake(c)
	if in == nil {
		return
	}
	op, ok := dserDragOp(c)
	if !ok {
		return
	}
	var err error
	switch op {
	case "drag-enter":
		err = in.DragEnter()
	case "drag-leave":
		err = in.DragLeave()
	default:
		panic("unexpected op: " + op)
	}
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, in.Snapshot())
}

func (rs *resource) AddFiles(c *gin.Context) {
	in := rs.dserIntake(c)
	if in == nil {
		return
	}
	req := dserAddFilesReq(c)
	if req == nil {
		return
	}
	var out intakeuc.Outcome
	var err error
	switch req.Via {
	case intakeuc.ViaDrop:
		out, err = in.Drop(c, req.Files)
	case intakeuc.ViaPicker:
		out, err = in.Select(c, req.Files)
	default:
		panic("unexpected via: " + string(req.Via))
	}
	if err != nil {
		serdser.SerErrNotices(c, err, out.Notices)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (rs *resource) RemoveImage(c *gin.Context) {
	in := rs.dserIntake(c)
	if in == nil {
		return
	}
	idx, ok := dserImageIndex(c)
	if !ok {
		return
	}
	out, err := in.RemoveImage(c, idx)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (rs *resource) ClearImages(c *gin.Context) {
	in := rs.dserIntake(c)
	if in == nil {
		return
	}
	out, err := in.ClearAll(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (rs *resource) CloseIntake(c *gin.Context) {
	id, ok := dserIntakeID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"closed": rs.intakes.Close(c, id)})
}
