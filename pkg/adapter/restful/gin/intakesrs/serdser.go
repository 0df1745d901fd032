// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package intakesrs

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/furucamera/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/furucamera/pkg/core/model"
	"github.com/momeni/furucamera/pkg/core/usecase/intakeuc"
)

// FilesField is the multipart form field which carries batch files.
const FilesField = "files"

type rawOpenIntakeReq struct {
	Listing string `form:"listing" binding:"omitempty,uuid"`
}

type openIntakeReq struct {
	Listing *uuid.UUID
}

type rawIntakeIDReq struct {
	IntakeID string `uri:"iid" binding:"required,uuid"`
}

type rawImageIndexReq struct {
	Index string `uri:"idx" binding:"required,number"`
}

type rawDragReq struct {
	Op string `form:"op" binding:"required,oneof=drag-enter drag-leave"`
}

type rawAddFilesReq struct {
	Via string `form:"via" binding:"omitempty,oneof=drop picker"`
}

type addFilesReq struct {
	Via   intakeuc.Via
	Files []model.File
}

func (rs *resource) dserOpenIntakeReq(c *gin.Context) *openIntakeReq {
	req := &rawOpenIntakeReq{}
	if ok := serdser.Bind(c, req, binding.Form); !ok {
		return nil
	}
	val := &openIntakeReq{}
	if req.Listing != "" {
		id := uuid.MustParse(req.Listing) // validated by the binding
		val.Listing = &id
	}
	return val
}

func dserIntakeID(c *gin.Context) (uuid.UUID, bool) {
	req := &rawIntakeIDReq{}
	if ok := serdser.BindURI(c, req); !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.IntakeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"iid": []string{"Path param iid is not UUID."},
		})
		return uuid.Nil, false
	}
	return id, true
}

// dserIntake finds the draft of the iid path param, writing a 400 or
// 404 response if it is malformed or not open.
func (rs *resource) dserIntake(c *gin.Context) *intakeuc.Intake {
	id, ok := dserIntakeID(c)
	if !ok {
		return nil
	}
	in, err := rs.intakes.Get(id)
	if err != nil {
		serdser.SerErr(c, err)
		return nil
	}
	return in
}

func dserImageIndex(c *gin.Context) (int, bool) {
	req := &rawImageIndexReq{}
	if ok := serdser.BindURI(c, req); !ok {
		return 0, false
	}
	idx, err := strconv.Atoi(req.Index)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"idx": []string{"Path param idx is not an integer."},
		})
		return 0, false
	}
	return idx, true
}

func dserDragOp(c *gin.Context) (string, bool) {
	req := &rawDragReq{}
	if ok := serdser.Bind(c, req, binding.Form); !ok {
		return "", false
	}
	return req.Op, true
}

func dserAddFilesReq(c *gin.Context) *addFilesReq {
	req := &rawAddFilesReq{}
	if ok := serdser.Bind(c, req, binding.FormMultipart); !ok {
		return nil
	}
	files, err := serdser.FormFiles(c, FilesField)
	if err != nil {
		serdser.SerErr(c, serdser.FormErr(err))
		return nil
	}
	val := &addFilesReq{Via: intakeuc.ViaPicker, Files: files}
	if req.Via != "" {
		val.Via = intakeuc.Via(req.Via)
	}
	return val
}
