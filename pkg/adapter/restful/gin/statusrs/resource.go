// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package statusrs realizes the database status resource which feeds
// the connectivity badge of the storefront and admin console.
package statusrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/furucamera/pkg/core/usecase/listingsuc"
)

type resource struct {
	listings *listingsuc.UseCase
}

type statusResp struct {
	State     string `json:"state"`
	Label     string `json:"label"`
	Connected bool   `json:"connected"`
	Listings  int64  `json:"listings"`
}

// Register instantiates a resource adapting the listings use case
// instance with the GET request to /api/fcweb/v1/status which reports
// if the database is reachable. It always responds with 200.
func Register(r *gin.RouterGroup, listings *listingsuc.UseCase) {
	rs := &resource{listings: listings}
	r.GET("status", rs.FetchStatus)
}

func (rs *resource) FetchStatus(c *gin.Context) {
	s := rs.listings.Status(c)
	resp := statusResp{
		State:     s.State(),
		Label:     "Database Offline",
		Connected: s.Connected,
		Listings:  s.Listings,
	}
	if s.Connected {
		resp.Label = "Database Connected"
	}
	c.JSON(http.StatusOK, resp)
}
