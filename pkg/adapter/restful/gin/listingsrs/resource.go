// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package listingsrs realizes the listings resource, allowing the
// storefront browsing and the admin listings manipulation REST APIs to
// be accepted and delegated to the listings use cases respectively.
package listingsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/furucamera/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/furucamera/pkg/core/model"
	"github.com/momeni/furucamera/pkg/core/usecase/intakeuc"
	"github.com/momeni/furucamera/pkg/core/usecase/listingsuc"
)

type resource struct {
	listings *listingsuc.UseCase
	intakes  *intakeuc.Registry
}

// Register instantiates a resource adapting the listings use case
// instance with the relevant REST APIs including:
//  1. GET request to /api/fcweb/v1/listings
//     in order to browse the storefront,
//  2. GET request to /api/fcweb/v1/listings/:lid
//     in order to fetch a listing and its related listings,
//  3. GET request to /api/fcweb/v1/listings/:lid/contact
//     in order to obtain the seller contact link of a listing,
//  4. GET request to /api/fcweb/v1/admin/listings
//     in order to list all listings, newest first,
//  5. POST request to /api/fcweb/v1/admin/listings
//     in order to create a listing,
//  6. PATCH request to /api/fcweb/v1/admin/listings/:lid
//     in order to update some fields of a listing,
//  7. DELETE request to /api/fcweb/v1/admin/listings/:lid
//     in order to delete a listing,
//  8. GET request to /api/fcweb/v1/conditions
//     in order to fetch the suggested condition labels.
//
// The pub and admin router groups hold the public and admin APIs.
// Images of the create and update requests are taken from an intake
// draft (of the intakes registry) and an image URLs text.
func Register(
	pub, admin *gin.RouterGroup,
	listings *listingsuc.UseCase, intakes *intakeuc.Registry,
) {
	rs := &resource{listings: listings, intakes: intakes}
	pub.GET("listings", rs.BrowseListings)
	pub.GET("listings/:lid", rs.FetchListing)
	pub.GET("listings/:lid/contact", rs.FetchContactLink)
	pub.GET("conditions", rs.ListConditions)
	admin.GET("listings", rs.ListListings)
	admin.POST("listings", rs.CreateListing)
	admin.PATCH("listings/:lid", rs.UpdateListing)
	admin.DELETE("listings/:lid", rs.DeleteListing)
}

func (rs *resource) BrowseListings(c *gin.Context) {
	ls, src, err := rs.listings.Browse(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": ls, "source": src})
}

func (rs *resource) ListConditions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"conditions": model.Conditions})
}

func (rs *resource) FetchListing(c *gin.Context) {
	id, ok := dserListingID(c)
	if !ok {
		return
	}
	l, related, err := rs.listings.Detail(c, id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing": l, "related": related})
}

func (rs *resource) FetchContactLink(c *gin.Context) {
	id, ok := dserListingID(c)
	if !ok {
		return
	}
	link, err := rs.listings.ContactLink(c, id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": link})
}

func (rs *resource) ListListings(c *gin.Context) {
	ls, err := rs.listings.ListAll(c)
	if err != nil {
		serdser.SerErrNotices(c, err, []model.Notice{model.Failure(
			"Error loading listings",
			"Failed to load listings from the database.",
		)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": ls})
}

func (rs *resource) CreateListing(c *gin.Context) {
	req := rs.dserCreateListingReq(c)
	if req == nil {
		return
	}
	l, err := rs.listings.Create(c, req.Fields)
	if err != nil {
		serdser.SerErrNotices(c, err, []model.Notice{model.Failure(
			"Add failed", "Failed to save the listing.",
		)})
		return
	}
	rs.closeIntake(c, req.Intake)
	c.JSON(http.StatusCreated, gin.H{
		"listing": l,
		"notices": []model.Notice{model.Success(
			"Listing added",
			"New camera listing has been added successfully",
		)},
	})
}

func (rs *resource) UpdateListing(c *gin.Context) {
	req := rs.dserUpdateListingReq(c)
	if req == nil {
		return
	}
	l, err := rs.listings.Update(c, req.ID, req.Patch)
	if err != nil {
		serdser.SerErrNotices(c, err, []model.Notice{model.Failure(
			"Update failed", "Failed to save the listing.",
		)})
		return
	}
	rs.closeIntake(c, req.Intake)
	c.JSON(http.StatusOK, gin.H{
		"listing": l,
		"notices": []model.Notice{model.Success(
			"Listing updated",
			"The camera listing has been updated successfully",
		)},
	})
}

func (rs *resource) DeleteListing(c *gin.Context) {
	id, ok := dserListingID(c)
	if !ok {
		return
	}
	if _, err := rs.listings.Delete(c, id); err != nil {
		serdser.SerErrNotices(c, err, []model.Notice{model.Failure(
			"Delete failed", "Failed to delete the listing.",
		)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"deleted": true,
		"notices": []model.Notice{model.Success(
			"Listing deleted",
			"The camera listing has been deleted successfully",
		)},
	})
}
