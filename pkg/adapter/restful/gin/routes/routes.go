// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages based on the user provided configuration settings.
package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/momeni/furucamera/pkg/adapter/db/postgres/listingsrp"
	"github.com/momeni/furucamera/pkg/adapter/hash/scram"
	"github.com/momeni/furucamera/pkg/adapter/metrics"
	"github.com/momeni/furucamera/pkg/adapter/restful/gin/authrs"
	"github.com/momeni/furucamera/pkg/adapter/restful/gin/imagesrs"
	"github.com/momeni/furucamera/pkg/adapter/restful/gin/intakesrs"
	"github.com/momeni/furucamera/pkg/adapter/restful/gin/listingsrs"
	"github.com/momeni/furucamera/pkg/adapter/restful/gin/statusrs"
	"github.com/momeni/furucamera/pkg/core/repo"
	"github.com/momeni/furucamera/pkg/core/usecase/appuc"
)

// BasePath is the common prefix of all REST APIs.
const BasePath = "/api/fcweb/v1"

// Adapters holds the adapter layer objects which are created by the
// caller because they own external resources (connections or files).
// The Listings, Fallback, and Metrics fields are optional. A nil
// Listings selects the PostgreSQL listings repository.
type Adapters struct {
	Pool     repo.Pool
	Listings repo.Listings
	Images   repo.ImageStore
	Fallback repo.FallbackStore

	Sessions    sessions.Store
	SessionName string

	Metrics *metrics.Metrics
}

// Register instantiates relevant repositories and use cases based on
// the b builder (the configuration settings). The a.Pool connections
// pool is passed to the use case instances, so they may acquire and
// release connections and transactions on demand. These connections
// and transactions will be passed to the repositories later in order
// to run relevant queries on them and accomplish those use cases.
// Register instantiates a series of "resource" structs, from packages
// which are named like listingsrs, in order to adapt the use cases
// interfaces with the REST APIs. These resources are registered as
// request handlers using the e gin-gonic engine instance. The admin
// APIs (except for login, logout, and session) require an admin
// session. Possible errors will be returned after possible wrapping.
func Register(e *gin.Engine, a Adapters, b appuc.Builder) (*appuc.UseCase, error) {
	d := appuc.Deps{
		Pool:     a.Pool,
		Listings: a.Listings,
		Images:   a.Images,
		Fallback: a.Fallback,
		Verifier: scram.SHA256(),
	}
	if d.Listings == nil {
		d.Listings = listingsrp.New()
	}
	if a.Metrics != nil {
		d.Observer = a.Metrics
		e.Use(a.Metrics.Middleware())
		e.GET("/metrics", gin.WrapH(a.Metrics.Handler()))
	}
	app, err := appuc.New(b, d)
	if err != nil {
		return nil, fmt.Errorf("creating application use case: %w", err)
	}
	r := e.Group(BasePath)
	admin := r.Group("admin")
	authrs.Register(admin, app.AuthUseCase(), a.Sessions, a.SessionName)
	gated := admin.Group("", authrs.Required(a.Sessions, a.SessionName))

	statusrs.Register(r, app.ListingsUseCase())
	listingsrs.Register(r, gated, app.ListingsUseCase(), app.IntakeUseCase())
	intakesrs.Register(gated, app.IntakeUseCase(), app.ListingsUseCase())
	imagesrs.Register(gated, app.ListingsUseCase())
	return app, nil
}
