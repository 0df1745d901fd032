// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package authrs realizes the admin session resource, allowing the
// admin console users to login and logout. A successful login sets the
// adminAuth flag in a signed cookie session which is checked by the
// Required middleware before the admin APIs.
package authrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/gorilla/sessions"
	"github.com/momeni/furucamera/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/furucamera/pkg/core/log"
	"github.com/momeni/furucamera/pkg/core/model"
	"github.com/momeni/furucamera/pkg/core/usecase/authuc"
)

// Flag is the session value key which marks an admin session.
const Flag = "adminAuth"

type resource struct {
	auth  *authuc.UseCase
	store sessions.Store
	name  string
}

type loginReq struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// Register instantiates a resource adapting the auth use case instance
// with the relevant REST APIs including:
//  1. POST request to /api/fcweb/v1/admin/login
//     in order to check the admin credentials and start a session,
//  2. POST request to /api/fcweb/v1/admin/logout
//     in order to end the admin session,
//  3. GET request to /api/fcweb/v1/admin/session
//     in order to check if the current session is an admin one.
//
// Sessions are kept in the name cookie of the store.
func Register(
	r *gin.RouterGroup, auth *authuc.UseCase, store sessions.Store, name string,
) {
	rs := &resource{auth: auth, store: store, name: name}
	r.POST("login", rs.Login)
	r.POST("logout", rs.Logout)
	r.GET("session", rs.Session)
}

func (rs *resource) Login(c *gin.Context) {
	req := &loginReq{}
	if ok := serdser.Bind(c, req, binding.Form); !ok {
		return
	}
	if err := rs.auth.Login(c, req.Username, req.Password); err != nil {
		serdser.SerErrNotices(c, err, []model.Notice{
			model.Failure("Login failed", "Invalid credentials"),
		})
		return
	}
	// a stale or forged cookie only yields a fresh session
	sess, _ := rs.store.Get(c.Request, rs.name)
	sess.Values[Flag] = true
	if err := sess.Save(c.Request, c.Writer); err != nil {
		log.Error(c, "saving admin session failed", log.Err("err", err))
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"notices": []model.Notice{
			model.Success("Login successful", "Welcome to the admin panel"),
		},
	})
}

func (rs *resource) Logout(c *gin.Context) {
	sess, _ := rs.store.Get(c.Request, rs.name)
	delete(sess.Values, Flag)
	sess.Options.MaxAge = -1
	if err := sess.Save(c.Request, c.Writer); err != nil {
		log.Error(c, "clearing admin session failed", log.Err("err", err))
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": false})
}

func (rs *resource) Session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"authenticated": IsAdmin(c.Request, rs.store, rs.name),
	})
}

// IsAdmin reports if the r request carries an admin session in its
// name cookie.
func IsAdmin(r *http.Request, store sessions.Store, name string) bool {
	sess, err := store.Get(r, name)
	if err != nil {
		return false
	}
	ok, _ := sess.Values[Flag].(bool)
	return ok
}

// Required aborts the requests which do not carry an admin session
// with a 401 response.
func Required(store sessions.Store, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c.Request, store, name) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "admin login is required",
			})
			return
		}
		c.Next()
	}
}
