// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gin wraps the gin-gonic engine, so other packages (such as
// the config) may create and configure an engine without depending on
// the gin-gonic module directly.
package gin

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/momeni/furucamera/pkg/core/cerr"
	"github.com/momeni/furucamera/pkg/core/log"
)

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

// Gin-Gonic modes.
const (
	DebugMode   = gin.DebugMode
	ReleaseMode = gin.ReleaseMode
	TestMode    = gin.TestMode
)

// MaxMultipartMemory is the number of multipart form bytes which are
// kept in memory; the rest are stored in temporary files.
const MaxMultipartMemory = 32 << 20

// RequestIDHeader carries the request identifier in the responses.
const RequestIDHeader = "X-Request-ID"

// New creates an engine without any middleware and then registers the
// given middlewares, preceded by the RequestID middleware.
// The gin.Context values fall back to the request context, so handlers
// may pass it to the use cases as a cancellable context which carries
// the request log attributes.
func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.ContextWithFallback = true
	e.MaxMultipartMemory = MaxMultipartMemory
	e.Use(RequestID())
	e.Use(middlewares...)
	return e
}

// SetMode sets the gin-gonic mode, one of DebugMode, ReleaseMode, or
// TestMode.
func SetMode(mode string) {
	gin.SetMode(mode)
}

// RequestID identifies each request with the value of its X-Request-ID
// header, or a fresh UUID if it is missing. The identifier is echoed
// in the response and attached to the request context, so all log
// records of the request carry it.
func RequestID() HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		ctx := log.WithAttrs(c.Request.Context(), slog.String("request_id", id))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// BodyLimit rejects requests whose bodies are longer than n bytes with
// a 413 response. A declared Content-Length is checked before running
// the handlers. Other bodies are cut at n bytes, so reading them fails
// with an *http.MaxBytesError.
func BodyLimit(n int64) HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			err := cerr.TooLarge(fmt.Errorf(
				"request body is larger than %d bytes", n,
			))
			c.AbortWithStatusJSON(err.HTTPStatusCode, gin.H{
				"detail": err.Err.Error(),
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
