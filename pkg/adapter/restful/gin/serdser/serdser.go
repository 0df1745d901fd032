// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package serdser contains the serialization and deserialization
// helpers which are shared by the resource packages.
package serdser

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/momeni/furucamera/pkg/core/cerr"
	"github.com/momeni/furucamera/pkg/core/model"
)

// Bind binds the request into req using b binding. If binding fails,
// a 400 response is written (with the failing fields names when they
// are known) and false is returned.
func Bind(c *gin.Context, req any, b binding.Binding) bool {
	return sendBindErr(c, c.ShouldBindWith(req, b))
}

// BindURI binds the path params into req, like Bind.
func BindURI(c *gin.Context, req any) bool {
	return sendBindErr(c, c.ShouldBindUri(req))
}

func sendBindErr(c *gin.Context, err error) bool {
	switch err := err.(type) {
	case *validator.InvalidValidationError:
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": err.Error(),
		})
	case validator.ValidationErrors:
		var nameToErrs map[string][]string
		for _, ferr := range err {
			AddErr(&nameToErrs, ferr.Field(), ferr.Error())
		}
		c.JSON(http.StatusBadRequest, nameToErrs)
	default:
		if err == nil {
			return true
		}
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			SerErr(c, cerr.TooLarge(err))
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
	}
	return false
}

func AddErr(errs *map[string][]string, name string, msgs ...string) {
	if (*errs) == nil {
		*errs = make(map[string][]string)
	}
	if elist, ok := (*errs)[name]; !ok {
		(*errs)[name] = msgs
	} else {
		(*errs)[name] = append(elist, msgs...)
	}
}

func Assert(errs *map[string][]string, ok bool, name string, msgs ...string) bool {
	if ok {
		return true
	}
	AddErr(errs, name, msgs...)
	return false
}

// SerErr writes err as a {"detail": ...} response, using the status
// code of its cerr.Error category (or 500 for uncategorized errors).
func SerErr(c *gin.Context, err error) {
	var ce *cerr.Error
	if errors.As(err, &ce) {
		c.JSON(ce.HTTPStatusCode, gin.H{
			"detail": ce.Err.Error(),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"detail": err.Error(),
	})
}

// SerErrNotices is like SerErr, but includes the user-facing notices
// which accompany err in the response too.
func SerErrNotices(c *gin.Context, err error, notices []model.Notice) {
	if notices == nil {
		notices = []model.Notice{}
	}
	c.JSON(cerr.StatusCode(err), gin.H{
		"detail":  detail(err),
		"notices": notices,
	})
}

func detail(err error) string {
	var ce *cerr.Error
	if errors.As(err, &ce) {
		return ce.Err.Error()
	}
	return err.Error()
}
