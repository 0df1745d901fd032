// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package metrics_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/momeni/furucamera/pkg/adapter/metrics"
	"github.com/momeni/furucamera/pkg/core/usecase/intakeuc"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New()
	e := gin.New()
	e.Use(m.Middleware())
	e.GET("/test/:id", func(c *gin.Context) {
		c.String(http.StatusOK, "test")
	})
	e.GET("/metrics", gin.WrapH(m.Handler()))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test/1", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body),
		`fcweb_request_duration_seconds_count{code="200",method="GET",path="/test/:id"} 3`,
	)
	assert.Contains(t, string(body),
		`fcweb_request_duration_seconds_count{code="404",method="GET",path="/not-found"} 1`,
	)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestObserveBatch(t *testing.T) {
	ctx := context.Background()
	m := metrics.New()
	var o intakeuc.Observer = m
	o.ObserveBatch(ctx, intakeuc.BatchStats{
		Via:      intakeuc.ViaDrop,
		Uploaded: 2,
		Inlined:  1,
		Duration: time.Second,
	})
	o.ObserveBatch(ctx, intakeuc.BatchStats{
		Via:      intakeuc.ViaPicker,
		Rejected: errors.New("too many files"),
	})
	o.ObserveBatch(ctx, intakeuc.BatchStats{
		Via:    intakeuc.ViaPicker,
		Failed: 1,
	})

	const want = `
# HELP fcweb_intake_batches_total Number of image intake batches by their outcome
# TYPE fcweb_intake_batches_total counter
fcweb_intake_batches_total{outcome="accepted",via="drop"} 1
fcweb_intake_batches_total{outcome="accepted",via="picker"} 1
fcweb_intake_batches_total{outcome="rejected",via="picker"} 1
# HELP fcweb_intake_files_total Number of processed image files by their result
# TYPE fcweb_intake_files_total counter
fcweb_intake_files_total{result="failed"} 1
fcweb_intake_files_total{result="inlined"} 1
fcweb_intake_files_total{result="uploaded"} 2
`
	err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(want),
		"fcweb_intake_batches_total", "fcweb_intake_files_total",
	)
	assert.NoError(t, err)
	n, err := testutil.GatherAndCount(m.Registry(),
		"fcweb_intake_batch_duration_seconds",
	)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "accepted batches share one histogram")
}
