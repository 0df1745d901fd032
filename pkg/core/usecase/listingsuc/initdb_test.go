// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package listingsuc_test

import (
	"context"
	"errors"
	"net/http"

	"github.com/momeni/furucamera/internal/test/fakes"
	"github.com/momeni/furucamera/pkg/core/cerr"
	"github.com/momeni/furucamera/pkg/core/model"
	"github.com/momeni/furucamera/pkg/core/repo"
)

type schema struct {
	creates int
	err     error
}

func (s *schema) Tx(repo.Tx) repo.SchemaQueryer {
	return s
}

func (s *schema) CreateTables(context.Context) error {
	s.creates++
	return s.err
}

func (luts *ListingsUseCaseTestSuite) TestInitDB() {
	s := &schema{}
	n, err := luts.UC.InitDB(luts.Ctx, s, false)
	luts.Require().NoError(err)
	luts.Zero(n)
	luts.Equal(1, s.creates)

	n, err = luts.UC.InitDB(luts.Ctx, s, true)
	luts.Require().NoError(err)
	luts.Equal(int64(len(model.Samples())), n)
	n, err = luts.UC.InitDB(luts.Ctx, s, true)
	luts.Require().NoError(err)
	luts.Zero(n, "existing samples are skipped")

	ls, err := luts.UC.ListAll(luts.Ctx)
	luts.Require().NoError(err)
	luts.Len(ls, len(model.Samples()))
}

func (luts *ListingsUseCaseTestSuite) TestInitDBFailure() {
	s := &schema{err: errors.New("permission denied")}
	_, err := luts.UC.InitDB(luts.Ctx, s, true)
	luts.Equal(http.StatusServiceUnavailable, cerr.StatusCode(err))
	luts.Zero(luts.Listings.Calls(), "seeding follows table creation")

	luts.Pool.Fail(fakes.ErrOffline)
	_, err = luts.UC.InitDB(luts.Ctx, &schema{}, true)
	luts.ErrorIs(err, fakes.ErrOffline)
}
