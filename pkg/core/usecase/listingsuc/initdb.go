// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package listingsuc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/momeni/furucamera/pkg/core/log"
	"github.com/momeni/furucamera/pkg/core/model"
	"github.com/momeni/furucamera/pkg/core/repo"
)

// InitDB creates the listings table (if it does not exist) using the
// s schema repository and, if samples is true, inserts the sample
// listings which are missing. Both steps run in one transaction.
// It returns the number of inserted sample rows.
func (listings *UseCase) InitDB(
	ctx context.Context, s repo.Schema, samples bool,
) (n int64, err error) {
	err = listings.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			if err := s.Tx(tx).CreateTables(ctx); err != nil {
				return fmt.Errorf("creating tables: %w", err)
			}
			if !samples {
				return nil
			}
			n, err = listings.listingsrp.Tx(tx).Seed(ctx, model.Samples())
			if err != nil {
				return fmt.Errorf("seeding samples: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		log.Error(ctx, "initializing database failed", log.Err("err", err))
		return 0, backendErr(err)
	}
	log.Info(ctx, "database is initialized", slog.Int64("samples", n))
	return n, nil
}
