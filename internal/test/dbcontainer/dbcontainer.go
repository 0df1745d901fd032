// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dbcontainer starts a throwaway postgres:16 container for the
// integration test suites and connects a *postgres.Pool to it.
// The podman.service must be running and DOCKER_HOST must point to its
// socket, like unix://$XDG_RUNTIME_DIR/podman/podman.sock.
package dbcontainer

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/furucamera/pkg/adapter/db/postgres"
	"github.com/momeni/furucamera/pkg/adapter/db/postgres/schemarp"
	"github.com/momeni/furucamera/pkg/core/repo"
	"github.com/stretchr/testify/assert"
)

// DBMSVersion is the postgres image tag of the test containers.
const DBMSVersion = "16"

const retryDelay = 250 * time.Millisecond

// New starts a container and returns a pool which is connected to it.
// The timeout bounds the start up and connection phases, while ctx is
// also used for the shutdown. The pool is closed and the container is
// shut down by the t cleanup functions. Failures are reported on t
// and a false ok is returned.
func New(ctx context.Context, timeout time.Duration, t *testing.T) (
	pool *postgres.Pool, ok bool,
) {
	startCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	pg, err := sqltestutil.StartPostgresContainer(startCtx, DBMSVersion)
	if !assert.NoError(t, err, "failed to set up a test database") {
		return nil, false
	}
	t.Cleanup(func() {
		assert.NoError(t, pg.Shutdown(ctx), "failed to shutdown test database")
	})
	pool, err = connect(startCtx, pg.ConnectionString())
	if !assert.NoError(t, err, "cannot connect to test database") {
		return nil, false
	}
	t.Cleanup(func() {
		assert.NoError(t, pool.Close(), "failed to close the connections pool")
	})
	return pool, true
}

// connect retries while the DBMS is starting up or is not listening
// yet, until ctx is done.
func connect(ctx context.Context, url string) (*postgres.Pool, error) {
	for {
		pool, err := postgres.NewPool(ctx, url)
		if err == nil {
			return pool, nil
		}
		if !transient(err) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(err, ctx.Err())
		case <-time.After(retryDelay):
		}
	}
}

func transient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "57P03" // cannot_connect_now
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// CreateTables creates the listings table in the pool database and
// truncates it, so each test observes an empty table.
func CreateTables(ctx context.Context, pool *postgres.Pool) error {
	return pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			if err := schemarp.New().Tx(tx).CreateTables(ctx); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, "TRUNCATE listings")
			return err
		})
	})
}
