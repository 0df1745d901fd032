// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/momeni/furucamera/pkg/core/log"
	"github.com/momeni/furucamera/pkg/core/repo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pool is a GORM backed database connection pool which implements
// the repo.Pool interface.
type Pool struct {
	*gorm.DB
}

// PoolOption is a functional option for the NewPool function.
type PoolOption func(cfg *poolConfig)

type poolConfig struct {
	maxOpen, maxIdle int
	maxLifetime      time.Duration
	lenient          bool
}

// WithMaxConns limits the number of open and idle connections.
func WithMaxConns(maxOpen, maxIdle int) PoolOption {
	return func(cfg *poolConfig) {
		cfg.maxOpen, cfg.maxIdle = maxOpen, maxIdle
	}
}

// WithConnMaxLifetime closes connections which are older than d.
func WithConnMaxLifetime(d time.Duration) PoolOption {
	return func(cfg *poolConfig) {
		cfg.maxLifetime = d
	}
}

// WithLenientStartup keeps the pool even if its test connection fails.
// The failure is logged and later Conn calls retry to connect.
func WithLenientStartup() PoolOption {
	return func(cfg *poolConfig) {
		cfg.lenient = true
	}
}

// NewPool connects to the url PostgreSQL database and returns a pool
// after testing one connection. A failed test is an error unless the
// WithLenientStartup option is given. GORM warnings (e.g., slow
// queries) are written to the default slog logger.
func NewPool(ctx context.Context, url string, opts ...PoolOption) (*Pool, error) {
	cfg := &poolConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	gdb, err := gorm.Open(postgres.Open(url), &gorm.Config{
		DisableAutomaticPing: true, // tested by Conn below
	})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open: %w", err)
	}
	gdb = gdb.Session(&gorm.Session{
		Logger: logger.New(
			slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
			logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
				// Set to false in order to log with replaced vars
				ParameterizedQueries: true,
			}),
	})
	pool := &Pool{DB: gdb}
	if err = pool.configure(cfg); err != nil {
		pool.Close()
		return nil, err
	}
	err = pool.Conn(ctx, NoOpConnHandler)
	switch {
	case err == nil:
	case cfg.lenient:
		log.Warn(ctx, "database is unreachable, continuing without it",
			log.Err("err", err),
		)
	default:
		pool.Close()
		return nil, fmt.Errorf("testing connection: %w", err)
	}
	return pool, nil
}

func (p *Pool) configure(cfg *poolConfig) error {
	db, err := p.DB.DB()
	if err != nil {
		return fmt.Errorf("accessing sql.DB: %w", err)
	}
	if cfg.maxOpen > 0 {
		db.SetMaxOpenConns(cfg.maxOpen)
	}
	if cfg.maxIdle > 0 {
		db.SetMaxIdleConns(cfg.maxIdle)
	}
	if cfg.maxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.maxLifetime)
	}
	return nil
}

type ConnHandler = repo.ConnHandler

func NoOpConnHandler(context.Context, repo.Conn) error {
	return nil
}

// Conn acquires a dedicated connection from the pool and passes it to
// the f handler. The connection is returned to the pool afterwards.
func (p *Pool) Conn(ctx context.Context, f ConnHandler) error {
	return p.DB.WithContext(ctx).Connection(func(c *gorm.DB) error {
		return f(ctx, &Conn{session{db: c}})
	})
}

// Close closes all connections of the pool.
func (p *Pool) Close() error {
	db, err := p.DB.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
