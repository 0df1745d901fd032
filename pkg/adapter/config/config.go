// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the fcweb to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings.
// Settings which are read from the file may be overridden by the
// FCWEB_ prefixed environment variables. For example, the database
// password may be given as FCWEB_DATABASE_PASSWORD and the contact
// phone number as FCWEB_USECASES_CONTACT_PHONE.
// The parsed and validated configurations are passed to their ultimate
// components as a series of individual params (for the mandatory items)
// and a series of functional options (for the optional items), so they
// are validated once more by the relevant end-component.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/momeni/furucamera/pkg/adapter/db/boltdb"
	"github.com/momeni/furucamera/pkg/adapter/mimesniff"
	"github.com/momeni/furucamera/pkg/adapter/storage/s3"
	"github.com/momeni/furucamera/pkg/core/log"
	"github.com/momeni/furucamera/pkg/core/repo"
	"github.com/momeni/furucamera/pkg/core/scram"
	"github.com/momeni/furucamera/pkg/core/usecase/appuc"
	"github.com/momeni/furucamera/pkg/core/usecase/authuc"
	"github.com/momeni/furucamera/pkg/core/usecase/intakeuc"
	"github.com/momeni/furucamera/pkg/core/usecase/listingsuc"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the common prefix of all overriding environment
// variable names.
const EnvPrefix = "FCWEB_"

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases. It is implemented with
// primitive fields or other structs which are defined locally, not
// models or structs which are defined in lower layers, so the format of
// the configuration file is kept intact while other layers can change.
type Config struct {
	Database Database `yaml:"database" envPrefix:"DATABASE_"`
	Gin      Gin      `yaml:"gin" envPrefix:"GIN_"`
	Logging  Logging  `yaml:"logging" envPrefix:"LOGGING_"`
	Storage  Storage  `yaml:"storage" envPrefix:"STORAGE_"`
	Session  Session  `yaml:"session" envPrefix:"SESSION_"`
	Admin    Admin    `yaml:"admin" envPrefix:"ADMIN_"`
	Fallback Fallback `yaml:"fallback" envPrefix:"FALLBACK_"`
	Usecases Usecases `yaml:"usecases" envPrefix:"USECASES_"`
}

var _ appuc.Builder = (*Config)(nil)

// Load function loads, validates, and normalizes the configuration
// file and returns its settings as an instance of the Config struct.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	return c, nil
}

// Parse unmarshals the yaml formatted data, overrides its settings by
// the environment variables, and then validates and normalizes them.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix})
	if err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}
	if err = c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	if err := c.Database.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating database settings: %w", err)
	}
	if err := c.Gin.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating gin settings: %w", err)
	}
	if err := c.Logging.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating logging settings: %w", err)
	}
	if err := c.Storage.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating storage settings: %w", err)
	}
	if err := c.Session.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating session settings: %w", err)
	}
	if err := c.Admin.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating admin settings: %w", err)
	}
	c.Fallback.normalize()
	if err := c.Usecases.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating usecases settings: %w", err)
	}
	return nil
}

// Redacted returns a copy of c which its secrets are masked, so it may
// be logged or printed.
func (c *Config) Redacted() *Config {
	r := *c
	mask := func(s *string) {
		if *s != "" {
			*s = "***"
		}
	}
	mask(&r.Database.Password)
	mask(&r.Storage.SecretKey)
	mask(&r.Session.Secret)
	mask(&r.Admin.PasswordHash)
	return &r
}

// LogValue implements the slog.LogValuer interface, so a Config may be
// logged without revealing its secrets.
func (c *Config) LogValue() slog.Value {
	r := c.Redacted()
	return slog.GroupValue(
		slog.String("database", r.Database.Name),
		slog.String("listen", *r.Gin.Address),
		slog.String("storage", r.Storage.Endpoint),
		slog.String("fallback", r.Fallback.Path),
	)
}

// NewImageStore creates the object storage client and makes sure that
// the listing images bucket exists (being publicly readable if the
// storage settings ask so).
func (c *Config) NewImageStore(ctx context.Context) (*s3.Store, error) {
	s, err := c.Storage.NewStore()
	if err != nil {
		return nil, err
	}
	bucket := listingsuc.DefaultBucket
	if b := c.Usecases.Listings.Bucket; b != nil {
		bucket = *b
	}
	if err = s.EnsureBucket(ctx, bucket, *c.Storage.PublicRead); err != nil {
		return nil, fmt.Errorf("ensuring images bucket: %w", err)
	}
	return s, nil
}

// NewFallbackStore opens the local fallback listings store.
// It returns nil (and no error) if no fallback path is configured.
func (c *Config) NewFallbackStore(ctx context.Context) (*boltdb.Store, error) {
	if c.Fallback.Path == "" {
		log.Info(ctx, "fallback store is disabled")
		return nil, nil
	}
	s, err := boltdb.Open(c.Fallback.Path, c.Fallback.timeout())
	if err != nil {
		return nil, fmt.Errorf("opening fallback store: %w", err)
	}
	return s, nil
}

// NewListingsUseCase instantiates a new listings use case.
// The fb fallback store is optional and may be nil.
func (c *Config) NewListingsUseCase(
	p repo.Pool, l repo.Listings, s repo.ImageStore, fb repo.FallbackStore,
) (*listingsuc.UseCase, error) {
	opts := c.Usecases.listingsOptions()
	opts = append(opts, listingsuc.WithExtensionLookup(mimesniff.Extension))
	if fb != nil {
		opts = append(opts, listingsuc.WithFallbackStore(fb))
	}
	return listingsuc.New(p, l, s, opts...)
}

// NewIntakeUseCase instantiates the image intake drafts registry.
// The o observer is optional and may be nil.
func (c *Config) NewIntakeUseCase(
	u intakeuc.Uploader, o intakeuc.Observer,
) (*intakeuc.Registry, error) {
	opts, err := c.Usecases.intakeOptions()
	if err != nil {
		return nil, err
	}
	if o != nil {
		opts = append(opts, intakeuc.WithObserver(o))
	}
	return intakeuc.New(u, opts...)
}

// NewAuthUseCase instantiates the admin authentication use case which
// checks the configured admin credentials using the v verifier.
func (c *Config) NewAuthUseCase(v scram.Verifier) (*authuc.UseCase, error) {
	return authuc.New(v, c.Admin.Username, c.Admin.PasswordHash)
}
