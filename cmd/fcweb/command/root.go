// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the fcweb
// storefront project. Commands are organized using the cobra library.
// The root command starts the web server itself while the "db"
// sub-command initializes the database and the "hash-password"
// sub-command prints the admin password hash for the config file.
//
//	./fcweb [-c /path/of/main/config.yaml]           # start web server
//	./fcweb db init [--samples] [-c /path/of/main/config.yaml]
//	./fcweb hash-password <password>
package command

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/momeni/furucamera/pkg/adapter/config"
	"github.com/momeni/furucamera/pkg/adapter/db/postgres"
	"github.com/momeni/furucamera/pkg/adapter/metrics"
	"github.com/momeni/furucamera/pkg/adapter/restful/gin"
	"github.com/momeni/furucamera/pkg/adapter/restful/gin/routes"
	"github.com/momeni/furucamera/pkg/core/log"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "fcweb",
	Short: "A vintage camera storefront with its admin console",
	Long: `A vintage camera storefront with its admin console.
The storefront lists the camera listings, shows their details along
with related listings, and hands the buyer over to the seller chat.
If the database is unreachable, the last known listings are served
from a local fallback store.
The admin console manages listings and their images which are dropped
or picked in batches, uploaded to an S3 compatible object storage, and
merged with the manually entered image URLs.`,
	RunE: startWebServer,
	Args: cobra.NoArgs,
}

func startWebServer(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	lg := c.Logging.SetupLogger(os.Stderr)
	log.Info(ctx, "configs are loaded", slog.Any("configs", c))
	var popts []postgres.PoolOption
	if c.Fallback.Path != "" {
		// listings are served from the fallback store until it is up
		popts = append(popts, postgres.WithLenientStartup())
	}
	p, err := c.Database.ConnectionPool(ctx, popts...)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	s, err := c.NewImageStore(ctx)
	if err != nil {
		return fmt.Errorf("creating image store: %w", err)
	}
	a := routes.Adapters{
		Pool:        p,
		Images:      s,
		Sessions:    c.Session.NewStore(),
		SessionName: c.Session.Name,
		Metrics:     metrics.New(),
	}
	fb, err := c.NewFallbackStore(ctx)
	if err != nil {
		return fmt.Errorf("creating fallback store: %w", err)
	}
	if fb != nil {
		defer fb.Close()
		a.Fallback = fb
	}
	var e *gin.Engine = c.Gin.NewEngine(lg)
	if _, err = routes.Register(e, a, c); err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}
	log.Info(ctx, "listening", slog.String("address", *c.Gin.Address))
	if err = e.Run(*c.Gin.Address); err != nil {
		return fmt.Errorf("running Gin engine: %w", err)
	}
	return nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command. The exit code is
// zero for success and one for failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); !found {
		// the default path should usually be in the /etc directory
		cfgPath = "configs/sample-config.yaml"
	}
}
