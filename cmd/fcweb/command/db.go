// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/momeni/furucamera/pkg/adapter/config"
	"github.com/momeni/furucamera/pkg/adapter/db/postgres/listingsrp"
	"github.com/momeni/furucamera/pkg/adapter/db/postgres/schemarp"
	"github.com/momeni/furucamera/pkg/core/usecase/listingsuc"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For a fresh installation, the init sub-command creates the listings
table and may insert the sample listings.`,
}

var withSamples bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the listings table",
	Long: `Create the listings table and its indices if they do not exist.
The database connection information are read from the config file.
With --samples, the sample camera listings which are missing from the
table are inserted too.`,
	RunE: initDB,
	Args: cobra.NoArgs,
}

func initDB(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	c.Logging.SetupLogger(os.Stderr)
	p, err := c.Database.ConnectionPool(ctx)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	// images are not touched, so no object storage is required
	luc, err := listingsuc.New(p, listingsrp.New(), nil)
	if err != nil {
		return fmt.Errorf("creating listings use case: %w", err)
	}
	n, err := luc.InitDB(ctx, schemarp.New(), withSamples)
	if err != nil {
		return fmt.Errorf("initializing DB: %w", err)
	}
	fmt.Printf("listings table is ready, %d sample listing(s) inserted\n", n)
	return nil
}

func init() {
	initCmd.Flags().BoolVar(
		&withSamples, "samples", false, "insert the sample listings",
	)
	dbCmd.AddCommand(initCmd)
	rootCmd.AddCommand(dbCmd)
}
