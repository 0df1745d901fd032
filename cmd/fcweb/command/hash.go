// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"

	"github.com/momeni/furucamera/pkg/adapter/hash/scram"
	"github.com/spf13/cobra"
)

var iterations int

var hashCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print the SCRAM-SHA-256 hash of an admin password",
	Long: `Print the SCRAM-SHA-256 hash of an admin password with a random
salt. The printed value may be used as the admin.password-hash setting
of the config file or the FCWEB_ADMIN_PASSWORD_HASH variable.`,
	RunE: hashPassword,
	Args: cobra.ExactArgs(1),
}

func hashPassword(cmd *cobra.Command, args []string) error {
	h, err := scram.SHA256().Hash(args[0], "", iterations)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), h)
	return nil
}

func init() {
	hashCmd.Flags().IntVar(
		&iterations, "iterations", scram.DefaultIters, "PBKDF2 iterations count",
	)
	rootCmd.AddCommand(hashCmd)
}
