// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docredact/internal/version"
)

var (
	// Global flags
	cfgFile  string
	logLevel string
	debug    bool
)

var rootCmd = &cobra.Command{
	Use:   "docredact",
	Short: "Detect and redact personal information in documents",
	Long: `docredact replaces emails, phone numbers, street addresses, ZIP codes and
person names with numbered placeholder tokens such as [EMAIL_1], and reports
every substitution it made.

Names are found with an optional NER sidecar (ner.url in the config or
DOCREDACT_NER_URL) and fall back to pattern matching when it is unavailable.`,
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: search docredact.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log per-operation timings")
}
