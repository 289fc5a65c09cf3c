// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/zonegraph/cmd/zonegraph/config"
	"github.com/AleutianAI/zonegraph/pkg/logging"
)

// --- Global Command Variables ---
var (
	// Store overrides (flags win over the config file)
	storeBackend string
	storeBucket  string
	storeProject string
	storeSAKey   string

	logLevel string

	cliLogger *logging.Logger

	rootCmd = &cobra.Command{
		Use:   "zonegraph",
		Short: "A cli to compute affected packages and merge-queue zones",
		Long: `Zonegraph hydrates per-commit build graph snapshots from object
storage and computes which packages a change transitively affects,
grouping queued pull requests into serialization zones.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := config.Load(); err != nil {
				fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
				os.Exit(ExitError)
			}

			// Flags override the config file.
			if storeBackend != "" {
				config.Global.Store.Backend = storeBackend
			}
			if storeBucket != "" {
				config.Global.Store.Bucket = storeBucket
			}
			if storeProject != "" {
				config.Global.Store.Project = storeProject
			}
			if storeSAKey != "" {
				config.Global.Store.SAKeyPath = storeSAKey
			}
			if logLevel != "" {
				config.Global.Logging.Level = logLevel
			}

			cliLogger = logging.New(logging.Config{
				Level:   logging.ParseLevel(config.Global.Logging.Level),
				LogDir:  config.Global.Logging.Dir,
				Service: "cli",
				JSON:    config.Global.Logging.JSON,
			})
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cliLogger != nil {
				_ = cliLogger.Close()
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", "",
		"Snapshot store backend: gcs or memory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&storeBucket, "bucket", "",
		"GCS bucket holding snapshot objects (overrides config)")
	rootCmd.PersistentFlags().StringVar(&storeProject, "project", "",
		"GCP project id (overrides config)")
	rootCmd.PersistentFlags().StringVar(&storeSAKey, "sa-key", "",
		"Path to a service account key; empty uses application default credentials")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(affectedCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fetchCmd)
}
