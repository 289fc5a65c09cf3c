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
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/zonegraph/cmd/zonegraph/config"
	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/cache"
	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/server"
	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/telemetry"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var serveListenAddr string

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the zones HTTP service",
	Long: `Run the HTTP service exposing affected-set and zone-plan
computation.

Endpoints:
  POST /v1/zones/affected - Compute the affected set for one change
  POST /v1/zones/plan - Group pull requests into serialization zones
  GET  /v1/zones/health - Health check
  GET  /v1/zones/ready - Readiness check
  GET  /metrics - Prometheus scrape endpoint

The service keeps hydrated graphs in an in-process LRU cache so repeated
queries against the same baseline skip the store entirely.`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListenAddr, "listen", "",
		"Listen address, e.g. :8095 (overrides config)")
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runServe(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	cfg := config.Global

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "zonegraph",
		ServiceVersion: server.ServiceVersion,
		TraceExporter:  cfg.Telemetry.Exporter,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure:   cfg.Telemetry.OTLPInsecure,
	})
	if err != nil {
		cliLogger.Error("telemetry init failed", "error", err)
		os.Exit(ExitError)
	}

	stack, err := buildStoreStack(ctx)
	if err != nil {
		cliLogger.Error("store init failed", "error", err)
		os.Exit(ExitError)
	}
	defer stack.Close()

	dagCache := cache.NewDAGCache(
		cache.WithMaxEntries(cfg.Server.DAGCacheEntries),
		cache.WithTTL(time.Duration(cfg.Server.DAGCacheTTLMins)*time.Minute),
	)

	svc, err := server.NewService(buildFetcher(stack), dagCache, cliLogger.With("component", "server"))
	if err != nil {
		cliLogger.Error("service init failed", "error", err)
		os.Exit(ExitError)
	}

	addr := cfg.Server.ListenAddr
	if serveListenAddr != "" {
		addr = serveListenAddr
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.NewRouter(server.NewHandlers(svc)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		cliLogger.Info("zones service listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cliLogger.Error("server failed", "error", err)
			os.Exit(ExitError)
		}
	}()

	// Block until interrupted, then drain.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cliLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		cliLogger.Error("shutdown failed", "error", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		cliLogger.Error("telemetry shutdown failed", "error", err)
	}
}
