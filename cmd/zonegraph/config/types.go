// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

type ZonegraphConfig struct {
	// Store: where snapshot objects come from
	Store StoreConfig `yaml:"store"`

	// Fetch: batch fetch tuning
	Fetch FetchConfig `yaml:"fetch"`

	// Server: HTTP service settings
	Server ServerConfig `yaml:"server"`

	// Logging: level and optional file logging
	Logging LoggingConfig `yaml:"logging"`

	// Telemetry: trace exporter selection
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type StoreConfig struct {
	// Backend can be "gcs" or "memory"
	Backend    string `yaml:"backend"`
	Bucket     string `yaml:"bucket,omitempty"`      // e.g. my-team-build-cache
	Project    string `yaml:"project,omitempty"`     // GCP project id
	SAKeyPath  string `yaml:"sa_key_path,omitempty"` // empty means ADC
	CacheDir   string `yaml:"cache_dir"`             // badger directory, empty disables
	CacheInMem bool   `yaml:"cache_in_memory"`       // badger in-memory mode, for tests
}

type FetchConfig struct {
	BatchSize int `yaml:"batch_size"` // concurrent fetches per batch
}

type ServerConfig struct {
	ListenAddr      string `yaml:"listen_addr"` // e.g. :8095
	DAGCacheEntries int    `yaml:"dag_cache_entries"`
	DAGCacheTTLMins int    `yaml:"dag_cache_ttl_minutes"`
}

type LoggingConfig struct {
	// Level can be "debug", "info", "warn", "error"
	Level string `yaml:"level"`
	Dir   string `yaml:"dir,omitempty"`
	JSON  bool   `yaml:"json"`
}

type TelemetryConfig struct {
	// Exporter can be "none", "stdout", or "otlp"
	Exporter     string `yaml:"exporter"`
	OTLPEndpoint string `yaml:"otlp_endpoint,omitempty"`
	OTLPInsecure bool   `yaml:"otlp_insecure"`
}

func DefaultConfig() ZonegraphConfig {
	return ZonegraphConfig{
		Store: StoreConfig{
			Backend:  "gcs",
			CacheDir: "~/.zonegraph/cache",
		},
		Fetch: FetchConfig{
			BatchSize: 50,
		},
		Server: ServerConfig{
			ListenAddr:      ":8095",
			DAGCacheEntries: 32,
			DAGCacheTTLMins: 15,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Telemetry: TelemetryConfig{
			Exporter: "none",
		},
	}
}
