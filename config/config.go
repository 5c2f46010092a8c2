// Copyright 2024 - 2026, the Lingora contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package config holds the process-wide configuration: where locale
// directories and override catalogs live, how the result cache behaves and
// how logs are written. It is loaded once at startup from defaults, an
// optional YAML file and environment overrides, in that order.
package config

import (
	"codeberg.org/lingora/lingora/manager"
)

// Global exposes the loaded configuration. It is written once by
// [Config.LoadConfig] at startup and read-only afterwards.
var Global Config

// Config is the application configuration.
type Config struct {
	Locale struct {
		// Directories are the roots scanned for compiled catalogs laid
		// out as <root>/<lang>/LC_MESSAGES/<catalog>.
		Directories []string `yaml:"directories"`

		// DefaultLanguage is the startup language code. Empty selects
		// the system locale.
		DefaultLanguage string `yaml:"defaultLanguage"`

		// OverrideDirectory is searched for override catalogs
		// (overrides.<code>.txt, overrides.txt).
		OverrideDirectory string `yaml:"overrideDirectory"`

		// IncludeTestData also loads catalogs from TEST_DATA paths.
		IncludeTestData bool `yaml:"includeTestData"`
	} `yaml:"locale"`

	Cache struct {
		Enabled  bool `yaml:"enabled"`
		Size     int  `yaml:"size"`
		Compress bool `yaml:"compress"`
	} `yaml:"cache"`

	Log struct {
		Level   string   `yaml:"logLevel"`
		Outputs []string `yaml:"logOutputs"`
		Format  string   `yaml:"logFormat"`
	} `yaml:"log"`
}

// LoadConfig loads the configuration from defaults, the YAML file named by
// the -config flag and environment variables, then configures logging.
func (cfg *Config) LoadConfig() error {
	configFilePath := parseCommandLineArgs()

	cfg.SetDefaults()

	if err := cfg.readYAML(configFilePath); err != nil {
		return err
	}

	cfg.applyEnvOverrides()
	cfg.setupLogging()

	return nil
}

// ManagerOptions translates the configuration into manager options.
func (cfg *Config) ManagerOptions() manager.Options {
	opts := manager.Options{
		DefaultLanguage: cfg.Locale.DefaultLanguage,
		OverrideDir:     cfg.Locale.OverrideDirectory,
		IncludeTestData: cfg.Locale.IncludeTestData,
	}

	if len(cfg.Locale.Directories) > 0 {
		opts.Scanner = manager.DirScanner{Roots: cfg.Locale.Directories}
	}

	if cfg.Cache.Enabled {
		opts.CacheSize = cfg.Cache.Size
		opts.CacheCompress = cfg.Cache.Compress
	}

	return opts
}
