// Copyright 2024 - 2026, the Lingora contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

const defaultCacheSize = 1024

// SetDefaults populates the configuration with default values.
func (cfg *Config) SetDefaults() {
	cfg.Locale.Directories = []string{"./locale"}
	cfg.Locale.DefaultLanguage = ""
	cfg.Locale.OverrideDirectory = "./config"
	cfg.Locale.IncludeTestData = false

	cfg.Cache.Enabled = false
	cfg.Cache.Size = defaultCacheSize
	cfg.Cache.Compress = false

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"
}
