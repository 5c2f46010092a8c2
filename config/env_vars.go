// Copyright 2024 - 2026, the Lingora contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"os"
	"strconv"
	"strings"
)

// applyEnvOverrides overlays LINGORA_* environment variables on top of the
// file configuration. List values are comma-separated.
func (cfg *Config) applyEnvOverrides() {
	if v, ok := os.LookupEnv("LINGORA_LOCALE_DIRS"); ok {
		cfg.Locale.Directories = splitList(v)
	}

	if v, ok := os.LookupEnv("LINGORA_LANGUAGE"); ok {
		cfg.Locale.DefaultLanguage = v
	}

	if v, ok := os.LookupEnv("LINGORA_OVERRIDE_DIR"); ok {
		cfg.Locale.OverrideDirectory = v
	}

	if v, ok := os.LookupEnv("LINGORA_INCLUDE_TEST_DATA"); ok {
		cfg.Locale.IncludeTestData = parseBool(v)
	}

	if v, ok := os.LookupEnv("LINGORA_CACHE"); ok {
		cfg.Cache.Enabled = parseBool(v)
	}

	if v, ok := os.LookupEnv("LINGORA_CACHE_SIZE"); ok {
		if size, err := strconv.Atoi(v); err == nil && size > 0 {
			cfg.Cache.Size = size
		}
	}

	if v, ok := os.LookupEnv("LINGORA_LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}

	if v, ok := os.LookupEnv("LINGORA_LOG_FORMAT"); ok {
		cfg.Log.Format = v
	}

	if v, ok := os.LookupEnv("LINGORA_LOG_OUTPUTS"); ok {
		cfg.Log.Outputs = splitList(v)
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")

	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)

	return err == nil && b
}
