// Copyright 2024 - 2026, the Lingora contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package audit owns process-wide logging defaults.
package audit

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetDefaultLogger provides an ok log output format on startup before the
// configuration is loaded.
func SetDefaultLogger() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
