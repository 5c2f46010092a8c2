// Copyright 2024 - 2026, the Lingora contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Lingora resolves message tokens against compiled and override catalogs from
the command line.

Usage:

	lingora [flags] <command> [arguments]

Commands:

	languages                      list scanned language codes
	translate <message> [args...]  translate one message
	plural <singular> <plural> <n> translate a plural pair
	context <ctx> <message>        translate under a message context
	dump                           print the loaded override catalog
	find <query>                   search the override catalog
	check                          report override catalog integrity
	meta                           print the override catalog meta block

With -catalog, the catalog commands run against the given text catalog file
instead of the configured override layer; -strict rejects malformed lines.
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/lingora/lingora/audit"
	"codeberg.org/lingora/lingora/catalog"
	"codeberg.org/lingora/lingora/config"
	"codeberg.org/lingora/lingora/manager"
)

var errUsage = errors.New("usage error")

func main() {
	audit.SetDefaultLogger()

	if err := run(); err != nil {
		if errors.Is(err, errUsage) {
			flag.Usage()
			os.Exit(2)
		}

		log.Fatal().Err(err).Msg("Command failed")
	}
}

func run() error {
	var (
		catalogPath string
		strict      bool
		langFlag    string
	)

	flag.StringVar(&catalogPath, "catalog", "", "Run catalog commands against this text catalog file.")
	flag.BoolVar(&strict, "strict", false, "Reject malformed catalog lines instead of skipping them.")
	flag.StringVar(&langFlag, "lang", "", "Language code to activate, overriding the configuration.")

	if err := config.Global.LoadConfig(); err != nil {
		return err
	}

	args := flag.Args()
	if len(args) == 0 {
		return errUsage
	}

	command, args := args[0], args[1:]

	if catalogPath != "" {
		return runOnCatalog(command, args, catalogPath, strict)
	}

	m := manager.New(config.Global.ManagerOptions())

	lang := langFlag
	if lang == "" {
		lang = m.CurrentLanguage()
	}

	// Activating the language up front also loads the override catalog, so
	// the inspection commands see it.
	m.SetLanguage(lang)

	return runOnManager(m, command, args)
}

func runOnManager(m *manager.Manager, command string, args []string) error {
	switch command {
	case "languages":
		for _, code := range m.GetAvailableLanguages() {
			fmt.Println(code)
		}

		return nil

	case "translate":
		if len(args) < 1 {
			return errUsage
		}

		fmt.Println(m.Translate(args[0]))

		return nil

	case "plural":
		if len(args) != 3 {
			return errUsage
		}

		n, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid count %q: %w", args[2], err)
		}

		fmt.Println(m.TranslatePlural(args[0], args[1], n))

		return nil

	case "context":
		if len(args) != 2 {
			return errUsage
		}

		fmt.Println(m.TranslateWithContext(args[0], args[1]))

		return nil

	case "dump", "find", "check", "meta":
		return runCatalogCommand(m.OverrideEngine(), command, args)

	default:
		return errUsage
	}
}

// runOnCatalog loads path into a standalone engine and runs command there.
func runOnCatalog(command string, args []string, path string, strict bool) error {
	engine := catalog.NewEngine()
	if !engine.LoadFile(path, strict) {
		return fmt.Errorf("load %s: %w", path, engine.LastError())
	}

	switch command {
	case "translate":
		if len(args) < 1 {
			return errUsage
		}

		fmt.Println(engine.Translate(args[0], args[1:]))

		return nil

	case "plural":
		if len(args) < 2 {
			return errUsage
		}

		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid count %q: %w", args[1], err)
		}

		fmt.Println(engine.TranslatePlural(args[0], n, args[2:]))

		return nil

	default:
		return runCatalogCommand(engine, command, args)
	}
}

func runCatalogCommand(engine *catalog.Engine, command string, args []string) error {
	switch command {
	case "dump":
		fmt.Print(engine.DumpTable())

		return nil

	case "find":
		if len(args) != 1 {
			return errUsage
		}

		fmt.Print(engine.FindAny(args[0]))

		return nil

	case "check":
		report, code := engine.CheckCatalog()
		fmt.Println(report)

		if code != catalog.CheckOK {
			os.Exit(1)
		}

		return nil

	case "meta":
		var b strings.Builder

		fmt.Fprintf(&b, "locale: %s\n", engine.MetaLocale())
		fmt.Fprintf(&b, "fallback: %s\n", engine.MetaFallback())
		fmt.Fprintf(&b, "note: %s\n", engine.MetaNote())
		fmt.Fprintf(&b, "plural_rule: %d\n", engine.MetaPluralRule())
		fmt.Print(b.String())

		return nil

	default:
		return errUsage
	}
}
