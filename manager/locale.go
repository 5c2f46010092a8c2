// Copyright 2024 - 2026, the Lingora contributors
// SPDX-License-Identifier: AGPL-3.0-only

package manager

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is the code used when neither the host nor the system
// locale supplies one. The current language is never empty after
// construction.
const DefaultLanguage = "en"

// SystemLanguage probes the process environment for a default language code
// in the usual POSIX priority order. Locale suffixes such as ".UTF-8" and
// "@latin" are stripped; the C and POSIX locales map to [DefaultLanguage].
func SystemLanguage() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		value := os.Getenv(name)
		if value == "" {
			continue
		}

		if i := strings.IndexAny(value, ".@"); i >= 0 {
			value = value[:i]
		}

		if value == "" || value == "C" || value == "POSIX" {
			return DefaultLanguage
		}

		return value
	}

	return DefaultLanguage
}

// IsEnglishLike reports whether code selects English, possibly with a
// region, in either underscore or hyphen spelling.
func IsEnglishLike(code string) bool {
	code = strings.ToLower(code)

	return code == "en" || strings.HasPrefix(code, "en_") || strings.HasPrefix(code, "en-")
}

// NormalizeLanguageCode canonicalizes code to a BCP 47 tag string, accepting
// both underscore and hyphen spellings ("pt_BR" and "pt-BR"). Codes that do
// not parse are returned unchanged.
func NormalizeLanguageCode(code string) string {
	t, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return code
	}

	return t.String()
}

// shortLanguageCode returns the portion of code before the first '_' or '-',
// or "" when code has no region part.
func shortLanguageCode(code string) string {
	if i := strings.IndexAny(code, "_-"); i >= 0 {
		return code[:i]
	}

	return ""
}
