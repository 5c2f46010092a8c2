// Copyright 2024 - 2026, the Lingora contributors
// SPDX-License-Identifier: AGPL-3.0-only

package manager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemLanguage(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			"lc_all wins",
			map[string]string{"LC_ALL": "de_DE.UTF-8", "LC_MESSAGES": "fr_FR", "LANG": "ja_JP"},
			"de_DE",
		},
		{
			"lc_messages before lang",
			map[string]string{"LC_ALL": "", "LC_MESSAGES": "fr_FR", "LANG": "ja_JP"},
			"fr_FR",
		},
		{
			"lang alone",
			map[string]string{"LC_ALL": "", "LC_MESSAGES": "", "LANG": "ja_JP.eucJP"},
			"ja_JP",
		},
		{
			"modifier stripped",
			map[string]string{"LC_ALL": "sr_RS@latin", "LC_MESSAGES": "", "LANG": ""},
			"sr_RS",
		},
		{
			"c locale",
			map[string]string{"LC_ALL": "C", "LC_MESSAGES": "", "LANG": ""},
			DefaultLanguage,
		},
		{
			"posix locale",
			map[string]string{"LC_ALL": "POSIX.UTF-8", "LC_MESSAGES": "", "LANG": ""},
			DefaultLanguage,
		},
		{
			"nothing set",
			map[string]string{"LC_ALL": "", "LC_MESSAGES": "", "LANG": ""},
			DefaultLanguage,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for name, value := range tc.env {
				t.Setenv(name, value)
			}

			assert.Equal(t, tc.want, SystemLanguage())
		})
	}
}

func TestIsEnglishLike(t *testing.T) {
	t.Parallel()

	assert.True(t, IsEnglishLike("en"))
	assert.True(t, IsEnglishLike("en_US"))
	assert.True(t, IsEnglishLike("en-GB"))
	assert.True(t, IsEnglishLike("EN"))

	assert.False(t, IsEnglishLike(""))
	assert.False(t, IsEnglishLike("de"))
	assert.False(t, IsEnglishLike("eng"))
}

func TestNormalizeLanguageCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pt-BR", NormalizeLanguageCode("pt_BR"))
	assert.Equal(t, "de", NormalizeLanguageCode("de"))
	assert.Equal(t, "zh-CN", NormalizeLanguageCode("zh-CN"))

	// Unparseable codes pass through untouched.
	assert.Equal(t, "???", NormalizeLanguageCode("???"))
}

func TestShortLanguageCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pt", shortLanguageCode("pt_BR"))
	assert.Equal(t, "zh", shortLanguageCode("zh-Hant"))
	assert.Empty(t, shortLanguageCode("de"))
}
