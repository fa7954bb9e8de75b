// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose helpers: upload filename
// sanitization with Unicode transliteration and JSON string-list encoding.
package util

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// slugRegex matches non-alphanumeric characters (except hyphens)
	slugRegex = regexp.MustCompile(`[^a-z0-9-]+`)
	// multipleHyphens matches multiple consecutive hyphens
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Slugify converts a string to a URL-friendly slug: accents are decomposed
// and stripped, the rest is lowercased with hyphens between words.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)

	result = strings.ToLower(result)
	result = strings.ReplaceAll(result, " ", "-")
	result = slugRegex.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")

	return strings.Trim(result, "-")
}

// SanitizeFilename makes an uploaded filename safe for disk storage and URLs:
// path components are stripped, non-ASCII characters transliterated, and the
// base name slugged while keeping the extension.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	// Transliterate to ASCII before slugging so non-Latin names survive
	base = Slugify(unidecode.Unidecode(base))
	if base == "" {
		base = "photo"
	}
	if ext == "" {
		ext = ".bin"
	}

	return base + ext
}
