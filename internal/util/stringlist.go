// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"encoding/json"
	"strings"
)

// EncodeStringList encodes a string slice as the JSON array stored in text
// columns (tags, people). Entries are trimmed and empties dropped; a nil or
// empty slice encodes as "[]".
func EncodeStringList(items []string) string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			cleaned = append(cleaned, item)
		}
	}

	data, err := json.Marshal(cleaned)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// ParseStringList decodes a JSON array text column back into a slice.
// Invalid or empty input yields nil.
func ParseStringList(raw string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}
