// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Timeline event categories (closed set).
const (
	TimelineCategoryMilestone = "milestone"
	TimelineCategoryFamily    = "family"
	TimelineCategoryCareer    = "career"
	TimelineCategoryTravel    = "travel"
	TimelineCategoryOther     = "other"
)

// TimelineCategories returns the closed set of timeline event categories.
func TimelineCategories() []string {
	return []string{
		TimelineCategoryMilestone,
		TimelineCategoryFamily,
		TimelineCategoryCareer,
		TimelineCategoryTravel,
		TimelineCategoryOther,
	}
}

// IsValidTimelineCategory checks category enum membership.
func IsValidTimelineCategory(category string) bool {
	for _, c := range TimelineCategories() {
		if c == category {
			return true
		}
	}
	return false
}
