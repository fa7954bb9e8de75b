// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"time"
)

// Relative-time bucket thresholds in seconds.
const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 86400
	secondsPerMonth  = 2592000
)

// RelativeTime buckets the elapsed time since t into a human-readable label:
// "just now", "N minutes ago", "N hours ago", "N days ago" or "N months ago".
func RelativeTime(t, now time.Time) string {
	seconds := int64(now.Sub(t).Seconds())
	if seconds < 0 {
		seconds = 0
	}

	switch {
	case seconds < secondsPerMinute:
		return "just now"
	case seconds < secondsPerHour:
		return fmt.Sprintf("%d minutes ago", seconds/secondsPerMinute)
	case seconds < secondsPerDay:
		return fmt.Sprintf("%d hours ago", seconds/secondsPerHour)
	case seconds < secondsPerMonth:
		return fmt.Sprintf("%d days ago", seconds/secondsPerDay)
	default:
		return fmt.Sprintf("%d months ago", seconds/secondsPerMonth)
	}
}
