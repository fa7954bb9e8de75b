// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import "net/http"

// DashboardStats handles GET /api/admin/dashboard/stats.
func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.GetStats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, "", stats)
}

// DashboardActivity handles GET /api/admin/dashboard/activity.
func (h *Handler) DashboardActivity(w http.ResponseWriter, r *http.Request) {
	items, err := h.dashboard.GetActivityFeed(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, "", items)
}
