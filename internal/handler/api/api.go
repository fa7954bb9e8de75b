// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST handlers for the memorial site.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quietgrove/memorial-go/internal/middleware"
	"github.com/quietgrove/memorial-go/internal/service"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	tributes  *service.TributeService
	gallery   *service.GalleryService
	timeline  *service.TimelineService
	dashboard *service.DashboardService
	admins    *service.AdminService
	logins    *middleware.LoginProtection
}

// NewHandler creates a new API handler.
func NewHandler(
	tributes *service.TributeService,
	gallery *service.GalleryService,
	timeline *service.TimelineService,
	dashboard *service.DashboardService,
	admins *service.AdminService,
	logins *middleware.LoginProtection,
) *Handler {
	return &Handler{
		tributes:  tributes,
		gallery:   gallery,
		timeline:  timeline,
		dashboard: dashboard,
		admins:    admins,
		logins:    logins,
	}
}

// Response is the standard API response envelope.
type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes the window of a list response.
type Pagination struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// NewPagination computes the page count for a list window.
func NewPagination(page, limit, total int64) *Pagination {
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return &Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteData writes a successful JSON response.
func WriteData(w http.ResponseWriter, statusCode int, message string, data any) {
	WriteJSON(w, statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// WriteList writes a successful paginated list response.
func WriteList(w http.ResponseWriter, data any, pagination *Pagination) {
	WriteJSON(w, http.StatusOK, Response{
		Success:    true,
		Data:       data,
		Pagination: pagination,
	})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, Response{
		Success: false,
		Message: message,
	})
}

// writeServiceError maps service errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		WriteError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, service.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "invalid credentials")
	default:
		slog.Error("request failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

// parsePagination reads page and limit query parameters and returns the
// normalized window. Out-of-range values fall back to the defaults.
func parsePagination(r *http.Request) (page, limit, offset int64) {
	page = 1
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64); err == nil && v > 0 {
		page = v
	}

	limit = defaultPerPage
	if v, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil && v > 0 {
		limit = v
		if limit > maxPerPage {
			limit = maxPerPage
		}
	}

	return page, limit, (page - 1) * limit
}

// parseIDParam extracts the {id} URL parameter.
func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// parseBoolParam reads an optional boolean query parameter. An absent or
// malformed value yields nil.
func parseBoolParam(r *http.Request, name string) *bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

// adminID returns the authenticated admin's ID, or zero for requests that
// bypassed the auth middleware (tests call handlers directly).
func adminID(r *http.Request) int64 {
	if identity := middleware.GetIdentity(r); identity != nil {
		return identity.AdminID
	}
	return 0
}
