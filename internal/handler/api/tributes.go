// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/quietgrove/memorial-go/internal/model"
	"github.com/quietgrove/memorial-go/internal/service"
	"github.com/quietgrove/memorial-go/internal/store"
)

// TributeResponse represents a tribute in API responses. The submitter's
// email is only populated on admin endpoints.
type TributeResponse struct {
	ID           int64     `json:"id"`
	Author       string    `json:"author"`
	Email        string    `json:"email,omitempty"`
	Relationship string    `json:"relationship"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	MessageHTML  string    `json:"messageHtml"`
	IsPrivate    bool      `json:"isPrivate"`
	IsApproved   bool      `json:"isApproved"`
	IsFeatured   bool      `json:"isFeatured"`
	Likes        int64     `json:"likes"`
	CreatedAt    time.Time `json:"createdAt"`
	TimeAgo      string    `json:"timeAgo"`
}

// CreateTributeRequest is the request body for submitting a tribute.
type CreateTributeRequest struct {
	Author       string `json:"author"`
	Email        string `json:"email"`
	Relationship string `json:"relationship"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	IsPrivate    bool   `json:"isPrivate"`
}

func tributeToResponse(t store.Tribute, includeEmail bool) TributeResponse {
	resp := TributeResponse{
		ID:           t.ID,
		Author:       t.Author,
		Relationship: t.Relationship,
		Title:        t.Title,
		Message:      t.Message,
		MessageHTML:  t.MessageHTML,
		IsPrivate:    t.IsPrivate,
		IsApproved:   t.IsApproved,
		IsFeatured:   t.IsFeatured,
		Likes:        t.Likes,
		CreatedAt:    t.CreatedAt,
		TimeAgo:      model.RelativeTime(t.CreatedAt, time.Now()),
	}
	if includeEmail {
		resp.Email = t.Email
	}
	return resp
}

func tributesToResponses(tributes []store.Tribute, includeEmail bool) []TributeResponse {
	responses := make([]TributeResponse, 0, len(tributes))
	for _, t := range tributes {
		responses = append(responses, tributeToResponse(t, includeEmail))
	}
	return responses
}

// CreateTribute handles POST /api/tributes.
func (h *Handler) CreateTribute(w http.ResponseWriter, r *http.Request) {
	var req CreateTributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tribute, err := h.tributes.SubmitTribute(r.Context(), service.TributeInput{
		Author:       req.Author,
		Email:        req.Email,
		Relationship: req.Relationship,
		Title:        req.Title,
		Message:      req.Message,
		IsPrivate:    req.IsPrivate,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteData(w, http.StatusCreated, "tribute submitted for review", tributeToResponse(tribute, false))
}

// ListTributes handles GET /api/tributes. Only approved, non-private
// tributes are returned regardless of the query parameters.
func (h *Handler) ListTributes(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePagination(r)
	featured := parseBoolParam(r, "featured")
	search := r.URL.Query().Get("search")
	sort := r.URL.Query().Get("sort")

	tributes, total, err := h.tributes.ListPublicTributes(r.Context(), featured, search, sort, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteList(w, tributesToResponses(tributes, false), NewPagination(page, limit, total))
}

// LikeTribute handles POST /api/tributes/{id}/like.
func (h *Handler) LikeTribute(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid tribute ID")
		return
	}

	tribute, err := h.tributes.LikeTribute(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, "", tributeToResponse(tribute, false))
}

// ListAdminTributes handles GET /api/admin/tributes. The status query
// parameter narrows the list to pending or approved tributes.
func (h *Handler) ListAdminTributes(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePagination(r)

	var approved *bool
	switch r.URL.Query().Get("status") {
	case "pending":
		v := false
		approved = &v
	case "approved":
		v := true
		approved = &v
	}

	tributes, total, err := h.tributes.ListAdminTributes(r.Context(), approved, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteList(w, tributesToResponses(tributes, true), NewPagination(page, limit, total))
}

// ApproveTribute handles PATCH /api/admin/tributes/{id}/approve.
func (h *Handler) ApproveTribute(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid tribute ID")
		return
	}

	tribute, err := h.tributes.ApproveTribute(r.Context(), adminID(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, "tribute approved", tributeToResponse(tribute, true))
}

// RejectTribute handles PATCH /api/admin/tributes/{id}/reject. Rejection
// removes the tribute permanently.
func (h *Handler) RejectTribute(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid tribute ID")
		return
	}

	if err := h.tributes.RejectTribute(r.Context(), adminID(r), id); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, "tribute rejected", nil)
}

// FeatureTribute handles PATCH /api/admin/tributes/{id}/feature and toggles
// the featured flag.
func (h *Handler) FeatureTribute(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid tribute ID")
		return
	}

	tribute, err := h.tributes.ToggleFeatureTribute(r.Context(), adminID(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, "", tributeToResponse(tribute, true))
}
