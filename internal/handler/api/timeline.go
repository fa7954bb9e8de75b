// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/quietgrove/memorial-go/internal/service"
	"github.com/quietgrove/memorial-go/internal/store"
)

// TimelineEventResponse represents a timeline event in API responses.
type TimelineEventResponse struct {
	ID          int64      `json:"id"`
	Year        int64      `json:"year"`
	EventDate   *time.Time `json:"eventDate,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Position    int64      `json:"position"`
	IsPublic    bool       `json:"isPublic"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// TimelineEventRequest is the request body for creating or updating a
// timeline event.
type TimelineEventRequest struct {
	Year        int64  `json:"year"`
	EventDate   string `json:"eventDate"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Position    int64  `json:"position"`
	IsPublic    bool   `json:"isPublic"`
}

// SetEventVisibilityRequest is the request body for toggling visibility.
type SetEventVisibilityRequest struct {
	IsPublic bool `json:"isPublic"`
}

func timelineEventToResponse(e store.TimelineEvent) TimelineEventResponse {
	resp := TimelineEventResponse{
		ID:          e.ID,
		Year:        e.Year,
		Title:       e.Title,
		Description: e.Description,
		Category:    e.Category,
		Position:    e.Position,
		IsPublic:    e.IsPublic,
		CreatedAt:   e.CreatedAt,
	}
	if e.EventDate.Valid {
		resp.EventDate = &e.EventDate.Time
	}
	return resp
}

func timelineEventsToResponses(events []store.TimelineEvent) []TimelineEventResponse {
	responses := make([]TimelineEventResponse, 0, len(events))
	for _, e := range events {
		responses = append(responses, timelineEventToResponse(e))
	}
	return responses
}

func (r TimelineEventRequest) toInput() service.TimelineEventInput {
	return service.TimelineEventInput{
		Year:        r.Year,
		EventDate:   parseDateField(r.EventDate),
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Position:    r.Position,
		IsPublic:    r.IsPublic,
	}
}

// ListTimeline handles GET /api/timeline. Only public events are returned,
// sorted by year ascending.
func (h *Handler) ListTimeline(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePagination(r)
	category := r.URL.Query().Get("category")

	events, total, err := h.timeline.ListPublicEvents(r.Context(), category, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteList(w, timelineEventsToResponses(events), NewPagination(page, limit, total))
}

// ListAdminTimeline handles GET /api/admin/timeline and includes hidden
// events.
func (h *Handler) ListAdminTimeline(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePagination(r)

	events, total, err := h.timeline.ListAllEvents(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteList(w, timelineEventsToResponses(events), NewPagination(page, limit, total))
}

// CreateTimelineEvent handles POST /api/admin/timeline.
func (h *Handler) CreateTimelineEvent(w http.ResponseWriter, r *http.Request) {
	var req TimelineEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.timeline.CreateEvent(r.Context(), adminID(r), req.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteData(w, http.StatusCreated, "timeline event created", timelineEventToResponse(event))
}

// UpdateTimelineEvent handles PATCH /api/admin/timeline/{id}.
func (h *Handler) UpdateTimelineEvent(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid event ID")
		return
	}

	var req TimelineEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.timeline.UpdateEvent(r.Context(), adminID(r), id, req.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, "", timelineEventToResponse(event))
}

// SetTimelineEventVisibility handles PATCH /api/admin/timeline/{id}/visibility.
func (h *Handler) SetTimelineEventVisibility(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid event ID")
		return
	}

	var req SetEventVisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.timeline.SetEventVisibility(r.Context(), adminID(r), id, req.IsPublic)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, "", timelineEventToResponse(event))
}

// DeleteTimelineEvent handles DELETE /api/admin/timeline/{id}.
func (h *Handler) DeleteTimelineEvent(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid event ID")
		return
	}

	if err := h.timeline.DeleteEvent(r.Context(), adminID(r), id); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, "timeline event deleted", nil)
}
