// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/quietgrove/memorial-go/internal/model"
	"github.com/quietgrove/memorial-go/internal/service"
	"github.com/quietgrove/memorial-go/internal/store"
	"github.com/quietgrove/memorial-go/internal/util"
)

// multipartMemoryLimit caps the in-memory portion of a multipart form.
// Larger parts spill to temporary files.
const multipartMemoryLimit = 4 << 20

// PhotoResponse represents a gallery photo in API responses.
type PhotoResponse struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ImageURL     string     `json:"imageUrl"`
	ThumbnailURL string     `json:"thumbnailUrl"`
	Category     string     `json:"category"`
	Tags         []string   `json:"tags"`
	TakenAt      *time.Time `json:"takenAt,omitempty"`
	Location     string     `json:"location,omitempty"`
	People       []string   `json:"people"`
	UploadedBy   string     `json:"uploadedBy"`
	IsApproved   bool       `json:"isApproved"`
	IsFeatured   bool       `json:"isFeatured"`
	IsPublic     bool       `json:"isPublic"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// SubmissionResponse represents a photo submission in API responses.
type SubmissionResponse struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	ImageURL       string     `json:"imageUrl"`
	ThumbnailURL   string     `json:"thumbnailUrl"`
	Category       string     `json:"category"`
	Tags           []string   `json:"tags"`
	TakenAt        *time.Time `json:"takenAt,omitempty"`
	Location       string     `json:"location,omitempty"`
	People         []string   `json:"people"`
	SubmitterName  string     `json:"submitterName"`
	SubmitterEmail string     `json:"submitterEmail"`
	Status         string     `json:"status"`
	AdminNotes     string     `json:"adminNotes,omitempty"`
	GalleryPhotoID *int64     `json:"galleryPhotoId,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// UpdatePhotoRequest is the request body for changing photo visibility
// flags. Absent fields stay unchanged.
type UpdatePhotoRequest struct {
	IsApproved *bool `json:"isApproved,omitempty"`
	IsPublic   *bool `json:"isPublic,omitempty"`
	IsFeatured *bool `json:"isFeatured,omitempty"`
}

// ReviewSubmissionRequest is the request body for moderating a submission.
type ReviewSubmissionRequest struct {
	Action     string `json:"action"`
	AdminNotes string `json:"adminNotes"`
}

func photoToResponse(p store.GalleryPhoto) PhotoResponse {
	resp := PhotoResponse{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		ThumbnailURL: p.ThumbnailURL,
		Category:     p.Category,
		Tags:         util.ParseStringList(p.Tags),
		People:       util.ParseStringList(p.People),
		UploadedBy:   p.UploadedBy,
		IsApproved:   p.IsApproved,
		IsFeatured:   p.IsFeatured,
		IsPublic:     p.IsPublic,
		CreatedAt:    p.CreatedAt,
	}
	if p.TakenAt.Valid {
		resp.TakenAt = &p.TakenAt.Time
	}
	if p.Location.Valid {
		resp.Location = p.Location.String
	}
	return resp
}

func photosToResponses(photos []store.GalleryPhoto) []PhotoResponse {
	responses := make([]PhotoResponse, 0, len(photos))
	for _, p := range photos {
		responses = append(responses, photoToResponse(p))
	}
	return responses
}

func submissionToResponse(s store.Submission) SubmissionResponse {
	resp := SubmissionResponse{
		ID:             s.ID,
		Title:          s.Title,
		Description:    s.Description,
		ImageURL:       s.ImageURL,
		ThumbnailURL:   s.ThumbnailURL,
		Category:       s.Category,
		Tags:           util.ParseStringList(s.Tags),
		People:         util.ParseStringList(s.People),
		SubmitterName:  s.SubmitterName,
		SubmitterEmail: s.SubmitterEmail,
		Status:         s.Status,
		CreatedAt:      s.CreatedAt,
	}
	if s.TakenAt.Valid {
		resp.TakenAt = &s.TakenAt.Time
	}
	if s.Location.Valid {
		resp.Location = s.Location.String
	}
	if s.AdminNotes.Valid {
		resp.AdminNotes = s.AdminNotes.String
	}
	if s.GalleryPhotoID.Valid {
		resp.GalleryPhotoID = &s.GalleryPhotoID.Int64
	}
	return resp
}

func submissionsToResponses(submissions []store.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, s := range submissions {
		responses = append(responses, submissionToResponse(s))
	}
	return responses
}

// ListGallery handles GET /api/gallery. Only approved public photos are
// returned.
func (h *Handler) ListGallery(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePagination(r)
	category := r.URL.Query().Get("category")
	featured := parseBoolParam(r, "featured")
	search := r.URL.Query().Get("search")

	photos, total, err := h.gallery.ListPublicPhotos(r.Context(), category, featured, search, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteList(w, photosToResponses(photos), NewPagination(page, limit, total))
}

// SubmitPhoto handles POST /api/gallery/submissions. The request is a
// multipart form with a "photo" file part and text fields.
func (h *Handler) SubmitPhoto(w http.ResponseWriter, r *http.Request) {
	// A hard cap one megabyte over the photo ceiling leaves room for the
	// text fields and multipart framing.
	r.Body = http.MaxBytesReader(w, r.Body, model.MaxSubmissionSize+1<<20)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "photo file is required")
		return
	}
	defer func() { _ = file.Close() }()

	input := service.PhotoInput{
		Title:          r.FormValue("title"),
		Description:    r.FormValue("description"),
		Category:       r.FormValue("category"),
		Tags:           splitListField(r.FormValue("tags")),
		Location:       r.FormValue("location"),
		People:         splitListField(r.FormValue("people")),
		SubmitterName:  r.FormValue("submitterName"),
		SubmitterEmail: r.FormValue("submitterEmail"),
	}
	if takenAt := parseDateField(r.FormValue("takenAt")); !takenAt.IsZero() {
		input.TakenAt = takenAt
	}

	submission, err := h.gallery.SubmitPhoto(r.Context(), input, file, header)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteData(w, http.StatusCreated, "photo submitted for review", submissionToResponse(submission))
}

// ListAdminGallery handles GET /api/admin/gallery and returns every photo
// regardless of visibility.
func (h *Handler) ListAdminGallery(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePagination(r)

	photos, total, err := h.gallery.ListAdminPhotos(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteList(w, photosToResponses(photos), NewPagination(page, limit, total))
}

// UpdatePhoto handles PATCH /api/admin/gallery/{id}.
func (h *Handler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid photo ID")
		return
	}

	var req UpdatePhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	photo, err := h.gallery.SetPhotoVisibility(r.Context(), adminID(r), id, req.IsApproved, req.IsPublic, req.IsFeatured)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, "", photoToResponse(photo))
}

// DeletePhoto handles DELETE /api/admin/gallery/{id}.
func (h *Handler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid photo ID")
		return
	}

	if err := h.gallery.DeletePhoto(r.Context(), adminID(r), id); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, "photo deleted", nil)
}

// ListSubmissions handles GET /api/admin/gallery/submissions. The status
// query parameter narrows the list; an empty value returns everything.
func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePagination(r)
	status := r.URL.Query().Get("status")

	submissions, total, err := h.gallery.ListSubmissions(r.Context(), status, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteList(w, submissionsToResponses(submissions), NewPagination(page, limit, total))
}

// ReviewSubmission handles PATCH /api/gallery/submissions/{id} (admin only).
// Approving a pending submission publishes a copy to the gallery.
func (h *Handler) ReviewSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid submission ID")
		return
	}

	var req ReviewSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var submission store.Submission
	switch req.Action {
	case "approve":
		submission, err = h.gallery.ApproveSubmission(r.Context(), adminID(r), id, req.AdminNotes)
	case "reject":
		submission, err = h.gallery.RejectSubmission(r.Context(), adminID(r), id, req.AdminNotes)
	default:
		WriteError(w, http.StatusBadRequest, "action must be approve or reject")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, "submission "+submission.Status, submissionToResponse(submission))
}

// DeleteSubmission handles DELETE /api/admin/gallery/submissions/{id}.
func (h *Handler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid submission ID")
		return
	}

	if err := h.gallery.DeleteSubmission(r.Context(), adminID(r), id); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, "submission deleted", nil)
}

// splitListField parses a comma-separated form field into a string slice.
func splitListField(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// parseDateField accepts a date or RFC 3339 timestamp and returns the zero
// time when neither parses.
func parseDateField(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	return time.Time{}
}
