// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/quietgrove/memorial-go/internal/store"
)

// Tribute field length bounds.
const (
	maxAuthorLen       = 100
	maxRelationshipLen = 100
	maxTitleLen        = 200
	maxMessageLen      = 5000
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// htmlSanitizer strips dangerous markup from rendered tribute messages.
// UGCPolicy allows safe tags for user-generated content while removing
// scripts and event handlers.
var htmlSanitizer = bluemonday.UGCPolicy()

// TributeInput holds the public submission fields for a new tribute.
type TributeInput struct {
	Author       string
	Email        string
	Relationship string
	Title        string
	Message      string
	IsPrivate    bool
}

// TributeService handles tribute submission, moderation and public reads.
type TributeService struct {
	queries *store.Queries
}

// NewTributeService creates a new tribute service.
func NewTributeService(db *sql.DB) *TributeService {
	return &TributeService{queries: store.New(db)}
}

// SubmitTribute validates and stores a public tribute submission. The new
// record always starts unapproved, unfeatured and with zero likes.
func (s *TributeService) SubmitTribute(ctx context.Context, input TributeInput) (store.Tribute, error) {
	if err := validateTributeInput(input); err != nil {
		return store.Tribute{}, err
	}

	now := time.Now()
	tribute, err := s.queries.CreateTribute(ctx, store.CreateTributeParams{
		Author:       strings.TrimSpace(input.Author),
		Email:        strings.TrimSpace(input.Email),
		Relationship: strings.TrimSpace(input.Relationship),
		Title:        strings.TrimSpace(input.Title),
		Message:      input.Message,
		MessageHTML:  renderMessageHTML(input.Message),
		IsPrivate:    input.IsPrivate,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return store.Tribute{}, fmt.Errorf("creating tribute: %w", err)
	}

	slog.Info("tribute submitted", "id", tribute.ID, "author", tribute.Author)
	return tribute, nil
}

// ListPublicTributes returns approved, non-private tributes with the total
// count for pagination. An optional featured filter, free-text search and
// sort order are supported.
func (s *TributeService) ListPublicTributes(ctx context.Context, featured *bool, search, sort string, limit, offset int64) ([]store.Tribute, int64, error) {
	approved := true
	private := false
	filter := store.TributeFilter{
		Approved: &approved,
		Private:  &private,
		Featured: featured,
		Search:   search,
		Sort:     sort,
	}

	tributes, err := s.queries.ListTributes(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing tributes: %w", err)
	}
	total, err := s.queries.CountTributes(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("counting tributes: %w", err)
	}
	return tributes, total, nil
}

// ListAdminTributes returns tributes of any approval state. An optional
// approved filter narrows to pending or approved records.
func (s *TributeService) ListAdminTributes(ctx context.Context, approved *bool, limit, offset int64) ([]store.Tribute, int64, error) {
	filter := store.TributeFilter{Approved: approved}

	tributes, err := s.queries.ListTributes(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing tributes: %w", err)
	}
	total, err := s.queries.CountTributes(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("counting tributes: %w", err)
	}
	return tributes, total, nil
}

// GetTribute returns a single tribute by id.
func (s *TributeService) GetTribute(ctx context.Context, id int64) (store.Tribute, error) {
	tribute, err := s.queries.GetTributeByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return store.Tribute{}, ErrNotFound
		}
		return store.Tribute{}, fmt.Errorf("getting tribute: %w", err)
	}
	return tribute, nil
}

// LikeTribute increments the like counter by one. The increment is atomic
// at the store layer, so concurrent likes are never lost.
func (s *TributeService) LikeTribute(ctx context.Context, id int64) (store.Tribute, error) {
	tribute, err := s.queries.IncrementTributeLikes(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return store.Tribute{}, ErrNotFound
		}
		return store.Tribute{}, fmt.Errorf("liking tribute: %w", err)
	}
	return tribute, nil
}

// ApproveTribute marks a tribute approved. An already approved tribute is
// returned unchanged, so repeated approvals never rewrite the record.
func (s *TributeService) ApproveTribute(ctx context.Context, adminID, id int64) (store.Tribute, error) {
	tribute, err := s.queries.GetTributeByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return store.Tribute{}, ErrNotFound
		}
		return store.Tribute{}, fmt.Errorf("getting tribute: %w", err)
	}
	if tribute.IsApproved {
		return tribute, nil
	}

	tribute, err = s.queries.SetTributeApproved(ctx, id, true, time.Now())
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return store.Tribute{}, ErrNotFound
		}
		return store.Tribute{}, fmt.Errorf("approving tribute: %w", err)
	}

	recordModerationEvent(ctx, s.queries, adminID, "tribute approved", id)
	return tribute, nil
}

// RejectTribute deletes the tribute outright. Rejection is destructive;
// only the audit event records that the tribute existed.
func (s *TributeService) RejectTribute(ctx context.Context, adminID, id int64) error {
	if err := s.queries.DeleteTribute(ctx, id); err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("rejecting tribute: %w", err)
	}

	recordModerationEvent(ctx, s.queries, adminID, "tribute rejected", id)
	return nil
}

// ToggleFeatureTribute flips the featured flag. The flag flips regardless
// of approval state; unapproved featured tributes stay hidden from the
// public listing.
func (s *TributeService) ToggleFeatureTribute(ctx context.Context, adminID, id int64) (store.Tribute, error) {
	tribute, err := s.queries.GetTributeByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return store.Tribute{}, ErrNotFound
		}
		return store.Tribute{}, fmt.Errorf("getting tribute: %w", err)
	}

	tribute, err = s.queries.SetTributeFeatured(ctx, id, !tribute.IsFeatured, time.Now())
	if err != nil {
		return store.Tribute{}, fmt.Errorf("toggling tribute feature: %w", err)
	}

	recordModerationEvent(ctx, s.queries, adminID, "tribute feature toggled", id)
	return tribute, nil
}

// validateTributeInput checks required fields, length bounds and email format.
func validateTributeInput(input TributeInput) error {
	author := strings.TrimSpace(input.Author)
	if author == "" {
		return NewValidationError("author", "author is required")
	}
	if len(author) > maxAuthorLen {
		return NewValidationError("author", fmt.Sprintf("author must be at most %d characters", maxAuthorLen))
	}

	relationship := strings.TrimSpace(input.Relationship)
	if relationship == "" {
		return NewValidationError("relationship", "relationship is required")
	}
	if len(relationship) > maxRelationshipLen {
		return NewValidationError("relationship", fmt.Sprintf("relationship must be at most %d characters", maxRelationshipLen))
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return NewValidationError("title", "title is required")
	}
	if len(title) > maxTitleLen {
		return NewValidationError("title", fmt.Sprintf("title must be at most %d characters", maxTitleLen))
	}

	if strings.TrimSpace(input.Message) == "" {
		return NewValidationError("message", "message is required")
	}
	if len(input.Message) > maxMessageLen {
		return NewValidationError("message", fmt.Sprintf("message must be at most %d characters", maxMessageLen))
	}

	if email := strings.TrimSpace(input.Email); email != "" && !emailRegex.MatchString(email) {
		return NewValidationError("email", "email format is invalid")
	}

	return nil
}

// renderMessageHTML converts the tribute message from markdown to
// sanitized HTML for display.
func renderMessageHTML(message string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(message), &buf); err != nil {
		// Fall back to the sanitized raw text
		return string(htmlSanitizer.SanitizeBytes([]byte(message)))
	}
	return string(htmlSanitizer.SanitizeBytes(buf.Bytes()))
}
