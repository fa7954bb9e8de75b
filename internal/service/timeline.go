// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/quietgrove/memorial-go/internal/cache"
	"github.com/quietgrove/memorial-go/internal/model"
	"github.com/quietgrove/memorial-go/internal/store"
)

// TimelineEventInput holds the admin-authored fields for a timeline event.
type TimelineEventInput struct {
	Year        int64
	EventDate   time.Time // zero means year-only
	Title       string
	Description string
	Category    string
	Position    int64
	IsPublic    bool
}

// timelineCachePrefix scopes cached timeline pages so invalidation never
// touches other cached entries sharing the backend.
const timelineCachePrefix = "timeline:"

// timelinePage is the cached shape of a public timeline listing.
type timelinePage struct {
	Events []store.TimelineEvent `json:"events"`
	Total  int64                 `json:"total"`
}

// TimelineService handles admin-authored timeline events. Public listings
// are cached; any write invalidates the cache.
type TimelineService struct {
	queries *store.Queries
	backend cache.Cache
	pages   *cache.TypedCache[timelinePage]
}

// NewTimelineService creates a new timeline service.
func NewTimelineService(db *sql.DB, c cache.Cache, cacheTTL time.Duration) *TimelineService {
	return &TimelineService{
		queries: store.New(db),
		backend: c,
		pages:   cache.NewTypedCache[timelinePage](c, cacheTTL),
	}
}

// ListPublicEvents returns public timeline events sorted by year then
// display position, with the total count.
func (s *TimelineService) ListPublicEvents(ctx context.Context, category string, limit, offset int64) ([]store.TimelineEvent, int64, error) {
	key := fmt.Sprintf("%s%s:%d:%d", timelineCachePrefix, category, limit, offset)
	page, err := s.pages.GetOrSet(ctx, key, func() (*timelinePage, error) {
		public := true
		filter := store.TimelineFilter{Public: &public, Category: category}

		events, err := s.queries.ListTimelineEvents(ctx, filter, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("listing timeline events: %w", err)
		}
		total, err := s.queries.CountTimelineEvents(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("counting timeline events: %w", err)
		}
		return &timelinePage{Events: events, Total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return page.Events, page.Total, nil
}

// ListAllEvents returns timeline events of any visibility.
func (s *TimelineService) ListAllEvents(ctx context.Context, limit, offset int64) ([]store.TimelineEvent, int64, error) {
	filter := store.TimelineFilter{}

	events, err := s.queries.ListTimelineEvents(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing timeline events: %w", err)
	}
	total, err := s.queries.CountTimelineEvents(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("counting timeline events: %w", err)
	}
	return events, total, nil
}

// CreateEvent stores a new timeline event.
func (s *TimelineService) CreateEvent(ctx context.Context, adminID int64, input TimelineEventInput) (store.TimelineEvent, error) {
	if err := validateTimelineInput(input); err != nil {
		return store.TimelineEvent{}, err
	}

	now := time.Now()
	event, err := s.queries.CreateTimelineEvent(ctx, store.CreateTimelineEventParams{
		Year:        input.Year,
		EventDate:   nullTime(input.EventDate),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		Position:    input.Position,
		IsPublic:    input.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return store.TimelineEvent{}, fmt.Errorf("creating timeline event: %w", err)
	}

	s.invalidate(ctx)
	recordModerationEvent(ctx, s.queries, adminID, "timeline event created", event.ID)
	return event, nil
}

// UpdateEvent replaces all editable fields of a timeline event.
func (s *TimelineService) UpdateEvent(ctx context.Context, adminID, id int64, input TimelineEventInput) (store.TimelineEvent, error) {
	if err := validateTimelineInput(input); err != nil {
		return store.TimelineEvent{}, err
	}

	event, err := s.queries.UpdateTimelineEvent(ctx, store.UpdateTimelineEventParams{
		ID:          id,
		Year:        input.Year,
		EventDate:   nullTime(input.EventDate),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		Position:    input.Position,
		IsPublic:    input.IsPublic,
		UpdatedAt:   time.Now(),
	})
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return store.TimelineEvent{}, ErrNotFound
		}
		return store.TimelineEvent{}, fmt.Errorf("updating timeline event: %w", err)
	}

	s.invalidate(ctx)
	recordModerationEvent(ctx, s.queries, adminID, "timeline event updated", id)
	return event, nil
}

// SetEventVisibility sets the isPublic flag directly.
func (s *TimelineService) SetEventVisibility(ctx context.Context, adminID, id int64, isPublic bool) (store.TimelineEvent, error) {
	event, err := s.queries.SetTimelineEventPublic(ctx, id, isPublic, time.Now())
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return store.TimelineEvent{}, ErrNotFound
		}
		return store.TimelineEvent{}, fmt.Errorf("setting timeline event visibility: %w", err)
	}

	s.invalidate(ctx)
	recordModerationEvent(ctx, s.queries, adminID, "timeline event visibility changed", id)
	return event, nil
}

// DeleteEvent removes a timeline event.
func (s *TimelineService) DeleteEvent(ctx context.Context, adminID, id int64) error {
	if err := s.queries.DeleteTimelineEvent(ctx, id); err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting timeline event: %w", err)
	}

	s.invalidate(ctx)
	recordModerationEvent(ctx, s.queries, adminID, "timeline event deleted", id)
	return nil
}

// invalidate drops cached timeline pages after a write. Entries cached by
// other services stay put.
func (s *TimelineService) invalidate(ctx context.Context) {
	if err := s.backend.DeletePrefix(ctx, timelineCachePrefix); err != nil {
		slog.Warn("failed to invalidate timeline cache", "error", err)
	}
}

// validateTimelineInput checks required fields and category membership.
func validateTimelineInput(input TimelineEventInput) error {
	if input.Year <= 0 {
		return NewValidationError("year", "year is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return NewValidationError("title", "title is required")
	}
	if len(input.Title) > maxTitleLen {
		return NewValidationError("title", fmt.Sprintf("title must be at most %d characters", maxTitleLen))
	}
	if !model.IsValidTimelineCategory(input.Category) {
		return NewValidationError("category", fmt.Sprintf("category must be one of: %s",
			strings.Join(model.TimelineCategories(), ", ")))
	}
	return nil
}
