// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/quietgrove/memorial-go/internal/cache"
	"github.com/quietgrove/memorial-go/internal/model"
	"github.com/quietgrove/memorial-go/internal/store"
)

// Rolling windows for "recent" dashboard counts.
const (
	recentPhotoWindow    = 7 * 24 * time.Hour
	recentTimelineWindow = 30 * 24 * time.Hour
)

// Activity feed limits per entity.
const (
	activityTributeLimit  = 5
	activityPhotoLimit    = 3
	activityTimelineLimit = 2
)

const statsCacheKey = "dashboard:stats"

// Stats holds the aggregate counts shown on the admin dashboard.
type Stats struct {
	Tributes struct {
		Total    int64 `json:"total"`
		Pending  int64 `json:"pending"`
		Approved int64 `json:"approved"`
		Featured int64 `json:"featured"`
	} `json:"tributes"`
	Gallery struct {
		Total  int64 `json:"total"`
		Recent int64 `json:"recent"` // photos added in the last 7 days
	} `json:"gallery"`
	Timeline struct {
		Total  int64 `json:"total"`
		Recent int64 `json:"recent"` // events added in the last 30 days
	} `json:"timeline"`
	Submissions struct {
		Pending int64 `json:"pending"`
	} `json:"submissions"`
}

// ActivityItem is one entry in the merged recent-activity feed.
type ActivityItem struct {
	Type      string    `json:"type"` // "tribute", "photo" or "timeline"
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	TimeAgo   string    `json:"timeAgo"`
}

// DashboardService computes aggregate statistics and the recent-activity
// feed for the admin dashboard. Stats are cached briefly; the rolling
// windows are computed at query time.
type DashboardService struct {
	queries *store.Queries
	stats   *cache.TypedCache[Stats]
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(db *sql.DB, c cache.Cache, cacheTTL time.Duration) *DashboardService {
	return &DashboardService{
		queries: store.New(db),
		stats:   cache.NewTypedCache[Stats](c, cacheTTL),
	}
}

// GetStats returns aggregate counts across all content types.
func (s *DashboardService) GetStats(ctx context.Context) (*Stats, error) {
	return s.stats.GetOrSet(ctx, statsCacheKey, func() (*Stats, error) {
		return s.computeStats(ctx)
	})
}

func (s *DashboardService) computeStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	now := time.Now()

	approved := true
	pending := false
	featured := true

	var err error
	if stats.Tributes.Total, err = s.queries.CountTributes(ctx, store.TributeFilter{}); err != nil {
		return nil, fmt.Errorf("counting tributes: %w", err)
	}
	if stats.Tributes.Pending, err = s.queries.CountTributes(ctx, store.TributeFilter{Approved: &pending}); err != nil {
		return nil, fmt.Errorf("counting pending tributes: %w", err)
	}
	if stats.Tributes.Approved, err = s.queries.CountTributes(ctx, store.TributeFilter{Approved: &approved}); err != nil {
		return nil, fmt.Errorf("counting approved tributes: %w", err)
	}
	if stats.Tributes.Featured, err = s.queries.CountTributes(ctx, store.TributeFilter{Featured: &featured}); err != nil {
		return nil, fmt.Errorf("counting featured tributes: %w", err)
	}

	if stats.Gallery.Total, err = s.queries.CountGalleryPhotos(ctx, store.GalleryFilter{}); err != nil {
		return nil, fmt.Errorf("counting gallery photos: %w", err)
	}
	if stats.Gallery.Recent, err = s.queries.CountGalleryPhotosSince(ctx, now.Add(-recentPhotoWindow)); err != nil {
		return nil, fmt.Errorf("counting recent gallery photos: %w", err)
	}

	if stats.Timeline.Total, err = s.queries.CountTimelineEvents(ctx, store.TimelineFilter{}); err != nil {
		return nil, fmt.Errorf("counting timeline events: %w", err)
	}
	if stats.Timeline.Recent, err = s.queries.CountTimelineEventsSince(ctx, now.Add(-recentTimelineWindow)); err != nil {
		return nil, fmt.Errorf("counting recent timeline events: %w", err)
	}

	if stats.Submissions.Pending, err = s.queries.CountSubmissions(ctx, model.SubmissionStatusPending); err != nil {
		return nil, fmt.Errorf("counting pending submissions: %w", err)
	}

	return &stats, nil
}

// GetActivityFeed merges the most recent tributes, gallery photos and
// timeline events into one reverse-chronological list, each annotated
// with a human-relative timestamp.
func (s *DashboardService) GetActivityFeed(ctx context.Context) ([]ActivityItem, error) {
	now := time.Now()
	var items []ActivityItem

	tributes, err := s.queries.ListRecentTributes(ctx, activityTributeLimit)
	if err != nil {
		return nil, fmt.Errorf("listing recent tributes: %w", err)
	}
	for _, t := range tributes {
		items = append(items, ActivityItem{
			Type:      "tribute",
			ID:        t.ID,
			Title:     t.Title,
			Detail:    fmt.Sprintf("by %s (%s)", t.Author, t.Relationship),
			CreatedAt: t.CreatedAt,
			TimeAgo:   model.RelativeTime(t.CreatedAt, now),
		})
	}

	photos, err := s.queries.ListRecentGalleryPhotos(ctx, activityPhotoLimit)
	if err != nil {
		return nil, fmt.Errorf("listing recent gallery photos: %w", err)
	}
	for _, p := range photos {
		items = append(items, ActivityItem{
			Type:      "photo",
			ID:        p.ID,
			Title:     p.Title,
			Detail:    fmt.Sprintf("uploaded by %s", p.UploadedBy),
			CreatedAt: p.CreatedAt,
			TimeAgo:   model.RelativeTime(p.CreatedAt, now),
		})
	}

	events, err := s.queries.ListRecentTimelineEvents(ctx, activityTimelineLimit)
	if err != nil {
		return nil, fmt.Errorf("listing recent timeline events: %w", err)
	}
	for _, e := range events {
		items = append(items, ActivityItem{
			Type:      "timeline",
			ID:        e.ID,
			Title:     e.Title,
			Detail:    fmt.Sprintf("year %d", e.Year),
			CreatedAt: e.CreatedAt,
			TimeAgo:   model.RelativeTime(e.CreatedAt, now),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	return items, nil
}
