// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const timelineEventColumns = `id, year, event_date, title, description, category,
	position, is_public, created_at, updated_at`

// TimelineFilter narrows timeline event list and count queries.
type TimelineFilter struct {
	Public   *bool
	Category string
}

// CreateTimelineEventParams holds the fields for a new timeline event.
type CreateTimelineEventParams struct {
	Year        int64
	EventDate   sql.NullTime
	Title       string
	Description string
	Category    string
	Position    int64
	IsPublic    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UpdateTimelineEventParams holds the fields for a timeline event update.
type UpdateTimelineEventParams struct {
	ID          int64
	Year        int64
	EventDate   sql.NullTime
	Title       string
	Description string
	Category    string
	Position    int64
	IsPublic    bool
	UpdatedAt   time.Time
}

func scanTimelineEvent(row interface{ Scan(...any) error }) (TimelineEvent, error) {
	var e TimelineEvent
	err := row.Scan(&e.ID, &e.Year, &e.EventDate, &e.Title, &e.Description,
		&e.Category, &e.Position, &e.IsPublic, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// CreateTimelineEvent inserts a new timeline event.
func (q *Queries) CreateTimelineEvent(ctx context.Context, arg CreateTimelineEventParams) (TimelineEvent, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO timeline_events (year, event_date, title, description, category,
			position, is_public, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+timelineEventColumns,
		arg.Year, arg.EventDate, arg.Title, arg.Description, arg.Category,
		arg.Position, arg.IsPublic, arg.CreatedAt, arg.UpdatedAt)
	return scanTimelineEvent(row)
}

// GetTimelineEventByID returns a single timeline event.
func (q *Queries) GetTimelineEventByID(ctx context.Context, id int64) (TimelineEvent, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+timelineEventColumns+` FROM timeline_events WHERE id = ?`, id)
	return scanTimelineEvent(row)
}

func buildTimelineWhere(f TimelineFilter) (string, []any) {
	var conds []string
	var args []any

	if f.Public != nil {
		conds = append(conds, "is_public = ?")
		args = append(args, *f.Public)
	}
	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListTimelineEvents returns events matching the filter, ordered by year
// ascending then display position.
func (q *Queries) ListTimelineEvents(ctx context.Context, f TimelineFilter, limit, offset int64) ([]TimelineEvent, error) {
	where, args := buildTimelineWhere(f)
	query := `SELECT ` + timelineEventColumns + ` FROM timeline_events` + where +
		` ORDER BY year ASC, position ASC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var events []TimelineEvent
	for rows.Next() {
		e, err := scanTimelineEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountTimelineEvents returns the number of events matching the filter.
func (q *Queries) CountTimelineEvents(ctx context.Context, f TimelineFilter) (int64, error) {
	where, args := buildTimelineWhere(f)
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM timeline_events`+where, args...).Scan(&count)
	return count, err
}

// CountTimelineEventsSince counts events created at or after the cutoff.
func (q *Queries) CountTimelineEventsSince(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM timeline_events WHERE created_at >= ?`, cutoff).Scan(&count)
	return count, err
}

// UpdateTimelineEvent replaces the editable fields of an event.
func (q *Queries) UpdateTimelineEvent(ctx context.Context, arg UpdateTimelineEventParams) (TimelineEvent, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE timeline_events SET year = ?, event_date = ?, title = ?, description = ?,
			category = ?, position = ?, is_public = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+timelineEventColumns,
		arg.Year, arg.EventDate, arg.Title, arg.Description, arg.Category,
		arg.Position, arg.IsPublic, arg.UpdatedAt, arg.ID)
	return scanTimelineEvent(row)
}

// SetTimelineEventPublic sets the visibility flag directly.
func (q *Queries) SetTimelineEventPublic(ctx context.Context, id int64, public bool, updatedAt time.Time) (TimelineEvent, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE timeline_events SET is_public = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+timelineEventColumns,
		public, updatedAt, id)
	return scanTimelineEvent(row)
}

// DeleteTimelineEvent removes an event record.
func (q *Queries) DeleteTimelineEvent(ctx context.Context, id int64) error {
	result, err := q.db.ExecContext(ctx, `DELETE FROM timeline_events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("timeline event %d: %w", id, ErrNoRows)
	}
	return nil
}

// ListRecentTimelineEvents returns the most recently created events.
func (q *Queries) ListRecentTimelineEvents(ctx context.Context, limit int64) ([]TimelineEvent, error) {
	query := `SELECT ` + timelineEventColumns + ` FROM timeline_events
		ORDER BY created_at DESC LIMIT ?`

	rows, err := q.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var events []TimelineEvent
	for rows.Next() {
		e, err := scanTimelineEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
