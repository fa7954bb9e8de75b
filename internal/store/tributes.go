// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const tributeColumns = `id, author, email, relationship, title, message, message_html,
	is_private, is_approved, is_featured, likes, created_at, updated_at`

// Tribute sort orders.
const (
	TributeSortNewest    = "newest"
	TributeSortOldest    = "oldest"
	TributeSortMostLiked = "likes"
)

// TributeFilter narrows tribute list and count queries. Nil pointer fields
// match any value.
type TributeFilter struct {
	Approved *bool
	Private  *bool
	Featured *bool
	Search   string // case-insensitive substring over author/title/message/relationship
	Sort     string // TributeSort* constant; defaults to newest
}

// CreateTributeParams holds the fields for a new tribute.
type CreateTributeParams struct {
	Author       string
	Email        string
	Relationship string
	Title        string
	Message      string
	MessageHTML  string
	IsPrivate    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func scanTribute(row interface{ Scan(...any) error }) (Tribute, error) {
	var t Tribute
	err := row.Scan(&t.ID, &t.Author, &t.Email, &t.Relationship, &t.Title,
		&t.Message, &t.MessageHTML, &t.IsPrivate, &t.IsApproved, &t.IsFeatured,
		&t.Likes, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// CreateTribute inserts a new tribute. Approval, featured state and likes
// always start at their zero values regardless of input.
func (q *Queries) CreateTribute(ctx context.Context, arg CreateTributeParams) (Tribute, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO tributes (author, email, relationship, title, message, message_html,
			is_private, is_approved, is_featured, likes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, 0, 0, ?, ?)
		RETURNING `+tributeColumns,
		arg.Author, arg.Email, arg.Relationship, arg.Title, arg.Message,
		arg.MessageHTML, arg.IsPrivate, arg.CreatedAt, arg.UpdatedAt)
	return scanTribute(row)
}

// GetTributeByID returns a single tribute.
func (q *Queries) GetTributeByID(ctx context.Context, id int64) (Tribute, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+tributeColumns+` FROM tributes WHERE id = ?`, id)
	return scanTribute(row)
}

// buildTributeWhere renders the filter into a WHERE clause and its arguments.
func buildTributeWhere(f TributeFilter) (string, []any) {
	var conds []string
	var args []any

	if f.Approved != nil {
		conds = append(conds, "is_approved = ?")
		args = append(args, *f.Approved)
	}
	if f.Private != nil {
		conds = append(conds, "is_private = ?")
		args = append(args, *f.Private)
	}
	if f.Featured != nil {
		conds = append(conds, "is_featured = ?")
		args = append(args, *f.Featured)
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		conds = append(conds, `(LOWER(author) LIKE ? OR LOWER(title) LIKE ?
			OR LOWER(message) LIKE ? OR LOWER(relationship) LIKE ?)`)
		args = append(args, pattern, pattern, pattern, pattern)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func tributeOrderBy(sort string) string {
	switch sort {
	case TributeSortOldest:
		return " ORDER BY created_at ASC"
	case TributeSortMostLiked:
		return " ORDER BY likes DESC, created_at DESC"
	default:
		return " ORDER BY created_at DESC"
	}
}

// ListTributes returns tributes matching the filter with offset pagination.
func (q *Queries) ListTributes(ctx context.Context, f TributeFilter, limit, offset int64) ([]Tribute, error) {
	where, args := buildTributeWhere(f)
	query := `SELECT ` + tributeColumns + ` FROM tributes` + where +
		tributeOrderBy(f.Sort) + ` LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tributes []Tribute
	for rows.Next() {
		t, err := scanTribute(rows)
		if err != nil {
			return nil, err
		}
		tributes = append(tributes, t)
	}
	return tributes, rows.Err()
}

// CountTributes returns the number of tributes matching the filter.
func (q *Queries) CountTributes(ctx context.Context, f TributeFilter) (int64, error) {
	where, args := buildTributeWhere(f)
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tributes`+where, args...).Scan(&count)
	return count, err
}

// SetTributeApproved sets the approval flag and bumps updated_at. Callers
// are expected to skip the write when the flag already holds.
func (q *Queries) SetTributeApproved(ctx context.Context, id int64, approved bool, updatedAt time.Time) (Tribute, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE tributes SET is_approved = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+tributeColumns,
		approved, updatedAt, id)
	return scanTribute(row)
}

// SetTributeFeatured sets the featured flag.
func (q *Queries) SetTributeFeatured(ctx context.Context, id int64, featured bool, updatedAt time.Time) (Tribute, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE tributes SET is_featured = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+tributeColumns,
		featured, updatedAt, id)
	return scanTribute(row)
}

// IncrementTributeLikes bumps the like counter atomically in the store so
// concurrent likes never lose updates.
func (q *Queries) IncrementTributeLikes(ctx context.Context, id int64) (Tribute, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE tributes SET likes = likes + 1
		WHERE id = ?
		RETURNING `+tributeColumns, id)
	return scanTribute(row)
}

// DeleteTribute removes a tribute outright.
func (q *Queries) DeleteTribute(ctx context.Context, id int64) error {
	result, err := q.db.ExecContext(ctx, `DELETE FROM tributes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("tribute %d: %w", id, ErrNoRows)
	}
	return nil
}

// ListRecentTributes returns the most recently created tributes.
func (q *Queries) ListRecentTributes(ctx context.Context, limit int64) ([]Tribute, error) {
	return q.ListTributes(ctx, TributeFilter{Sort: TributeSortNewest}, limit, 0)
}
