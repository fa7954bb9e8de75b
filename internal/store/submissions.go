// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const submissionColumns = `id, title, description, image_url, thumbnail_url, category,
	tags, taken_at, location, people, submitter_name, submitter_email, status,
	admin_notes, gallery_photo_id, created_at, updated_at`

// CreateSubmissionParams holds the fields for a new photo submission.
type CreateSubmissionParams struct {
	Title          string
	Description    string
	ImageURL       string
	ThumbnailURL   string
	Category       string
	Tags           string
	TakenAt        sql.NullTime
	Location       sql.NullString
	People         string
	SubmitterName  string
	SubmitterEmail string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func scanSubmission(row interface{ Scan(...any) error }) (Submission, error) {
	var s Submission
	err := row.Scan(&s.ID, &s.Title, &s.Description, &s.ImageURL, &s.ThumbnailURL,
		&s.Category, &s.Tags, &s.TakenAt, &s.Location, &s.People, &s.SubmitterName,
		&s.SubmitterEmail, &s.Status, &s.AdminNotes, &s.GalleryPhotoID,
		&s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// CreateSubmission inserts a new submission in pending status.
func (q *Queries) CreateSubmission(ctx context.Context, arg CreateSubmissionParams) (Submission, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO submissions (title, description, image_url, thumbnail_url,
			category, tags, taken_at, location, people, submitter_name,
			submitter_email, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'pending', ?, ?)
		RETURNING `+submissionColumns,
		arg.Title, arg.Description, arg.ImageURL, arg.ThumbnailURL, arg.Category,
		arg.Tags, arg.TakenAt, arg.Location, arg.People, arg.SubmitterName,
		arg.SubmitterEmail, arg.CreatedAt, arg.UpdatedAt)
	return scanSubmission(row)
}

// GetSubmissionByID returns a single submission.
func (q *Queries) GetSubmissionByID(ctx context.Context, id int64) (Submission, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)
	return scanSubmission(row)
}

// ListSubmissions returns submissions newest first, optionally filtered by
// status. An empty status matches all.
func (q *Queries) ListSubmissions(ctx context.Context, status string, limit, offset int64) ([]Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var submissions []Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}

// CountSubmissions returns the number of submissions, optionally by status.
func (q *Queries) CountSubmissions(ctx context.Context, status string) (int64, error) {
	query := `SELECT COUNT(*) FROM submissions`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	var count int64
	err := q.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// UpdateSubmissionStatusParams holds the moderation outcome for a submission.
type UpdateSubmissionStatusParams struct {
	ID             int64
	Status         string
	AdminNotes     sql.NullString
	GalleryPhotoID sql.NullInt64
	UpdatedAt      time.Time
}

// UpdateSubmissionStatus records the moderation outcome.
func (q *Queries) UpdateSubmissionStatus(ctx context.Context, arg UpdateSubmissionStatusParams) (Submission, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE submissions SET status = ?, admin_notes = ?, gallery_photo_id = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+submissionColumns,
		arg.Status, arg.AdminNotes, arg.GalleryPhotoID, arg.UpdatedAt, arg.ID)
	return scanSubmission(row)
}

// DeleteSubmission removes a submission record.
func (q *Queries) DeleteSubmission(ctx context.Context, id int64) error {
	result, err := q.db.ExecContext(ctx, `DELETE FROM submissions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("submission %d: %w", id, ErrNoRows)
	}
	return nil
}
