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

const galleryPhotoColumns = `id, title, description, image_url, thumbnail_url, category,
	tags, taken_at, location, people, uploaded_by, is_approved, is_featured, is_public,
	created_at, updated_at`

// GalleryFilter narrows gallery photo list and count queries. Nil pointer
// fields match any value; an empty Category matches all categories.
type GalleryFilter struct {
	Approved *bool
	Public   *bool
	Featured *bool
	Category string
	Search   string // case-insensitive substring over title/description/tags
}

// CreateGalleryPhotoParams holds the fields for a new gallery photo.
type CreateGalleryPhotoParams struct {
	Title        string
	Description  string
	ImageURL     string
	ThumbnailURL string
	Category     string
	Tags         string
	TakenAt      sql.NullTime
	Location     sql.NullString
	People       string
	UploadedBy   string
	IsApproved   bool
	IsFeatured   bool
	IsPublic     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func scanGalleryPhoto(row interface{ Scan(...any) error }) (GalleryPhoto, error) {
	var p GalleryPhoto
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.ThumbnailURL,
		&p.Category, &p.Tags, &p.TakenAt, &p.Location, &p.People, &p.UploadedBy,
		&p.IsApproved, &p.IsFeatured, &p.IsPublic, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreateGalleryPhoto inserts a new gallery photo.
func (q *Queries) CreateGalleryPhoto(ctx context.Context, arg CreateGalleryPhotoParams) (GalleryPhoto, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO gallery_photos (title, description, image_url, thumbnail_url,
			category, tags, taken_at, location, people, uploaded_by,
			is_approved, is_featured, is_public, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+galleryPhotoColumns,
		arg.Title, arg.Description, arg.ImageURL, arg.ThumbnailURL, arg.Category,
		arg.Tags, arg.TakenAt, arg.Location, arg.People, arg.UploadedBy,
		arg.IsApproved, arg.IsFeatured, arg.IsPublic, arg.CreatedAt, arg.UpdatedAt)
	return scanGalleryPhoto(row)
}

// GetGalleryPhotoByID returns a single gallery photo.
func (q *Queries) GetGalleryPhotoByID(ctx context.Context, id int64) (GalleryPhoto, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+galleryPhotoColumns+` FROM gallery_photos WHERE id = ?`, id)
	return scanGalleryPhoto(row)
}

func buildGalleryWhere(f GalleryFilter) (string, []any) {
	var conds []string
	var args []any

	if f.Approved != nil {
		conds = append(conds, "is_approved = ?")
		args = append(args, *f.Approved)
	}
	if f.Public != nil {
		conds = append(conds, "is_public = ?")
		args = append(args, *f.Public)
	}
	if f.Featured != nil {
		conds = append(conds, "is_featured = ?")
		args = append(args, *f.Featured)
	}
	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		conds = append(conds, `(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tags) LIKE ?)`)
		args = append(args, pattern, pattern, pattern)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListGalleryPhotos returns photos matching the filter, newest first.
func (q *Queries) ListGalleryPhotos(ctx context.Context, f GalleryFilter, limit, offset int64) ([]GalleryPhoto, error) {
	where, args := buildGalleryWhere(f)
	query := `SELECT ` + galleryPhotoColumns + ` FROM gallery_photos` + where +
		` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var photos []GalleryPhoto
	for rows.Next() {
		p, err := scanGalleryPhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

// CountGalleryPhotos returns the number of photos matching the filter.
func (q *Queries) CountGalleryPhotos(ctx context.Context, f GalleryFilter) (int64, error) {
	where, args := buildGalleryWhere(f)
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM gallery_photos`+where, args...).Scan(&count)
	return count, err
}

// CountGalleryPhotosSince counts photos created at or after the cutoff.
func (q *Queries) CountGalleryPhotosSince(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM gallery_photos WHERE created_at >= ?`, cutoff).Scan(&count)
	return count, err
}

// SetGalleryPhotoVisibilityParams holds the flags for a visibility update.
type SetGalleryPhotoVisibilityParams struct {
	ID         int64
	IsApproved bool
	IsPublic   bool
	IsFeatured bool
	UpdatedAt  time.Time
}

// SetGalleryPhotoVisibility sets the approval/public/featured flags directly.
func (q *Queries) SetGalleryPhotoVisibility(ctx context.Context, arg SetGalleryPhotoVisibilityParams) (GalleryPhoto, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE gallery_photos SET is_approved = ?, is_public = ?, is_featured = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+galleryPhotoColumns,
		arg.IsApproved, arg.IsPublic, arg.IsFeatured, arg.UpdatedAt, arg.ID)
	return scanGalleryPhoto(row)
}

// DeleteGalleryPhoto removes a photo record.
func (q *Queries) DeleteGalleryPhoto(ctx context.Context, id int64) error {
	result, err := q.db.ExecContext(ctx, `DELETE FROM gallery_photos WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("gallery photo %d: %w", id, ErrNoRows)
	}
	return nil
}

// ListRecentGalleryPhotos returns the most recently created photos.
func (q *Queries) ListRecentGalleryPhotos(ctx context.Context, limit int64) ([]GalleryPhoto, error) {
	return q.ListGalleryPhotos(ctx, GalleryFilter{}, limit, 0)
}
