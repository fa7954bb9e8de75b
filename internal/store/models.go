// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// Admin is an administrator identity record. Admins are created by the seed
// step, never through a public API.
type Admin struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	Role         string
	LastLogin    sql.NullTime
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Tribute is a visitor-submitted memorial message. It is publicly visible
// only when approved and not marked private by its author.
type Tribute struct {
	ID           int64
	Author       string
	Email        string
	Relationship string
	Title        string
	Message      string
	MessageHTML  string
	IsPrivate    bool
	IsApproved   bool
	IsFeatured   bool
	Likes        int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GalleryPhoto is a published photo. Tags and People hold JSON-encoded
// string arrays.
type GalleryPhoto struct {
	ID           int64
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

// Submission is a photo awaiting moderation. On approval its data is copied
// into a new GalleryPhoto and GalleryPhotoID records the link.
type Submission struct {
	ID             int64
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
	Status         string
	AdminNotes     sql.NullString
	GalleryPhotoID sql.NullInt64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TimelineEvent is an admin-authored life event. Visibility is solely IsPublic.
type TimelineEvent struct {
	ID          int64
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

// Event is an audit log record.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	AdminID   sql.NullInt64
	Metadata  string
	CreatedAt time.Time
}
