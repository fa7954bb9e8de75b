// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quietgrove/memorial-go/internal/auth"
	"github.com/quietgrove/memorial-go/internal/model"
)

// Default admin credentials used when the seed environment provides none.
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
	DefaultAdminUsername = "admin"
)

// Seed creates the initial admin record. Admins are created only here,
// never through a public API. Passing empty credentials falls back to the
// defaults (development only).
func Seed(ctx context.Context, db *sql.DB, email, password string) error {
	queries := New(db)

	if email == "" {
		email = DefaultAdminEmail
	}
	if password == "" {
		password = DefaultAdminPassword
	}

	// Idempotent: skip if the admin already exists
	_, err := queries.GetAdminByEmail(ctx, email)
	if err == nil {
		slog.Info("admin already exists, skipping seed", "email", email)
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin: %w", err)
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	admin, err := queries.CreateAdmin(ctx, CreateAdminParams{
		Email:        email,
		Username:     DefaultAdminUsername,
		PasswordHash: passwordHash,
		Role:         "admin",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}

	slog.Info("created admin", "id", admin.ID, "email", admin.Email)

	if err := seedTimeline(ctx, queries, now); err != nil {
		return err
	}

	return nil
}

// seedTimeline creates a starter set of admin-authored timeline events so a
// fresh site renders something before the admin fills in the biography.
func seedTimeline(ctx context.Context, queries *Queries, now time.Time) error {
	count, err := queries.CountTimelineEvents(ctx, TimelineFilter{})
	if err != nil {
		return fmt.Errorf("counting timeline events: %w", err)
	}
	if count > 0 {
		return nil
	}

	starter := []CreateTimelineEventParams{
		{Year: 1940, Title: "Born", Category: model.TimelineCategoryMilestone, Position: 0, IsPublic: true},
		{Year: 1965, Title: "Married", Category: model.TimelineCategoryFamily, Position: 1, IsPublic: true},
		{Year: 1990, Title: "Retired", Category: model.TimelineCategoryCareer, Position: 2, IsPublic: true},
	}

	for _, arg := range starter {
		arg.CreatedAt = now
		arg.UpdatedAt = now
		if _, err := queries.CreateTimelineEvent(ctx, arg); err != nil {
			return fmt.Errorf("seeding timeline event %q: %w", arg.Title, err)
		}
	}

	slog.Info("seeded starter timeline", "events", len(starter))
	return nil
}
