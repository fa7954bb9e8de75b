// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quietgrove/memorial-go/internal/auth"
	"github.com/quietgrove/memorial-go/internal/store"
)

// ErrInvalidCredentials signals a failed login. The same error covers an
// unknown email, a wrong password and a deactivated account so responses
// don't reveal which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AdminService handles admin authentication.
type AdminService struct {
	queries *store.Queries
	tokens  *auth.TokenManager
}

// NewAdminService creates a new admin service.
func NewAdminService(db *sql.DB, tokens *auth.TokenManager) *AdminService {
	return &AdminService{
		queries: store.New(db),
		tokens:  tokens,
	}
}

// Login verifies the credentials and returns the admin record with a
// signed bearer token. The last-login timestamp is updated on success.
func (s *AdminService) Login(ctx context.Context, email, password string) (store.Admin, string, error) {
	admin, err := s.queries.GetAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			slog.Warn("login failed: unknown email", "email", email)
			return store.Admin{}, "", ErrInvalidCredentials
		}
		return store.Admin{}, "", fmt.Errorf("getting admin: %w", err)
	}

	if !admin.IsActive {
		slog.Warn("login failed: account deactivated", "email", email)
		return store.Admin{}, "", ErrInvalidCredentials
	}

	ok, err := auth.CheckPassword(password, admin.PasswordHash)
	if err != nil {
		return store.Admin{}, "", fmt.Errorf("checking password: %w", err)
	}
	if !ok {
		slog.Warn("login failed: wrong password", "email", email)
		return store.Admin{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(admin.ID, admin.Role)
	if err != nil {
		return store.Admin{}, "", fmt.Errorf("generating token: %w", err)
	}

	now := time.Now()
	if err := s.queries.UpdateAdminLastLogin(ctx, admin.ID, sql.NullTime{Time: now, Valid: true}); err != nil {
		slog.Warn("failed to update last login", "email", email, "error", err)
	}
	admin.LastLogin = sql.NullTime{Time: now, Valid: true}

	slog.Info("admin logged in", "email", email)
	return admin, token, nil
}
