// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietgrove/memorial-go/internal/auth"
	"github.com/quietgrove/memorial-go/internal/store"
)

func newAdminService(t *testing.T) (*AdminService, *sql.DB) {
	t.Helper()
	db := testDB(t)
	tokens := auth.NewTokenManager("0123456789abcdef0123456789abcdef", "memorial", time.Hour)
	return NewAdminService(db, tokens), db
}

func createTestAdmin(t *testing.T, db *sql.DB, email, password string) store.Admin {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	admin, err := store.New(db).CreateAdmin(context.Background(), store.CreateAdminParams{
		Email:        email,
		Username:     "admin",
		PasswordHash: hash,
		Role:         "admin",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	})
	require.NoError(t, err)
	return admin
}

func TestLoginSuccess(t *testing.T) {
	svc, db := newAdminService(t)
	ctx := context.Background()

	created := createTestAdmin(t, db, "admin@example.com", "correct horse battery")

	admin, token, err := svc.Login(ctx, "admin@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, created.ID, admin.ID)
	assert.NotEmpty(t, token)
	assert.True(t, admin.LastLogin.Valid, "last login is recorded")

	// The token round-trips through the verifier
	tokens := auth.NewTokenManager("0123456789abcdef0123456789abcdef", "memorial", time.Hour)
	identity, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, identity.AdminID)
	assert.Equal(t, "admin", identity.Role)
}

func TestLoginFailures(t *testing.T) {
	svc, db := newAdminService(t)
	ctx := context.Background()

	createTestAdmin(t, db, "admin@example.com", "correct horse battery")

	_, _, err := svc.Login(ctx, "admin@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "correct horse battery")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
