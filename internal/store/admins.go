// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const adminColumns = `id, email, username, password_hash, role, last_login, is_active,
	created_at, updated_at`

// CreateAdminParams holds the fields for a new admin record.
type CreateAdminParams struct {
	Email        string
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func scanAdmin(row interface{ Scan(...any) error }) (Admin, error) {
	var a Admin
	err := row.Scan(&a.ID, &a.Email, &a.Username, &a.PasswordHash, &a.Role,
		&a.LastLogin, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// CreateAdmin inserts a new active admin record.
func (q *Queries) CreateAdmin(ctx context.Context, arg CreateAdminParams) (Admin, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO admins (email, username, password_hash, role, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)
		RETURNING `+adminColumns,
		arg.Email, arg.Username, arg.PasswordHash, arg.Role, arg.CreatedAt, arg.UpdatedAt)
	return scanAdmin(row)
}

// GetAdminByID returns a single admin record.
func (q *Queries) GetAdminByID(ctx context.Context, id int64) (Admin, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE id = ?`, id)
	return scanAdmin(row)
}

// GetAdminByEmail returns the admin with the given email.
func (q *Queries) GetAdminByEmail(ctx context.Context, email string) (Admin, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE email = ?`, email)
	return scanAdmin(row)
}

// CountAdmins returns the total number of admin records.
func (q *Queries) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count)
	return count, err
}

// UpdateAdminLastLogin records a successful login.
func (q *Queries) UpdateAdminLastLogin(ctx context.Context, id int64, lastLogin sql.NullTime) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE admins SET last_login = ?, updated_at = ? WHERE id = ?`,
		lastLogin, time.Now(), id)
	return err
}
