// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication and
// login abuse protection.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/quietgrove/memorial-go/internal/auth"
)

// ContextKey is the type for context keys set by this package.
type ContextKey string

// ContextKeyIdentity is the context key for the authenticated admin.
const ContextKeyIdentity ContextKey = "admin_identity"

// apiError is the JSON error body written by middleware, matching the
// response envelope the API handlers use.
type apiError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WriteAPIError writes a JSON error response.
func WriteAPIError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(apiError{Success: false, Message: message})
}

// AdminAuth creates middleware that validates the bearer token on admin
// routes and stores the verified identity in the request context.
func AdminAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteAPIError(w, http.StatusUnauthorized, "Missing Authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				WriteAPIError(w, http.StatusUnauthorized, "Invalid Authorization header format. Use: Bearer <token>")
				return
			}

			identity, err := tokens.Verify(parts[1])
			if err != nil {
				WriteAPIError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyIdentity, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity retrieves the authenticated admin from the request context.
// Returns nil if the request is unauthenticated.
func GetIdentity(r *http.Request) *auth.Identity {
	identity, ok := r.Context().Value(ContextKeyIdentity).(auth.Identity)
	if !ok {
		return nil
	}
	return &identity
}
