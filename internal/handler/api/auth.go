// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/quietgrove/memorial-go/internal/service"
	"github.com/quietgrove/memorial-go/internal/store"
)

// LoginRequest is the request body for admin login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and the admin's profile.
type LoginResponse struct {
	Token string        `json:"token"`
	Admin AdminResponse `json:"admin"`
}

// AdminResponse represents an admin account in API responses.
type AdminResponse struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	Role      string     `json:"role"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

func adminToResponse(a store.Admin) AdminResponse {
	resp := AdminResponse{
		ID:       a.ID,
		Email:    a.Email,
		Username: a.Username,
		Role:     a.Role,
	}
	if a.LastLogin.Valid {
		resp.LastLogin = &a.LastLogin.Time
	}
	return resp
}

// Login handles POST /api/admin/login. Repeated failures lock the account
// for a cooldown period.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	if h.logins != nil {
		if locked, remaining := h.logins.IsAccountLocked(req.Email); locked {
			WriteError(w, http.StatusTooManyRequests,
				fmt.Sprintf("account temporarily locked, try again in %s", remaining.Round(time.Second)))
			return
		}
	}

	admin, token, err := h.admins.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) && h.logins != nil {
			h.logins.RecordFailedAttempt(req.Email)
		}
		writeServiceError(w, err)
		return
	}

	if h.logins != nil {
		h.logins.RecordSuccessfulLogin(req.Email)
	}

	WriteData(w, http.StatusOK, "login successful", LoginResponse{
		Token: token,
		Admin: adminToResponse(admin),
	})
}
