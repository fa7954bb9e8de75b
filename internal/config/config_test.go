// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"strings"
	"testing"
)

const strongSecret = "Xk9#mP2$vL5nQ8@wR3zT6%yU1jF4hB7e"

func TestLoadRequiresSecret(t *testing.T) {
	if _, err := Load(); err == nil {
		t.Error("Load() without MEMORIAL_TOKEN_SECRET should fail")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MEMORIAL_TOKEN_SECRET", strongSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DBPath != "./data/memorial.db" {
		t.Errorf("DBPath = %q, want default", cfg.DBPath)
	}
	if cfg.ServerAddr() != "localhost:8080" {
		t.Errorf("ServerAddr() = %q, want localhost:8080", cfg.ServerAddr())
	}
	if !cfg.IsDevelopment() {
		t.Error("default env should be development")
	}
	if cfg.UseRedisCache() {
		t.Error("UseRedisCache() should be false without MEMORIAL_REDIS_URL")
	}
	if cfg.TokenTTL != 720 {
		t.Errorf("TokenTTL = %d, want 720", cfg.TokenTTL)
	}
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("MEMORIAL_TOKEN_SECRET", "too-short")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should reject a short secret")
	}
	if !strings.Contains(err.Error(), "at least 32 bytes") {
		t.Errorf("error should mention minimum length, got: %v", err)
	}
}

func TestLoadRejectsKnownWeakSecret(t *testing.T) {
	t.Setenv("MEMORIAL_TOKEN_SECRET", "change-me-to-32-byte-secret-key!")

	if _, err := Load(); err == nil {
		t.Error("Load() should reject a known default secret")
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		want   bool
	}{
		{"all lowercase", strings.Repeat("a", 32), false},
		{"two classes", strings.Repeat("a1", 16), false},
		{"three classes", "abcDEF123abcDEF123abcDEF123abc12", true},
		{"four classes", strongSecret, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasMinimumEntropy(tt.secret); got != tt.want {
				t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.secret, got, tt.want)
			}
		})
	}
}
