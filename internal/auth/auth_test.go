// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"strings"
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-passphrase")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash has wrong prefix: %s", hash)
	}

	ok, err := CheckPassword("s3cret-passphrase", hash)
	if err != nil {
		t.Fatalf("CheckPassword() error = %v", err)
	}
	if !ok {
		t.Error("correct password rejected")
	}

	ok, err = CheckPassword("wrong-password", hash)
	if err != nil {
		t.Fatalf("CheckPassword() error = %v", err)
	}
	if ok {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordUniqueSalt(t *testing.T) {
	h1, err := HashPassword("same-input")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	h2, err := HashPassword("same-input")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password are identical; salt is not random")
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"wrong algorithm", "$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"missing sections", "$argon2id$v=19$m=19456"},
		{"bad salt encoding", "$argon2id$v=19$m=19456,t=2,p=1$!!$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CheckPassword("anything", tt.hash); err == nil {
				t.Error("expected error for malformed hash, got nil")
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("0123456789abcdef0123456789abcdef", "memorial", time.Hour)

	token, err := m.Generate(42, "admin")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	identity, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if identity.AdminID != 42 {
		t.Errorf("AdminID = %d, want 42", identity.AdminID)
	}
	if identity.Role != "admin" {
		t.Errorf("Role = %q, want %q", identity.Role, "admin")
	}
}

func TestTokenVerifyRejections(t *testing.T) {
	m := NewTokenManager("0123456789abcdef0123456789abcdef", "memorial", time.Hour)
	token, err := m.Generate(1, "admin")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	t.Run("empty token", func(t *testing.T) {
		if _, err := m.Verify(""); err == nil {
			t.Error("expected error for empty token")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenManager("ffffffffffffffffffffffffffffffff", "memorial", time.Hour)
		if _, err := other.Verify(token); err == nil {
			t.Error("expected error for token signed with a different secret")
		}
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewTokenManager("0123456789abcdef0123456789abcdef", "someone-else", time.Hour)
		otherToken, err := other.Generate(1, "admin")
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if _, err := m.Verify(otherToken); err == nil {
			t.Error("expected error for wrong issuer")
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewTokenManager("0123456789abcdef0123456789abcdef", "memorial", -time.Minute)
		expiredToken, err := expired.Generate(1, "admin")
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if _, err := m.Verify(expiredToken); err == nil {
			t.Error("expected error for expired token")
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if _, err := m.Verify("not.a.jwt"); err == nil {
			t.Error("expected error for garbage token")
		}
	})
}
