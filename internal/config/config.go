// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath      string `env:"MEMORIAL_DB_PATH" envDefault:"./data/memorial.db"`
	TokenSecret string `env:"MEMORIAL_TOKEN_SECRET,required"`
	TokenIssuer string `env:"MEMORIAL_TOKEN_ISSUER" envDefault:"memorial"`
	TokenTTL    int    `env:"MEMORIAL_TOKEN_TTL" envDefault:"720"` // Admin token lifetime in minutes
	ServerHost  string `env:"MEMORIAL_SERVER_HOST" envDefault:"localhost"`
	ServerPort  int    `env:"MEMORIAL_SERVER_PORT" envDefault:"8080"`
	Env         string `env:"MEMORIAL_ENV" envDefault:"development"`
	LogLevel    string `env:"MEMORIAL_LOG_LEVEL" envDefault:"info"`
	UploadsDir  string `env:"MEMORIAL_UPLOADS_DIR" envDefault:"./uploads"`

	// Cache configuration
	RedisURL    string `env:"MEMORIAL_REDIS_URL"`                           // Optional Redis URL for shared caching
	CachePrefix string `env:"MEMORIAL_CACHE_PREFIX" envDefault:"memorial:"` // Redis key prefix
	CacheTTL    int    `env:"MEMORIAL_CACHE_TTL" envDefault:"60"`           // Cache TTL in seconds

	// Seeding configuration
	DoSeed        bool   `env:"MEMORIAL_DO_SEED" envDefault:"false"` // Enable database seeding
	AdminEmail    string `env:"MEMORIAL_ADMIN_EMAIL"`                // Seed admin email
	AdminPassword string `env:"MEMORIAL_ADMIN_PASSWORD"`             // Seed admin password
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// MinTokenSecretLength is the minimum required length for the token secret.
// HS256 wants at least 32 bytes of key material.
const MinTokenSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate token secret length
	if len(cfg.TokenSecret) < MinTokenSecretLength {
		return nil, fmt.Errorf("MEMORIAL_TOKEN_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinTokenSecretLength, len(cfg.TokenSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.TokenSecret == weak {
			return nil, fmt.Errorf("MEMORIAL_TOKEN_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.TokenSecret) {
		slog.Warn("MEMORIAL_TOKEN_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
