// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/quietgrove/memorial-go/internal/model"
	"github.com/quietgrove/memorial-go/internal/store"
)

// recordModerationEvent writes an audit record for an admin moderation
// action. Audit failures never fail the action itself.
func recordModerationEvent(ctx context.Context, queries *store.Queries, adminID int64, message string, entityID int64) {
	_, _ = queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategoryModeration,
		Message:   message,
		AdminID:   sql.NullInt64{Int64: adminID, Valid: true},
		Metadata:  fmt.Sprintf(`{"entity_id":%d}`, entityID),
		CreatedAt: time.Now(),
	})
}
