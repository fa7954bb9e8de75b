// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/quietgrove/memorial-go/internal/auth"
)

// testDB creates an in-memory SQLite database with migrations applied.
// The pool is pinned to one connection so the in-memory database survives
// across queries.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func createTribute(t *testing.T, q *Queries, author string, createdAt time.Time) Tribute {
	t.Helper()
	tribute, err := q.CreateTribute(context.Background(), CreateTributeParams{
		Author:       author,
		Email:        "test@example.com",
		Relationship: "Friend",
		Title:        "A memory",
		Message:      "We will miss her.",
		MessageHTML:  "<p>We will miss her.</p>",
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	})
	if err != nil {
		t.Fatalf("failed to create tribute: %v", err)
	}
	return tribute
}

func TestCreateTributeForcesDefaults(t *testing.T) {
	q := New(testDB(t))

	tribute := createTribute(t, q, "Jane", time.Now())
	if tribute.IsApproved || tribute.IsFeatured || tribute.Likes != 0 {
		t.Errorf("new tribute must start unapproved with zero likes: %+v", tribute)
	}
	if tribute.Author != "Jane" || tribute.MessageHTML != "<p>We will miss her.</p>" {
		t.Errorf("unexpected round-trip: %+v", tribute)
	}
}

func TestTributeFilterSearchAndSort(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()
	now := time.Now()

	a := createTribute(t, q, "Jane", now.Add(-2*time.Hour))
	b := createTribute(t, q, "Robert", now.Add(-time.Hour))
	createTribute(t, q, "Maria", now)

	if _, err := q.SetTributeApproved(ctx, a.ID, true, now); err != nil {
		t.Fatalf("failed to approve: %v", err)
	}

	approved := true
	count, err := q.CountTributes(ctx, TributeFilter{Approved: &approved})
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 approved tribute, got %d", count)
	}

	// Case-insensitive search over author
	found, err := q.ListTributes(ctx, TributeFilter{Search: "ROBERT"}, 10, 0)
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if len(found) != 1 || found[0].ID != b.ID {
		t.Errorf("expected to find Robert, got %v", found)
	}

	// Most liked sorts by like count
	for i := 0; i < 3; i++ {
		if _, err := q.IncrementTributeLikes(ctx, b.ID); err != nil {
			t.Fatalf("failed to like: %v", err)
		}
	}
	sorted, err := q.ListTributes(ctx, TributeFilter{Sort: TributeSortMostLiked}, 10, 0)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if sorted[0].ID != b.ID {
		t.Errorf("expected most-liked tribute first, got %d", sorted[0].ID)
	}
}

func TestIncrementTributeLikesConcurrent(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()
	tribute := createTribute(t, q, "Jane", time.Now())

	const likers = 10
	var wg sync.WaitGroup
	wg.Add(likers)
	for i := 0; i < likers; i++ {
		go func() {
			defer wg.Done()
			if _, err := q.IncrementTributeLikes(ctx, tribute.ID); err != nil {
				t.Errorf("failed to like: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := q.GetTributeByID(ctx, tribute.ID)
	if err != nil {
		t.Fatalf("failed to get tribute: %v", err)
	}
	if got.Likes != likers {
		t.Errorf("expected %d likes, got %d", likers, got.Likes)
	}
}

func TestDeleteTributeNotFound(t *testing.T) {
	q := New(testDB(t))

	err := q.DeleteTribute(context.Background(), 42)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, ErrNoRows) {
		t.Errorf("expected ErrNoRows, got %v", err)
	}
}

func TestSubmissionLifecycle(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()
	now := time.Now()

	submission, err := q.CreateSubmission(ctx, CreateSubmissionParams{
		Title:          "Summer at the lake",
		Description:    "The whole family together",
		ImageURL:       "/uploads/originals/abc/lake.png",
		ThumbnailURL:   "/uploads/thumbnail/abc/lake.png",
		Category:       "Family",
		Tags:           `["summer"]`,
		People:         "[]",
		SubmitterName:  "Tom",
		SubmitterEmail: "tom@example.com",
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		t.Fatalf("failed to create submission: %v", err)
	}
	if submission.Status != "pending" {
		t.Errorf("expected pending status, got %q", submission.Status)
	}

	photo, err := q.CreateGalleryPhoto(ctx, CreateGalleryPhotoParams{
		Title:        submission.Title,
		Description:  submission.Description,
		ImageURL:     submission.ImageURL,
		ThumbnailURL: submission.ThumbnailURL,
		Category:     submission.Category,
		Tags:         submission.Tags,
		People:       submission.People,
		UploadedBy:   submission.SubmitterName,
		IsApproved:   true,
		IsPublic:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("failed to create photo: %v", err)
	}

	updated, err := q.UpdateSubmissionStatus(ctx, UpdateSubmissionStatusParams{
		ID:             submission.ID,
		Status:         "approved",
		AdminNotes:     sql.NullString{String: "lovely", Valid: true},
		GalleryPhotoID: sql.NullInt64{Int64: photo.ID, Valid: true},
		UpdatedAt:      time.Now(),
	})
	if err != nil {
		t.Fatalf("failed to update status: %v", err)
	}
	if updated.Status != "approved" || updated.GalleryPhotoID.Int64 != photo.ID {
		t.Errorf("unexpected submission after approval: %+v", updated)
	}

	pending, err := q.CountSubmissions(ctx, "pending")
	if err != nil {
		t.Fatalf("failed to count pending: %v", err)
	}
	if pending != 0 {
		t.Errorf("expected no pending submissions, got %d", pending)
	}

	all, err := q.CountSubmissions(ctx, "")
	if err != nil {
		t.Fatalf("failed to count all: %v", err)
	}
	if all != 1 {
		t.Errorf("expected 1 submission total, got %d", all)
	}
}

func TestGalleryVisibilityFilter(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()
	now := time.Now()

	seed := func(approved, public bool) GalleryPhoto {
		photo, err := q.CreateGalleryPhoto(ctx, CreateGalleryPhotoParams{
			Title:        "Test",
			Description:  "Test",
			ImageURL:     "/uploads/originals/x/a.jpg",
			ThumbnailURL: "/uploads/thumbnail/x/a.jpg",
			Category:     "Family",
			Tags:         "[]",
			People:       "[]",
			UploadedBy:   "Admin",
			IsApproved:   approved,
			IsPublic:     public,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			t.Fatalf("failed to seed photo: %v", err)
		}
		return photo
	}

	visible := seed(true, true)
	seed(true, false)
	seed(false, true)

	approved, public := true, true
	photos, err := q.ListGalleryPhotos(ctx, GalleryFilter{Approved: &approved, Public: &public}, 10, 0)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(photos) != 1 || photos[0].ID != visible.ID {
		t.Errorf("expected only the approved public photo, got %v", photos)
	}

	recent, err := q.CountGalleryPhotosSince(ctx, now.Add(-time.Minute))
	if err != nil {
		t.Fatalf("failed to count recent: %v", err)
	}
	if recent != 3 {
		t.Errorf("expected 3 recent photos, got %d", recent)
	}

	old, err := q.CountGalleryPhotosSince(ctx, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if old != 0 {
		t.Errorf("expected no photos after the cutoff, got %d", old)
	}
}

func TestTimelineOrdering(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()
	now := time.Now()

	create := func(year, position int64, title string) {
		_, err := q.CreateTimelineEvent(ctx, CreateTimelineEventParams{
			Year:      year,
			Title:     title,
			Category:  "milestone",
			Position:  position,
			IsPublic:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			t.Fatalf("failed to create event: %v", err)
		}
	}

	create(1990, 1, "Retired")
	create(1940, 1, "Born")
	create(1940, 2, "First home")

	events, err := q.ListTimelineEvents(ctx, TimelineFilter{}, 10, 0)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	want := []string{"Born", "First home", "Retired"}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(events))
	}
	for i, title := range want {
		if events[i].Title != title {
			t.Errorf("position %d: expected %q, got %q", i, title, events[i].Title)
		}
	}
}

func TestEventLog(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()

	_, err := q.CreateEvent(ctx, CreateEventParams{
		Level:     "info",
		Category:  "moderation",
		Message:   "tribute approved",
		AdminID:   sql.NullInt64{Int64: 1, Valid: true},
		Metadata:  `{"entity_id":7}`,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("failed to create event: %v", err)
	}

	events, err := q.ListRecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("failed to list events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Category != "moderation" || !events[0].AdminID.Valid {
		t.Errorf("unexpected event: %+v", events[0])
	}
}

func TestSeedIdempotent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := Seed(ctx, db, "admin@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	if err := Seed(ctx, db, "admin@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}

	q := New(db)
	count, err := q.CountAdmins(ctx)
	if err != nil {
		t.Fatalf("failed to count admins: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 admin, got %d", count)
	}

	admin, err := q.GetAdminByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("failed to get admin: %v", err)
	}
	ok, err := auth.CheckPassword("hunter2hunter2", admin.PasswordHash)
	if err != nil || !ok {
		t.Errorf("seeded password must verify: ok=%v err=%v", ok, err)
	}
}
