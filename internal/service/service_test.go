// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"database/sql"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quietgrove/memorial-go/internal/cache"
	"github.com/quietgrove/memorial-go/internal/store"
)

// testDB creates a temporary test database with migrations applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "memorial-service-test-*.db")
	require.NoError(t, err)
	dbPath := f.Name()
	require.NoError(t, f.Close())

	db, err := store.NewDB(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))

	t.Cleanup(func() {
		_ = db.Close()
		_ = os.Remove(dbPath)
	})
	return db
}

// testCache creates an in-memory cache closed on test cleanup.
func testCache(t *testing.T) cache.Cache {
	t.Helper()
	c := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// validTributeInput returns a submission that passes validation.
func validTributeInput() TributeInput {
	return TributeInput{
		Author:       "Jane",
		Email:        "jane@example.com",
		Relationship: "Friend",
		Title:        "A light",
		Message:      "She always knew how to make us laugh.",
	}
}

// validPhotoInput returns a photo submission that passes validation.
func validPhotoInput() PhotoInput {
	return PhotoInput{
		Title:          "Summer at the lake",
		Description:    "The whole family together",
		Category:       "Family",
		Tags:           []string{"summer", "lake"},
		SubmitterName:  "Tom",
		SubmitterEmail: "tom@example.com",
	}
}

// pngBytes encodes a small PNG test image.
func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// makeMultipartPhoto builds a real multipart file and header from raw bytes.
func makeMultipartPhoto(t *testing.T, filename, contentType string, data []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="photo"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	fh := form.File["photo"][0]
	file, err := fh.Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })

	return file, fh
}
