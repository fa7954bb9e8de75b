// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quietgrove/memorial-go/internal/imaging"
	"github.com/quietgrove/memorial-go/internal/model"
	"github.com/quietgrove/memorial-go/internal/store"
	"github.com/quietgrove/memorial-go/internal/util"
)

// PhotoInput holds the public submission fields for a new gallery photo.
type PhotoInput struct {
	Title          string
	Description    string
	Category       string
	Tags           []string
	TakenAt        time.Time // zero means not provided; EXIF is the fallback
	Location       string
	People         []string
	SubmitterName  string
	SubmitterEmail string
}

// GalleryService handles photo submissions, gallery moderation and the
// public gallery listing.
type GalleryService struct {
	queries   *store.Queries
	processor *imaging.Processor
	uploadDir string
}

// NewGalleryService creates a new gallery service.
func NewGalleryService(db *sql.DB, uploadDir string) *GalleryService {
	return &GalleryService{
		queries:   store.New(db),
		processor: imaging.NewProcessor(uploadDir),
		uploadDir: uploadDir,
	}
}

// SubmitPhoto validates a public photo submission, stores the image and
// creates a pending Submission record. Type and size checks run before
// anything is written to disk.
func (s *GalleryService) SubmitPhoto(ctx context.Context, input PhotoInput, file multipart.File, header *multipart.FileHeader) (store.Submission, error) {
	if err := validatePhotoInput(input); err != nil {
		return store.Submission{}, err
	}

	if header.Size > model.MaxSubmissionSize {
		return store.Submission{}, NewValidationError("photo",
			fmt.Sprintf("photo exceeds the maximum size of %d bytes", model.MaxSubmissionSize))
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = mimeTypeFromExtension(header.Filename)
	}
	if !s.processor.IsImage(mimeType) {
		return store.Submission{}, NewValidationError("photo",
			fmt.Sprintf("file type %s is not a supported image", mimeType))
	}

	fileUUID := uuid.New().String()
	filename := util.SanitizeFilename(header.Filename)

	processResult, err := s.processor.ProcessImage(file, fileUUID, filename)
	if err != nil {
		return store.Submission{}, NewValidationError("photo", "file could not be decoded as an image")
	}

	if _, err := s.processor.CreateAllVariants(processResult.FilePath, fileUUID, filename); err != nil {
		slog.Warn("failed to create some photo variants", "uuid", fileUUID, "error", err)
	}

	takenAt := input.TakenAt
	if takenAt.IsZero() {
		takenAt = processResult.TakenAt
	}

	now := time.Now()
	submission, err := s.queries.CreateSubmission(ctx, store.CreateSubmissionParams{
		Title:          strings.TrimSpace(input.Title),
		Description:    strings.TrimSpace(input.Description),
		ImageURL:       photoURL("originals", fileUUID, filename),
		ThumbnailURL:   photoURL(model.VariantThumbnail, fileUUID, filename),
		Category:       input.Category,
		Tags:           util.EncodeStringList(input.Tags),
		TakenAt:        nullTime(takenAt),
		Location:       nullString(strings.TrimSpace(input.Location)),
		People:         util.EncodeStringList(input.People),
		SubmitterName:  strings.TrimSpace(input.SubmitterName),
		SubmitterEmail: strings.TrimSpace(input.SubmitterEmail),
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		// Clean up stored files so a failed insert leaves no orphans
		_ = s.processor.DeletePhotoFiles(fileUUID)
		return store.Submission{}, fmt.Errorf("creating submission: %w", err)
	}

	slog.Info("photo submitted for review", "id", submission.ID, "submitter", submission.SubmitterName)
	return submission, nil
}

// ListPublicPhotos returns approved, public photos with the total count.
// The "All Photos" sentinel (or an empty string) disables category
// filtering; search matches title, description and tags.
func (s *GalleryService) ListPublicPhotos(ctx context.Context, category string, featured *bool, search string, limit, offset int64) ([]store.GalleryPhoto, int64, error) {
	if category == model.CategoryAll {
		category = ""
	}

	approved := true
	public := true
	filter := store.GalleryFilter{
		Approved: &approved,
		Public:   &public,
		Featured: featured,
		Category: category,
		Search:   search,
	}

	photos, err := s.queries.ListGalleryPhotos(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing gallery photos: %w", err)
	}
	total, err := s.queries.CountGalleryPhotos(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("counting gallery photos: %w", err)
	}
	return photos, total, nil
}

// ListAdminPhotos returns photos of any visibility state.
func (s *GalleryService) ListAdminPhotos(ctx context.Context, limit, offset int64) ([]store.GalleryPhoto, int64, error) {
	filter := store.GalleryFilter{}

	photos, err := s.queries.ListGalleryPhotos(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing gallery photos: %w", err)
	}
	total, err := s.queries.CountGalleryPhotos(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("counting gallery photos: %w", err)
	}
	return photos, total, nil
}

// SetPhotoVisibility updates the approval, public and featured flags.
// Nil pointers leave the corresponding flag unchanged.
func (s *GalleryService) SetPhotoVisibility(ctx context.Context, adminID, id int64, isApproved, isPublic, isFeatured *bool) (store.GalleryPhoto, error) {
	photo, err := s.queries.GetGalleryPhotoByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return store.GalleryPhoto{}, ErrNotFound
		}
		return store.GalleryPhoto{}, fmt.Errorf("getting gallery photo: %w", err)
	}

	params := store.SetGalleryPhotoVisibilityParams{
		ID:         id,
		IsApproved: photo.IsApproved,
		IsPublic:   photo.IsPublic,
		IsFeatured: photo.IsFeatured,
		UpdatedAt:  time.Now(),
	}
	if isApproved != nil {
		params.IsApproved = *isApproved
	}
	if isPublic != nil {
		params.IsPublic = *isPublic
	}
	if isFeatured != nil {
		params.IsFeatured = *isFeatured
	}

	photo, err = s.queries.SetGalleryPhotoVisibility(ctx, params)
	if err != nil {
		return store.GalleryPhoto{}, fmt.Errorf("updating gallery photo visibility: %w", err)
	}

	recordModerationEvent(ctx, s.queries, adminID, "gallery photo visibility changed", id)
	return photo, nil
}

// DeletePhoto removes a gallery photo record and its stored files.
func (s *GalleryService) DeletePhoto(ctx context.Context, adminID, id int64) error {
	photo, err := s.queries.GetGalleryPhotoByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("getting gallery photo: %w", err)
	}

	if err := s.queries.DeleteGalleryPhoto(ctx, id); err != nil {
		return fmt.Errorf("deleting gallery photo: %w", err)
	}

	if fileUUID := uuidFromPhotoURL(photo.ImageURL); fileUUID != "" {
		if err := s.processor.DeletePhotoFiles(fileUUID); err != nil {
			slog.Warn("failed to delete photo files", "id", id, "error", err)
		}
	}

	recordModerationEvent(ctx, s.queries, adminID, "gallery photo deleted", id)
	return nil
}

// ListSubmissions returns photo submissions, optionally narrowed by status.
func (s *GalleryService) ListSubmissions(ctx context.Context, status string, limit, offset int64) ([]store.Submission, int64, error) {
	submissions, err := s.queries.ListSubmissions(ctx, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing submissions: %w", err)
	}
	total, err := s.queries.CountSubmissions(ctx, status)
	if err != nil {
		return nil, 0, fmt.Errorf("counting submissions: %w", err)
	}
	return submissions, total, nil
}

// ApproveSubmission publishes a pending submission: the photo data is
// copied into a new approved GalleryPhoto first, and only then is the
// submission marked approved with a link to the new photo. A failure
// between the two steps leaves the submission pending, which is safe to
// retry.
func (s *GalleryService) ApproveSubmission(ctx context.Context, adminID, id int64, adminNotes string) (store.Submission, error) {
	submission, err := s.queries.GetSubmissionByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return store.Submission{}, ErrNotFound
		}
		return store.Submission{}, fmt.Errorf("getting submission: %w", err)
	}
	if submission.Status != model.SubmissionStatusPending {
		return store.Submission{}, NewValidationError("status",
			fmt.Sprintf("submission is already %s", submission.Status))
	}

	now := time.Now()
	photo, err := s.queries.CreateGalleryPhoto(ctx, store.CreateGalleryPhotoParams{
		Title:        submission.Title,
		Description:  submission.Description,
		ImageURL:     submission.ImageURL,
		ThumbnailURL: submission.ThumbnailURL,
		Category:     submission.Category,
		Tags:         submission.Tags,
		TakenAt:      submission.TakenAt,
		Location:     submission.Location,
		People:       submission.People,
		UploadedBy:   submission.SubmitterName,
		IsApproved:   true,
		IsFeatured:   false,
		IsPublic:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return store.Submission{}, fmt.Errorf("publishing submission photo: %w", err)
	}

	submission, err = s.queries.UpdateSubmissionStatus(ctx, store.UpdateSubmissionStatusParams{
		ID:             id,
		Status:         model.SubmissionStatusApproved,
		AdminNotes:     nullString(adminNotes),
		GalleryPhotoID: sql.NullInt64{Int64: photo.ID, Valid: true},
		UpdatedAt:      now,
	})
	if err != nil {
		return store.Submission{}, fmt.Errorf("updating submission status: %w", err)
	}

	recordModerationEvent(ctx, s.queries, adminID, "photo submission approved", id)
	return submission, nil
}

// RejectSubmission marks a pending submission rejected. The record is
// retained for audit but never surfaced publicly.
func (s *GalleryService) RejectSubmission(ctx context.Context, adminID, id int64, adminNotes string) (store.Submission, error) {
	submission, err := s.queries.GetSubmissionByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return store.Submission{}, ErrNotFound
		}
		return store.Submission{}, fmt.Errorf("getting submission: %w", err)
	}
	if submission.Status != model.SubmissionStatusPending {
		return store.Submission{}, NewValidationError("status",
			fmt.Sprintf("submission is already %s", submission.Status))
	}

	submission, err = s.queries.UpdateSubmissionStatus(ctx, store.UpdateSubmissionStatusParams{
		ID:         id,
		Status:     model.SubmissionStatusRejected,
		AdminNotes: nullString(adminNotes),
		UpdatedAt:  time.Now(),
	})
	if err != nil {
		return store.Submission{}, fmt.Errorf("updating submission status: %w", err)
	}

	recordModerationEvent(ctx, s.queries, adminID, "photo submission rejected", id)
	return submission, nil
}

// DeleteSubmission removes a submission record. Stored files are removed
// too unless a published gallery photo still references them.
func (s *GalleryService) DeleteSubmission(ctx context.Context, adminID, id int64) error {
	submission, err := s.queries.GetSubmissionByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("getting submission: %w", err)
	}

	if err := s.queries.DeleteSubmission(ctx, id); err != nil {
		return fmt.Errorf("deleting submission: %w", err)
	}

	if !submission.GalleryPhotoID.Valid {
		if fileUUID := uuidFromPhotoURL(submission.ImageURL); fileUUID != "" {
			if err := s.processor.DeletePhotoFiles(fileUUID); err != nil {
				slog.Warn("failed to delete submission files", "id", id, "error", err)
			}
		}
	}

	recordModerationEvent(ctx, s.queries, adminID, "photo submission deleted", id)
	return nil
}

// validatePhotoInput checks required fields, category membership and
// submitter email format.
func validatePhotoInput(input PhotoInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return NewValidationError("title", "title is required")
	}
	if len(input.Title) > maxTitleLen {
		return NewValidationError("title", fmt.Sprintf("title must be at most %d characters", maxTitleLen))
	}
	if strings.TrimSpace(input.Description) == "" {
		return NewValidationError("description", "description is required")
	}
	if !model.IsValidGalleryCategory(input.Category) {
		return NewValidationError("category", fmt.Sprintf("category must be one of: %s",
			strings.Join(model.GalleryCategories(), ", ")))
	}
	if strings.TrimSpace(input.SubmitterName) == "" {
		return NewValidationError("submitterName", "submitter name is required")
	}
	email := strings.TrimSpace(input.SubmitterEmail)
	if email == "" {
		return NewValidationError("submitterEmail", "submitter email is required")
	}
	if !emailRegex.MatchString(email) {
		return NewValidationError("submitterEmail", "email format is invalid")
	}
	return nil
}

// photoURL builds the public URL for a stored photo file.
func photoURL(variant, fileUUID, filename string) string {
	return fmt.Sprintf("/uploads/%s/%s/%s", variant, fileUUID, filename)
}

// uuidFromPhotoURL extracts the upload UUID from a stored photo URL.
// Returns "" for URLs that don't match the /uploads layout.
func uuidFromPhotoURL(url string) string {
	parts := strings.Split(strings.Trim(url, "/"), "/")
	if len(parts) != 4 || parts[0] != "uploads" {
		return ""
	}
	return parts[2]
}

// mimeTypeFromExtension falls back to the filename extension when the
// upload carries no Content-Type.
func mimeTypeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return model.MimeTypeJPEG
	case ".png":
		return model.MimeTypePNG
	case ".gif":
		return model.MimeTypeGIF
	case ".webp":
		return model.MimeTypeWebP
	default:
		return "application/octet-stream"
	}
}

// nullTime wraps a time in sql.NullTime, treating zero as NULL.
func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

// nullString wraps a string in sql.NullString, treating "" as NULL.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
