// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Supported image variant types
const (
	VariantThumbnail = "thumbnail"
	VariantLarge     = "large"
)

// Supported image MIME types for gallery submissions
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// MaxSubmissionSize is the upload ceiling for public photo submissions.
const MaxSubmissionSize = 10 * 1024 * 1024 // 10MB

// Gallery photo categories (closed set).
const (
	CategoryFamily      = "Family"
	CategoryFriends     = "Friends"
	CategoryCelebration = "Celebrations"
	CategoryTravel      = "Travel"
	CategoryEarlyYears  = "Early Years"
	CategoryLaterYears  = "Later Years"
)

// CategoryAll is the sentinel that disables category filtering on the
// public gallery listing.
const CategoryAll = "All Photos"

// GalleryCategories returns the closed set of photo categories.
func GalleryCategories() []string {
	return []string{
		CategoryFamily,
		CategoryFriends,
		CategoryCelebration,
		CategoryTravel,
		CategoryEarlyYears,
		CategoryLaterYears,
	}
}

// IsValidGalleryCategory checks category enum membership.
func IsValidGalleryCategory(category string) bool {
	for _, c := range GalleryCategories() {
		if c == category {
			return true
		}
	}
	return false
}

// ImageVariantConfig defines settings for generating image variants.
type ImageVariantConfig struct {
	Width   int
	Height  int
	Quality int
	Crop    bool // true = crop to exact size, false = fit within bounds
}

// ImageVariants defines the variants generated for every stored photo.
var ImageVariants = map[string]ImageVariantConfig{
	VariantThumbnail: {Width: 300, Height: 300, Quality: 80, Crop: true},
	VariantLarge:     {Width: 1600, Height: 1200, Quality: 90, Crop: false},
}

// SupportedImageTypes returns the image MIME types accepted for upload.
func SupportedImageTypes() []string {
	return []string{MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP}
}

// IsSupportedImageType checks if a MIME type can be submitted to the gallery.
func IsSupportedImageType(mimeType string) bool {
	for _, t := range SupportedImageTypes() {
		if t == mimeType {
			return true
		}
	}
	return false
}

// Submission moderation statuses.
const (
	SubmissionStatusPending  = "pending"
	SubmissionStatusApproved = "approved"
	SubmissionStatusRejected = "rejected"
)
