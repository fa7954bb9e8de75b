// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/quietgrove/memorial-go/internal/service"
)

const testTributeBody = `{
	"author": "Jane",
	"email": "jane@example.com",
	"relationship": "Friend",
	"title": "A light",
	"message": "She always knew how to make us laugh."
}`

// seedApprovedTribute submits and approves a tribute through the services.
func seedApprovedTribute(t *testing.T, h *Handler, author string) int64 {
	t.Helper()
	ctx := context.Background()

	tribute, err := h.tributes.SubmitTribute(ctx, service.TributeInput{
		Author:       author,
		Relationship: "Friend",
		Title:        "A light",
		Message:      "She always knew how to make us laugh.",
	})
	if err != nil {
		t.Fatalf("failed to submit tribute: %v", err)
	}
	if _, err := h.tributes.ApproveTribute(ctx, 1, tribute.ID); err != nil {
		t.Fatalf("failed to approve tribute: %v", err)
	}
	return tribute.ID
}

func TestCreateTributeHandler(t *testing.T) {
	_, h := testSetup(t)

	req := newJSONRequest(t, http.MethodPost, "/api/tributes", testTributeBody, nil)
	w := executeHandler(t, h.CreateTribute, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := decodeEnvelope[TributeResponse](t, w)
	if !resp.Success {
		t.Error("expected success true")
	}
	if resp.Message == "" {
		t.Error("expected a confirmation message")
	}
	if resp.Data.IsApproved {
		t.Error("new tributes must start unapproved")
	}
	if resp.Data.Author != "Jane" {
		t.Errorf("expected author Jane, got %q", resp.Data.Author)
	}
	if strings.Contains(w.Body.String(), "jane@example.com") {
		t.Error("submitter email must not appear in public responses")
	}
}

func TestCreateTributeInvalidBody(t *testing.T) {
	_, h := testSetup(t)

	req := newJSONRequest(t, http.MethodPost, "/api/tributes", "{not json", nil)
	w := executeHandler(t, h.CreateTribute, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	resp := decodeEnvelope[any](t, w)
	if resp.Success {
		t.Error("expected success false")
	}
}

func TestCreateTributeValidationError(t *testing.T) {
	_, h := testSetup(t)

	req := newJSONRequest(t, http.MethodPost, "/api/tributes",
		`{"author": "", "relationship": "Friend", "title": "Hi", "message": "Hello"}`, nil)
	w := executeHandler(t, h.CreateTribute, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	resp := decodeEnvelope[any](t, w)
	if !strings.Contains(resp.Message, "author") {
		t.Errorf("expected message to name the field, got %q", resp.Message)
	}
}

func TestListTributesPagination(t *testing.T) {
	_, h := testSetup(t)

	for i := 0; i < 25; i++ {
		seedApprovedTribute(t, h, fmt.Sprintf("Author %d", i))
	}

	req := newGetRequest(t, "/api/tributes?page=3&limit=10", nil)
	w := executeHandler(t, h.ListTributes, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	resp := decodeEnvelope[[]TributeResponse](t, w)
	if len(resp.Data) != 5 {
		t.Errorf("expected 5 items on the last page, got %d", len(resp.Data))
	}
	if resp.Pagination == nil {
		t.Fatal("expected pagination metadata")
	}
	if resp.Pagination.Page != 3 || resp.Pagination.Limit != 10 {
		t.Errorf("unexpected window: page %d limit %d", resp.Pagination.Page, resp.Pagination.Limit)
	}
	if resp.Pagination.Total != 25 {
		t.Errorf("expected total 25, got %d", resp.Pagination.Total)
	}
	if resp.Pagination.Pages != 3 {
		t.Errorf("expected 3 pages, got %d", resp.Pagination.Pages)
	}
}

func TestListTributesHidesUnapproved(t *testing.T) {
	_, h := testSetup(t)

	req := newJSONRequest(t, http.MethodPost, "/api/tributes", testTributeBody, nil)
	executeHandler(t, h.CreateTribute, req)

	w := executeHandler(t, h.ListTributes, newGetRequest(t, "/api/tributes", nil))
	resp := decodeEnvelope[[]TributeResponse](t, w)
	if len(resp.Data) != 0 {
		t.Errorf("expected no public tributes, got %d", len(resp.Data))
	}
	if resp.Pagination.Total != 0 {
		t.Errorf("expected total 0, got %d", resp.Pagination.Total)
	}
}

func TestLikeTributeHandler(t *testing.T) {
	_, h := testSetup(t)
	id := seedApprovedTribute(t, h, "Jane")

	req := newJSONRequest(t, http.MethodPost, "/api/tributes/1/like", "",
		map[string]string{"id": fmt.Sprint(id)})
	w := executeHandler(t, h.LikeTribute, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	resp := decodeEnvelope[TributeResponse](t, w)
	if resp.Data.Likes != 1 {
		t.Errorf("expected 1 like, got %d", resp.Data.Likes)
	}

	// Malformed ID
	req = newJSONRequest(t, http.MethodPost, "/api/tributes/abc/like", "",
		map[string]string{"id": "abc"})
	if w := executeHandler(t, h.LikeTribute, req); w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for bad ID, got %d", w.Code)
	}

	// Unknown ID
	req = newJSONRequest(t, http.MethodPost, "/api/tributes/999/like", "",
		map[string]string{"id": "999"})
	if w := executeHandler(t, h.LikeTribute, req); w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown ID, got %d", w.Code)
	}
}

func TestAdminTributeModeration(t *testing.T) {
	_, h := testSetup(t)

	req := newJSONRequest(t, http.MethodPost, "/api/tributes", testTributeBody, nil)
	created := decodeEnvelope[TributeResponse](t, executeHandler(t, h.CreateTribute, req))

	// The pending list includes the submitter email
	w := executeHandler(t, h.ListAdminTributes,
		newGetRequest(t, "/api/admin/tributes?status=pending", nil))
	pending := decodeEnvelope[[]TributeResponse](t, w)
	if len(pending.Data) != 1 {
		t.Fatalf("expected 1 pending tribute, got %d", len(pending.Data))
	}
	if pending.Data[0].Email != "jane@example.com" {
		t.Errorf("expected email in admin responses, got %q", pending.Data[0].Email)
	}

	// Approve
	idParam := map[string]string{"id": fmt.Sprint(created.Data.ID)}
	w = executeHandler(t, h.ApproveTribute,
		newJSONRequest(t, http.MethodPatch, "/api/admin/tributes/1/approve", "", idParam))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	approved := decodeEnvelope[TributeResponse](t, w)
	if !approved.Data.IsApproved {
		t.Error("expected tribute to be approved")
	}

	// Reject removes the record
	w = executeHandler(t, h.RejectTribute,
		newJSONRequest(t, http.MethodPatch, "/api/admin/tributes/1/reject", "", idParam))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	w = executeHandler(t, h.RejectTribute,
		newJSONRequest(t, http.MethodPatch, "/api/admin/tributes/1/reject", "", idParam))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for a removed tribute, got %d", w.Code)
	}
}

func TestFeatureTributeHandler(t *testing.T) {
	_, h := testSetup(t)
	id := seedApprovedTribute(t, h, "Jane")
	idParam := map[string]string{"id": fmt.Sprint(id)}

	w := executeHandler(t, h.FeatureTribute,
		newJSONRequest(t, http.MethodPatch, "/api/admin/tributes/1/feature", "", idParam))
	if got := decodeEnvelope[TributeResponse](t, w); !got.Data.IsFeatured {
		t.Error("expected featured after first toggle")
	}

	w = executeHandler(t, h.FeatureTribute,
		newJSONRequest(t, http.MethodPatch, "/api/admin/tributes/1/feature", "", idParam))
	if got := decodeEnvelope[TributeResponse](t, w); got.Data.IsFeatured {
		t.Error("expected unfeatured after second toggle")
	}
}
