package review_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"docgen-backend/internal/documents"
	"docgen-backend/internal/llm"
	"docgen-backend/internal/review"
)

func newRouter(t *testing.T) (*gin.Engine, *documents.MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := documents.NewMemoryRepo()
	docsSvc := documents.NewService(repo)
	handler := review.NewHandler(review.NewService(llm.MockClient{}), docsSvc)

	router := gin.New()
	api := router.Group("/api")
	handler.RegisterRoutes(api)
	return router, repo
}

func seedDocument(t *testing.T, repo *documents.MemoryRepo, id, content string) {
	t.Helper()
	doc := documents.Document{
		ID:      id,
		Title:   "Seeded",
		DocType: "SRS",
		Content: content,
		Status:  documents.StatusDraft,
	}
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("seed document: %v", err)
	}
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestReviewInlineContent(t *testing.T) {
	router, _ := newRouter(t)

	resp := postJSON(t, router, "/api/review", map[string]any{
		"content": "Intro.\n# Title\nBody text.",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["status"] != "success" {
		t.Fatalf("unexpected status: %v", body["status"])
	}
	improved, _ := body["improved_content"].(string)
	if improved == "" || improved != body["improvedContent"] {
		t.Fatalf("expected matching snake and camel content fields")
	}
	if body["updated_content"] != improved {
		t.Fatalf("expected updated_content to match improved_content")
	}
	if _, ok := body["diff_details"].(map[string]any); !ok {
		t.Fatalf("expected diff_details object")
	}
	changes, _ := body["changes_made"].([]any)
	if len(changes) != 1 {
		t.Fatalf("expected one change entry, got %v", changes)
	}
}

func TestReviewLoadsContentFromDocument(t *testing.T) {
	router, repo := newRouter(t)
	seedDocument(t, repo, "doc-1", "Stored body.Another sentence.")

	resp := postJSON(t, router, "/api/review", map[string]any{
		"document_id": "doc-1",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["document_id"] != "doc-1" || body["doc_id"] != "doc-1" {
		t.Fatalf("expected document id echoed in both keys")
	}
	improved, _ := body["improved_content"].(string)
	if !strings.Contains(improved, "Stored body. Another sentence.") {
		t.Fatalf("expected sentence spacing fix, got %q", improved)
	}
}

func TestReviewDocIDAlias(t *testing.T) {
	router, repo := newRouter(t)
	seedDocument(t, repo, "doc-2", "Alias body text.")

	resp := postJSON(t, router, "/api/review", map[string]any{"doc_id": "doc-2"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestReviewUnknownDocument(t *testing.T) {
	router, _ := newRouter(t)

	resp := postJSON(t, router, "/api/review", map[string]any{"document_id": "missing"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	errObj, _ := body["error"].(map[string]any)
	if errObj["code"] != "not_found" {
		t.Fatalf("expected not_found code, got %v", errObj)
	}
}

func TestReviewRejectsEmptyContent(t *testing.T) {
	router, _ := newRouter(t)

	resp := postJSON(t, router, "/api/review", map[string]any{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestReviewByIDPersistsImprovedContent(t *testing.T) {
	router, repo := newRouter(t)
	seedDocument(t, repo, "doc-3", "Heading below.\n# Title\nBody.")

	resp := postJSON(t, router, "/api/review/doc-3", map[string]any{
		"feedback": []string{"tighten wording"},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	stored, err := repo.GetByID(context.Background(), "doc-3")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !strings.Contains(stored.Content, "Heading below.\n\n# Title\n\nBody.") {
		t.Fatalf("expected persisted post-processed content, got %q", stored.Content)
	}

	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	changes, _ := body["changes_made"].([]any)
	if len(changes) != 2 {
		t.Fatalf("expected formatting and feedback entries, got %v", changes)
	}
}

func TestReviewByIDUnknownDocument(t *testing.T) {
	router, _ := newRouter(t)
	resp := postJSON(t, router, "/api/review/nope", map[string]any{"content": "text"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
