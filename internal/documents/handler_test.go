package documents_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"docgen-backend/internal/documents"
)

func newRouter(t *testing.T, docs ...documents.Document) (*gin.Engine, *documents.MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := documents.NewMemoryRepo()
	for _, doc := range docs {
		if err := repo.Create(t.Context(), doc); err != nil {
			t.Fatalf("seed document: %v", err)
		}
	}

	svc := documents.NewService(repo)
	router := gin.New()
	documents.NewHandler(svc).RegisterRoutes(router.Group("/api"))
	return router, repo
}

func sampleDoc(id string) documents.Document {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	return documents.Document{
		ID:            id,
		Filename:      id + ".md",
		Title:         "SRS: Billing",
		DocType:       "SRS",
		Content:       "# Introduction\n\nScope of the billing system.",
		Status:        documents.StatusDraft,
		FeedbackScore: 3,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestListDocumentsIncludesSizeAndAuthor(t *testing.T) {
	router, _ := newRouter(t, sampleDoc("doc-1"))

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var out []struct {
		ID            string  `json:"id"`
		Size          string  `json:"size"`
		Author        string  `json:"author"`
		FeedbackScore float64 `json:"feedback_score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected one document, got %d", len(out))
	}
	if out[0].Size != "6 words" {
		t.Fatalf("expected word-count size, got %q", out[0].Size)
	}
	if out[0].Author != "System" {
		t.Fatalf("expected author System, got %q", out[0].Author)
	}
}

func TestListAliasRouteMatchesDocuments(t *testing.T) {
	router, _ := newRouter(t, sampleDoc("doc-1"))

	for _, path := range []string{"/api/documents", "/api/docs", "/api/docs/doc-1"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 from %s, got %d", path, resp.Code)
		}
	}
}

func TestGetDocumentNotFound(t *testing.T) {
	router, _ := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/documents/missing", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "not_found" {
		t.Fatalf("expected not_found code, got %q", body.Error.Code)
	}
}

func TestUpdateNormalizesContentAndRefreshesUpdatedAt(t *testing.T) {
	router, repo := newRouter(t, sampleDoc("doc-1"))

	payload := `{"content": "Range 1–2\n• item", "status": "review"}`
	req := httptest.NewRequest(http.MethodPut, "/api/documents/doc-1", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	stored, err := repo.GetByID(t.Context(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Content != "Range 1-2\n* item" {
		t.Fatalf("expected normalized content, got %q", stored.Content)
	}
	if stored.Status != documents.StatusReview {
		t.Fatalf("expected status review, got %q", stored.Status)
	}
	if !stored.UpdatedAt.After(stored.CreatedAt) {
		t.Fatalf("expected updatedAt refreshed past createdAt")
	}
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	router, _ := newRouter(t, sampleDoc("doc-1"))

	req := httptest.NewRequest(http.MethodPut, "/api/documents/doc-1", strings.NewReader(`{"status": "archived"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestUpdateClampsFeedbackScore(t *testing.T) {
	router, repo := newRouter(t, sampleDoc("doc-1"))

	req := httptest.NewRequest(http.MethodPut, "/api/documents/doc-1", strings.NewReader(`{"feedback_score": 11}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	stored, _ := repo.GetByID(t.Context(), "doc-1")
	if stored.FeedbackScore != 5 {
		t.Fatalf("expected score clamped to 5, got %d", stored.FeedbackScore)
	}
}

func TestDeleteDocument(t *testing.T) {
	router, repo := newRouter(t, sampleDoc("doc-1"))

	req := httptest.NewRequest(http.MethodDelete, "/api/documents/doc-1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if _, err := repo.GetByID(t.Context(), "doc-1"); err == nil {
		t.Fatalf("expected document gone after delete")
	}
}

func TestFeedbackApprovesHighScores(t *testing.T) {
	router, repo := newRouter(t, sampleDoc("doc-1"))

	req := httptest.NewRequest(http.MethodPost, "/api/documents/doc-1/feedback", strings.NewReader(`{"score": 5}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	stored, _ := repo.GetByID(t.Context(), "doc-1")
	if stored.FeedbackScore != 5 || !stored.Approved {
		t.Fatalf("expected approved score 5, got score=%d approved=%v", stored.FeedbackScore, stored.Approved)
	}
}

func TestFeedbackRequiresScore(t *testing.T) {
	router, _ := newRouter(t, sampleDoc("doc-1"))

	req := httptest.NewRequest(http.MethodPost, "/api/documents/doc-1/feedback", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
