package generate_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"docgen-backend/internal/documents"
	"docgen-backend/internal/generate"
	"docgen-backend/internal/ingest"
	"docgen-backend/internal/llm"
	"docgen-backend/internal/retrieval"
	"docgen-backend/internal/review"
	"docgen-backend/internal/style"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := documents.NewMemoryRepo()
	chunks := documents.NewMemoryChunksRepo()
	index := retrieval.NewMemoryStore()
	client := llm.MockClient{}
	wf := generate.NewWorkflow(client, style.NewBuilder(repo), index, review.NewService(client),
		ingest.NewService(repo, chunks, index, 1000, 200), 3)

	router := gin.New()
	api := router.Group("/api")
	generate.NewHandler(wf).RegisterRoutes(api)
	return router
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

func TestGenerateReturnsDocument(t *testing.T) {
	router := newRouter(t)

	resp := postJSON(t, router, "/api/generate", map[string]any{
		"doc_type":     "SRS",
		"summary":      "Billing Platform",
		"requirements": "invoice generation",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["id"] == "" || body["id"] == nil {
		t.Fatalf("expected document id")
	}
	if body["title"] != "SRS: Billing Platform" {
		t.Fatalf("unexpected title: %v", body["title"])
	}
	if body["status"] != "final" {
		t.Fatalf("unexpected status: %v", body["status"])
	}
	content, _ := body["content"].(string)
	if !strings.Contains(content, "Billing Platform") {
		t.Fatalf("unexpected content: %q", content)
	}
}

func TestGenerateRequiresDocType(t *testing.T) {
	router := newRouter(t)
	resp := postJSON(t, router, "/api/generate", map[string]any{"summary": "no type"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGenerateStreamEmitsEvents(t *testing.T) {
	router := newRouter(t)

	resp := postJSON(t, router, "/api/generate/stream", map[string]any{
		"doc_type": "SOW",
		"summary":  "Data Migration",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if ct := resp.Header().Get("Content-Type"); !strings.Contains(ct, "application/x-ndjson") {
		t.Fatalf("unexpected content type: %q", ct)
	}

	lines := strings.Split(strings.TrimSpace(resp.Body.String()), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected content and complete events, got %d lines", len(lines))
	}

	var contentParts []string
	var sawComplete bool
	for _, line := range lines {
		var event map[string]any
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			t.Fatalf("decode event %q: %v", line, err)
		}
		switch event["type"] {
		case "content":
			contentParts = append(contentParts, event["content"].(string))
		case "complete":
			sawComplete = true
			if event["id"] == "" || event["id"] == nil {
				t.Fatalf("complete event missing id")
			}
			if event["document_id"] != event["id"] {
				t.Fatalf("complete event id %v != document_id %v", event["id"], event["document_id"])
			}
		default:
			t.Fatalf("unexpected event type: %v", event["type"])
		}
	}
	if !sawComplete {
		t.Fatalf("expected complete event")
	}
	full := strings.Join(contentParts, "")
	if !strings.Contains(full, "Data Migration") {
		t.Fatalf("streamed content missing document text: %q", full)
	}
}
