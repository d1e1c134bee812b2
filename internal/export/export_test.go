package export

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"docgen-backend/internal/documents"
)

func seedService(t *testing.T, content string) (*Service, string) {
	t.Helper()
	repo := documents.NewMemoryRepo()
	doc := documents.Document{
		ID:      "doc-1",
		Title:   "SRS: Billing Platform",
		DocType: "SRS",
		Content: content,
		Status:  documents.StatusFinal,
	}
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("seed document: %v", err)
	}
	return NewService(documents.NewService(repo)), doc.ID
}

func TestExportMarkdown(t *testing.T) {
	svc, id := seedService(t, "# Title\n\nBody text.")

	result, err := svc.Export(context.Background(), id, "md")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if result.MimeType != "text/markdown" {
		t.Fatalf("unexpected mime type: %q", result.MimeType)
	}
	if result.Filename != "SRS__Billing_Platform.md" {
		t.Fatalf("unexpected filename: %q", result.Filename)
	}
	if string(result.Data) != "# Title\n\nBody text." {
		t.Fatalf("unexpected data: %q", result.Data)
	}
}

func TestExportLaTeX(t *testing.T) {
	svc, id := seedService(t, "# Overview\n\nSome **bold** text with under_score.\n\n- item one\n- item two")

	result, err := svc.Export(context.Background(), id, "latex")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	tex := string(result.Data)
	for _, want := range []string{
		`\documentclass{article}`,
		`\title{SRS: Billing Platform}`,
		`\section{Overview}`,
		`\textbf{bold}`,
		`under\_score`,
		`\begin{itemize}`,
		`  \item item one`,
		`\end{itemize}`,
		`\end{document}`,
	} {
		if !strings.Contains(tex, want) {
			t.Fatalf("missing %q in latex output:\n%s", want, tex)
		}
	}
}

func TestExportUnknownFormat(t *testing.T) {
	svc, id := seedService(t, "text")
	_, err := svc.Export(context.Background(), id, "odt")
	if err == nil || !strings.Contains(err.Error(), "unsupported export format") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestExportUnknownDocument(t *testing.T) {
	svc, _ := seedService(t, "text")
	_, err := svc.Export(context.Background(), "missing", "md")
	if err == nil {
		t.Fatalf("expected error for missing document")
	}
}

func TestSafeFilename(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"SOW: Data Migration", "SOW__Data_Migration.tex"},
		{"plain", "plain.tex"},
		{"", "document.tex"},
		{"///", "document.tex"},
	}
	for _, tc := range cases {
		if got := SafeFilename(tc.title, "tex"); got != tc.want {
			t.Fatalf("SafeFilename(%q): expected %q, got %q", tc.title, tc.want, got)
		}
	}
}

func TestMarkdownToLaTeXTable(t *testing.T) {
	md := "| Name | Role |\n| --- | --- |\n| Ada | Engineer |\n\nAfter table."
	tex := markdownToLaTeX(md, "Team")
	for _, want := range []string{
		`\begin{tabular}{ll}`,
		`Name & Role \\`,
		`Ada & Engineer \\`,
		`\bottomrule`,
	} {
		if !strings.Contains(tex, want) {
			t.Fatalf("missing %q in table latex:\n%s", want, tex)
		}
	}
	if strings.Contains(tex, `--- & ---`) {
		t.Fatalf("separator row leaked into output")
	}
}

func TestMarkdownToLaTeXCodeBlock(t *testing.T) {
	md := "Intro\n\n```\nfmt.Println(\"hi\")\n```\n"
	tex := markdownToLaTeX(md, "Code")
	if !strings.Contains(tex, "\\begin{lstlisting}\nfmt.Println(\"hi\")\n\\end{lstlisting}") {
		t.Fatalf("missing code block:\n%s", tex)
	}
}

func TestExportHandlerMarkdown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, id := seedService(t, "# Doc\ntext")

	router := gin.New()
	api := router.Group("/api")
	NewHandler(svc).RegisterRoutes(api)

	req := httptest.NewRequest(http.MethodGet, "/api/export/"+id+"?format=md", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if cd := resp.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("expected attachment disposition, got %q", cd)
	}
}

func TestExportHandlerErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, id := seedService(t, "text")

	router := gin.New()
	api := router.Group("/api")
	NewHandler(svc).RegisterRoutes(api)

	req := httptest.NewRequest(http.MethodGet, "/api/export/missing?format=md", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/export/"+id+"?format=odt", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
