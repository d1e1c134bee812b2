package ingest

import (
	"strings"
	"testing"
)

func TestSplitShortContentSingleChunk(t *testing.T) {
	c := Chunker{Size: 1000, Overlap: 200}
	chunks := c.Split("A short requirements document.")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "A short requirements document." {
		t.Fatalf("unexpected chunk: %q", chunks[0])
	}
}

func TestSplitPrefersParagraphBoundaries(t *testing.T) {
	para := strings.Repeat("word ", 30)
	content := strings.TrimSpace(para) + "\n\n" + strings.TrimSpace(para) + "\n\n" + strings.TrimSpace(para)
	c := Chunker{Size: 200, Overlap: 0}

	chunks := c.Split(content)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 200 {
			t.Fatalf("chunk %d exceeds size: %d", i, len(chunk))
		}
	}
	if strings.Contains(chunks[0], "\n\n") {
		t.Fatalf("first chunk should break at the paragraph boundary: %q", chunks[0])
	}
}

func TestSplitOverlapRepeatsTrailingText(t *testing.T) {
	content := strings.TrimSpace(strings.Repeat("alpha beta gamma delta. ", 40))
	c := Chunker{Size: 200, Overlap: 50}

	chunks := c.Split(content)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if !strings.Contains(content, chunk) {
			t.Fatalf("chunk %d is not a substring of the input", i)
		}
	}
	total := 0
	for _, chunk := range chunks {
		total += len(chunk)
	}
	if total <= len(content)-len(chunks)*4 {
		t.Fatalf("expected overlap to repeat text across chunks")
	}
}

func TestSplitDefaultsApplied(t *testing.T) {
	c := Chunker{}
	content := strings.Repeat("x", 1500)
	chunks := c.Split(content)
	if len(chunks) < 2 {
		t.Fatalf("expected default size 1000 to split 1500 chars, got %d chunks", len(chunks))
	}
}

func TestSplitNeverStalls(t *testing.T) {
	// Overlap as large as the window must not loop forever.
	c := Chunker{Size: 10, Overlap: 10}
	chunks := c.Split(strings.Repeat("a", 50))
	if len(chunks) == 0 || len(chunks) > 60 {
		t.Fatalf("unexpected chunk count %d", len(chunks))
	}
}
