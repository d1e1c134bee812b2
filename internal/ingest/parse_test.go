package ingest

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParsePlainText(t *testing.T) {
	got, err := Parse("readme.txt", []byte("  Hello world.  \n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got != "Hello world." {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestParseMarkdownKeepsStructure(t *testing.T) {
	src := "# Title\n\n- item one\n- item two"
	got, err := Parse("doc.md", []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got != src {
		t.Fatalf("markdown should pass through untouched, got %q", got)
	}
}

func TestParseUnsupportedExtension(t *testing.T) {
	_, err := Parse("image.png", []byte{1, 2, 3})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestParseDOCXExtractsParagraphs(t *testing.T) {
	docXML := `<?xml version="1.0"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body>` +
		`<w:p><w:r><w:t>Project Overview</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Scope and deliverables.</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := f.Write([]byte(docXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	got, err := Parse("statement.docx", buf.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d: %q", len(lines), got)
	}
	if lines[0] != "Project Overview" || lines[1] != "Scope and deliverables." {
		t.Fatalf("unexpected paragraphs: %q", lines)
	}
}

func TestParseDOCXMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if _, err := zw.Create("word/styles.xml"); err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	if _, err := Parse("broken.docx", buf.Bytes()); err == nil {
		t.Fatalf("expected error for docx without document.xml")
	}
}
