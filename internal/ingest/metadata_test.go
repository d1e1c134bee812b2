package ingest

import "testing"

func TestStyleMetadataCountsPatterns(t *testing.T) {
	content := "# Title\n\n## Section\n\nSome **bold** text with `inline` code.\n\n- first\n- second\n1) numbered\n"
	meta := StyleMetadata(content)

	headings, ok := meta["heading_patterns"].(map[string]any)
	if !ok {
		t.Fatalf("missing heading_patterns")
	}
	if headings["hash_headers"] != 2 {
		t.Fatalf("expected 2 hash headers, got %v", headings["hash_headers"])
	}
	lists, ok := meta["list_indicators"].(map[string]any)
	if !ok {
		t.Fatalf("missing list_indicators")
	}
	if lists["bullet_points"] != 2 {
		t.Fatalf("expected 2 bullet points, got %v", lists["bullet_points"])
	}
	if lists["numbered_lists"] != 1 {
		t.Fatalf("expected 1 numbered list item, got %v", lists["numbered_lists"])
	}
	formatting, ok := meta["formatting_patterns"].(map[string]any)
	if !ok {
		t.Fatalf("missing formatting_patterns")
	}
	if formatting["bold_text"] != 1 || formatting["inline_code"] != 1 {
		t.Fatalf("unexpected formatting counts: %v", formatting)
	}
}

func TestDetectDocTypeFromFilename(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"project_srs_v2.pdf", "SRS"},
		{"acme-sow-final.docx", "SOW"},
		{"q3_proposal.md", "Proposal"},
		{"notes.txt", "General"},
	}
	for _, tc := range cases {
		got := DetectDocType("plain text, nothing to match", tc.filename)
		if got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.filename, tc.want, got)
		}
	}
}

func TestDetectDocTypeFromContent(t *testing.T) {
	content := "This software requirements specification lists functional requirements. The system shall respond within 2s."
	if got := DetectDocType(content, "upload.txt"); got != "SRS" {
		t.Fatalf("expected SRS, got %s", got)
	}

	sow := "Statement of work covering deliverables, timeline and milestones for the engagement."
	if got := DetectDocType(sow, "upload.txt"); got != "SOW" {
		t.Fatalf("expected SOW, got %s", got)
	}
}
