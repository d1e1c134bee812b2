package revision

import "testing"

func TestParseResponseDetailedShape(t *testing.T) {
	payload := []byte(`{
		"improved_content": "Better text.",
		"diff_details": {"added": ["Better"], "removed": ["Worse"], "summary": ["Tightened wording"]}
	}`)

	resp, err := ParseResponse(payload)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if resp.Kind != KindDetailed {
		t.Fatalf("expected detailed, got %s", resp.Kind)
	}
	if !resp.HasContent || resp.ImprovedContent != "Better text." {
		t.Fatalf("unexpected content: %+v", resp)
	}
	if len(resp.Diff.Removed) != 1 || resp.Diff.Removed[0] != "Worse" {
		t.Fatalf("unexpected removed: %v", resp.Diff.Removed)
	}
}

func TestParseResponseCamelCaseFields(t *testing.T) {
	payload := []byte(`{
		"improvedContent": "Camel text.",
		"diffDetails": {"added": ["Camel"]}
	}`)

	resp, err := ParseResponse(payload)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if resp.Kind != KindDetailed {
		t.Fatalf("expected detailed, got %s", resp.Kind)
	}
	if resp.ImprovedContent != "Camel text." {
		t.Fatalf("unexpected content: %q", resp.ImprovedContent)
	}
}

func TestParseResponseLegacyShape(t *testing.T) {
	payload := []byte(`{
		"updated_content": "Replacement.",
		"changes_made": ["fixed heading", "fixed list"],
		"suggestions": ["add a summary"]
	}`)

	resp, err := ParseResponse(payload)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if resp.Kind != KindLegacy {
		t.Fatalf("expected legacy, got %s", resp.Kind)
	}
	if len(resp.ChangesMade) != 2 {
		t.Fatalf("unexpected changes made: %v", resp.ChangesMade)
	}
}

func TestParseResponseMessageOnlyIsLegacy(t *testing.T) {
	resp, err := ParseResponse([]byte(`{"message": "Nothing to improve."}`))
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if resp.Kind != KindLegacy {
		t.Fatalf("expected legacy, got %s", resp.Kind)
	}
	if resp.HasContent {
		t.Fatalf("expected no content")
	}
}

func TestParseResponseEmptyShape(t *testing.T) {
	resp, err := ParseResponse([]byte(`{}`))
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if resp.Kind != KindEmpty {
		t.Fatalf("expected empty, got %s", resp.Kind)
	}
}

func TestParseResponseRejectsInvalidJSON(t *testing.T) {
	if _, err := ParseResponse([]byte(`{"improved_content":`)); err == nil {
		t.Fatalf("expected decode error")
	}
}
