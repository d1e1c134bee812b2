package revision

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind identifies which response shape the review service returned.
type Kind int

const (
	// KindEmpty carries no usable content. The document is left unchanged.
	KindEmpty Kind = iota
	// KindLegacy carries replacement content plus free-text change notes.
	KindLegacy
	// KindDetailed carries replacement content plus structured diff details.
	KindDetailed
)

func (k Kind) String() string {
	switch k {
	case KindDetailed:
		return "detailed"
	case KindLegacy:
		return "legacy"
	default:
		return "empty"
	}
}

// DiffDetails lists the lines the service reports as changed.
type DiffDetails struct {
	Added   []string
	Removed []string
	Summary []string
}

// Response is the resolved form of a review service reply. The wire payload
// is polymorphic; ParseResponse classifies it exactly once so downstream code
// can switch on Kind instead of probing optional fields.
type Response struct {
	Kind            Kind
	ImprovedContent string
	HasContent      bool
	Diff            DiffDetails
	ChangesMade     []string
	Suggestions     []string
	Message         string
}

type wireDiffDetails struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Summary []string `json:"summary"`
}

type wireResponse struct {
	ImprovedContentSnake string           `json:"improved_content"`
	ImprovedContentCamel string           `json:"improvedContent"`
	UpdatedContent       string           `json:"updated_content"`
	DiffDetailsSnake     *wireDiffDetails `json:"diff_details"`
	DiffDetailsCamel     *wireDiffDetails `json:"diffDetails"`
	ChangesMadeSnake     []string         `json:"changes_made"`
	ChangesMadeCamel     []string         `json:"changesMade"`
	Suggestions          []string         `json:"suggestions"`
	Message              string           `json:"message"`
}

// ParseResponse decodes a review service payload and classifies its shape.
// Content is looked up under improved_content, improvedContent, and
// updated_content in that order.
func ParseResponse(data []byte) (Response, error) {
	var wire wireResponse
	if err := json.Unmarshal(data, &wire); err != nil {
		return Response{}, fmt.Errorf("decode revision response: %w", err)
	}
	return classify(wire)
}

func classify(wire wireResponse) (Response, error) {
	resp := Response{
		Suggestions: wire.Suggestions,
		Message:     strings.TrimSpace(wire.Message),
	}

	for _, candidate := range []string{wire.ImprovedContentSnake, wire.ImprovedContentCamel, wire.UpdatedContent} {
		if candidate != "" {
			resp.ImprovedContent = candidate
			resp.HasContent = true
			break
		}
	}

	resp.ChangesMade = wire.ChangesMadeSnake
	if len(resp.ChangesMade) == 0 {
		resp.ChangesMade = wire.ChangesMadeCamel
	}

	diff := wire.DiffDetailsSnake
	if diff == nil {
		diff = wire.DiffDetailsCamel
	}
	if diff != nil && (len(diff.Added) > 0 || len(diff.Removed) > 0 || len(diff.Summary) > 0) {
		resp.Diff = DiffDetails{Added: diff.Added, Removed: diff.Removed, Summary: diff.Summary}
		resp.Kind = KindDetailed
		return resp, nil
	}

	if resp.HasContent || len(resp.ChangesMade) > 0 || len(resp.Suggestions) > 0 || resp.Message != "" {
		resp.Kind = KindLegacy
		return resp, nil
	}

	resp.Kind = KindEmpty
	return resp, nil
}
