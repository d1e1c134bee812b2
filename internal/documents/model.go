package documents

import "time"

// Document is a generated or ingested document tracked by the store.
type Document struct {
	ID            string
	Filename      string
	Title         string
	DocType       string
	Content       string
	Status        string
	Approved      bool
	FeedbackScore int
	StyleMetadata map[string]any
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Chunk is one retrieval unit of a document's content.
type Chunk struct {
	ID         string
	DocumentID string
	Content    string
	Index      int
	Metadata   map[string]any
	CreatedAt  time.Time
}

// Document workflow statuses. Transitions are user-controlled.
const (
	StatusDraft  = "draft"
	StatusReview = "review"
	StatusFinal  = "final"
)

// ClampScore bounds a feedback score to the 1..5 scale.
func ClampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 5 {
		return 5
	}
	return score
}
