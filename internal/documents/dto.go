package documents

import (
	"fmt"
	"time"
)

// DocumentResponse is the outward-facing representation of a full document.
type DocumentResponse struct {
	ID            string    `json:"id"`
	Content       string    `json:"content"`
	Title         string    `json:"title"`
	DocType       string    `json:"doc_type"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	FeedbackScore int       `json:"feedback_score"`
}

// SummaryResponse is the list-view representation of a document.
type SummaryResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	DocType       string    `json:"doc_type"`
	Created       time.Time `json:"created"`
	Modified      time.Time `json:"modified"`
	Status        string    `json:"status"`
	Size          string    `json:"size"`
	Author        string    `json:"author"`
	FeedbackScore float64   `json:"feedback_score"`
}

// ToResponse converts a stored document to its API shape.
func ToResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		ID:            doc.ID,
		Content:       doc.Content,
		Title:         doc.Title,
		DocType:       doc.DocType,
		Status:        doc.Status,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
		FeedbackScore: doc.FeedbackScore,
	}
}

func toSummary(doc Document) SummaryResponse {
	return SummaryResponse{
		ID:            doc.ID,
		Title:         doc.Title,
		DocType:       doc.DocType,
		Created:       doc.CreatedAt,
		Modified:      doc.UpdatedAt,
		Status:        doc.Status,
		Size:          fmt.Sprintf("%d words", wordCount(doc.Content)),
		Author:        "System",
		FeedbackScore: float64(doc.FeedbackScore),
	}
}
