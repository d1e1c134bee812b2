package documents

import (
	"context"
	"strings"
	"time"

	"docgen-backend/internal/shared/util"
)

// Service contains business logic for documents.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: time.Now}
}

// Get returns a single document by ID.
func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	if strings.TrimSpace(id) == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns summaries for every document, newest first.
func (s *Service) List(ctx context.Context) ([]SummaryResponse, error) {
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SummaryResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toSummary(doc))
	}
	return out, nil
}

// UpdateParams are the mutable fields of a document. Nil fields are left
// untouched.
type UpdateParams struct {
	Title         *string
	Content       *string
	Status        *string
	FeedbackScore *int
}

// Update applies the given fields, normalizes the content, and refreshes
// updatedAt.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return Document{}, err
	}

	if params.Title != nil {
		doc.Title = *params.Title
	}
	if params.Content != nil {
		doc.Content = util.NormalizeContent(*params.Content)
	}
	if params.Status != nil {
		switch *params.Status {
		case StatusDraft, StatusReview, StatusFinal:
			doc.Status = *params.Status
		default:
			return Document{}, ErrInvalidInput
		}
	}
	if params.FeedbackScore != nil {
		doc.FeedbackScore = ClampScore(*params.FeedbackScore)
	}
	doc.UpdatedAt = s.Now().UTC()

	if err := s.Repo.Update(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Delete removes a document. Chunks go with it via the store's cascade.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	return s.Repo.Delete(ctx, id)
}

// Feedback records a quality score for a document. Scores of four or more
// mark the document approved so it feeds future style profiles.
func (s *Service) Feedback(ctx context.Context, id string, score int) (Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return Document{}, err
	}
	doc.FeedbackScore = ClampScore(score)
	doc.Approved = doc.FeedbackScore >= 4
	doc.UpdatedAt = s.Now().UTC()
	if err := s.Repo.Update(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func wordCount(content string) int {
	return len(strings.Fields(content))
}
