package documents

import "context"

// Repo defines persistence operations for documents.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, id string) (Document, error)
	List(ctx context.Context) ([]Document, error)
	ListApproved(ctx context.Context, docType string, minScore int) ([]Document, error)
	Update(ctx context.Context, doc Document) error
	Delete(ctx context.Context, id string) error
}

// ChunksRepo defines persistence operations for document chunks.
type ChunksRepo interface {
	ReplaceForDocument(ctx context.Context, documentID string, chunks []Chunk) error
	ListByDocument(ctx context.Context, documentID string) ([]Chunk, error)
}
