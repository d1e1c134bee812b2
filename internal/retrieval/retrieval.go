package retrieval

import "context"

// ChunkRecord is the indexed unit of retrieval context.
type ChunkRecord struct {
	ID            string  `json:"id"`
	DocumentID    string  `json:"documentId"`
	Content       string  `json:"content"`
	DocType       string  `json:"docType"`
	FeedbackScore int     `json:"feedbackScore"`
	ChunkIndex    int     `json:"chunkIndex"`
	Score         float64 `json:"-"`
}

// Query selects context chunks for generation.
type Query struct {
	Text             string
	DocType          string
	MinFeedbackScore int
	TopK             int
}

// Searcher finds relevant chunks for a query.
type Searcher interface {
	Search(ctx context.Context, q Query) ([]ChunkRecord, error)
}

// Indexer maintains the chunk index.
type Indexer interface {
	IndexChunks(ctx context.Context, chunks []ChunkRecord) error
	DeleteDocument(ctx context.Context, documentID string) error
}

// Store combines search and indexing.
type Store interface {
	Searcher
	Indexer
}
