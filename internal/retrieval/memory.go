package retrieval

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is the in-process fallback index used when Meilisearch is not
// configured. Matching is term overlap between the query and chunk content.
type MemoryStore struct {
	mu     sync.RWMutex
	chunks map[string]ChunkRecord
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{chunks: make(map[string]ChunkRecord)}
}

// IndexChunks adds or replaces chunks.
func (s *MemoryStore) IndexChunks(ctx context.Context, chunks []ChunkRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range chunks {
		s.chunks[chunk.ID] = chunk
	}
	return nil
}

// DeleteDocument removes every chunk belonging to a document.
func (s *MemoryStore) DeleteDocument(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, chunk := range s.chunks {
		if chunk.DocumentID == documentID {
			delete(s.chunks, id)
		}
	}
	return nil
}

// Search scores chunks by shared terms with the query and returns the top K.
func (s *MemoryStore) Search(ctx context.Context, q Query) ([]ChunkRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	terms := tokenize(q.Text)
	if len(terms) == 0 {
		return []ChunkRecord{}, nil
	}

	topK := q.TopK
	if topK <= 0 {
		topK = 5
	}

	s.mu.RLock()
	candidates := make([]ChunkRecord, 0, len(s.chunks))
	for _, chunk := range s.chunks {
		if q.DocType != "" && chunk.DocType != q.DocType {
			continue
		}
		if chunk.FeedbackScore < q.MinFeedbackScore {
			continue
		}
		candidates = append(candidates, chunk)
	}
	s.mu.RUnlock()

	scored := make([]ChunkRecord, 0, len(candidates))
	for _, chunk := range candidates {
		score := overlapScore(terms, tokenize(chunk.Content))
		if score == 0 {
			continue
		}
		chunk.Score = score
		scored = append(scored, chunk)
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

func tokenize(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, field := range strings.Fields(strings.ToLower(s)) {
		term := strings.Trim(field, ".,;:!?()[]{}\"'")
		if len(term) < 3 {
			continue
		}
		out[term] = struct{}{}
	}
	return out
}

func overlapScore(query, content map[string]struct{}) float64 {
	if len(query) == 0 {
		return 0
	}
	matched := 0
	for term := range query {
		if _, ok := content[term]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(query))
}

var _ Store = (*MemoryStore)(nil)
