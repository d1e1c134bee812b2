package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	meili "github.com/meilisearch/meilisearch-go"

	"docgen-backend/internal/shared/telemetry"
)

const idxChunks = "docgen_chunks"

// Meili implements Store via Meilisearch.
type Meili struct {
	client  meili.ServiceManager
	healthy atomic.Bool
	done    chan struct{}
}

// NewMeili creates a Meilisearch-backed chunk index. The client keeps polling
// an unreachable server in the background so a late-starting Meilisearch is
// picked up without a restart.
func NewMeili(url, apiKey string) *Meili {
	client := meili.New(url, meili.WithAPIKey(apiKey))

	m := &Meili{
		client: client,
		done:   make(chan struct{}),
	}

	if _, err := client.Health(); err != nil {
		telemetry.Warn("retrieval: meilisearch unavailable", map[string]any{"url": url, "error": err.Error()})
		m.healthy.Store(false)
	} else {
		m.healthy.Store(true)
		m.configureIndex()
	}

	go m.healthLoop()
	return m
}

func (m *Meili) configureIndex() {
	if _, err := m.client.CreateIndex(&meili.IndexConfig{
		Uid:        idxChunks,
		PrimaryKey: "id",
	}); err != nil {
		telemetry.Warn("retrieval: create index (may already exist)", map[string]any{"error": err.Error()})
	}

	index := m.client.Index(idxChunks)
	filterable := []interface{}{"docType", "feedbackScore", "documentId"}
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		telemetry.Warn("retrieval: update filterable attrs", map[string]any{"error": err.Error()})
	}
	searchable := []string{"content"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		telemetry.Warn("retrieval: update searchable attrs", map[string]any{"error": err.Error()})
	}
}

func (m *Meili) healthLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !wasHealthy {
				telemetry.Info("retrieval: meilisearch recovered, reconfiguring index", nil)
				m.configureIndex()
			}
		}
	}
}

// Close stops the background health monitor.
func (m *Meili) Close() {
	close(m.done)
}

// Healthy reports whether Meilisearch is reachable.
func (m *Meili) Healthy() bool {
	return m.healthy.Load()
}

// Search returns the best-matching chunks for a query.
func (m *Meili) Search(ctx context.Context, q Query) ([]ChunkRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !m.healthy.Load() {
		return nil, fmt.Errorf("meilisearch unhealthy")
	}

	limit := int64(q.TopK)
	if limit <= 0 {
		limit = 5
	}

	sr := &meili.SearchRequest{
		Limit:            limit,
		ShowRankingScore: true,
	}
	var filters []string
	if q.DocType != "" {
		filters = append(filters, fmt.Sprintf("docType = %q", q.DocType))
	}
	if q.MinFeedbackScore > 0 {
		filters = append(filters, fmt.Sprintf("feedbackScore >= %d", q.MinFeedbackScore))
	}
	if len(filters) > 0 {
		sr.Filter = filters
	}

	resp, err := m.client.Index(idxChunks).Search(q.Text, sr)
	if err != nil {
		m.healthy.Store(false)
		return nil, fmt.Errorf("meilisearch search: %w", err)
	}

	out := make([]ChunkRecord, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		out = append(out, hitToChunk(hit))
	}
	return out, nil
}

func hitToChunk(hit meili.Hit) ChunkRecord {
	var rec ChunkRecord
	rec.ID = decodeString(hit, "id")
	rec.DocumentID = decodeString(hit, "documentId")
	rec.Content = decodeString(hit, "content")
	rec.DocType = decodeString(hit, "docType")
	rec.FeedbackScore = decodeInt(hit, "feedbackScore")
	rec.ChunkIndex = decodeInt(hit, "chunkIndex")
	if raw, ok := hit["_rankingScore"]; ok {
		var score float64
		if err := json.Unmarshal(raw, &score); err == nil {
			rec.Score = score
		}
	}
	return rec
}

func decodeString(hit meili.Hit, key string) string {
	raw, ok := hit[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

func decodeInt(hit meili.Hit, key string) int {
	raw, ok := hit[key]
	if !ok {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	return 0
}

// IndexChunks adds or updates chunks in the search index.
func (m *Meili) IndexChunks(ctx context.Context, chunks []ChunkRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(chunks) == 0 {
		return nil
	}
	if !m.healthy.Load() {
		return fmt.Errorf("meilisearch unhealthy")
	}
	if _, err := m.client.Index(idxChunks).AddDocuments(chunks, nil); err != nil {
		return fmt.Errorf("meilisearch index chunks: %w", err)
	}
	return nil
}

// DeleteDocument removes every chunk belonging to a document.
func (m *Meili) DeleteDocument(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !m.healthy.Load() {
		return fmt.Errorf("meilisearch unhealthy")
	}
	filter := fmt.Sprintf("documentId = %q", documentID)
	if _, err := m.client.Index(idxChunks).DeleteDocumentsByFilter(filter, nil); err != nil {
		return fmt.Errorf("meilisearch delete document chunks: %w", err)
	}
	return nil
}

var _ Store = (*Meili)(nil)
