package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"docgen-backend/internal/documents"
	"docgen-backend/internal/retrieval"
	"docgen-backend/internal/shared/metrics"
	"docgen-backend/internal/shared/telemetry"
	"docgen-backend/internal/shared/util"
)

// ErrEmptyDocument is returned when parsing produced no usable text.
var ErrEmptyDocument = errors.New("no content extracted from document")

// IndexScheduler hands indexing work to a background worker. When nil the
// service indexes inline.
type IndexScheduler interface {
	Schedule(ctx context.Context, documentID string) error
}

// Service ingests documents: parse, classify, chunk, persist, index.
type Service struct {
	Docs      documents.Repo
	Chunks    documents.ChunksRepo
	Index     retrieval.Indexer
	Scheduler IndexScheduler
	Chunker   Chunker
	Now       func() time.Time
}

// NewService constructs a Service with the given chunking parameters.
func NewService(docs documents.Repo, chunks documents.ChunksRepo, index retrieval.Indexer, chunkSize, chunkOverlap int) *Service {
	return &Service{
		Docs:    docs,
		Chunks:  chunks,
		Index:   index,
		Chunker: Chunker{Size: chunkSize, Overlap: chunkOverlap},
		Now:     time.Now,
	}
}

// Input describes a document to ingest. Either Data (raw upload bytes) or
// Content (already-extracted text) must be set.
type Input struct {
	Filename      string
	Title         string
	Data          []byte
	Content       string
	DocType       string
	Status        string
	Approved      bool
	FeedbackScore int
}

// Ingest processes one document end to end and returns the stored record.
func (s *Service) Ingest(ctx context.Context, in Input) (documents.Document, error) {
	content := in.Content
	if content == "" {
		parsed, err := Parse(in.Filename, in.Data)
		if err != nil {
			return documents.Document{}, err
		}
		content = parsed
	}
	content = util.NormalizeContent(strings.TrimSpace(content))
	if content == "" {
		return documents.Document{}, ErrEmptyDocument
	}

	docType := in.DocType
	if docType == "" || docType == "auto-detect" {
		docType = DetectDocType(content, in.Filename)
	}

	status := in.Status
	if status == "" {
		status = documents.StatusDraft
	}

	title := in.Title
	if title == "" {
		title = titleFromFilename(in.Filename)
	}

	now := s.Now().UTC()
	doc := documents.Document{
		ID:            uuid.NewString(),
		Filename:      in.Filename,
		Title:         title,
		DocType:       docType,
		Content:       content,
		Status:        status,
		Approved:      in.Approved,
		FeedbackScore: documents.ClampScore(in.FeedbackScore),
		StyleMetadata: StyleMetadata(content),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.Docs.Create(ctx, doc); err != nil {
		return documents.Document{}, fmt.Errorf("persist document: %w", err)
	}

	chunks := s.buildChunks(doc, now)
	if err := s.Chunks.ReplaceForDocument(ctx, doc.ID, chunks); err != nil {
		return documents.Document{}, fmt.Errorf("persist chunks: %w", err)
	}
	metrics.DocumentsIngested.Inc()

	if s.Scheduler != nil {
		if err := s.Scheduler.Schedule(ctx, doc.ID); err != nil {
			telemetry.Warn("ingest: schedule indexing failed, indexing inline", map[string]any{
				"document_id": doc.ID,
				"error":       err.Error(),
			})
			s.indexInline(ctx, doc, chunks)
		}
	} else {
		s.indexInline(ctx, doc, chunks)
	}

	return doc, nil
}

// IndexDocument rebuilds the search index entries for a stored document.
// The background worker calls this for scheduled jobs.
func (s *Service) IndexDocument(ctx context.Context, documentID string) error {
	doc, err := s.Docs.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	chunks, err := s.Chunks.ListByDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		chunks = s.buildChunks(doc, s.Now().UTC())
		if err := s.Chunks.ReplaceForDocument(ctx, doc.ID, chunks); err != nil {
			return fmt.Errorf("persist chunks: %w", err)
		}
	}
	if err := s.Index.IndexChunks(ctx, toRecords(doc, chunks)); err != nil {
		return err
	}
	metrics.ChunksIndexed.Add(float64(len(chunks)))
	return nil
}

func (s *Service) buildChunks(doc documents.Document, now time.Time) []documents.Chunk {
	pieces := s.Chunker.Split(doc.Content)
	chunks := make([]documents.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, documents.Chunk{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			Content:    piece,
			Index:      i,
			Metadata: map[string]any{
				"chunk_index":    i,
				"word_count":     len(strings.Fields(piece)),
				"char_count":     len(piece),
				"document_id":    doc.ID,
				"approved":       doc.Approved,
				"feedback_score": doc.FeedbackScore,
			},
			CreatedAt: now,
		})
	}
	return chunks
}

func (s *Service) indexInline(ctx context.Context, doc documents.Document, chunks []documents.Chunk) {
	if err := s.Index.IndexChunks(ctx, toRecords(doc, chunks)); err != nil {
		telemetry.Warn("ingest: index chunks failed", map[string]any{
			"document_id": doc.ID,
			"error":       err.Error(),
		})
		return
	}
	metrics.ChunksIndexed.Add(float64(len(chunks)))
}

func toRecords(doc documents.Document, chunks []documents.Chunk) []retrieval.ChunkRecord {
	records := make([]retrieval.ChunkRecord, 0, len(chunks))
	for _, chunk := range chunks {
		records = append(records, retrieval.ChunkRecord{
			ID:            chunk.ID,
			DocumentID:    doc.ID,
			Content:       chunk.Content,
			DocType:       doc.DocType,
			FeedbackScore: doc.FeedbackScore,
			ChunkIndex:    chunk.Index,
		})
	}
	return records
}

func titleFromFilename(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	words := strings.Fields(base)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	if len(words) == 0 {
		return "Document"
	}
	return strings.Join(words, " ")
}
