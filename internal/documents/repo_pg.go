package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, filename, title, doc_type, content, status, approved, feedback_score, style_metadata, created_at, updated_at`

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    filename,
    title,
    doc_type,
    content,
    status,
    approved,
    feedback_score,
    style_metadata,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	meta, err := marshalMetadata(doc.StyleMetadata)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.Filename,
		doc.Title,
		doc.DocType,
		doc.Content,
		doc.Status,
		doc.Approved,
		doc.FeedbackScore,
		meta,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

// GetByID fetches a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 LIMIT 1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// List returns all documents, newest first.
func (r *PGRepo) List(ctx context.Context) ([]Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// ListApproved returns approved documents of a type with a minimum score.
func (r *PGRepo) ListApproved(ctx context.Context, docType string, minScore int) ([]Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE approved = TRUE AND feedback_score >= $1`
	args := []any{minScore}
	if docType != "" {
		query += ` AND doc_type = $2`
		args = append(args, docType)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// Update overwrites the mutable fields of a document.
func (r *PGRepo) Update(ctx context.Context, doc Document) error {
	const query = `
UPDATE documents
SET title = $1, content = $2, status = $3, approved = $4, feedback_score = $5, style_metadata = $6, updated_at = $7
WHERE id = $8`

	meta, err := marshalMetadata(doc.StyleMetadata)
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(
		ctx,
		query,
		doc.Title,
		doc.Content,
		doc.Status,
		doc.Approved,
		doc.FeedbackScore,
		meta,
		doc.UpdatedAt,
		doc.ID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document. Chunks cascade at the schema level.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var meta []byte
	if err := row.Scan(
		&doc.ID,
		&doc.Filename,
		&doc.Title,
		&doc.DocType,
		&doc.Content,
		&doc.Status,
		&doc.Approved,
		&doc.FeedbackScore,
		&meta,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	); err != nil {
		return Document{}, err
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &doc.StyleMetadata); err != nil {
			return Document{}, fmt.Errorf("decode style metadata for %s: %w", doc.ID, err)
		}
	}
	return doc, nil
}

func collectDocuments(rows *sql.Rows) ([]Document, error) {
	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func marshalMetadata(meta map[string]any) ([]byte, error) {
	if meta == nil {
		return nil, nil
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encode style metadata: %w", err)
	}
	return data, nil
}

var _ Repo = (*PGRepo)(nil)

// PGChunksRepo implements ChunksRepo using Postgres.
type PGChunksRepo struct {
	DB *sql.DB
}

// ReplaceForDocument swaps the stored chunks for a document in one
// transaction.
func (r *PGChunksRepo) ReplaceForDocument(ctx context.Context, documentID string, chunks []Chunk) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM document_chunks WHERE document_id = $1`, documentID); err != nil {
		return err
	}

	const insert = `
INSERT INTO document_chunks (id, document_id, content, chunk_index, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	for _, chunk := range chunks {
		meta, err := marshalMetadata(chunk.Metadata)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, insert, chunk.ID, chunk.DocumentID, chunk.Content, chunk.Index, meta, chunk.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListByDocument returns the chunks of a document in index order.
func (r *PGChunksRepo) ListByDocument(ctx context.Context, documentID string) ([]Chunk, error) {
	const query = `
SELECT id, document_id, content, chunk_index, metadata, created_at
FROM document_chunks
WHERE document_id = $1
ORDER BY chunk_index ASC`

	rows, err := r.DB.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Chunk
	for rows.Next() {
		var chunk Chunk
		var meta []byte
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Content, &chunk.Index, &meta, &chunk.CreatedAt); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &chunk.Metadata); err != nil {
				return nil, fmt.Errorf("decode chunk metadata for %s: %w", chunk.ID, err)
			}
		}
		out = append(out, chunk)
	}
	return out, rows.Err()
}

var _ ChunksRepo = (*PGChunksRepo)(nil)
