// ABOUTME: Document read operations for SQLite
// ABOUTME: Implements storage.DocumentStore over the documents and chunks tables
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/marcus/docchat/internal/models"
	"github.com/marcus/docchat/internal/storage"
)

// ListDocuments returns all documents newest first, text excluded
func (s *Store) ListDocuments(ctx context.Context) ([]models.Document, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT id, filename, created_at
		FROM documents
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// GetDocument returns one document including its text
func (s *Store) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	err := s.db.conn.QueryRowContext(ctx, `
		SELECT id, filename, text, created_at
		FROM documents
		WHERE id = ?
	`, id).Scan(&doc.ID, &doc.Filename, &doc.Text, &doc.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching document: %w", err)
	}
	return &doc, nil
}

// GetChunkContents returns a document's chunks in position order, content only
func (s *Store) GetChunkContents(ctx context.Context, documentID string) ([]models.Chunk, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT id, document_id, position, content
		FROM chunks
		WHERE document_id = ?
		ORDER BY position
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("listing chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var chunks []models.Chunk
	for rows.Next() {
		var c models.Chunk
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Position, &c.Content); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}
