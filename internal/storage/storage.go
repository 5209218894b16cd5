// ABOUTME: Storage contracts shared by ingest, retrieval, and the HTTP layer
// ABOUTME: Keeps the core decoupled from the SQLite adapter
package storage

import (
	"context"
	"errors"

	"github.com/marcus/docchat/internal/models"
)

// ErrNotFound is returned when a document id does not exist
var ErrNotFound = errors.New("document not found")

// ChunkRow is one chunk awaiting persistence: content and the vector
// computed from it in the same chunking pass.
type ChunkRow struct {
	Content string
	Vector  []float64
}

// DocumentStore reads document records
type DocumentStore interface {
	// ListDocuments returns all documents newest first, text excluded.
	ListDocuments(ctx context.Context) ([]models.Document, error)

	// GetDocument returns one document including its text, or ErrNotFound.
	GetDocument(ctx context.Context, id string) (*models.Document, error)

	// GetChunkContents returns a document's chunks in position order,
	// content only. Vectors are never exposed through this view.
	GetChunkContents(ctx context.Context, documentID string) ([]models.Chunk, error)
}

// VectorStore persists documents with their chunk vectors and answers
// similarity queries
type VectorStore interface {
	// CreateDocumentWithChunks writes the document row and every chunk
	// row in one transaction and reports the chunk count. Either the
	// whole document lands or nothing does.
	CreateDocumentWithChunks(ctx context.Context, filename, text string, rows []ChunkRow) (*models.Document, int, error)

	// SearchChunks returns up to k chunks of one document ranked by
	// cosine similarity to the query vector, descending. An empty result
	// is a valid outcome, not an error.
	SearchChunks(ctx context.Context, documentID string, queryVector []float64, k int) ([]models.ScoredChunk, error)
}
