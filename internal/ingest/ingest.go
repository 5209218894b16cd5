// ABOUTME: Ingest pipeline wiring chunking, embedding, and persistence
// ABOUTME: Embeds before creating any record so failed ingests leave nothing behind
package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/marcus/docchat/internal/chunker"
	"github.com/marcus/docchat/internal/storage"
)

// ErrTextTooShort rejects documents whose extracted text is below the
// configured minimum. A client error: no record is created.
var ErrTextTooShort = errors.New("insufficient extracted text")

// Embedder turns chunk texts into vectors, output aligned 1:1 with input
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Result summarizes one successful ingest
type Result struct {
	DocumentID string `json:"documentId"`
	Filename   string `json:"filename"`
	ChunkCount int    `json:"chunkCount"`
}

// Pipeline ingests one document's extracted text end to end
type Pipeline struct {
	splitter      *chunker.Splitter
	embedder      Embedder
	store         storage.VectorStore
	minTextLength int
}

// New creates an ingest pipeline
func New(splitter *chunker.Splitter, embedder Embedder, store storage.VectorStore, minTextLength int) *Pipeline {
	return &Pipeline{
		splitter:      splitter,
		embedder:      embedder,
		store:         store,
		minTextLength: minTextLength,
	}
}

// IngestText chunks, embeds, and persists one document. All chunks embed
// successfully before any row is written, and the document and its chunks
// commit in one transaction, so a failure anywhere leaves no document
// behind.
func (p *Pipeline) IngestText(ctx context.Context, filename, text string) (*Result, error) {
	text = chunker.Normalize(text)
	if len([]rune(text)) < p.minTextLength {
		return nil, fmt.Errorf("%w: got %d characters, need at least %d", ErrTextTooShort, len([]rune(text)), p.minTextLength)
	}

	chunks := p.splitter.Split(text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no chunks produced", ErrTextTooShort)
	}

	vectors, err := p.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embedding chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	rows := make([]storage.ChunkRow, len(chunks))
	for i, content := range chunks {
		rows[i] = storage.ChunkRow{Content: content, Vector: vectors[i]}
	}

	doc, count, err := p.store.CreateDocumentWithChunks(ctx, filename, text, rows)
	if err != nil {
		return nil, fmt.Errorf("persisting document: %w", err)
	}

	return &Result{DocumentID: doc.ID, Filename: doc.Filename, ChunkCount: count}, nil
}
