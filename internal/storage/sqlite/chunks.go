// ABOUTME: Document-with-chunks persistence and cosine similarity search
// ABOUTME: One transaction per document with batched parameterized inserts
package sqlite

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marcus/docchat/internal/models"
	"github.com/marcus/docchat/internal/storage"
)

// DefaultBatchSize bounds rows per INSERT statement
const DefaultBatchSize = 50

// Store implements storage.DocumentStore and storage.VectorStore on SQLite
type Store struct {
	db        *DB
	batchSize int
	dimension int
}

// Option configures a Store
type Option func(*Store)

// WithBatchSize overrides the rows-per-statement bound
func WithBatchSize(n int) Option {
	return func(s *Store) { s.batchSize = n }
}

// WithDimension enforces a fixed vector dimension on writes.
// Zero accepts any dimension (used by tests with small vectors).
func WithDimension(d int) Option {
	return func(s *Store) { s.dimension = d }
}

// NewStore creates a Store over an open database
func NewStore(db *DB, opts ...Option) *Store {
	s := &Store{db: db, batchSize: DefaultBatchSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateDocumentWithChunks writes the document row and all of its chunk
// rows inside one transaction. A failure at any point leaves no trace of
// the document. The batch size only bounds statement size; it never
// changes the result.
func (s *Store) CreateDocumentWithChunks(ctx context.Context, filename, text string, rows []storage.ChunkRow) (*models.Document, int, error) {
	for i, row := range rows {
		if s.dimension > 0 && len(row.Vector) != s.dimension {
			return nil, 0, fmt.Errorf("chunk %d: invalid embedding dimension: expected %d, got %d", i, s.dimension, len(row.Vector))
		}
		if len(row.Vector) != len(rows[0].Vector) {
			return nil, 0, fmt.Errorf("chunk %d: dimension %d differs from chunk 0 dimension %d", i, len(row.Vector), len(rows[0].Vector))
		}
	}

	doc := &models.Document{
		ID:        "doc_" + uuid.New().String(),
		Filename:  filename,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("starting ingest transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, filename, text, created_at)
		VALUES (?, ?, ?, ?)
	`, doc.ID, doc.Filename, doc.Text, doc.CreatedAt)
	if err != nil {
		return nil, 0, fmt.Errorf("inserting document: %w", err)
	}

	inserted := 0
	for start := 0; start < len(rows); start += s.batchSize {
		end := start + s.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		placeholders := make([]string, 0, len(batch))
		args := make([]interface{}, 0, len(batch)*5)
		for i, row := range batch {
			placeholders = append(placeholders, "(?, ?, ?, ?, ?)")
			args = append(args,
				"chunk_"+uuid.New().String(),
				doc.ID,
				start+i,
				row.Content,
				vectorToBlob(row.Vector),
			)
		}

		query := "INSERT INTO chunks (id, document_id, position, content, vector) VALUES " +
			strings.Join(placeholders, ", ")
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return nil, 0, fmt.Errorf("inserting chunk batch at %d: %w", start, err)
		}
		inserted += len(batch)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("committing ingest: %w", err)
	}
	return doc, inserted, nil
}

// SearchChunks ranks one document's chunks by cosine similarity.
// Rows are read in position order so equal scores keep a stable order
// across identical queries.
func (s *Store) SearchChunks(ctx context.Context, documentID string, queryVector []float64, k int) ([]models.ScoredChunk, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT id, content, vector
		FROM chunks
		WHERE document_id = ?
		ORDER BY position
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunk vectors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []models.ScoredChunk
	for rows.Next() {
		var (
			id      string
			content string
			blob    []byte
		)
		if err := rows.Scan(&id, &content, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk vector: %w", err)
		}

		results = append(results, models.ScoredChunk{
			ChunkID: id,
			Content: content,
			Score:   CosineSimilarity(queryVector, blobToVector(blob)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// vectorToBlob converts a float64 slice to a binary blob
func vectorToBlob(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// blobToVector converts a binary blob to a float64 slice
func blobToVector(blob []byte) []float64 {
	count := len(blob) / 8
	vector := make([]float64, count)
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint64(blob[i*8:])
		vector[i] = math.Float64frombits(bits)
	}
	return vector
}

// CosineSimilarity calculates cosine similarity between two vectors.
// Mismatched dimensions and zero vectors score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
