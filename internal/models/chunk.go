// ABOUTME: Chunk represents one overlapping slice of a document's text
// ABOUTME: Each chunk carries the embedding vector computed from its content
package models

// Chunk is the unit of embedding and retrieval. Position is the chunk's
// zero-based index within its document's chunking pass.
type Chunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	Position   int       `json:"position"`
	Content    string    `json:"content"`
	Vector     []float64 `json:"-"`
}

// ScoredChunk is one retrieval hit: chunk content plus its cosine
// similarity to the query vector. Ephemeral, never persisted.
type ScoredChunk struct {
	ChunkID string  `json:"chunkId"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}
