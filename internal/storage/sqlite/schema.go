// ABOUTME: SQLite schema for document and chunk storage
// ABOUTME: Vectors live beside chunk content as little-endian float64 blobs
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Uploaded documents with their extracted text
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    filename TEXT NOT NULL,
    text TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Overlapping text chunks with their embedding vectors
CREATE TABLE IF NOT EXISTS chunks (
    id TEXT PRIMARY KEY,
    document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    content TEXT NOT NULL,
    vector BLOB NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Indexes for document-scoped retrieval
CREATE INDEX IF NOT EXISTS idx_chunks_document ON chunks(document_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_chunks_document_position ON chunks(document_id, position);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
