// ABOUTME: Text extraction contract for uploaded files
// ABOUTME: Implementations turn a file on disk into plain text for ingest
package extract

// Extractor pulls plain text out of an uploaded file. Extraction quality
// is the implementation's concern; callers only see the resulting text.
type Extractor interface {
	Extract(path string) (string, error)
}
