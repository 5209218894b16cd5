// ABOUTME: Deterministic overlapping text splitter for document ingestion
// ABOUTME: Prefers paragraph/sentence/word boundaries within the chunk size bound
package chunker

import (
	"fmt"
	"strings"
	"unicode"
)

// Splitter cuts text into overlapping chunks. Adjacent chunks always share
// exactly overlap runes, so concatenating chunks with the shared prefixes
// removed reconstructs the normalized input.
type Splitter struct {
	chunkSize int
	overlap   int
}

// New validates the chunking parameters. A violation here is a
// configuration error and should be fatal at startup.
func New(chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunk overlap must not be negative, got %d", overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", overlap, chunkSize)
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}, nil
}

// Normalize prepares extracted text for splitting: CRLF to LF and
// surrounding whitespace trimmed. Splitting always operates on
// normalized text so repeated ingests of the same input are identical.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimSpace(text)
}

// Split cuts text into ordered overlapping chunks. Empty or
// whitespace-only input yields no chunks; input no longer than the chunk
// size yields exactly one chunk with no overlap applied.
func (s *Splitter) Split(text string) []string {
	text = Normalize(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= s.chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + s.chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		cut := s.cutPoint(runes, start, end)
		chunks = append(chunks, string(runes[start:cut]))
		// The next chunk re-reads the last overlap runes of this one.
		start = cut - s.overlap
	}
	return chunks
}

// cutPoint picks where to end the chunk starting at start, preferring a
// paragraph break, then a sentence end, then any whitespace. The cut must
// land after start+overlap so the splitter always makes forward progress;
// with no boundary in that window the chunk is hard-cut at the size bound.
func (s *Splitter) cutPoint(runes []rune, start, end int) int {
	min := start + s.overlap + 1

	for p := end; p > min; p-- {
		if runes[p-1] == '\n' {
			return p
		}
	}
	for p := end; p > min; p-- {
		if isSentenceEnd(runes[p-1]) {
			return p
		}
	}
	for p := end; p > min; p-- {
		if unicode.IsSpace(runes[p-1]) {
			return p
		}
	}
	return end
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
