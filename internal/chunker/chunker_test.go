// ABOUTME: Tests for the overlapping text splitter
// ABOUTME: Verifies overlap, coverage, determinism, and boundary preference
package chunker

import (
	"strings"
	"testing"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name      string
		chunkSize int
		overlap   int
		wantErr   bool
	}{
		{"valid", 1000, 200, false},
		{"zero overlap", 100, 0, false},
		{"zero size", 0, 0, true},
		{"negative size", -1, 0, true},
		{"negative overlap", 100, -1, true},
		{"overlap equals size", 100, 100, true},
		{"overlap exceeds size", 100, 150, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.chunkSize, tt.overlap)
			if (err != nil) != tt.wantErr {
				t.Errorf("New(%d, %d) error = %v, wantErr %v", tt.chunkSize, tt.overlap, err, tt.wantErr)
			}
		})
	}
}

func TestSplit_EmptyText(t *testing.T) {
	s, err := New(1000, 200)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for _, text := range []string{"", "   ", "\n\n\t  \n"} {
		if chunks := s.Split(text); len(chunks) != 0 {
			t.Errorf("Split(%q) = %d chunks, want 0", text, len(chunks))
		}
	}
}

func TestSplit_ShortText(t *testing.T) {
	s, err := New(1000, 200)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	text := "A short paragraph that fits in one chunk."
	chunks := s.Split(text)
	if len(chunks) != 1 {
		t.Fatalf("Split() = %d chunks, want 1", len(chunks))
	}
	if chunks[0] != text {
		t.Errorf("chunk = %q, want %q", chunks[0], text)
	}
}

func TestSplit_BoundarylessTextChunkCount(t *testing.T) {
	// 5000 runes with no natural boundaries: chunks advance by
	// chunkSize-overlap = 800, giving ceil((5000-200)/800) = 6 chunks.
	s, err := New(1000, 200)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	text := strings.Repeat("x", 5000)
	chunks := s.Split(text)
	if len(chunks) != 6 {
		t.Fatalf("Split() = %d chunks, want 6", len(chunks))
	}
	for i, c := range chunks {
		if len([]rune(c)) > 1000 {
			t.Errorf("chunk %d length = %d, exceeds chunk size", i, len(c))
		}
	}
	if len(chunks[5]) != 1000 {
		t.Errorf("final chunk length = %d, want 1000", len(chunks[5]))
	}
}

func TestSplit_OverlapExact(t *testing.T) {
	s, err := New(100, 20)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("Split() = %d chunks, want at least 2", len(chunks))
	}

	for i := 0; i < len(chunks)-1; i++ {
		tail := []rune(chunks[i])
		head := []rune(chunks[i+1])
		if len(head) < 20 {
			t.Fatalf("chunk %d too short to carry overlap: %d runes", i+1, len(head))
		}
		suffix := string(tail[len(tail)-20:])
		prefix := string(head[:20])
		if suffix != prefix {
			t.Errorf("chunks %d/%d overlap mismatch: %q vs %q", i, i+1, suffix, prefix)
		}
	}
}

func TestSplit_Reconstruction(t *testing.T) {
	s, err := New(80, 15)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	text := Normalize(strings.Repeat("Paragraphs come first.\n\nThen sentences. Then words and raw runs of text. ", 25))
	chunks := s.Split(text)

	var b strings.Builder
	for i, c := range chunks {
		r := []rune(c)
		if i == 0 {
			b.WriteString(c)
			continue
		}
		b.WriteString(string(r[15:]))
	}

	if b.String() != text {
		t.Error("concatenating chunks minus overlaps did not reconstruct the input")
	}
}

func TestSplit_SizeBound(t *testing.T) {
	s, err := New(50, 10)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	text := strings.Repeat("Some words separated by spaces in a long run of text. ", 30)
	for i, c := range s.Split(text) {
		if n := len([]rune(c)); n > 50 {
			t.Errorf("chunk %d length = %d, exceeds chunk size 50", i, n)
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	s, err := New(120, 30)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	text := strings.Repeat("Determinism matters for restartable ingest. Same input, same output. ", 20)
	first := s.Split(text)
	second := s.Split(text)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplit_PrefersNewlineBoundary(t *testing.T) {
	s, err := New(60, 10)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	text := "First paragraph ends here.\nSecond paragraph carries on with plenty more text to force a second chunk."
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("Split() = %d chunks, want at least 2", len(chunks))
	}
	if !strings.HasSuffix(chunks[0], "\n") {
		t.Errorf("first chunk should end at the newline boundary, got %q", chunks[0])
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize("  line one\r\nline two\r\n ")
	want := "line one\nline two"
	if got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}
