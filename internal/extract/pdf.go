// ABOUTME: PDF text extraction backed by ledongthuc/pdf
// ABOUTME: Joins the plain text of all pages into one string
package extract

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// PDF extracts text from PDF files.
type PDF struct{}

// NewPDF creates a PDF extractor
func NewPDF() *PDF {
	return &PDF{}
}

// Extract reads every page's text and returns it as one string.
func (e *PDF) Extract(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	r, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	if _, err := io.Copy(&buf, r); err != nil {
		return "", fmt.Errorf("copying pdf text: %w", err)
	}

	return buf.String(), nil
}
