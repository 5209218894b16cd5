// ABOUTME: Document represents one uploaded file and its extracted text
// ABOUTME: Documents are immutable once ingested
package models

import "time"

// Document is an uploaded file with its extracted text.
type Document struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
