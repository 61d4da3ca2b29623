package models

import (
	"strings"
	"time"
)

// Document is the text of a single fetched URL.
type Document struct {
	URL         string    `json:"url" yaml:"url"`
	Text        string    `json:"-" yaml:"-"`
	ContentType string    `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	StatusCode  int       `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	FetchedAt   time.Time `json:"fetched_at" yaml:"fetched_at"`
	FromCache   bool      `json:"from_cache,omitempty" yaml:"from_cache,omitempty"`

	// Filled in by language detection when enabled
	Language           string  `json:"language,omitempty" yaml:"language,omitempty"`
	LanguageConfidence float64 `json:"language_confidence,omitempty" yaml:"language_confidence,omitempty"`
}

// IsEmpty reports whether the fetch produced no text at all.
// Whitespace-only text is not empty; it tokenizes to nothing.
func (d *Document) IsEmpty() bool {
	return d == nil || d.Text == ""
}

// IsHTML reports whether the server labelled the body as HTML.
func (d *Document) IsHTML() bool {
	ct := strings.ToLower(d.ContentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}
