package caching

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dtnitsch/wordfreq/models"
	"gopkg.in/yaml.v3"
)

// Cache stores fetched documents on disk, one YAML file per URL, with a TTL.
type Cache struct {
	path string
	ttl  time.Duration
}

type entry struct {
	URL         string    `yaml:"url"`
	ContentType string    `yaml:"content_type,omitempty"`
	StatusCode  int       `yaml:"status_code"`
	FetchedAt   time.Time `yaml:"fetched_at"`
	Text        string    `yaml:"text"`
}

// NewCache creates a new Cache instance.
// The cache path will be created if it doesn't exist.
func NewCache(path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{
		path: path,
		ttl:  ttl,
	}, nil
}

// key generates a SHA256 hash of the URL to use as a filename.
func (c *Cache) key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return fmt.Sprintf("%x.yaml", hash)
}

// Get returns the cached document for url if present and younger than the TTL.
// Any read or decode problem is treated as a miss.
func (c *Cache) Get(url string) (*models.Document, bool) {
	filePath := filepath.Join(c.path, c.key(url))

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, false
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return nil, false
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, false
	}
	var e entry
	if err := yaml.Unmarshal(data, &e); err != nil || e.URL != url {
		return nil, false
	}

	return &models.Document{
		URL:         e.URL,
		Text:        e.Text,
		ContentType: e.ContentType,
		StatusCode:  e.StatusCode,
		FetchedAt:   e.FetchedAt,
		FromCache:   true,
	}, true
}

// Set stores doc under its URL.
func (c *Cache) Set(doc *models.Document) error {
	data, err := yaml.Marshal(entry{
		URL:         doc.URL,
		ContentType: doc.ContentType,
		StatusCode:  doc.StatusCode,
		FetchedAt:   doc.FetchedAt,
		Text:        doc.Text,
	})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	filePath := filepath.Join(c.path, c.key(doc.URL))
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}
