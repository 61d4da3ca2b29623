// Package report turns a finished word count into a summary document or a
// terminal bar chart.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/dtnitsch/wordfreq/models"
	"github.com/dtnitsch/wordfreq/pkg/mapreduce"
	"github.com/dtnitsch/wordfreq/pkg/pipeline"
	"github.com/dtnitsch/wordfreq/pkg/storage"
	"gopkg.in/yaml.v3"
)

// Summary statuses
const (
	StatusDone   = "done"
	StatusNoText = "no_text"
)

// Summary is the serializable overview of one run.
type Summary struct {
	GeneratedAt string   `json:"generated_at" yaml:"generated_at"`
	RunID       int64    `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	URL         string   `json:"url" yaml:"url"`
	Status      string   `json:"status" yaml:"status"`
	Filter      []string `json:"filter,omitempty" yaml:"filter,omitempty"`

	StatusCode  int    `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	ContentType string `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	FromCache   bool   `json:"from_cache,omitempty" yaml:"from_cache,omitempty"`
	Language    string `json:"language,omitempty" yaml:"language,omitempty"`

	TokenCount    int                    `json:"token_count" yaml:"token_count"`
	DistinctCount int                    `json:"distinct_count" yaml:"distinct_count"`
	TopWords      []mapreduce.Pair       `json:"top_words" yaml:"top_words"`
	Frequencies   mapreduce.FrequencyMap `json:"frequencies,omitempty" yaml:"frequencies,omitempty"`
	Timings       []Timing               `json:"timings,omitempty" yaml:"timings,omitempty"`
}

// Timing is a stage duration in milliseconds.
type Timing struct {
	Stage string  `json:"stage" yaml:"stage"`
	MS    float64 `json:"ms" yaml:"ms"`
}

// NewSummary builds a Summary from a pipeline result. topN limits TopWords;
// withFrequencies includes the whole frequency map.
func NewSummary(url string, res *pipeline.Result, filter []string, topN int, withFrequencies bool) *Summary {
	s := &Summary{
		GeneratedAt:   time.Now().Format(time.RFC3339),
		URL:           url,
		Status:        StatusDone,
		TokenCount:    res.TokenCount,
		DistinctCount: len(res.Frequencies),
		TopWords:      mapreduce.TopN(res.Frequencies, topN),
	}
	if res.NoText {
		s.Status = StatusNoText
	}
	if len(filter) > 0 {
		s.Filter = append([]string(nil), filter...)
		sort.Strings(s.Filter)
	}
	if doc := res.Document; doc != nil {
		s.StatusCode = doc.StatusCode
		s.ContentType = doc.ContentType
		s.FromCache = doc.FromCache
		s.Language = doc.Language
	}
	if withFrequencies {
		s.Frequencies = res.Frequencies
	}
	for _, t := range res.Timings {
		s.Timings = append(s.Timings, Timing{
			Stage: t.Stage.String(),
			MS:    float64(t.Took.Microseconds()) / 1000,
		})
	}
	return s
}

// Marshal encodes the summary as indented JSON or as YAML.
func (s *Summary) Marshal(format string) ([]byte, error) {
	switch format {
	case models.FormatJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("error marshalling summary: %w", err)
		}
		return append(data, '\n'), nil
	case models.FormatYAML:
		data, err := yaml.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("error marshalling summary: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported summary format %q", format)
	}
}

// Save writes the summary to path in the given format.
func (s *Summary) Save(st *storage.Storage, path, format string) error {
	data, err := s.Marshal(format)
	if err != nil {
		return err
	}
	if err := st.SaveFile(path, data); err != nil {
		return fmt.Errorf("error saving summary: %w", err)
	}
	return nil
}
