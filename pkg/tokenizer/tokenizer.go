// Package tokenizer turns raw document text into a sequence of normalized words.
package tokenizer

import (
	"sort"
	"strings"

	"github.com/dtnitsch/wordfreq/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Config controls normalization and filtering. It is passed explicitly so the
// tokenizer holds no package-level state besides the stopword table.
type Config struct {
	// Punctuation lists every rune removed before splitting.
	Punctuation string
	// KeepCase disables lowercasing.
	KeepCase bool
	// Stopwords drops common English words (see IsStopword).
	Stopwords bool
	// Filter, when non-nil, keeps only tokens present in the set.
	// Membership is case-sensitive against the normalized token.
	Filter map[string]struct{}
}

// DefaultConfig strips ASCII punctuation, lowercases and keeps every token.
func DefaultConfig() Config {
	return Config{Punctuation: models.DefaultPunctuation}
}

type Tokenizer struct {
	cfg   Config
	punct map[rune]struct{}
}

func New(cfg Config) *Tokenizer {
	punct := make(map[rune]struct{}, len(cfg.Punctuation))
	for _, r := range cfg.Punctuation {
		punct[r] = struct{}{}
	}
	return &Tokenizer{cfg: cfg, punct: punct}
}

// Tokenize returns the tokens of text in document order, duplicates included.
// Empty text, or a filter that matches nothing, yields an empty slice.
func (t *Tokenizer) Tokenize(text string) []string {
	fields := strings.Fields(t.normalize(text))
	tokens := make([]string, 0, len(fields))
	for _, word := range fields {
		if t.cfg.Stopwords && IsStopword(word) {
			continue
		}
		if t.cfg.Filter != nil {
			if _, ok := t.cfg.Filter[word]; !ok {
				continue
			}
		}
		tokens = append(tokens, word)
	}

	return tokens
}

func (t *Tokenizer) normalize(text string) string {
	text = strings.ToValidUTF8(text, "\uFFFD")
	text = t.StripPunctuation(text)
	if !t.cfg.KeepCase {
		text = cases.Lower(language.Und).String(text)
	}
	return norm.NFC.String(text)
}

// Unmatchable returns, sorted, the filter words that no token can equal
// because normalization changes them (case, punctuation, whitespace).
func (t *Tokenizer) Unmatchable() []string {
	var words []string
	for w := range t.cfg.Filter {
		if t.normalize(w) != w || len(strings.Fields(w)) != 1 {
			words = append(words, w)
		}
	}
	sort.Strings(words)
	return words
}

// StripPunctuation removes every configured punctuation rune from text.
func (t *Tokenizer) StripPunctuation(text string) string {
	if len(t.punct) == 0 {
		return text
	}
	return strings.Map(func(r rune) rune {
		if _, ok := t.punct[r]; ok {
			return -1
		}
		return r
	}, text)
}
