package detector

import (
	"strings"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"
)

// DefaultSampleRunes bounds how much of a document is inspected.
const DefaultSampleRunes = 4000

// DefaultLanguages are the candidate languages considered by NewDetector.
var DefaultLanguages = []lingua.Language{
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
	lingua.Russian,
	lingua.Ukrainian,
}

// Result is the detected language of a text.
type Result struct {
	Code       string  // ISO-639-1, lowercase
	Confidence float64 // 0-1
}

// Detector wraps a lingua detector restricted to a candidate set.
type Detector struct {
	detector    lingua.LanguageDetector
	sampleRunes int
}

// NewDetector builds a detector for languages. An empty list uses DefaultLanguages.
func NewDetector(languages ...lingua.Language) *Detector {
	if len(languages) < 2 {
		languages = DefaultLanguages
	}
	return &Detector{
		detector:    lingua.NewLanguageDetectorBuilder().FromLanguages(languages...).Build(),
		sampleRunes: DefaultSampleRunes,
	}
}

// Detect returns the most likely language of text. ok is false when the text
// is too short or ambiguous to decide.
func (d *Detector) Detect(text string) (Result, bool) {
	sample := truncateRunes(strings.TrimSpace(text), d.sampleRunes)
	if sample == "" {
		return Result{}, false
	}

	lang, ok := d.detector.DetectLanguageOf(sample)
	if !ok {
		return Result{}, false
	}

	return Result{
		Code:       strings.ToLower(lang.IsoCode639_1().String()),
		Confidence: d.detector.ComputeLanguageConfidence(sample, lang),
	}, true
}

func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
