// Package pipeline sequences fetch, tokenize, map, shuffle and reduce into a
// single word count run.
package pipeline

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/dtnitsch/wordfreq/models"
	"github.com/dtnitsch/wordfreq/pkg/caching"
	"github.com/dtnitsch/wordfreq/pkg/detector"
	"github.com/dtnitsch/wordfreq/pkg/fetcher"
	"github.com/dtnitsch/wordfreq/pkg/mapreduce"
	"github.com/dtnitsch/wordfreq/pkg/parser"
	"github.com/dtnitsch/wordfreq/pkg/tokenizer"
)

// Source retrieves the document behind a URL.
type Source interface {
	GetText(ctx context.Context, url string) (*models.Document, error)
}

// Options configures a Pipeline. Zero values select defaults, except
// Tokenizer which is used as given (see tokenizer.DefaultConfig).
type Options struct {
	Workers   int
	Timeout   time.Duration
	Tokenizer tokenizer.Config
	HTMLMode  string

	Source   Source             // defaults to an HTTP fetcher using Timeout
	Cache    *caching.Cache     // nil disables caching
	Detector *detector.Detector // nil disables language detection
	Logger   *slog.Logger
}

// Result is the outcome of a successful run.
type Result struct {
	Document    *models.Document       `json:"document" yaml:"document"`
	Frequencies mapreduce.FrequencyMap `json:"frequencies" yaml:"frequencies"`
	TokenCount  int                    `json:"token_count" yaml:"token_count"`
	// NoText is set when the fetch succeeded but returned no text. The run
	// stops after fetching and Frequencies is empty.
	NoText  bool          `json:"no_text,omitempty" yaml:"no_text,omitempty"`
	State   State         `json:"state" yaml:"state"`
	Timings []StageTiming `json:"timings" yaml:"timings"`
}

type Pipeline struct {
	opts   Options
	source Source
	pool   *mapreduce.Pool
	parser *parser.Parser
	logger *slog.Logger
}

func New(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if opts.HTMLMode == "" {
		opts.HTMLMode = models.HTMLModeAuto
	}
	source := opts.Source
	if source == nil {
		source = fetcher.NewFetcher(opts.Timeout)
	}

	return &Pipeline{
		opts:   opts,
		source: source,
		pool:   mapreduce.NewPool(workers, logger),
		parser: &parser.Parser{},
		logger: logger,
	}
}

var stageStates = map[string]State{
	mapreduce.StageMap:     StateMapping,
	mapreduce.StageShuffle: StateShuffling,
	mapreduce.StageReduce:  StateReducing,
}

// run tracks state and timings for one invocation.
type run struct {
	logger  *slog.Logger
	state   State
	entered time.Time
	timings []StageTiming
}

func (r *run) transition(next State) {
	now := time.Now()
	if r.state != StateIdle {
		took := now.Sub(r.entered)
		r.timings = append(r.timings, StageTiming{Stage: r.state, Took: took})
		r.logger.Debug("Stage finished", "stage", r.state.String(), "took", took)
	}
	r.state = next
	r.entered = now
}

// Run fetches url and counts its words. filter, when non-nil, restricts
// counting to the given vocabulary.
//
// A failed fetch returns the error and no result. A fetch that succeeds with
// no text returns a result with NoText set and an empty FrequencyMap.
func (p *Pipeline) Run(ctx context.Context, url string, filter map[string]struct{}) (*Result, error) {
	r := &run{logger: p.logger.With("url", url)}

	r.transition(StateFetching)
	doc, err := p.acquire(ctx, url, r.logger)
	if err != nil {
		r.transition(StateFailed)
		r.logger.Error("Fetch failed", "error", err, "timeout", fetcher.IsTimeout(err))
		return nil, err
	}

	return p.process(r, doc, filter)
}

// RunText counts the words of already acquired text. The fetch stage is skipped.
func (p *Pipeline) RunText(text string, filter map[string]struct{}) (*Result, error) {
	r := &run{logger: p.logger}
	doc := &models.Document{Text: text, FetchedAt: time.Now()}
	return p.process(r, doc, filter)
}

func (p *Pipeline) process(r *run, doc *models.Document, filter map[string]struct{}) (*Result, error) {
	if doc.IsEmpty() {
		r.transition(StateDone)
		r.logger.Info("Document has no text, skipping count")
		return &Result{
			Document:    doc,
			Frequencies: mapreduce.FrequencyMap{},
			NoText:      true,
			State:       r.state,
			Timings:     r.timings,
		}, nil
	}

	r.transition(StateTokenizing)
	text := p.documentText(doc, r.logger)
	p.detectLanguage(doc, text, r.logger)

	cfg := p.opts.Tokenizer
	cfg.Filter = filter
	tok := tokenizer.New(cfg)
	if unmatchable := tok.Unmatchable(); len(unmatchable) > 0 {
		r.logger.Warn("Filter words can never match a normalized token", "words", unmatchable, "keep_case", cfg.KeepCase)
	}
	tokens := tok.Tokenize(text)
	r.logger.Debug("Tokenized document", "tokens", len(tokens), "filtered", filter != nil)

	freq, err := mapreduce.CountTokens(p.pool, tokens, func(stage string) {
		r.transition(stageStates[stage])
	})
	if err != nil {
		return nil, p.fail(r, err)
	}
	r.transition(StateDone)
	r.logger.Info("Word count finished", "tokens", len(tokens), "distinct", len(freq), "workers", p.pool.Workers(), "top", mapreduce.TopKeywords(freq, 5))

	return &Result{
		Document:    doc,
		Frequencies: freq,
		TokenCount:  len(tokens),
		State:       r.state,
		Timings:     r.timings,
	}, nil
}

func (p *Pipeline) fail(r *run, err error) error {
	stage := r.state
	r.transition(StateFailed)
	r.logger.Error("Task failed, aborting run", "stage", stage.String(), "error", err)
	return err
}

// acquire returns the document for url from the cache or the network.
func (p *Pipeline) acquire(ctx context.Context, url string, logger *slog.Logger) (*models.Document, error) {
	if p.opts.Cache != nil {
		if doc, ok := p.opts.Cache.Get(url); ok {
			logger.Info("Document found in cache, using it")
			return doc, nil
		}
	}

	logger.Info("Fetching document")
	doc, err := p.source.GetText(ctx, url)
	if err != nil {
		return nil, err
	}
	logger.Info("Fetch complete", "status_code", doc.StatusCode, "bytes", len(doc.Text), "content_type", doc.ContentType)

	if p.opts.Cache != nil {
		if err := p.opts.Cache.Set(doc); err != nil {
			logger.Warn("Failed to store document in cache", "error", err)
		}
	}
	return doc, nil
}

// documentText returns the text to tokenize, extracting readable text from
// HTML according to HTMLMode. Extraction problems fall back to the raw body.
func (p *Pipeline) documentText(doc *models.Document, logger *slog.Logger) string {
	switch p.opts.HTMLMode {
	case models.HTMLModeRaw:
		return doc.Text
	case models.HTMLModeAuto:
		if !doc.IsHTML() {
			return doc.Text
		}
	}

	text, err := p.parser.ExtractText(doc.URL, doc.Text)
	if err != nil {
		logger.Warn("HTML extraction failed, counting raw body", "error", err)
		return doc.Text
	}
	return text
}

func (p *Pipeline) detectLanguage(doc *models.Document, text string, logger *slog.Logger) {
	if p.opts.Detector == nil {
		return
	}
	res, ok := p.opts.Detector.Detect(text)
	if !ok {
		logger.Debug("Language could not be detected")
		return
	}
	doc.Language = res.Code
	doc.LanguageConfidence = res.Confidence
	logger.Debug("Language detected", "language", res.Code, "confidence", res.Confidence)
}
