package count

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dtnitsch/wordfreq/internal/common"
	"github.com/dtnitsch/wordfreq/models"
	"github.com/dtnitsch/wordfreq/pkg/caching"
	"github.com/dtnitsch/wordfreq/pkg/db"
	"github.com/dtnitsch/wordfreq/pkg/detector"
	"github.com/dtnitsch/wordfreq/pkg/fetcher"
	"github.com/dtnitsch/wordfreq/pkg/mapreduce"
	"github.com/dtnitsch/wordfreq/pkg/pipeline"
	"github.com/dtnitsch/wordfreq/pkg/report"
	"github.com/dtnitsch/wordfreq/pkg/storage"
	"github.com/dtnitsch/wordfreq/pkg/tokenizer"
	"github.com/urfave/cli/v2"
)

// Exit codes
const (
	ExitFetchFailed = 1
	ExitFailed      = 2
)

func Command() *cli.Command {
	return &cli.Command{
		Name:      "count",
		Usage:     "Fetch a URL and count its words",
		ArgsUsage: "[url]",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file"},
			&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "URL to count (or pass it as an argument)"},
			&cli.StringSliceFlag{Name: "filter", Aliases: []string{"f"}, Usage: "only count these words, matched exactly against normalized (lowercased unless --keep-case) tokens; repeatable or comma separated"},
			&cli.IntFlag{Name: "top", Aliases: []string{"n"}, Usage: "number of words to report", Value: 10},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "map/reduce worker count (default: CPU count)"},
			&cli.IntFlag{Name: "timeout", Usage: "fetch timeout in seconds, 0 disables it", Value: 30},
			&cli.StringFlag{Name: "punctuation", Usage: "characters stripped before splitting"},
			&cli.BoolFlag{Name: "keep-case", Usage: "do not lowercase tokens"},
			&cli.BoolFlag{Name: "stopwords", Usage: "drop common English words"},
			&cli.StringFlag{Name: "html-mode", Usage: "auto, article or raw", Value: models.HTMLModeAuto},
			&cli.BoolFlag{Name: "detect-language", Usage: "detect the document language", Value: true},
			&cli.StringFlag{Name: "cache-dir", Usage: "cache fetched documents in this directory"},
			&cli.StringFlag{Name: "cache-ttl", Usage: "max age of cached documents", Value: "1h"},
			&cli.BoolFlag{Name: "history", Usage: "record the run in the history database", Value: true},
			&cli.StringFlag{Name: "db", Usage: "history database path (default: next to the binary)"},
			&cli.StringFlag{Name: "format", Usage: "chart, json or yaml", Value: models.FormatChart},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "also save the summary to this file"},
			&cli.BoolFlag{Name: "full", Usage: "include every word in json/yaml output"},
		}, common.LogFlags()...),
		Action: CountAction,
	}
}

func CountAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := loadConfig(c)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return cli.Exit(err.Error(), ExitFailed)
	}
	logger = logger.With("url", cfg.URL)

	filter := cfg.FilterSet()
	filterWords := setToSlice(filter)

	opts := pipeline.Options{
		Workers: cfg.Workers,
		Timeout: cfg.Timeout(),
		Tokenizer: tokenizer.Config{
			Punctuation: cfg.Punctuation,
			KeepCase:    cfg.KeepCase,
			Stopwords:   cfg.Stopwords,
		},
		HTMLMode: cfg.HTMLMode,
		Logger:   logger,
	}

	if cfg.CacheDir != "" {
		ttl, _ := cfg.CacheMaxAge() // checked by Validate
		cache, err := caching.NewCache(cfg.CacheDir, ttl)
		if err != nil {
			logger.Warn("Cache disabled", "error", err)
		} else {
			opts.Cache = cache
		}
	}
	if cfg.DetectLanguage {
		opts.Detector = detector.NewDetector()
	}

	var (
		database *db.DB
		runID    int64
	)
	if cfg.History {
		database, runID = startRun(logger, cfg, filterWords)
		if database != nil {
			defer database.Close()
		}
	}

	res, err := pipeline.New(opts).Run(c.Context, cfg.URL, filter)
	if err != nil {
		out, code := failureOutcome(err)
		finishRun(logger, database, runID, out, nil)
		return cli.Exit(err.Error(), code)
	}

	finishRun(logger, database, runID, successOutcome(res), res.Frequencies)

	summary := report.NewSummary(cfg.URL, res, filterWords, cfg.TopN, c.Bool("full"))
	summary.RunID = runID

	if err := writeSummary(c, summary, cfg.Format); err != nil {
		logger.Error("failed to write output", "error", err)
		return cli.Exit(err.Error(), ExitFailed)
	}

	if cfg.Output != "" {
		st := &storage.Storage{}
		format := outputFormat(cfg.Output, cfg.Format)
		if err := summary.Save(st, cfg.Output, format); err != nil {
			logger.Error("failed to save summary", "error", err, "path", cfg.Output)
			return cli.Exit(err.Error(), ExitFailed)
		}
		stats, err := st.GetFileStats(cfg.Output)
		if err != nil {
			logger.Warn("Saved summary cannot be inspected", "error", err, "path", cfg.Output)
		} else {
			logger.Info("Summary saved", "path", cfg.Output, "format", format, "bytes", stats.SizeBytes)
		}
	}

	return nil
}

// loadConfig layers the optional config file, flags and the URL argument.
func loadConfig(c *cli.Context) (*models.Config, error) {
	cfg := models.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := models.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet("url") {
		cfg.URL = c.String("url")
	}
	if c.Args().Present() {
		cfg.URL = c.Args().First()
	}
	if c.IsSet("filter") {
		cfg.Filter = splitWords(c.StringSlice("filter"))
	}
	if c.IsSet("top") {
		cfg.TopN = c.Int("top")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("timeout") {
		cfg.TimeoutSeconds = c.Int("timeout")
	}
	if c.IsSet("punctuation") {
		cfg.Punctuation = c.String("punctuation")
	}
	if c.IsSet("keep-case") {
		cfg.KeepCase = c.Bool("keep-case")
	}
	if c.IsSet("stopwords") {
		cfg.Stopwords = c.Bool("stopwords")
	}
	if c.IsSet("html-mode") {
		cfg.HTMLMode = c.String("html-mode")
	}
	if c.IsSet("detect-language") {
		cfg.DetectLanguage = c.Bool("detect-language")
	}
	if c.IsSet("cache-dir") {
		cfg.CacheDir = c.String("cache-dir")
	}
	if c.IsSet("cache-ttl") {
		cfg.CacheTTL = c.String("cache-ttl")
	}
	if c.IsSet("history") {
		cfg.History = c.Bool("history")
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("format") {
		cfg.Format = c.String("format")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}

	if cfg.URL != "" {
		cleaned, err := common.SanitizeAndValidateURL(cfg.URL)
		if err != nil {
			return nil, err
		}
		cfg.URL = cleaned
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitWords accepts "--filter the,a --filter of" style input.
func splitWords(values []string) []string {
	var words []string
	for _, v := range values {
		for _, w := range strings.Split(v, ",") {
			if w = strings.TrimSpace(w); w != "" {
				words = append(words, w)
			}
		}
	}
	return words
}

func setToSlice(set map[string]struct{}) []string {
	if set == nil {
		return nil
	}
	words := make([]string, 0, len(set))
	for w := range set {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// startRun opens the history database and records a running run. History
// problems are logged and disable recording for this run.
func startRun(logger *slog.Logger, cfg *models.Config, filter []string) (*db.DB, int64) {
	database, err := common.OpenDB(cfg.DBPath)
	if err != nil {
		logger.Warn("Run history disabled", "error", err)
		return nil, 0
	}
	runID, err := database.InsertRun(cfg.URL, filter)
	if err != nil {
		logger.Warn("Failed to record run start", "error", err)
		_ = database.Close()
		return nil, 0
	}
	logger.Debug("Run recorded", "run_id", runID)
	return database, runID
}

func finishRun(logger *slog.Logger, database *db.DB, runID int64, out db.RunOutcome, freq mapreduce.FrequencyMap) {
	if database == nil {
		return
	}
	if len(freq) > 0 {
		if err := database.InsertFrequencies(runID, freq); err != nil {
			logger.Warn("Failed to store word counts", "error", err, "run_id", runID)
		}
	}
	if err := database.FinishRun(runID, out); err != nil {
		logger.Warn("Failed to record run outcome", "error", err, "run_id", runID)
	}
}

func successOutcome(res *pipeline.Result) db.RunOutcome {
	out := db.RunOutcome{
		Status:        db.StatusDone,
		TokenCount:    res.TokenCount,
		DistinctCount: len(res.Frequencies),
	}
	if res.NoText {
		out.Status = db.StatusNoText
	}
	if doc := res.Document; doc != nil {
		out.StatusCode = doc.StatusCode
		out.Language = doc.Language
		out.FromCache = doc.FromCache
		if doc.Text != "" {
			out.ContentHash = common.ContentHash([]byte(doc.Text))
		}
	}
	return out
}

// failureOutcome classifies a pipeline error for history and picks the exit code.
func failureOutcome(err error) (db.RunOutcome, int) {
	out := db.RunOutcome{Status: db.StatusFailed, ErrorMessage: err.Error()}

	var fetchErr *fetcher.FetchError
	var taskErr *mapreduce.TaskError
	switch {
	case errors.As(err, &fetchErr):
		out.ErrorType = db.ErrorTypeFetch
		if fetcher.IsTimeout(err) {
			out.ErrorType = db.ErrorTypeTimeout
		}
		out.StatusCode = fetchErr.StatusCode
		return out, ExitFetchFailed
	case errors.As(err, &taskErr):
		out.ErrorType = db.ErrorTypeTask
	}
	return out, ExitFailed
}

func writeSummary(c *cli.Context, summary *report.Summary, format string) error {
	w := c.App.Writer
	if format != models.FormatChart {
		data, err := summary.Marshal(format)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	if summary.Status == report.StatusNoText {
		_, err := fmt.Fprintf(w, "No text at %s\n", summary.URL)
		return err
	}
	title := fmt.Sprintf("Top %d Most Frequent Words", len(summary.TopWords))
	if err := report.BarChart(w, title, summary.TopWords, report.DefaultChartWidth); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d tokens, %d distinct words\n", summary.TokenCount, summary.DistinctCount)
	return err
}

// outputFormat picks the file format from the extension, falling back to
// the display format and then JSON.
func outputFormat(path, format string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return models.FormatYAML
	case ".json":
		return models.FormatJSON
	}
	if format == models.FormatYAML {
		return models.FormatYAML
	}
	return models.FormatJSON
}
