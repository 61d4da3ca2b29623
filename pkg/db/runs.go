package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Run statuses
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusNoText  = "no_text"
	StatusFailed  = "failed"
)

// Error types recorded for failed runs
const (
	ErrorTypeFetch   = "fetch_error"
	ErrorTypeTimeout = "fetch_timeout"
	ErrorTypeTask    = "task_error"
)

// RunInfo is a row of the runs table joined with its URL.
type RunInfo struct {
	RunID         int64
	URL           string
	Filter        []string
	Status        string
	StatusCode    int
	ErrorType     string
	ErrorMessage  string
	TokenCount    int
	DistinctCount int
	Language      string
	ContentHash   string
	FromCache     bool
	StartedAt     time.Time
	FinishedAt    time.Time
}

// RunOutcome is what FinishRun records about a completed run.
type RunOutcome struct {
	Status        string
	StatusCode    int
	ErrorType     string
	ErrorMessage  string
	TokenCount    int
	DistinctCount int
	Language      string
	ContentHash   string
	FromCache     bool
}

// WordCount is one row of run_words.
type WordCount struct {
	Word  string
	Count int
}

// InsertRun records the start of a run for rawURL and returns the run_id.
// filter is stored sorted; an empty filter is stored as NULL.
func (db *DB) InsertRun(rawURL string, filter []string) (int64, error) {
	urlID, err := db.InsertURL(rawURL)
	if err != nil {
		return 0, err
	}

	var filterJSON sql.NullString
	if len(filter) > 0 {
		sorted := append([]string(nil), filter...)
		sort.Strings(sorted)
		data, err := json.Marshal(sorted)
		if err != nil {
			return 0, fmt.Errorf("failed to encode filter: %w", err)
		}
		filterJSON = NewNullString(string(data))
	}

	result, err := db.Exec(`
		INSERT INTO runs (url_id, filter, status)
		VALUES (?, ?, ?)
	`, urlID, filterJSON, StatusRunning)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return runID, nil
}

// FinishRun stores the outcome of a run and stamps finished_at.
func (db *DB) FinishRun(runID int64, out RunOutcome) error {
	result, err := db.Exec(`
		UPDATE runs
		SET status = ?, status_code = ?, error_type = ?, error_message = ?,
		    token_count = ?, distinct_count = ?, language = ?, content_hash = ?,
		    from_cache = ?, finished_at = ?
		WHERE run_id = ?
	`, out.Status, NewNullInt64(int64(out.StatusCode)), NewNullString(out.ErrorType), NewNullString(out.ErrorMessage),
		out.TokenCount, out.DistinctCount, NewNullString(out.Language), NewNullString(out.ContentHash),
		out.FromCache, time.Now().UTC(), runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check finished run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run not found: %d", runID)
	}
	return nil
}

// InsertFrequencies stores the frequency map of a run in a single transaction.
func (db *DB) InsertFrequencies(runID int64, freq map[string]int) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after Commit

	stmt, err := tx.Prepare("INSERT INTO run_words (run_id, word, count) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare word insert: %w", err)
	}
	defer stmt.Close()

	for word, count := range freq {
		if _, err := stmt.Exec(runID, word, count); err != nil {
			return fmt.Errorf("failed to insert word %q: %w", word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit frequencies: %w", err)
	}
	return nil
}

const runColumns = `
	r.run_id, u.original_url, r.filter, r.status, r.status_code, r.error_type, r.error_message,
	r.token_count, r.distinct_count, r.language, r.content_hash, r.from_cache,
	r.started_at, r.finished_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunInfo, error) {
	var (
		info                                        RunInfo
		filter, errorType, errorMessage, lang, hash sql.NullString
		statusCode                                  sql.NullInt64
		finishedAt                                  sql.NullTime
	)
	err := row.Scan(&info.RunID, &info.URL, &filter, &info.Status, &statusCode, &errorType, &errorMessage,
		&info.TokenCount, &info.DistinctCount, &lang, &hash, &info.FromCache,
		&info.StartedAt, &finishedAt)
	if err != nil {
		return nil, err
	}

	if filter.Valid {
		if err := json.Unmarshal([]byte(filter.String), &info.Filter); err != nil {
			return nil, fmt.Errorf("failed to decode filter of run %d: %w", info.RunID, err)
		}
	}
	info.StatusCode = int(statusCode.Int64)
	info.ErrorType = errorType.String
	info.ErrorMessage = errorMessage.String
	info.Language = lang.String
	info.ContentHash = hash.String
	if finishedAt.Valid {
		info.FinishedAt = finishedAt.Time
	}
	return &info, nil
}

// GetRunByID returns a single run, or nil if it does not exist.
func (db *DB) GetRunByID(runID int64) (*RunInfo, error) {
	row := db.QueryRow(`
		SELECT `+runColumns+`
		FROM runs r
		JOIN urls u ON r.url_id = u.url_id
		WHERE r.run_id = ?
	`, runID)

	info, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return info, nil
}

// ListRuns returns the most recent runs first. A limit of zero or less
// returns every run.
func (db *DB) ListRuns(limit int) ([]RunInfo, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.Query(`
		SELECT `+runColumns+`
		FROM runs r
		JOIN urls u ON r.url_id = u.url_id
		ORDER BY r.started_at DESC, r.run_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		info, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// GetTopWords returns the n most frequent words of a run, ties broken
// alphabetically. n of zero or less returns every word.
func (db *DB) GetTopWords(runID int64, n int) ([]WordCount, error) {
	if n <= 0 {
		n = -1
	}
	rows, err := db.Query(`
		SELECT word, count
		FROM run_words
		WHERE run_id = ?
		ORDER BY count DESC, word ASC
		LIMIT ?
	`, runID, n)
	if err != nil {
		return nil, fmt.Errorf("failed to get top words: %w", err)
	}
	defer rows.Close()

	var words []WordCount
	for rows.Next() {
		var wc WordCount
		if err := rows.Scan(&wc.Word, &wc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		words = append(words, wc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get top words: %w", err)
	}
	return words, nil
}

// GetFrequencies returns the full frequency map stored for a run.
func (db *DB) GetFrequencies(runID int64) (map[string]int, error) {
	words, err := db.GetTopWords(runID, 0)
	if err != nil {
		return nil, err
	}
	freq := make(map[string]int, len(words))
	for _, wc := range words {
		freq[wc.Word] = wc.Count
	}
	return freq, nil
}
