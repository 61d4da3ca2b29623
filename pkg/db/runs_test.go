package db

import (
	"reflect"
	"testing"
)

func TestRunLifecycle(t *testing.T) {
	db := setupTestDB(t)

	runID, err := db.InsertRun("https://example.com/book.txt", []string{"the", "cat"})
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}

	run, err := db.GetRunByID(runID)
	if err != nil {
		t.Fatalf("GetRunByID() error = %v", err)
	}
	if run.Status != StatusRunning {
		t.Errorf("Status = %q, want running", run.Status)
	}
	if !run.FinishedAt.IsZero() {
		t.Errorf("FinishedAt = %v, want zero", run.FinishedAt)
	}
	if !reflect.DeepEqual(run.Filter, []string{"cat", "the"}) {
		t.Errorf("Filter = %v, want sorted [cat the]", run.Filter)
	}

	freq := map[string]int{"the": 2, "cat": 1}
	if err := db.InsertFrequencies(runID, freq); err != nil {
		t.Fatalf("InsertFrequencies() error = %v", err)
	}
	err = db.FinishRun(runID, RunOutcome{
		Status:        StatusDone,
		StatusCode:    200,
		TokenCount:    3,
		DistinctCount: 2,
		Language:      "en",
		ContentHash:   "abc123",
	})
	if err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	run, err = db.GetRunByID(runID)
	if err != nil {
		t.Fatalf("GetRunByID() error = %v", err)
	}
	if run.Status != StatusDone || run.StatusCode != 200 || run.TokenCount != 3 || run.DistinctCount != 2 {
		t.Errorf("run = %+v", run)
	}
	if run.Language != "en" || run.ContentHash != "abc123" || run.URL != "https://example.com/book.txt" {
		t.Errorf("run = %+v", run)
	}
	if run.FinishedAt.IsZero() {
		t.Error("FinishedAt not set")
	}

	got, err := db.GetFrequencies(runID)
	if err != nil {
		t.Fatalf("GetFrequencies() error = %v", err)
	}
	if !reflect.DeepEqual(got, freq) {
		t.Errorf("GetFrequencies() = %v, want %v", got, freq)
	}
}

func TestFinishRun_Failed(t *testing.T) {
	db := setupTestDB(t)

	runID, err := db.InsertRun("https://example.com/missing", nil)
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	err = db.FinishRun(runID, RunOutcome{
		Status:       StatusFailed,
		StatusCode:   404,
		ErrorType:    ErrorTypeFetch,
		ErrorMessage: "unexpected status 404",
	})
	if err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	run, err := db.GetRunByID(runID)
	if err != nil {
		t.Fatalf("GetRunByID() error = %v", err)
	}
	if run.Status != StatusFailed || run.ErrorType != ErrorTypeFetch || run.StatusCode != 404 {
		t.Errorf("run = %+v", run)
	}
	if run.Filter != nil {
		t.Errorf("Filter = %v, want nil", run.Filter)
	}

	if err := db.FinishRun(9999, RunOutcome{Status: StatusDone}); err == nil {
		t.Error("FinishRun() on unknown run returned no error")
	}
}

func TestGetRunByID_NotFound(t *testing.T) {
	db := setupTestDB(t)

	run, err := db.GetRunByID(42)
	if err != nil {
		t.Fatalf("GetRunByID() error = %v", err)
	}
	if run != nil {
		t.Errorf("GetRunByID() = %+v, want nil", run)
	}
}

func TestListRuns(t *testing.T) {
	db := setupTestDB(t)

	var ids []int64
	for _, u := range []string{"https://a.example", "https://b.example", "https://a.example"} {
		id, err := db.InsertRun(u, nil)
		if err != nil {
			t.Fatalf("InsertRun(%q) error = %v", u, err)
		}
		ids = append(ids, id)
	}

	runs, err := db.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	if runs[0].RunID != ids[2] {
		t.Errorf("first run = %d, want most recent %d", runs[0].RunID, ids[2])
	}

	limited, err := db.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns(2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("got %d runs, want 2", len(limited))
	}
}

func TestGetTopWords(t *testing.T) {
	db := setupTestDB(t)

	runID, err := db.InsertRun("https://example.com", nil)
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	freq := map[string]int{"the": 5, "cat": 2, "bat": 2, "mat": 1}
	if err := db.InsertFrequencies(runID, freq); err != nil {
		t.Fatalf("InsertFrequencies() error = %v", err)
	}

	tests := []struct {
		name string
		n    int
		want []WordCount
	}{
		{
			name: "top three with tie broken alphabetically",
			n:    3,
			want: []WordCount{{"the", 5}, {"bat", 2}, {"cat", 2}},
		},
		{
			name: "all words",
			n:    0,
			want: []WordCount{{"the", 5}, {"bat", 2}, {"cat", 2}, {"mat", 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.GetTopWords(runID, tt.n)
			if err != nil {
				t.Fatalf("GetTopWords() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GetTopWords() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInsertFrequencies_DuplicateRunFails(t *testing.T) {
	db := setupTestDB(t)

	runID, err := db.InsertRun("https://example.com", nil)
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	if err := db.InsertFrequencies(runID, map[string]int{"cat": 1}); err != nil {
		t.Fatalf("InsertFrequencies() error = %v", err)
	}
	if err := db.InsertFrequencies(runID, map[string]int{"dog": 1, "cat": 2}); err == nil {
		t.Fatal("second InsertFrequencies() returned no error")
	}

	got, err := db.GetFrequencies(runID)
	if err != nil {
		t.Fatalf("GetFrequencies() error = %v", err)
	}
	if !reflect.DeepEqual(got, map[string]int{"cat": 1}) {
		t.Errorf("partial insert was not rolled back: %v", got)
	}
}
