package mapreduce

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestMap(t *testing.T) {
	p, err := Map("cat")
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	if p != (Pair{Key: "cat", Count: 1}) {
		t.Errorf("Map() = %+v, want {cat 1}", p)
	}

	for _, bad := range []string{"", string([]byte{0xff, 0xfe})} {
		_, err := Map(bad)
		var taskErr *TaskError
		if !errors.As(err, &taskErr) {
			t.Errorf("Map(%q) error = %v, want *TaskError", bad, err)
			continue
		}
		if taskErr.Stage != StageMap || !errors.Is(err, ErrUnrepresentable) {
			t.Errorf("Map(%q) error = %v, want map stage ErrUnrepresentable", bad, err)
		}
	}
}

func TestShuffle(t *testing.T) {
	pairs := []Pair{{"the", 1}, {"cat", 1}, {"the", 1}, {"mat", 1}, {"cat", 1}, {"the", 1}}
	got := Shuffle(pairs)
	want := []Group{
		{Key: "the", Counts: []int{1, 1, 1}},
		{Key: "cat", Counts: []int{1, 1}},
		{Key: "mat", Counts: []int{1}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Shuffle() = %+v, want %+v", got, want)
	}

	if got := Shuffle(nil); len(got) != 0 {
		t.Errorf("Shuffle(nil) = %+v, want no groups", got)
	}
}

func TestShuffle_GroupingCompleteness(t *testing.T) {
	words := strings.Fields("a b c a b a d e f a b c")
	pairs := make([]Pair, len(words))
	distinct := map[string]struct{}{}
	for i, w := range words {
		pairs[i] = Pair{Key: w, Count: 1}
		distinct[w] = struct{}{}
	}

	groups := Shuffle(pairs)
	if len(groups) != len(distinct) {
		t.Fatalf("got %d groups, want %d", len(groups), len(distinct))
	}

	seen := map[string]bool{}
	total := 0
	for _, g := range groups {
		if seen[g.Key] {
			t.Errorf("key %q appears in more than one group", g.Key)
		}
		seen[g.Key] = true
		total += len(g.Counts)
	}
	if total != len(pairs) {
		t.Errorf("group counts sum to %d, want %d", total, len(pairs))
	}
}

func TestReduce(t *testing.T) {
	p, err := Reduce(Group{Key: "the", Counts: []int{1, 1, 1}})
	if err != nil {
		t.Fatalf("Reduce() error = %v", err)
	}
	if p != (Pair{Key: "the", Count: 3}) {
		t.Errorf("Reduce() = %+v, want {the 3}", p)
	}

	_, err = Reduce(Group{Key: "empty"})
	if !errors.Is(err, ErrEmptyGroup) {
		t.Errorf("Reduce(empty) error = %v, want ErrEmptyGroup", err)
	}
}

func TestCountTokens(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   FrequencyMap
	}{
		{
			name:   "sentence",
			tokens: strings.Fields("the cat sat on the mat"),
			want:   FrequencyMap{"the": 2, "cat": 1, "sat": 1, "on": 1, "mat": 1},
		},
		{
			name:   "no tokens",
			tokens: []string{},
			want:   FrequencyMap{},
		},
		{
			name:   "single repeated token",
			tokens: []string{"go", "go", "go", "go"},
			want:   FrequencyMap{"go": 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CountTokens(NewPool(4, nil), tt.tokens, nil)
			if err != nil {
				t.Fatalf("CountTokens() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CountTokens() = %v, want %v", got, tt.want)
			}
			if got.Total() != len(tt.tokens) {
				t.Errorf("Total() = %d, want %d", got.Total(), len(tt.tokens))
			}
		})
	}
}

func TestCountTokens_Idempotent(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 5000; i++ {
		fmt.Fprintf(&sb, "w%d ", i%97)
	}
	tokens := strings.Fields(sb.String())

	first, err := CountTokens(NewPool(8, nil), tokens, nil)
	if err != nil {
		t.Fatalf("CountTokens() error = %v", err)
	}
	for run := 0; run < 5; run++ {
		again, err := CountTokens(NewPool(run+1, nil), tokens, nil)
		if err != nil {
			t.Fatalf("CountTokens() run %d error = %v", run, err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from first run", run)
		}
	}
	if first.Total() != len(tokens) {
		t.Errorf("Total() = %d, want %d", first.Total(), len(tokens))
	}
}

func TestCountTokens_TaskErrorAborts(t *testing.T) {
	tokens := []string{"ok", "", "fine"}
	freq, err := CountTokens(NewPool(2, nil), tokens, nil)
	if freq != nil {
		t.Errorf("CountTokens() returned partial result %v", freq)
	}
	var taskErr *TaskError
	if !errors.As(err, &taskErr) {
		t.Fatalf("error = %v, want *TaskError", err)
	}
	if taskErr.Index != 1 || taskErr.Stage != StageMap {
		t.Errorf("TaskError = %+v, want map task 1", taskErr)
	}
}

func TestFrequencyMapKeys(t *testing.T) {
	f := FrequencyMap{"b": 1, "a": 2, "c": 3}
	if got := f.Keys(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Keys() = %v", got)
	}
}

func TestCountTokens_StageHook(t *testing.T) {
	var stages []string
	_, err := CountTokens(NewPool(2, nil), []string{"a", "b", "a"}, func(stage string) {
		stages = append(stages, stage)
	})
	if err != nil {
		t.Fatalf("CountTokens() error = %v", err)
	}
	want := []string{StageMap, StageShuffle, StageReduce}
	if !reflect.DeepEqual(stages, want) {
		t.Errorf("stages = %v, want %v", stages, want)
	}

	// A failed map never enters shuffle.
	stages = nil
	if _, err := CountTokens(NewPool(2, nil), []string{"a", ""}, func(stage string) {
		stages = append(stages, stage)
	}); err == nil {
		t.Fatal("CountTokens() with empty token returned no error")
	}
	if !reflect.DeepEqual(stages, []string{StageMap}) {
		t.Errorf("stages after map failure = %v", stages)
	}
}
