// Package mapreduce counts tokens with a map, shuffle and reduce pass.
//
// Map and Reduce are pure and run concurrently on a Pool. Shuffle is the
// single synchronization point: it runs on the caller's goroutine and must
// finish before any reduction starts.
package mapreduce

import (
	"errors"
	"sort"
	"unicode/utf8"
)

// Stage names used in TaskError and logs.
const (
	StageMap     = "map"
	StageShuffle = "shuffle"
	StageReduce  = "reduce"
)

var (
	ErrUnrepresentable = errors.New("token is empty or not valid UTF-8")
	ErrEmptyGroup      = errors.New("group has no counts")
)

// Pair is a key with a count. Map emits Count == 1; Reduce emits the total.
type Pair struct {
	Key   string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// Group holds every count emitted for one key, in encounter order.
type Group struct {
	Key    string
	Counts []int
}

// FrequencyMap maps a token to its total number of occurrences.
type FrequencyMap map[string]int

// Total returns the sum of all counts.
func (f FrequencyMap) Total() int {
	total := 0
	for _, c := range f {
		total += c
	}
	return total
}

// Keys returns the keys in lexical order.
func (f FrequencyMap) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map turns one token into the pair (token, 1).
func Map(token string) (Pair, error) {
	if token == "" || !utf8.ValidString(token) {
		return Pair{}, &TaskError{Stage: StageMap, Key: token, Err: ErrUnrepresentable}
	}
	return Pair{Key: token, Count: 1}, nil
}

// Shuffle groups pairs by key. Every distinct key lands in exactly one group,
// groups are ordered by first occurrence, and counts keep encounter order.
func Shuffle(pairs []Pair) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)

	for _, p := range pairs {
		i, ok := index[p.Key]
		if !ok {
			i = len(groups)
			index[p.Key] = i
			groups = append(groups, Group{Key: p.Key})
		}
		groups[i].Counts = append(groups[i].Counts, p.Count)
	}

	return groups
}

// Reduce sums the counts of a group.
func Reduce(g Group) (Pair, error) {
	if len(g.Counts) == 0 {
		return Pair{}, &TaskError{Stage: StageReduce, Key: g.Key, Err: ErrEmptyGroup}
	}
	sum := 0
	for _, c := range g.Counts {
		sum += c
	}
	return Pair{Key: g.Key, Count: sum}, nil
}

// Assemble builds the FrequencyMap from reduced pairs.
func Assemble(reduced []Pair) FrequencyMap {
	freq := make(FrequencyMap, len(reduced))
	for _, p := range reduced {
		freq[p.Key] += p.Count
	}
	return freq
}

// CountTokens runs the whole map, shuffle and reduce pass over tokens.
// onStage, when non-nil, is called as each stage starts.
func CountTokens(pool *Pool, tokens []string, onStage func(stage string)) (FrequencyMap, error) {
	enter := func(stage string) {
		if onStage != nil {
			onStage(stage)
		}
	}

	enter(StageMap)
	mapped, err := RunBatch(pool, StageMap, tokens, Map)
	if err != nil {
		return nil, err
	}

	enter(StageShuffle)
	groups := Shuffle(mapped)

	enter(StageReduce)
	reduced, err := RunBatch(pool, StageReduce, groups, Reduce)
	if err != nil {
		return nil, err
	}
	return Assemble(reduced), nil
}
