package mapreduce

import (
	"fmt"
	"sort"
)

// TopN returns the n most frequent entries, sorted by count descending and
// then by word ascending so ties are stable across runs.
func TopN(freq FrequencyMap, n int) []Pair {
	ss := make([]Pair, 0, len(freq))
	for k, v := range freq {
		ss = append(ss, Pair{Key: k, Count: v})
	}

	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Count != ss[j].Count {
			return ss[i].Count > ss[j].Count
		}
		return ss[i].Key < ss[j].Key
	})

	limit := n
	if len(ss) < n {
		limit = len(ss)
	}
	if limit < 0 {
		limit = 0
	}

	return ss[:limit]
}

// TopKeywords returns the top N keywords as formatted strings.
// Each string is formatted as "word:count" (e.g., "the:1153").
func TopKeywords(freq FrequencyMap, n int) []string {
	top := TopN(freq, n)
	keywords := make([]string, len(top))
	for i, p := range top {
		keywords[i] = fmt.Sprintf("%s:%d", p.Key, p.Count)
	}
	return keywords
}
