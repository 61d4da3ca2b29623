package mapreduce_test

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/wordfreq/pkg/mapreduce"
)

func ExampleCountTokens() {
	tokens := strings.Fields("to be or not to be")

	freq, err := mapreduce.CountTokens(mapreduce.NewPool(4, nil), tokens, nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	for _, k := range freq.Keys() {
		fmt.Printf("%s %d\n", k, freq[k])
	}
	// Output:
	// be 2
	// not 1
	// or 1
	// to 2
}
