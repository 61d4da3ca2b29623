package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dtnitsch/wordfreq/pkg/mapreduce"
	"github.com/dustin/go-humanize"
)

// DefaultChartWidth is the length of the longest bar.
const DefaultChartWidth = 40

const barRune = "█"

// BarChart draws a horizontal bar chart of top, most frequent word first.
// Bars are scaled so the largest count spans width cells.
func BarChart(w io.Writer, title string, top []mapreduce.Pair, width int) error {
	if width < 1 {
		width = DefaultChartWidth
	}

	if title != "" {
		if _, err := fmt.Fprintf(w, "%s\n%s\n", title, strings.Repeat("-", utf8.RuneCountInString(title))); err != nil {
			return err
		}
	}
	if len(top) == 0 {
		_, err := fmt.Fprintln(w, "(no words counted)")
		return err
	}

	labelWidth, maxCount := 0, 0
	for _, p := range top {
		if n := utf8.RuneCountInString(p.Key); n > labelWidth {
			labelWidth = n
		}
		if p.Count > maxCount {
			maxCount = p.Count
		}
	}

	for _, p := range top {
		pad := strings.Repeat(" ", labelWidth-utf8.RuneCountInString(p.Key))
		_, err := fmt.Fprintf(w, "%s%s | %s %s\n", pad, p.Key, strings.Repeat(barRune, barLength(p.Count, maxCount, width)), humanize.Comma(int64(p.Count)))
		if err != nil {
			return err
		}
	}
	return nil
}

// barLength scales count to width. Any positive count gets at least one cell.
func barLength(count, maxCount, width int) int {
	if count <= 0 || maxCount <= 0 {
		return 0
	}
	n := count * width / maxCount
	if n < 1 {
		n = 1
	}
	return n
}
