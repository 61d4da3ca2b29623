package history

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/wordfreq/internal/common"
	"github.com/dtnitsch/wordfreq/pkg/db"
	"github.com/dtnitsch/wordfreq/pkg/mapreduce"
	"github.com/dtnitsch/wordfreq/pkg/report"
	"github.com/urfave/cli/v2"
)

const timeLayout = "2006-01-02 15:04:05"

func dbFlag() cli.Flag {
	return &cli.StringFlag{Name: "db", Usage: "history database path (default: next to the binary)"}
}

func RunsCommand() *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "List recorded word count runs",
		Flags: append([]cli.Flag{
			dbFlag(),
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "number of runs to list, 0 for all", Value: 20},
		}, common.LogFlags()...),
		Action: RunsAction,
	}
}

func ShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a recorded run and its top words",
		ArgsUsage: "[run-id]",
		Flags: append([]cli.Flag{
			dbFlag(),
			&cli.IntFlag{Name: "top", Aliases: []string{"n"}, Usage: "number of words to chart", Value: 10},
		}, common.LogFlags()...),
		Action: ShowAction,
	}
}

func RunsAction(c *cli.Context) error {
	database, err := common.OpenDB(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return err
	}

	w := c.App.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found")
		return nil
	}

	fmt.Fprintf(w, "%-6s %-20s %-8s %-8s %-9s %-5s %s\n",
		"ID", "Started", "Status", "Tokens", "Distinct", "Lang", "URL")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range runs {
		fmt.Fprintf(w, "%-6d %-20s %-8s %-8d %-9d %-5s %s\n",
			r.RunID,
			r.StartedAt.Format(timeLayout),
			r.Status,
			r.TokenCount,
			r.DistinctCount,
			r.Language,
			r.URL,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d runs\n", len(runs))
	fmt.Fprintf(w, "\nTip: Use 'wordfreq show <id>' to see details\n")
	return nil
}

func ShowAction(c *cli.Context) error {
	database, err := common.OpenDB(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runID, err := runIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRunByID(runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %d not found", runID)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Run %d\n", run.RunID)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "URL:       %s\n", run.URL)
	fmt.Fprintf(w, "Status:    %s\n", run.Status)
	fmt.Fprintf(w, "Started:   %s\n", run.StartedAt.Format(timeLayout))
	if !run.FinishedAt.IsZero() {
		fmt.Fprintf(w, "Finished:  %s\n", run.FinishedAt.Format(timeLayout))
	}
	if len(run.Filter) > 0 {
		fmt.Fprintf(w, "Filter:    %s\n", strings.Join(run.Filter, ", "))
	}
	if run.Status == db.StatusFailed {
		fmt.Fprintf(w, "Error:     [%s] %s\n", run.ErrorType, run.ErrorMessage)
		return nil
	}
	fmt.Fprintf(w, "Tokens:    %d (%d distinct)\n", run.TokenCount, run.DistinctCount)
	if run.Language != "" {
		fmt.Fprintf(w, "Language:  %s\n", run.Language)
	}
	if run.FromCache {
		fmt.Fprintln(w, "Source:    cache")
	}
	fmt.Fprintln(w)

	words, err := database.GetTopWords(run.RunID, c.Int("top"))
	if err != nil {
		return err
	}
	top := make([]mapreduce.Pair, len(words))
	for i, wc := range words {
		top[i] = mapreduce.Pair{Key: wc.Word, Count: wc.Count}
	}
	return report.BarChart(w, fmt.Sprintf("Top %d Most Frequent Words", len(top)), top, report.DefaultChartWidth)
}

// runIDOrLatest returns the run ID from args, or the latest run if not provided
func runIDOrLatest(c *cli.Context, database *db.DB) (int64, error) {
	if c.NArg() == 0 {
		runs, err := database.ListRuns(1)
		if err != nil {
			return 0, fmt.Errorf("failed to get latest run: %w", err)
		}
		if len(runs) == 0 {
			return 0, fmt.Errorf("no runs found. Run 'wordfreq count <url>' first")
		}
		return runs[0].RunID, nil
	}

	var runID int64
	if _, err := fmt.Sscanf(c.Args().First(), "%d", &runID); err != nil {
		return 0, fmt.Errorf("invalid run ID: %s", c.Args().First())
	}
	return runID, nil
}
