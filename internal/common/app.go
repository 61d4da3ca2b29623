package common

import (
	"log/slog"
	"os"

	"github.com/dtnitsch/wordfreq/pkg/db"
	"github.com/urfave/cli/v2"
)

// LogFlags returns the logging flags every command accepts.
func LogFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log per-stage and per-worker detail"},
	}
}

// NewLogger returns the JSON stderr logger selected by --quiet and --verbose.
func NewLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("verbose") {
		logLevel = slog.LevelDebug
	}
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// OpenDB opens the run history database at dbPath, or next to the binary
// when dbPath is empty.
func OpenDB(dbPath string) (*db.DB, error) {
	if dbPath == "" {
		return db.Open()
	}
	return db.OpenPath(dbPath)
}
