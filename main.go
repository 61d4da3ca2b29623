package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/wordfreq/internal/count"
	"github.com/dtnitsch/wordfreq/internal/history"
	"github.com/dtnitsch/wordfreq/pkg/help"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "wordfreq",
		Usage: "Count word frequencies in a web document with a parallel map/shuffle/reduce pipeline",
		Commands: []*cli.Command{
			count.Command(),
			history.RunsCommand(),
			history.ShowCommand(),
			{
				Name:  "quickstart",
				Usage: "Print a YAML cheat sheet of common commands",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprint(c.App.Writer, help.QuickstartYAML)
					return err
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(count.ExitFailed)
	}
}
