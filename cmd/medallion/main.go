package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rxtech-lab/argo-medallion/internal/version"
	"github.com/urfave/cli/v3"
)

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:    "medallion",
		Usage:   "Bronze/silver/gold market data pipeline for the configured portfolio",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config `FILE`. Built-in defaults are used when empty",
			},
			&cli.StringFlag{
				Name:    "data-path",
				Aliases: []string{"d"},
				Usage:   "Override the data root directory",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override the log level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			fetchCommand(),
			bronzeCommand(),
			silverCommand(),
			goldCommand(),
			runCommand(),
			providersCommand(),
			schemaCommand(),
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCommand().Run(ctx, os.Args)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}
