package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rxtech-lab/argo-medallion/internal/config"
	"github.com/rxtech-lab/argo-medallion/pkg/errors"
	"github.com/rxtech-lab/argo-medallion/pkg/marketdata"
	"github.com/rxtech-lab/argo-medallion/pkg/marketdata/alphavantage"
	"github.com/rxtech-lab/argo-medallion/pkg/medallion/bronze"
	"github.com/rxtech-lab/argo-medallion/pkg/medallion/gold"
	"github.com/rxtech-lab/argo-medallion/pkg/medallion/manifest"
	"github.com/rxtech-lab/argo-medallion/pkg/medallion/pipeline"
	"github.com/rxtech-lab/argo-medallion/pkg/medallion/silver"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func unknownTierError(tier string) error {
	return errors.Newf(errors.ErrCodeInvalidParameter, "unknown tier %q", tier)
}

// Flags shared by bronze and run.
func ingestFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "symbols",
			Aliases: []string{"s"},
			Usage:   "Symbols to ingest (default: every configured symbol)",
		},
		&cli.StringFlag{
			Name:    "tier",
			Aliases: []string{"t"},
			Usage:   "Ingest a single portfolio tier such as tier_1 or benchmark",
		},
		&cli.StringFlag{
			Name:  "start",
			Usage: "Start date in `YYYY-MM-DD` format (default: configured start)",
		},
		&cli.StringFlag{
			Name:  "end",
			Usage: "Inclusive end date in `YYYY-MM-DD` format (default: configured end)",
		},
	}
}

func goldFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "basename",
			Aliases: []string{"b"},
			Usage:   "Base name of the gold file (default: configured basename)",
		},
		&cli.BoolFlag{
			Name:  "dedupe",
			Usage: "Keep only the latest ingestion per symbol and date",
		},
	}
}

// dateRange resolves --start and --end against the configured defaults.
func dateRange(cmd *cli.Command, cfg config.Config) (time.Time, time.Time, error) {
	start, end := cfg.StartDate, cfg.EndDate

	if v := cmd.String("start"); v != "" {
		start = v
	}

	if v := cmd.String("end"); v != "" {
		end = v
	}

	return config.ParseDateRange(start, end)
}

func fetchCommand() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Fetch the latest daily quote of every configured symbol from Alpha Vantage",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "outputsize",
				Usage: "compact or full",
				Value: string(alphavantage.OutputSizeCompact),
			},
			&cli.StringFlag{
				Name:  "datatype",
				Usage: "json or csv",
				Value: string(alphavantage.DataTypeJSON),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.logger.Sync() //nolint:errcheck

			// Fail before any network call when the key is missing.
			apiKey, err := a.cfg.RequireAlphaVantageKey()
			if err != nil {
				return err
			}

			client, err := alphavantage.NewClient(apiKey, a.cfg.AlphaVantage)
			if err != nil {
				return err
			}

			return fetchAll(ctx, client, a.cfg.Portfolio.AllSymbols(),
				alphavantage.OutputSize(cmd.String("outputsize")),
				alphavantage.DataType(cmd.String("datatype")),
				a.logger, cmd.Root().Writer)
		},
	}
}

func bronzeCommand() *cli.Command {
	return &cli.Command{
		Name:  "bronze",
		Usage: "Download daily history per symbol into data/bronze",
		Flags: ingestFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.logger.Sync() //nolint:errcheck

			symbols, err := a.symbols(cmd)
			if err != nil {
				return err
			}

			start, end, err := dateRange(cmd, a.cfg)
			if err != nil {
				return err
			}

			d, err := a.downloader()
			if err != nil {
				return err
			}

			ingestion, err := bronze.NewIngestion(a.cfg.BronzePath(), d, a.logger, bronze.Options{Progress: os.Stderr})
			if err != nil {
				return err
			}

			m, err := ingestion.Ingest(ctx, symbols, start, end)
			if m != nil {
				renderManifest(cmd.Root().Writer, m)
			}

			if err != nil {
				return err
			}

			return m.Err()
		},
	}
}

func silverCommand() *cli.Command {
	return &cli.Command{
		Name:  "silver",
		Usage: "Transform every bronze file of the configured provider into data/silver",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.logger.Sync() //nolint:errcheck

			processor, err := silver.NewProcessor(a.cfg.BronzePath(), a.cfg.SilverPath(), a.cfg.Provider, a.logger, silver.Options{})
			if err != nil {
				return err
			}

			m, err := processor.ProcessAll(ctx)
			if m != nil {
				renderManifest(cmd.Root().Writer, m)
			}

			if err != nil {
				return err
			}

			return m.Err()
		},
	}
}

func goldCommand() *cli.Command {
	return &cli.Command{
		Name:  "gold",
		Usage: "Combine every silver file into one portfolio metrics file in data/gold",
		Flags: goldFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.logger.Sync() //nolint:errcheck

			processor, err := gold.NewProcessor(a.cfg.SilverPath(), a.cfg.GoldPath(), a.logger,
				gold.Options{Deduplicate: cmd.Bool("dedupe")})
			if err != nil {
				return err
			}

			basename := cmd.String("basename")
			if basename == "" {
				basename = a.cfg.GoldBasename
			}

			m, err := processor.Run(ctx, nil, basename)
			if err != nil {
				return err
			}

			renderManifest(cmd.Root().Writer, m)
			summarize(ctx, a, cmd, m.Artifacts[0].Path)

			return nil
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run bronze, silver and gold in one pass",
		Flags: append(ingestFlags(), goldFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.logger.Sync() //nolint:errcheck

			symbols, err := a.symbols(cmd)
			if err != nil {
				return err
			}

			start, end, err := dateRange(cmd, a.cfg)
			if err != nil {
				return err
			}

			d, err := a.downloader()
			if err != nil {
				return err
			}

			p, err := pipeline.New(a.cfg, d, a.logger, pipeline.Options{
				Progress:    os.Stderr,
				Deduplicate: cmd.Bool("dedupe"),
				Basename:    cmd.String("basename"),
			})
			if err != nil {
				return err
			}

			result, err := p.Run(ctx, symbols, start, end)

			out := cmd.Root().Writer
			for _, m := range []*manifest.Manifest{result.Bronze, result.Silver, result.Gold} {
				if m != nil {
					renderManifest(out, m)
				}
			}

			if path := result.GoldPath(); path != "" {
				summarize(ctx, a, cmd, path)
			}

			return err
		},
	}
}

func providersCommand() *cli.Command {
	return &cli.Command{
		Name:  "providers",
		Usage: "List the known market data sources",
		Action: func(_ context.Context, cmd *cli.Command) error {
			for _, name := range marketdata.GetSupportedProviders() {
				info, err := marketdata.GetProviderInfo(name)
				if err != nil {
					return err
				}

				renderProvider(cmd.Root().Writer, info)
			}

			return nil
		},
	}
}

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the JSON schema of the YAML config file",
		Action: func(_ context.Context, cmd *cli.Command) error {
			schema, err := config.Schema()
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.Root().Writer, schema)

			return err
		},
	}
}

// summarize prints the DuckDB summary of a gold file. A failed query is
// logged and does not fail the command.
func summarize(ctx context.Context, a *app, cmd *cli.Command, path string) {
	summary, err := gold.Summarize(ctx, path)
	if err != nil {
		a.logger.Warn("Failed to summarize gold file", zap.String("path", path), zap.Error(err))
		return
	}

	renderSummary(cmd.Root().Writer, path, summary)
}
