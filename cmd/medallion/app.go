package main

import (
	"github.com/rxtech-lab/argo-medallion/internal/config"
	"github.com/rxtech-lab/argo-medallion/internal/logger"
	"github.com/rxtech-lab/argo-medallion/pkg/marketdata"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// app is the state shared by every sub-command.
type app struct {
	cfg    config.Config
	logger *logger.Logger
}

// loadApp builds the configuration from the global flags and a logger at the
// configured level.
func loadApp(cmd *cli.Command) (*app, error) {
	root := cmd.Root()

	cfg, err := config.Load(root.String("config"))
	if err != nil {
		return nil, err
	}

	if dataPath := root.String("data-path"); dataPath != "" {
		cfg.DataPath = dataPath
	}

	if level := root.String("log-level"); level != "" {
		cfg.LogLevel = level
	}

	log, err := logger.NewLoggerWithLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: log}, nil
}

// downloader creates the bronze downloader for the configured provider.
func (a *app) downloader() (*marketdata.Client, error) {
	return marketdata.NewClient(a.cfg, func(current, total float64, message string) {
		a.logger.Debug(message, zap.Float64("current", current), zap.Float64("total", total))
	})
}

// symbols resolves --symbols and --tier into the list to ingest. Without
// either flag every configured symbol is used.
func (a *app) symbols(cmd *cli.Command) ([]string, error) {
	if symbols := cmd.StringSlice("symbols"); len(symbols) > 0 {
		return symbols, nil
	}

	if tier := cmd.String("tier"); tier != "" {
		symbols, ok := a.cfg.Portfolio.Tier(tier)
		if !ok {
			return nil, unknownTierError(tier)
		}

		return symbols, nil
	}

	return a.cfg.Portfolio.AllSymbols(), nil
}
