// Package pipeline runs bronze, silver and gold in one pass, handing each
// stage the manifest of the previous one.
package pipeline

import (
	"context"
	stderrors "errors"
	"io"
	"time"

	"github.com/rxtech-lab/argo-medallion/internal/config"
	"github.com/rxtech-lab/argo-medallion/internal/logger"
	"github.com/rxtech-lab/argo-medallion/internal/utils"
	"github.com/rxtech-lab/argo-medallion/pkg/errors"
	"github.com/rxtech-lab/argo-medallion/pkg/marketdata"
	"github.com/rxtech-lab/argo-medallion/pkg/medallion/bronze"
	"github.com/rxtech-lab/argo-medallion/pkg/medallion/gold"
	"github.com/rxtech-lab/argo-medallion/pkg/medallion/manifest"
	"github.com/rxtech-lab/argo-medallion/pkg/medallion/silver"
	"go.uber.org/zap"
)

type Options struct {
	Clock       utils.Clock
	Progress    io.Writer
	Deduplicate bool
	// Basename of the gold file; empty means the configured one.
	Basename string
}

// Pipeline owns one processor per stage, all rooted at the configured data path.
type Pipeline struct {
	bronze   *bronze.Ingestion
	silver   *silver.Processor
	gold     *gold.Processor
	logger   *logger.Logger
	basename string
}

// Result holds the manifest of every stage that ran.
type Result struct {
	Bronze *manifest.Manifest
	Silver *manifest.Manifest
	Gold   *manifest.Manifest
}

// GoldPath is the written gold file, or "" when gold did not run.
func (r *Result) GoldPath() string {
	if r.Gold == nil || len(r.Gold.Artifacts) == 0 {
		return ""
	}

	return r.Gold.Artifacts[0].Path
}

func New(cfg config.Config, d marketdata.Downloader, log *logger.Logger, opts Options) (*Pipeline, error) {
	ingestion, err := bronze.NewIngestion(cfg.BronzePath(), d, log, bronze.Options{
		Clock:    opts.Clock,
		Progress: opts.Progress,
	})
	if err != nil {
		return nil, err
	}

	silverProcessor, err := silver.NewProcessor(cfg.BronzePath(), cfg.SilverPath(), d.Source(), log,
		silver.Options{Clock: opts.Clock})
	if err != nil {
		return nil, err
	}

	goldProcessor, err := gold.NewProcessor(cfg.SilverPath(), cfg.GoldPath(), log,
		gold.Options{Clock: opts.Clock, Deduplicate: opts.Deduplicate})
	if err != nil {
		return nil, err
	}

	basename := opts.Basename
	if basename == "" {
		basename = cfg.GoldBasename
	}

	return &Pipeline{
		bronze:   ingestion,
		silver:   silverProcessor,
		gold:     goldProcessor,
		logger:   log,
		basename: basename,
	}, nil
}

// Run ingests symbols for [start, end], transforms exactly the files that
// were ingested and aggregates exactly the silver files that were written.
// Failed items do not stop the run; they are reported in the manifests and
// in the returned error once gold has been written.
func (p *Pipeline) Run(ctx context.Context, symbols []string, start, end time.Time) (*Result, error) {
	began := time.Now()
	result := &Result{}

	bronzeManifest, err := p.bronze.Ingest(ctx, symbols, start, end)
	result.Bronze = bronzeManifest

	if err != nil {
		return result, err
	}

	if len(bronzeManifest.Artifacts) == 0 {
		return result, bronzeManifest.Err()
	}

	silverManifest, err := p.silver.ProcessManifest(ctx, bronzeManifest)
	result.Silver = silverManifest

	if err != nil {
		return result, err
	}

	if len(silverManifest.Artifacts) == 0 {
		return result, stderrors.Join(bronzeManifest.Err(), silverManifest.Err())
	}

	goldManifest, err := p.gold.Run(ctx, silverManifest, p.basename)
	if err != nil {
		return result, errors.Wrap(errors.ErrCodeStageFailed, "gold aggregation failed", err)
	}

	result.Gold = goldManifest

	p.logger.Info("Pipeline finished",
		zap.String("bronze", bronzeManifest.Summary()),
		zap.String("silver", silverManifest.Summary()),
		zap.String("gold_path", result.GoldPath()),
		zap.Int("gold_rows", goldManifest.Rows()),
		zap.Duration("elapsed", time.Since(began)),
	)

	return result, stderrors.Join(bronzeManifest.Err(), silverManifest.Err())
}
