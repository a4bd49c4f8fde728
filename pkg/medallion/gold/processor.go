// Package gold combines silver files into one portfolio file with derived
// per-symbol metrics.
package gold

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-medallion/internal/logger"
	"github.com/rxtech-lab/argo-medallion/internal/types"
	"github.com/rxtech-lab/argo-medallion/internal/utils"
	"github.com/rxtech-lab/argo-medallion/pkg/errors"
	"github.com/rxtech-lab/argo-medallion/pkg/marketdata/writer"
	"github.com/rxtech-lab/argo-medallion/pkg/medallion/manifest"
	"github.com/rxtech-lab/argo-medallion/pkg/medallion/silver"
	"go.uber.org/zap"
)

// DefaultBasename is used when Save is given an empty basename.
const DefaultBasename = "portfolio_metrics"

// silverPattern matches the files written by the silver stage.
const silverPattern = "*_silver_*.csv"

// Options tunes a Processor.
type Options struct {
	Clock utils.Clock
	// Deduplicate keeps only the latest ingestion per (symbol, date) before
	// computing metrics. Off by default, so overlapping runs produce
	// repeated dates.
	Deduplicate bool
}

// Processor builds the gold file.
type Processor struct {
	silverPath  string
	goldPath    string
	logger      *logger.Logger
	clock       utils.Clock
	deduplicate bool
}

func NewProcessor(silverPath, goldPath string, log *logger.Logger, opts Options) (*Processor, error) {
	if opts.Clock == nil {
		opts.Clock = utils.SystemClock
	}

	if err := utils.EnsureDirs(goldPath); err != nil {
		return nil, err
	}

	return &Processor{
		silverPath:  silverPath,
		goldPath:    goldPath,
		logger:      log,
		clock:       opts.Clock,
		deduplicate: opts.Deduplicate,
	}, nil
}

// LoadAll reads every silver file and concatenates their rows.
func (p *Processor) LoadAll(ctx context.Context) ([]types.CleanRecord, error) {
	paths, err := filepath.Glob(filepath.Join(p.silverPath, silverPattern))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid silver directory pattern", err)
	}

	if len(paths) == 0 {
		return nil, errors.Newf(errors.ErrCodeNoDataFound, "no silver files found in %s", p.silverPath)
	}

	sort.Strings(paths)

	return p.LoadFiles(ctx, paths)
}

// LoadFiles reads the given silver files in order.
func (p *Processor) LoadFiles(ctx context.Context, paths []string) ([]types.CleanRecord, error) {
	var records []types.CleanRecord

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("gold load interrupted before %s: %w", path, err)
		}

		rows, err := silver.ReadFile(path)
		if err != nil {
			return nil, err
		}

		p.logger.Debug("Loaded silver file", zap.String("path", path), zap.Int("rows", len(rows)))
		records = append(records, rows...)
	}

	p.logger.Info("Combined silver data", zap.Int("files", len(paths)), zap.Int("rows", len(records)))

	return records, nil
}

// Save writes rows to {gold}/{basename}_{YYYYMMDD_HHMMSS}.csv.
func (p *Processor) Save(rows []types.MetricRecord, basename string) (string, error) {
	if basename == "" {
		basename = DefaultBasename
	}

	name := fmt.Sprintf("%s_%s", basename, utils.FormatTimestamp(p.clock()))

	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, FormatMetric(r))
	}

	path, err := writer.WriteTable(p.goldPath, name, types.GoldColumns, table)
	if err != nil {
		return "", err
	}

	p.logger.Info("Saved gold file", zap.String("path", path), zap.Int("rows", len(rows)))

	return path, nil
}

// Run loads silver data, computes metrics and writes the gold file. With a
// silver manifest only its artifacts are read; with nil every silver file is.
func (p *Processor) Run(ctx context.Context, in *manifest.Manifest, basename string) (*manifest.Manifest, error) {
	var (
		records []types.CleanRecord
		err     error
	)

	switch {
	case in == nil:
		records, err = p.LoadAll(ctx)
	case in.Stage != manifest.StageSilver:
		return nil, errors.New(errors.ErrCodeInvalidParameter, "gold expects a silver manifest")
	case len(in.Artifacts) == 0:
		return nil, errors.New(errors.ErrCodeNoDataFound, "silver manifest has no artifacts")
	default:
		records, err = p.LoadFiles(ctx, in.Paths())
	}

	if err != nil {
		return nil, err
	}

	if p.deduplicate {
		before := len(records)
		records = Deduplicate(records)
		p.logger.Info("Deduplicated silver rows", zap.Int("before", before), zap.Int("after", len(records)))
	}

	metrics := ComputeMetrics(records)

	path, err := p.Save(metrics, basename)
	if err != nil {
		return nil, err
	}

	m := manifest.New(manifest.StageGold, p.clock())
	m.Add(manifest.Artifact{Path: path, Rows: len(metrics)})

	return m, nil
}

// FormatMetric renders a row in GoldColumns order. None becomes an empty cell.
func FormatMetric(r types.MetricRecord) []string {
	return append(silver.FormatRecord(r.CleanRecord),
		formatOption(r.DailyReturn),
		formatOption(r.PriceChange),
		silver.FormatFloat(r.VolumeMA3D),
	)
}

func formatOption(o optional.Option[float64]) string {
	if o.IsNone() {
		return ""
	}

	return silver.FormatFloat(o.Unwrap())
}
