// Package silver turns raw bronze files into uniformly typed silver files.
package silver

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-medallion/internal/logger"
	"github.com/rxtech-lab/argo-medallion/internal/types"
	"github.com/rxtech-lab/argo-medallion/internal/utils"
	"github.com/rxtech-lab/argo-medallion/pkg/errors"
	"github.com/rxtech-lab/argo-medallion/pkg/marketdata/writer"
	"github.com/rxtech-lab/argo-medallion/pkg/medallion/manifest"
	"go.uber.org/zap"
)

// bronzeHeaderLines is the number of vendor header lines before the data rows.
// The first two are discarded and the third is read as a header and replaced.
const bronzeHeaderLines = 3

// bronzeColumns is the positional layout of bronze data rows.
const bronzeColumns = 6

// Options tunes a Processor.
type Options struct {
	// Clock stamps ingestion_timestamp and file names; defaults to the wall clock.
	Clock utils.Clock
}

// Processor transforms bronze files of one source into silver files.
type Processor struct {
	bronzePath string
	silverPath string
	source     types.Source
	logger     *logger.Logger
	clock      utils.Clock
}

// NewProcessor creates the silver directory and returns a processor reading
// bronzePath/<source>.
func NewProcessor(bronzePath, silverPath string, source types.Source, log *logger.Logger, opts Options) (*Processor, error) {
	if opts.Clock == nil {
		opts.Clock = utils.SystemClock
	}

	if err := utils.EnsureDirs(silverPath); err != nil {
		return nil, err
	}

	log.Debug("Silver directory ready", zap.String("dir", silverPath))

	return &Processor{
		bronzePath: bronzePath,
		silverPath: silverPath,
		source:     source,
		logger:     log,
		clock:      opts.Clock,
	}, nil
}

// SourceDir is the bronze directory this processor reads.
func (p *Processor) SourceDir() string {
	return filepath.Join(p.bronzePath, string(p.source))
}

// ProcessOne transforms one bronze file, taking the symbol from its name.
func (p *Processor) ProcessOne(path string) ([]types.CleanRecord, error) {
	return p.transform(path, utils.SymbolFromFilename(path), p.clock())
}

// transform reads the data rows of path as date, close, high, low, open,
// volume and stamps every row with the same metadata.
func (p *Processor) transform(path, symbol string, ingestedAt time.Time) ([]types.CleanRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to open bronze file %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var records []types.CleanRecord

	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			if line <= bronzeHeaderLines {
				return nil, errors.NewShapeErrorf(path, line, "expected %d header lines before data", bronzeHeaderLines)
			}

			break
		}

		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeDataShape, err, "failed to read %s", path)
		}

		if line <= bronzeHeaderLines {
			continue
		}

		if len(row) != bronzeColumns {
			return nil, errors.NewShapeError(path, line, bronzeColumns, len(row))
		}

		record, err := parseRow(path, line, row)
		if err != nil {
			return nil, err
		}

		record.Symbol = symbol
		record.Source = p.source
		record.IngestionTimestamp = ingestedAt
		records = append(records, record)
	}

	return records, nil
}

func parseRow(path string, line int, row []string) (types.CleanRecord, error) {
	date, err := parseDate(row[0])
	if err != nil {
		return types.CleanRecord{}, errors.NewShapeErrorf(path, line, "invalid date %q", row[0])
	}

	record := types.CleanRecord{Date: date}

	// Positional mapping: date, close, high, low, open, volume
	targets := []struct {
		name string
		dst  *float64
	}{
		{"close", &record.Close},
		{"high", &record.High},
		{"low", &record.Low},
		{"open", &record.Open},
		{"volume", &record.Volume},
	}

	for i, target := range targets {
		v, err := parseFloat(row[i+1])
		if err != nil {
			return types.CleanRecord{}, errors.NewShapeErrorf(path, line, "invalid %s %q", target.name, row[i+1])
		}

		*target.dst = v
	}

	return record, nil
}

// Save writes records to {silver}/{symbol}_silver_{YYYYMMDD_HHMMSS}.csv.
func (p *Processor) Save(records []types.CleanRecord, symbol string) (string, error) {
	name := fmt.Sprintf("%s_silver_%s", symbol, utils.FormatTimestamp(p.clock()))

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, FormatRecord(r))
	}

	path, err := writer.WriteTable(p.silverPath, name, types.SilverColumns, rows)
	if err != nil {
		return "", err
	}

	p.logger.Info("Saved silver file", zap.String("path", path), zap.Int("rows", len(records)))

	return path, nil
}

// ProcessAll transforms every *.csv directly under the source directory, in
// directory listing order. A malformed file is recorded as a failure and the
// remaining files are still processed.
func (p *Processor) ProcessAll(ctx context.Context) (*manifest.Manifest, error) {
	dir := p.SourceDir()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to list bronze directory %s", dir)
	}

	var inputs []string

	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.HasSuffix(entry.Name(), ".csv") {
			inputs = append(inputs, filepath.Join(dir, entry.Name()))
		}
	}

	p.logger.Info("Found bronze files", zap.String("dir", dir), zap.Int("count", len(inputs)))

	m := manifest.New(manifest.StageSilver, p.clock())

	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return m, fmt.Errorf("silver transform interrupted before %s: %w", input, err)
		}

		p.processInto(m, input, utils.SymbolFromFilename(input))
	}

	p.logger.Info("Silver transform finished", zap.String("summary", m.Summary()), zap.String("run_id", m.RunID))

	return m, nil
}

// ProcessManifest transforms exactly the artifacts of a bronze manifest.
func (p *Processor) ProcessManifest(ctx context.Context, bronze *manifest.Manifest) (*manifest.Manifest, error) {
	if bronze == nil || bronze.Stage != manifest.StageBronze {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "silver expects a bronze manifest")
	}

	m := manifest.New(manifest.StageSilver, p.clock())

	for _, artifact := range bronze.Artifacts {
		if err := ctx.Err(); err != nil {
			return m, fmt.Errorf("silver transform interrupted before %s: %w", artifact.Path, err)
		}

		symbol := artifact.Symbol
		if symbol == "" {
			symbol = utils.SymbolFromFilename(artifact.Path)
		}

		p.processInto(m, artifact.Path, symbol)
	}

	p.logger.Info("Silver transform finished", zap.String("summary", m.Summary()), zap.String("run_id", m.RunID))

	return m, nil
}

func (p *Processor) processInto(m *manifest.Manifest, input, symbol string) {
	p.logger.Info("Processing bronze file", zap.String("path", input), zap.String("symbol", symbol))

	records, err := p.transform(input, symbol, p.clock())
	if err != nil {
		if errors.IsShapeError(err) {
			p.logger.Warn("Skipping malformed bronze file", zap.String("path", input), zap.Error(err))
		} else {
			p.logger.Error("Failed to transform bronze file", zap.String("path", input), zap.Error(err))
		}

		m.Fail(input, err)

		return
	}

	path, err := p.Save(records, symbol)
	if err != nil {
		p.logger.Error("Failed to save silver file", zap.String("path", input), zap.Error(err))
		m.Fail(input, err)

		return
	}

	m.Add(manifest.Artifact{
		Path:   path,
		Symbol: symbol,
		Source: p.source,
		Rows:   len(records),
		Input:  input,
	})
}
