// Package bronze downloads raw daily history per symbol into the bronze layer.
package bronze

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/rxtech-lab/argo-medallion/internal/logger"
	"github.com/rxtech-lab/argo-medallion/internal/types"
	"github.com/rxtech-lab/argo-medallion/internal/utils"
	"github.com/rxtech-lab/argo-medallion/pkg/errors"
	"github.com/rxtech-lab/argo-medallion/pkg/marketdata"
	"github.com/rxtech-lab/argo-medallion/pkg/medallion/manifest"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// Options tunes an Ingestion.
type Options struct {
	// Clock stamps file names; defaults to the wall clock.
	Clock utils.Clock
	// Progress receives a progress bar across symbols; nil disables it.
	Progress io.Writer
}

// Ingestion writes one bronze file per symbol.
type Ingestion struct {
	dataPath   string
	downloader marketdata.Downloader
	logger     *logger.Logger
	clock      utils.Clock
	progress   io.Writer
}

// NewIngestion creates the bronze directory tree under dataPath and returns
// an ingestion that downloads through d.
func NewIngestion(dataPath string, d marketdata.Downloader, log *logger.Logger, opts Options) (*Ingestion, error) {
	if opts.Clock == nil {
		opts.Clock = utils.SystemClock
	}

	ing := &Ingestion{
		dataPath:   dataPath,
		downloader: d,
		logger:     log,
		clock:      opts.Clock,
		progress:   opts.Progress,
	}

	if err := ing.createDirectories(); err != nil {
		return nil, err
	}

	return ing, nil
}

func (i *Ingestion) createDirectories() error {
	dirs := []string{
		i.dataPath,
		filepath.Join(i.dataPath, string(types.SourceYahooFinance)),
		filepath.Join(i.dataPath, string(types.SourceAlphaVantage)),
		filepath.Join(i.dataPath, string(i.downloader.Source())),
	}

	if err := utils.EnsureDirs(dirs...); err != nil {
		return err
	}

	i.logger.Debug("Bronze directories ready", zap.Strings("dirs", dirs))

	return nil
}

// Ingest downloads every symbol in order for [start, end]. A failing symbol is
// recorded in the manifest and the batch moves on. The returned error is
// non-nil only for invalid arguments or a cancelled context; per-symbol
// failures are reported through the manifest.
func (i *Ingestion) Ingest(ctx context.Context, symbols []string, start, end time.Time) (*manifest.Manifest, error) {
	if len(symbols) == 0 {
		return nil, errors.New(errors.ErrCodeMissingParameter, "at least one symbol is required")
	}

	if start.After(end) {
		return nil, errors.Newf(errors.ErrCodeInvalidDateRange, "start date %s is after end date %s",
			start.Format(types.DateLayout), end.Format(types.DateLayout))
	}

	m := manifest.New(manifest.StageBronze, i.clock())

	var bar *progressbar.ProgressBar
	if i.progress != nil {
		bar = progressbar.NewOptions(len(symbols),
			progressbar.OptionSetWriter(i.progress),
			progressbar.OptionSetDescription("Ingesting bronze"),
			progressbar.OptionShowCount())
	}

	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return m, fmt.Errorf("bronze ingestion interrupted before %s: %w", symbol, err)
		}

		i.logger.Info("Downloading symbol", zap.String("symbol", symbol))

		result, err := i.downloader.Download(ctx, marketdata.DownloadParams{
			Ticker:     symbol,
			StartDate:  start,
			EndDate:    end,
			IngestedAt: i.clock(),
		})
		if err != nil {
			i.logger.Error("Failed to ingest symbol", zap.String("symbol", symbol), zap.Error(err))
			m.Fail(symbol, err)
		} else {
			i.logger.Info("Saved bronze file",
				zap.String("symbol", symbol),
				zap.String("path", result.Path),
				zap.Int("rows", result.Rows))
			m.Add(manifest.Artifact{
				Path:   result.Path,
				Symbol: symbol,
				Source: result.Source,
				Rows:   result.Rows,
			})
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}

	i.logger.Info("Bronze ingestion finished", zap.String("summary", m.Summary()), zap.String("run_id", m.RunID))

	return m, nil
}

// IngestAlphaVantage is reserved for Alpha Vantage bronze ingestion and is not
// implemented.
func (i *Ingestion) IngestAlphaVantage(_ context.Context, symbol string) (*manifest.Manifest, error) {
	return nil, errors.Newf(errors.ErrCodeNotImplemented, "alpha vantage bronze ingestion is not implemented (symbol %s)", symbol)
}
