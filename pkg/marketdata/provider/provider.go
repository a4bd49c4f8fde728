package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/rxtech-lab/argo-medallion/internal/config"
	"github.com/rxtech-lab/argo-medallion/internal/types"
	"github.com/rxtech-lab/argo-medallion/pkg/errors"
	"github.com/rxtech-lab/argo-medallion/pkg/marketdata/writer"
)

// ProviderType defines the type of historical data provider. Values match the
// bronze sub-directory of the provider's files.
type ProviderType string

const (
	ProviderYahoo   ProviderType = ProviderType(types.SourceYahooFinance)
	ProviderPolygon ProviderType = ProviderType(types.SourcePolygon)
)

type OnDownloadProgress = func(current float64, total float64, message string)

type Provider interface {
	// ConfigWriter configures the writer the provider streams bars into.
	ConfigWriter(writer writer.MarketDataWriter)
	// Download fetches daily bars for ticker in [startDate, endDate] and
	// writes them through the configured writer. It returns the written path.
	// example:
	// Download(ctx, "AAPL", time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC), time.Date(2025, 7, 25, 0, 0, 0, 0, time.UTC), onProgress)
	Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, onProgress OnDownloadProgress) (path string, err error)
}

// NewMarketDataProvider creates a historical provider from the pipeline config.
func NewMarketDataProvider(providerType ProviderType, cfg config.Config) (Provider, error) {
	switch providerType {
	case ProviderYahoo:
		return NewYahooClient(cfg.Yahoo), nil
	case ProviderPolygon:
		apiKey, err := cfg.RequirePolygonKey()
		if err != nil {
			return nil, err
		}

		return NewPolygonClient(apiKey)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}

// writeBars streams bars through w, owning its whole lifecycle. Zero bars is
// an error and leaves no file behind.
func writeBars(w writer.MarketDataWriter, ticker string, bars []types.Bar, onProgress OnDownloadProgress) (path string, err error) {
	if w == nil {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "no writer configured. Call ConfigWriter first")
	}

	if len(bars) == 0 {
		return "", errors.Newf(errors.ErrCodeNoDataFound, "no data returned for %s", ticker)
	}

	if err = w.Initialize(); err != nil {
		return "", fmt.Errorf("failed to initialize writer: %w", err)
	}

	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing writer: %w", cerr)
		}
	}()

	total := float64(len(bars))
	for i, bar := range bars {
		if err = w.Write(bar); err != nil {
			return "", fmt.Errorf("failed to write data: %w", err)
		}

		if onProgress != nil {
			onProgress(float64(i+1), total, fmt.Sprintf("Downloading %s", ticker))
		}
	}

	path, err = w.Finalize()
	if err != nil {
		return "", fmt.Errorf("failed to finalize writer: %w", err)
	}

	return path, nil
}

// day truncates t to its UTC calendar date.
func day(t time.Time) time.Time {
	t = t.UTC()

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
