package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/rxtech-lab/argo-medallion/internal/logger"
	"github.com/rxtech-lab/argo-medallion/pkg/errors"
	"github.com/rxtech-lab/argo-medallion/pkg/marketdata/alphavantage"
	"go.uber.org/zap"
)

// fetchAll requests every symbol in order and prints its latest bar. A failed
// symbol is logged and the loop moves on; the error lists every failure.
func fetchAll(ctx context.Context, f alphavantage.Fetcher, symbols []string, outputSize alphavantage.OutputSize, dataType alphavantage.DataType, log *logger.Logger, out io.Writer) error {
	var failures []error

	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("fetch interrupted before %s: %w", symbol, err)
		}

		log.Info("Fetching daily quotes", zap.String("symbol", symbol))

		result := f.FetchMarketData(ctx, symbol, outputSize, dataType)

		payload, ok := result.Payload()
		if !ok {
			log.Error("Failed to fetch daily quotes", zap.String("symbol", symbol), zap.Error(result.Err()))
			failures = append(failures, fmt.Errorf("%s: %w", symbol, result.Err()))

			continue
		}

		bar, err := payload.Latest()
		if err != nil {
			log.Error("Failed to read daily quotes", zap.String("symbol", symbol), zap.Error(err))
			failures = append(failures, fmt.Errorf("%s: %w", symbol, err))

			continue
		}

		renderQuote(out, symbol, bar)
	}

	if len(failures) > 0 {
		return errors.Wrap(errors.ErrCodeStageFailed,
			fmt.Sprintf("fetch: %d of %d succeeded", len(symbols)-len(failures), len(symbols)),
			stderrors.Join(failures...))
	}

	return nil
}
