package writer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/rxtech-lab/argo-medallion/internal/types"
	"github.com/rxtech-lab/argo-medallion/internal/utils"
	"github.com/rxtech-lab/argo-medallion/pkg/errors"
)

// bronzeFields is the column order of the historical provider layout.
var bronzeFields = []string{"Close", "High", "Low", "Open", "Volume"}

// BronzeCSVWriter writes bars in the three-line-header layout of the
// historical provider:
//
//	Price,Close,High,Low,Open,Volume
//	Ticker,AAPL,AAPL,AAPL,AAPL,AAPL
//	Date,,,,,
//	2025-07-21,212.47,215.77,211.63,212.1,51377400
type BronzeCSVWriter struct {
	dir       string
	name      string
	symbol    string
	path      string
	file      *os.File
	buf       *bufio.Writer
	csv       *csv.Writer
	rows      int
	finalized bool
}

var _ MarketDataWriter = (*BronzeCSVWriter)(nil)

// NewBronzeCSVWriter creates a writer for dir/name.csv. The file is created by
// Initialize and never replaces an existing one.
func NewBronzeCSVWriter(dir, name, symbol string) *BronzeCSVWriter {
	return &BronzeCSVWriter{
		dir:    dir,
		name:   name,
		symbol: symbol,
	}
}

// Initialize implements MarketDataWriter.
func (w *BronzeCSVWriter) Initialize() error {
	if w.file != nil {
		return errors.New(errors.ErrCodeMarketDataWriteFailed, "writer already initialized")
	}

	file, path, err := utils.CreateExclusive(w.dir, w.name, ".csv")
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create bronze file", err)
	}

	w.file = file
	w.path = path
	w.buf = bufio.NewWriter(file)
	w.csv = csv.NewWriter(w.buf)

	ticker := make([]string, 0, len(bronzeFields)+1)
	ticker = append(ticker, "Ticker")

	for range bronzeFields {
		ticker = append(ticker, w.symbol)
	}

	header := [][]string{
		append([]string{"Price"}, bronzeFields...),
		ticker,
		{"Date", "", "", "", "", ""},
	}

	if err := w.csv.WriteAll(header); err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write bronze header", err)
	}

	return nil
}

// Write implements MarketDataWriter.
func (w *BronzeCSVWriter) Write(data types.Bar) error {
	if w.csv == nil {
		return errors.New(errors.ErrCodeMarketDataWriteFailed, "writer not initialized")
	}

	record := []string{
		data.Date.Format(types.DateLayout),
		formatFloat(data.Close),
		formatFloat(data.High),
		formatFloat(data.Low),
		formatFloat(data.Open),
		formatFloat(data.Volume),
	}

	if err := w.csv.Write(record); err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write bar", err)
	}

	w.rows++

	return nil
}

// Finalize implements MarketDataWriter.
func (w *BronzeCSVWriter) Finalize() (string, error) {
	if w.file == nil {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "writer not initialized")
	}

	w.csv.Flush()

	if err := w.csv.Error(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to flush bronze file", err)
	}

	if err := w.buf.Flush(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to flush bronze file", err)
	}

	if err := w.file.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to close bronze file", err)
	}

	w.file = nil
	w.finalized = true

	return w.path, nil
}

// Close implements MarketDataWriter.
func (w *BronzeCSVWriter) Close() error {
	if w.finalized || w.file == nil {
		return nil
	}

	closeErr := w.file.Close()
	w.file = nil

	if err := os.Remove(w.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove incomplete bronze file %s: %w", w.path, err)
	}

	return closeErr
}

// GetOutputPath implements MarketDataWriter.
func (w *BronzeCSVWriter) GetOutputPath() string {
	return w.path
}

// Rows implements MarketDataWriter.
func (w *BronzeCSVWriter) Rows() int {
	return w.rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
