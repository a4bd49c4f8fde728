package alphavantage

import (
	"encoding/csv"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-medallion/internal/types"
	"github.com/rxtech-lab/argo-medallion/pkg/errors"
	"github.com/shopspring/decimal"
)

// Payload is the successful body of a fetch. JSON requests fill MetaData and
// TimeSeries; CSV requests fill Content with the raw response text.
type Payload struct {
	DataType   DataType
	MetaData   map[string]string
	TimeSeries map[string]DailyOHLCV
	Content    string
}

// Result is either a Payload or an error, never both.
type Result struct {
	payload *Payload
	err     error
}

// Success wraps a payload.
func Success(p Payload) Result {
	return Result{payload: &p}
}

// Failure wraps an error.
func Failure(err error) Result {
	return Result{err: err}
}

// Ok reports whether the result carries a payload.
func (r Result) Ok() bool {
	return r.err == nil && r.payload != nil
}

// Payload returns the payload of a successful result.
func (r Result) Payload() (Payload, bool) {
	if !r.Ok() {
		return Payload{}, false
	}

	return *r.payload, true
}

// Err returns the failure, or nil for a successful result.
func (r Result) Err() error {
	return r.err
}

// Bars parses the payload into date-ascending daily bars.
func (p Payload) Bars() ([]DailyBar, error) {
	if p.DataType == DataTypeCSV {
		return parseCSVBars(p.Content)
	}

	bars := make([]DailyBar, 0, len(p.TimeSeries))
	for dateStr, ohlcv := range p.TimeSeries {
		bar, err := parseBar(dateStr, ohlcv.Open, ohlcv.High, ohlcv.Low, ohlcv.Close, ohlcv.Volume)
		if err != nil {
			return nil, err
		}

		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	return bars, nil
}

// Latest returns the most recent bar.
func (p Payload) Latest() (DailyBar, error) {
	bars, err := p.Bars()
	if err != nil {
		return DailyBar{}, err
	}

	if len(bars) == 0 {
		return DailyBar{}, errors.New(errors.ErrCodeNoDataFound, "payload has no daily bars")
	}

	return bars[len(bars)-1], nil
}

// parseCSVBars reads "timestamp,open,high,low,close,volume" content.
func parseCSVBars(content string) ([]DailyBar, error) {
	records, err := csv.NewReader(strings.NewReader(content)).ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to parse CSV response", err)
	}

	if len(records) < 1 {
		return nil, errors.New(errors.ErrCodeMarketDataParseFailed, "empty CSV response")
	}

	bars := make([]DailyBar, 0, len(records)-1)
	// Skip header row (timestamp,open,high,low,close,volume)
	for _, record := range records[1:] {
		if len(record) < 6 {
			return nil, errors.Newf(errors.ErrCodeMarketDataParseFailed, "expected 6 CSV columns, got %d", len(record))
		}

		bar, err := parseBar(record[0], record[1], record[2], record[3], record[4], record[5])
		if err != nil {
			return nil, err
		}

		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	return bars, nil
}

func parseBar(date, open, high, low, closePrice, volume string) (DailyBar, error) {
	d, err := time.Parse(types.DateLayout, date)
	if err != nil {
		return DailyBar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid date %q", date)
	}

	bar := DailyBar{Date: d}

	fields := []struct {
		label string
		raw   string
		dst   *decimal.Decimal
	}{
		{LabelOpen, open, &bar.Open},
		{LabelHigh, high, &bar.High},
		{LabelLow, low, &bar.Low},
		{LabelClose, closePrice, &bar.Close},
	}

	for _, f := range fields {
		v, err := decimal.NewFromString(f.raw)
		if err != nil {
			return DailyBar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid %s %q on %s", f.label, f.raw, date)
		}

		*f.dst = v
	}

	bar.Volume, err = strconv.ParseInt(volume, 10, 64)
	if err != nil {
		return DailyBar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid %s %q on %s", LabelVolume, volume, date)
	}

	return bar, nil
}
