package silver

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-medallion/internal/types"
	"github.com/rxtech-lab/argo-medallion/pkg/errors"
)

// dateLayouts are the date forms accepted in the date column.
var dateLayouts = []string{
	types.DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07:00",
	time.RFC3339,
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// FormatFloat renders a value the way every stage writes numbers.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatRecord renders a record in SilverColumns order.
func FormatRecord(r types.CleanRecord) []string {
	return []string{
		r.Date.Format(types.DateLayout),
		FormatFloat(r.Close),
		FormatFloat(r.High),
		FormatFloat(r.Low),
		FormatFloat(r.Open),
		FormatFloat(r.Volume),
		r.Symbol,
		string(r.Source),
		r.IngestionTimestamp.Format(types.IngestionTimestampLayout),
	}
}

// ReadFile reads a silver file. Columns are located by header name, so extra
// columns are ignored and order does not matter.
func ReadFile(path string) ([]types.CleanRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to open silver file %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewShapeErrorf(path, 1, "missing header")
	}

	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataShape, err, "failed to read %s", path)
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(name)] = i
	}

	for _, name := range types.SilverColumns {
		if _, ok := colIdx[name]; !ok {
			return nil, errors.NewShapeErrorf(path, 1, "missing column %q", name)
		}
	}

	var records []types.CleanRecord

	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeDataShape, err, "failed to read %s", path)
		}

		record, err := parseSilverRow(path, line, row, colIdx)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, nil
}

func parseSilverRow(path string, line int, row []string, colIdx map[string]int) (types.CleanRecord, error) {
	get := func(name string) string { return row[colIdx[name]] }

	date, err := parseDate(get("date"))
	if err != nil {
		return types.CleanRecord{}, errors.NewShapeErrorf(path, line, "invalid date %q", get("date"))
	}

	record := types.CleanRecord{
		Date:   date,
		Symbol: get("symbol"),
		Source: types.Source(get("source")),
	}

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

	for _, target := range targets {
		v, err := parseFloat(get(target.name))
		if err != nil {
			return types.CleanRecord{}, errors.NewShapeErrorf(path, line, "invalid %s %q", target.name, get(target.name))
		}

		*target.dst = v
	}

	if ts := strings.TrimSpace(get("ingestion_timestamp")); ts != "" {
		parsed, err := time.Parse(types.IngestionTimestampLayout, ts)
		if err != nil {
			return types.CleanRecord{}, errors.NewShapeErrorf(path, line, "invalid ingestion_timestamp %q", ts)
		}

		record.IngestionTimestamp = parsed
	}

	return record, nil
}
