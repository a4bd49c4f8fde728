package gold

import (
	"sort"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-medallion/internal/types"
)

// volumeWindow is the number of rows in the trailing volume mean.
const volumeWindow = 3

type recordKey struct {
	symbol string
	date   string
}

// Deduplicate keeps one record per (symbol, date): the one with the latest
// ingestion timestamp, the later record on ties. Output keeps first-seen order.
func Deduplicate(records []types.CleanRecord) []types.CleanRecord {
	index := make(map[recordKey]int, len(records))
	out := make([]types.CleanRecord, 0, len(records))

	for _, r := range records {
		key := recordKey{symbol: r.Symbol, date: r.Date.Format(types.DateLayout)}

		i, ok := index[key]
		if !ok {
			index[key] = len(out)
			out = append(out, r)

			continue
		}

		if !r.IngestionTimestamp.Before(out[i].IngestionTimestamp) {
			out[i] = r
		}
	}

	return out
}

// SortRecords stable-sorts records by symbol, then date.
func SortRecords(records []types.CleanRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Symbol != records[j].Symbol {
			return records[i].Symbol < records[j].Symbol
		}

		return records[i].Date.Before(records[j].Date)
	})
}

// ComputeMetrics sorts a copy of records by (symbol, date) and derives the
// per-symbol metrics. Rows are never dropped or merged.
func ComputeMetrics(records []types.CleanRecord) []types.MetricRecord {
	sorted := make([]types.CleanRecord, len(records))
	copy(sorted, records)
	SortRecords(sorted)

	out := make([]types.MetricRecord, 0, len(sorted))

	var (
		symbol  string
		prev    *types.CleanRecord
		volumes []float64
	)

	for i := range sorted {
		r := sorted[i]

		if prev == nil || r.Symbol != symbol {
			symbol = r.Symbol
			prev = nil
			volumes = volumes[:0]
		}

		m := types.MetricRecord{
			CleanRecord: r,
			DailyReturn: optional.None[float64](),
			PriceChange: optional.None[float64](),
		}

		if prev != nil {
			m.PriceChange = optional.Some(r.Close - prev.Close)

			if prev.Close != 0 {
				m.DailyReturn = optional.Some((r.Close - prev.Close) / prev.Close)
			}
		}

		volumes = append(volumes, r.Volume)
		if len(volumes) > volumeWindow {
			volumes = volumes[1:]
		}

		m.VolumeMA3D = mean(volumes)

		out = append(out, m)
		prev = &sorted[i]
	}

	return out
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}
