package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// DateLayout is the calendar date format used in every stage's CSV files.
const DateLayout = "2006-01-02"

// IngestionTimestampLayout is the layout of the ingestion_timestamp column.
const IngestionTimestampLayout = "2006-01-02 15:04:05.000000"

// SilverColumns is the canonical silver schema, in file order.
var SilverColumns = []string{
	"date", "close", "high", "low", "open", "volume",
	"symbol", "source", "ingestion_timestamp",
}

// GoldColumns is the silver schema followed by the derived metrics.
var GoldColumns = append(append([]string{}, SilverColumns...),
	"daily_return", "price_change", "volume_ma_3d")

// CleanRecord is one silver row.
type CleanRecord struct {
	Date               time.Time
	Close              float64
	High               float64
	Low                float64
	Open               float64
	Volume             float64
	Symbol             string
	Source             Source
	IngestionTimestamp time.Time
}

// MetricRecord is one gold row. DailyReturn and PriceChange are None on the
// first observation of a symbol; DailyReturn is also None when the prior close is 0.
type MetricRecord struct {
	CleanRecord
	DailyReturn optional.Option[float64]
	PriceChange optional.Option[float64]
	VolumeMA3D  float64
}
