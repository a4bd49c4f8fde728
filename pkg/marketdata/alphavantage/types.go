package alphavantage

import (
	"time"

	"github.com/shopspring/decimal"
)

// OutputSize selects how much history TIME_SERIES_DAILY returns.
type OutputSize string

const (
	// OutputSizeCompact returns the latest 100 data points.
	OutputSizeCompact OutputSize = "compact"
	// OutputSizeFull returns the full history.
	OutputSizeFull OutputSize = "full"
)

// DataType selects the response encoding.
type DataType string

const (
	DataTypeJSON DataType = "json"
	DataTypeCSV  DataType = "csv"
)

// Field labels of a TIME_SERIES_DAILY JSON entry.
const (
	LabelOpen   = "1. open"
	LabelHigh   = "2. high"
	LabelLow    = "3. low"
	LabelClose  = "4. close"
	LabelVolume = "5. volume"
)

// DailyOHLCV is one entry of "Time Series (Daily)". Values are kept as the
// strings the API sends.
type DailyOHLCV struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// TimeSeriesDailyResponse is the JSON body of TIME_SERIES_DAILY.
type TimeSeriesDailyResponse struct {
	MetaData     map[string]string     `json:"Meta Data"`
	TimeSeries   map[string]DailyOHLCV `json:"Time Series (Daily)"`
	ErrorMessage string                `json:"Error Message,omitempty"`
	Note         string                `json:"Note,omitempty"`
	Information  string                `json:"Information,omitempty"`
}

// DailyBar is a parsed daily observation.
type DailyBar struct {
	Date   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume int64
}
