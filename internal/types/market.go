package types

import "time"

// Source identifies the vendor a bronze file was downloaded from. The value
// doubles as the bronze sub-directory name.
type Source string

const (
	SourceYahooFinance Source = "yahoo_finance"
	SourceAlphaVantage Source = "alpha_vantage"
	SourcePolygon      Source = "polygon"
)

// Bar is one daily OHLCV observation as returned by a historical provider.
type Bar struct {
	Symbol string
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}
