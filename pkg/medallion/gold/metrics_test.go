package gold

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-medallion/internal/types"
	"github.com/stretchr/testify/suite"
)

type MetricsTestSuite struct {
	suite.Suite
}

func TestMetricsSuite(t *testing.T) {
	suite.Run(t, new(MetricsTestSuite))
}

func day(d int) time.Time {
	return time.Date(2025, 7, d, 0, 0, 0, 0, time.UTC)
}

func record(symbol string, d int, close, volume float64) types.CleanRecord {
	return types.CleanRecord{
		Date:   day(d),
		Close:  close,
		Volume: volume,
		Symbol: symbol,
		Source: types.SourceYahooFinance,
	}
}

func (suite *MetricsTestSuite) TestReturnsAndChanges() {
	metrics := ComputeMetrics([]types.CleanRecord{
		record("NVDA", 21, 100, 10),
		record("NVDA", 22, 110, 20),
		record("NVDA", 23, 99, 30),
	})
	suite.Require().Len(metrics, 3)

	suite.True(metrics[0].DailyReturn.IsNone())
	suite.True(metrics[0].PriceChange.IsNone())

	suite.InDelta(0.1, metrics[1].DailyReturn.Unwrap(), 1e-9)
	suite.InDelta(-0.1, metrics[2].DailyReturn.Unwrap(), 1e-9)
	suite.InDelta(10.0, metrics[1].PriceChange.Unwrap(), 1e-9)
	suite.InDelta(-11.0, metrics[2].PriceChange.Unwrap(), 1e-9)
}

func (suite *MetricsTestSuite) TestVolumeMovingAverage() {
	metrics := ComputeMetrics([]types.CleanRecord{
		record("AAPL", 21, 1, 10),
		record("AAPL", 22, 1, 20),
		record("AAPL", 23, 1, 30),
		record("AAPL", 24, 1, 40),
	})

	var got []float64
	for _, m := range metrics {
		got = append(got, m.VolumeMA3D)
	}

	suite.Equal([]float64{10, 15, 20, 30}, got)
}

func (suite *MetricsTestSuite) TestZeroPriorCloseHasNoReturn() {
	metrics := ComputeMetrics([]types.CleanRecord{
		record("XYZ", 21, 0, 1),
		record("XYZ", 22, 5, 1),
	})

	suite.True(metrics[1].DailyReturn.IsNone())
	suite.InDelta(5.0, metrics[1].PriceChange.Unwrap(), 1e-9)
}

func (suite *MetricsTestSuite) TestSymbolsAreIndependentAndSorted() {
	metrics := ComputeMetrics([]types.CleanRecord{
		record("NVDA", 22, 200, 300),
		record("AAPL", 22, 110, 20),
		record("NVDA", 21, 100, 100),
		record("AAPL", 21, 100, 10),
	})
	suite.Require().Len(metrics, 4)

	suite.Equal("AAPL", metrics[0].Symbol)
	suite.Equal(day(21), metrics[0].Date)
	suite.Equal("AAPL", metrics[1].Symbol)
	suite.Equal("NVDA", metrics[2].Symbol)
	suite.Equal(day(21), metrics[2].Date)

	// First row of each symbol resets
	suite.True(metrics[2].DailyReturn.IsNone())
	suite.Equal(100.0, metrics[2].VolumeMA3D)
	suite.InDelta(1.0, metrics[3].DailyReturn.Unwrap(), 1e-9)
	suite.Equal(200.0, metrics[3].VolumeMA3D)
}

func (suite *MetricsTestSuite) TestDuplicateDatesAreKept() {
	metrics := ComputeMetrics([]types.CleanRecord{
		record("NVDA", 21, 100, 10),
		record("NVDA", 21, 100, 10),
		record("NVDA", 22, 110, 10),
	})
	suite.Require().Len(metrics, 3)

	// Repeated date yields a zero change rather than being merged
	suite.InDelta(0.0, metrics[1].PriceChange.Unwrap(), 1e-9)
}

func (suite *MetricsTestSuite) TestDoesNotMutateInput() {
	input := []types.CleanRecord{record("B", 21, 1, 1), record("A", 21, 1, 1)}
	ComputeMetrics(input)
	suite.Equal("B", input[0].Symbol)
}

func (suite *MetricsTestSuite) TestEmptyInput() {
	suite.Empty(ComputeMetrics(nil))
}

func (suite *MetricsTestSuite) TestDeduplicateKeepsLatestIngestion() {
	older := record("NVDA", 21, 100, 10)
	older.IngestionTimestamp = time.Date(2025, 7, 26, 9, 0, 0, 0, time.UTC)

	newer := record("NVDA", 21, 101, 10)
	newer.IngestionTimestamp = time.Date(2025, 7, 27, 9, 0, 0, 0, time.UTC)

	other := record("NVDA", 22, 105, 10)

	out := Deduplicate([]types.CleanRecord{newer, other, older})
	suite.Require().Len(out, 2)
	suite.Equal(101.0, out[0].Close)
	suite.Equal(day(22), out[1].Date)
}
