package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rxtech-lab/argo-medallion/internal/config"
	"github.com/rxtech-lab/argo-medallion/internal/types"
	"github.com/rxtech-lab/argo-medallion/pkg/errors"
	"github.com/rxtech-lab/argo-medallion/pkg/marketdata/writer"
)

const yahooUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/91.0.4472.124"

// yahooChartResponse is the v8 chart API body. Quote values are pointers
// because the API sends null for sessions without a print.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				GMTOffset int64  `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooChartError `json:"error"`
	} `json:"chart"`
}

type yahooChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// YahooClient downloads daily history from the Yahoo Finance chart API.
type YahooClient struct {
	baseURL    string
	httpClient *http.Client
	writer     writer.MarketDataWriter
}

var _ Provider = (*YahooClient)(nil)

// NewYahooClient creates a client for the chart endpoint in api.
func NewYahooClient(api config.APIConfig) *YahooClient {
	return &YahooClient{
		baseURL: api.BaseURL,
		httpClient: &http.Client{
			Timeout: api.Timeout,
		},
	}
}

func (c *YahooClient) ConfigWriter(w writer.MarketDataWriter) {
	c.writer = w
}

// Download implements Provider. endDate is inclusive.
func (c *YahooClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, onProgress OnDownloadProgress) (string, error) {
	if c.writer == nil {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "no writer configured for YahooClient. Call ConfigWriter first")
	}

	bars, err := c.fetch(ctx, ticker, startDate, endDate)
	if err != nil {
		return "", err
	}

	return writeBars(c.writer, ticker, bars, onProgress)
}

func (c *YahooClient) fetch(ctx context.Context, ticker string, startDate, endDate time.Time) ([]types.Bar, error) {
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("events", "history")
	params.Set("period1", fmt.Sprintf("%d", day(startDate).Unix()))
	params.Set("period2", fmt.Sprintf("%d", day(endDate).AddDate(0, 0, 1).Unix()))

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(ticker), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to create request", err)
	}

	req.Header.Set("User-Agent", yahooUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch data for %s", ticker)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to read response", err)
	}

	var chart yahooChartResponse
	decodeErr := json.Unmarshal(body, &chart)

	if chart.Chart.Error != nil {
		return nil, errors.Newf(errors.ErrCodeMarketDataFetchFailed, "API error for %s: %s: %s", ticker, chart.Chart.Error.Code, chart.Chart.Error.Description)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.ErrCodeMarketDataFetchFailed, "unexpected status code for %s: %d", ticker, resp.StatusCode)
	}

	if decodeErr != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to decode response", decodeErr)
	}

	return chartBars(ticker, chart)
}

// chartBars converts the first chart result into bars, skipping sessions with
// a null close.
func chartBars(ticker string, chart yahooChartResponse) ([]types.Bar, error) {
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, nil
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, errors.Newf(errors.ErrCodeMarketDataParseFailed, "no quote indicators for %s", ticker)
	}

	quote := result.Indicators.Quote[0]
	n := len(result.Timestamp)

	if len(quote.Open) != n || len(quote.High) != n || len(quote.Low) != n || len(quote.Close) != n || len(quote.Volume) != n {
		return nil, errors.Newf(errors.ErrCodeMarketDataParseFailed, "quote arrays for %s do not match %d timestamps", ticker, n)
	}

	bars := make([]types.Bar, 0, n)

	for i, ts := range result.Timestamp {
		if quote.Close[i] == nil {
			continue
		}

		bars = append(bars, types.Bar{
			Symbol: ticker,
			Date:   day(time.Unix(ts+result.Meta.GMTOffset, 0)),
			Open:   valueOrZero(quote.Open[i]),
			High:   valueOrZero(quote.High[i]),
			Low:    valueOrZero(quote.Low[i]),
			Close:  *quote.Close[i],
			Volume: valueOrZero(quote.Volume[i]),
		})
	}

	return bars, nil
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}

	return *v
}
