package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-medallion/internal/config"
	"github.com/rxtech-lab/argo-medallion/pkg/errors"
	"github.com/stretchr/testify/suite"
)

const dailyJSON = `{
  "Meta Data": {
    "1. Information": "Daily Prices (open, high, low, close) and Volumes",
    "2. Symbol": "NVDA",
    "3. Last Refreshed": "2025-07-25"
  },
  "Time Series (Daily)": {
    "2025-07-25": {"1. open": "172.10", "2. high": "174.25", "3. low": "171.26", "4. close": "173.50", "5. volume": "122316834"},
    "2025-07-24": {"1. open": "171.00", "2. high": "173.38", "3. low": "170.50", "4. close": "173.74", "5. volume": "128984584"}
  }
}`

const dailyCSV = "timestamp,open,high,low,close,volume\r\n" +
	"2025-07-25,172.10,174.25,171.26,173.50,122316834\r\n" +
	"2025-07-24,171.00,173.38,170.50,173.74,128984584\r\n"

type ClientTestSuite struct {
	suite.Suite
	server   *httptest.Server
	handler  http.HandlerFunc
	requests atomic.Int32
	query    atomic.Pointer[url.Values]
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (suite *ClientTestSuite) SetupTest() {
	suite.requests.Store(0)
	suite.query.Store(nil)
	suite.handler = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(dailyJSON))
	}
	suite.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		suite.requests.Add(1)
		query := r.URL.Query()
		suite.query.Store(&query)
		suite.handler(w, r)
	}))
}

func (suite *ClientTestSuite) TearDownTest() {
	suite.server.Close()
}

func (suite *ClientTestSuite) newClient() *Client {
	client, err := NewClient("test-key", config.APIConfig{
		BaseURL:  suite.server.URL,
		Function: "TIME_SERIES_DAILY",
		Timeout:  2 * time.Second,
	})
	suite.Require().NoError(err)

	return client
}

func (suite *ClientTestSuite) TestNewClientRequiresAPIKey() {
	client, err := NewClient("", config.Default().AlphaVantage)
	suite.Nil(client)
	suite.True(errors.HasCode(err, errors.ErrCodeMissingCredential))
	suite.Equal(int32(0), suite.requests.Load())
}

func (suite *ClientTestSuite) TestFetchJSON() {
	result := suite.newClient().FetchMarketData(context.Background(), "NVDA", OutputSizeCompact, DataTypeJSON)
	suite.Require().True(result.Ok(), "unexpected error: %v", result.Err())

	query := *suite.query.Load()
	suite.Equal("TIME_SERIES_DAILY", query.Get("function"))
	suite.Equal("NVDA", query.Get("symbol"))
	suite.Equal("compact", query.Get("outputsize"))
	suite.Equal("json", query.Get("datatype"))
	suite.Equal("test-key", query.Get("apikey"))

	payload, ok := result.Payload()
	suite.Require().True(ok)
	suite.Equal("NVDA", payload.MetaData["2. Symbol"])
	suite.Len(payload.TimeSeries, 2)
	suite.Equal("173.50", payload.TimeSeries["2025-07-25"].Close)

	bars, err := payload.Bars()
	suite.Require().NoError(err)
	suite.Require().Len(bars, 2)
	suite.Equal("2025-07-24", bars[0].Date.Format("2006-01-02"))
	suite.Equal("173.74", bars[0].Close.StringFixed(2))
	suite.Equal(int64(128984584), bars[0].Volume)

	latest, err := payload.Latest()
	suite.Require().NoError(err)
	suite.Equal("2025-07-25", latest.Date.Format("2006-01-02"))
	suite.Equal("172.1", latest.Open.String())
}

func (suite *ClientTestSuite) TestFetchCSV() {
	suite.handler = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(dailyCSV))
	}

	result := suite.newClient().FetchMarketData(context.Background(), "NVDA", OutputSizeFull, DataTypeCSV)
	suite.Require().True(result.Ok())
	query := *suite.query.Load()
	suite.Equal("full", query.Get("outputsize"))
	suite.Equal("csv", query.Get("datatype"))

	payload, _ := result.Payload()
	suite.Equal(dailyCSV, payload.Content)
	suite.Nil(payload.TimeSeries)

	latest, err := payload.Latest()
	suite.Require().NoError(err)
	suite.Equal("173.5", latest.Close.String())
}

func (suite *ClientTestSuite) TestInvalidArgumentsSkipNetwork() {
	client := suite.newClient()

	tests := []struct {
		name       string
		symbol     string
		outputSize OutputSize
		dataType   DataType
		code       errors.ErrorCode
	}{
		{"empty symbol", "", OutputSizeCompact, DataTypeJSON, errors.ErrCodeMissingParameter},
		{"bad output size", "NVDA", "medium", DataTypeJSON, errors.ErrCodeInvalidParameter},
		{"bad data type", "NVDA", OutputSizeCompact, "xml", errors.ErrCodeInvalidParameter},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			result := client.FetchMarketData(context.Background(), tt.symbol, tt.outputSize, tt.dataType)
			suite.False(result.Ok())
			suite.True(errors.HasCode(result.Err(), tt.code))
		})
	}

	suite.Equal(int32(0), suite.requests.Load())
}

func (suite *ClientTestSuite) TestNonSuccessStatus() {
	suite.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("maintenance"))
	}

	result := suite.newClient().FetchMarketData(context.Background(), "NVDA", OutputSizeCompact, DataTypeJSON)
	suite.False(result.Ok())
	suite.True(errors.HasCode(result.Err(), errors.ErrCodeMarketDataFetchFailed))
	suite.Contains(result.Err().Error(), "503")

	_, ok := result.Payload()
	suite.False(ok)
}

func (suite *ClientTestSuite) TestMalformedJSON() {
	suite.handler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}

	result := suite.newClient().FetchMarketData(context.Background(), "NVDA", OutputSizeCompact, DataTypeJSON)
	suite.False(result.Ok())
	suite.True(errors.HasCode(result.Err(), errors.ErrCodeMarketDataParseFailed))
}

func (suite *ClientTestSuite) TestInBandErrors() {
	tests := []struct {
		name     string
		body     string
		contains string
	}{
		{"error message", `{"Error Message": "Invalid API call."}`, "Invalid API call."},
		{"rate limit note", `{"Note": "Thank you for using Alpha Vantage!"}`, "Thank you"},
		{"information", `{"Information": "premium endpoint"}`, "premium endpoint"},
		{"empty object", `{}`, "no time series"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.handler = func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}

			result := suite.newClient().FetchMarketData(context.Background(), "NVDA", OutputSizeCompact, DataTypeJSON)
			suite.False(result.Ok())
			suite.Contains(result.Err().Error(), tt.contains)
		})
	}
}

func (suite *ClientTestSuite) TestTimeout() {
	suite.handler = func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}

	client, err := NewClient("test-key", config.APIConfig{BaseURL: suite.server.URL, Timeout: 50 * time.Millisecond})
	suite.Require().NoError(err)

	result := client.FetchMarketData(context.Background(), "NVDA", OutputSizeCompact, DataTypeJSON)
	suite.False(result.Ok())
	suite.True(errors.HasCode(result.Err(), errors.ErrCodeMarketDataFetchFailed))
}

func (suite *ClientTestSuite) TestBarsRejectsBadNumbers() {
	payload := Payload{
		DataType: DataTypeJSON,
		TimeSeries: map[string]DailyOHLCV{
			"2025-07-25": {Open: "abc", High: "1", Low: "1", Close: "1", Volume: "1"},
		},
	}

	_, err := payload.Bars()
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataParseFailed))
}

func (suite *ClientTestSuite) TestLatestOnEmptyPayload() {
	_, err := Payload{DataType: DataTypeJSON}.Latest()
	suite.True(errors.HasCode(err, errors.ErrCodeNoDataFound))
}
