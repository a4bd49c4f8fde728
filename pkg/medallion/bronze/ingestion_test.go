package bronze

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-medallion/internal/logger"
	"github.com/rxtech-lab/argo-medallion/internal/types"
	"github.com/rxtech-lab/argo-medallion/mocks"
	"github.com/rxtech-lab/argo-medallion/pkg/marketdata"
	merrors "github.com/rxtech-lab/argo-medallion/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type IngestionTestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	downloader *mocks.MockDownloader
	dir        string
	now        time.Time
	start      time.Time
	end        time.Time
}

func TestIngestionSuite(t *testing.T) {
	suite.Run(t, new(IngestionTestSuite))
}

func (suite *IngestionTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.downloader = mocks.NewMockDownloader(suite.ctrl)
	suite.downloader.EXPECT().Source().Return(types.SourceYahooFinance).AnyTimes()
	suite.dir = filepath.Join(suite.T().TempDir(), "bronze")
	suite.now = time.Date(2025, 7, 26, 9, 5, 3, 0, time.UTC)
	suite.start = time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC)
	suite.end = time.Date(2025, 7, 25, 0, 0, 0, 0, time.UTC)
}

func (suite *IngestionTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *IngestionTestSuite) newIngestion(progress *bytes.Buffer) *Ingestion {
	opts := Options{Clock: func() time.Time { return suite.now }}
	if progress != nil {
		opts.Progress = progress
	}

	ing, err := NewIngestion(suite.dir, suite.downloader, logger.NewNop(), opts)
	suite.Require().NoError(err)

	return ing
}

func (suite *IngestionTestSuite) result(symbol string) marketdata.DownloadResult {
	return marketdata.DownloadResult{
		Path:   filepath.Join(suite.dir, "yahoo_finance", symbol+"_2025-07-20_2025-07-25_20250726_090503.csv"),
		Rows:   5,
		Source: types.SourceYahooFinance,
	}
}

func (suite *IngestionTestSuite) TestCreatesDirectories() {
	suite.newIngestion(nil)

	suite.DirExists(suite.dir)
	suite.DirExists(filepath.Join(suite.dir, "yahoo_finance"))
	suite.DirExists(filepath.Join(suite.dir, "alpha_vantage"))

	// Idempotent
	suite.newIngestion(nil)
}

func (suite *IngestionTestSuite) TestIngestInOrder() {
	symbols := []string{"NVDA", "MSFT", "BOTZ"}

	var got []string

	for _, symbol := range symbols {
		expected := marketdata.DownloadParams{Ticker: symbol, StartDate: suite.start, EndDate: suite.end, IngestedAt: suite.now}
		suite.downloader.EXPECT().
			Download(gomock.Any(), expected).
			DoAndReturn(func(_ context.Context, p marketdata.DownloadParams) (marketdata.DownloadResult, error) {
				got = append(got, p.Ticker)
				return suite.result(p.Ticker), nil
			})
	}

	m, err := suite.newIngestion(nil).Ingest(context.Background(), symbols, suite.start, suite.end)
	suite.Require().NoError(err)
	suite.Equal(symbols, got)
	suite.True(m.OK())
	suite.Len(m.Artifacts, 3)
	suite.Equal(15, m.Rows())
	suite.Equal("NVDA", m.Artifacts[0].Symbol)
	suite.Equal(types.SourceYahooFinance, m.Artifacts[0].Source)
	suite.Equal(suite.now, m.CreatedAt)
}

func (suite *IngestionTestSuite) TestPerSymbolIsolation() {
	gomock.InOrder(
		suite.downloader.EXPECT().Download(gomock.Any(), gomock.Any()).Return(suite.result("NVDA"), nil),
		suite.downloader.EXPECT().Download(gomock.Any(), gomock.Any()).Return(marketdata.DownloadResult{}, errors.New("no data returned for MSFT")),
		suite.downloader.EXPECT().Download(gomock.Any(), gomock.Any()).Return(suite.result("BOTZ"), nil),
	)

	m, err := suite.newIngestion(nil).Ingest(context.Background(), []string{"NVDA", "MSFT", "BOTZ"}, suite.start, suite.end)
	suite.Require().NoError(err)
	suite.False(m.OK())
	suite.Equal([]string{suite.result("NVDA").Path, suite.result("BOTZ").Path}, m.Paths())
	suite.Require().Len(m.Failures, 1)
	suite.Equal("MSFT", m.Failures[0].Item)
	suite.True(merrors.HasCode(m.Err(), merrors.ErrCodeStageFailed))
	suite.Equal("bronze: 2 of 3 succeeded", m.Summary())
}

func (suite *IngestionTestSuite) TestInvalidArgumentsSkipDownloads() {
	ing := suite.newIngestion(nil)

	_, err := ing.Ingest(context.Background(), nil, suite.start, suite.end)
	suite.True(merrors.HasCode(err, merrors.ErrCodeMissingParameter))

	_, err = ing.Ingest(context.Background(), []string{"NVDA"}, suite.end, suite.start)
	suite.True(merrors.HasCode(err, merrors.ErrCodeInvalidDateRange))
}

func (suite *IngestionTestSuite) TestCancelledContextStopsBatch() {
	ctx, cancel := context.WithCancel(context.Background())

	suite.downloader.EXPECT().
		Download(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p marketdata.DownloadParams) (marketdata.DownloadResult, error) {
			cancel()
			return suite.result(p.Ticker), nil
		}).
		Times(1)

	m, err := suite.newIngestion(nil).Ingest(ctx, []string{"NVDA", "MSFT"}, suite.start, suite.end)
	suite.ErrorIs(err, context.Canceled)
	suite.Require().NotNil(m)
	suite.Len(m.Artifacts, 1)
}

func (suite *IngestionTestSuite) TestProgressBar() {
	suite.downloader.EXPECT().Download(gomock.Any(), gomock.Any()).Return(suite.result("NVDA"), nil)

	var progress bytes.Buffer
	_, err := suite.newIngestion(&progress).Ingest(context.Background(), []string{"NVDA"}, suite.start, suite.end)
	suite.Require().NoError(err)
	suite.Contains(progress.String(), "Ingesting bronze")
}

func (suite *IngestionTestSuite) TestIngestAlphaVantageNotImplemented() {
	m, err := suite.newIngestion(nil).IngestAlphaVantage(context.Background(), "IBM")
	suite.Nil(m)
	suite.True(merrors.HasCode(err, merrors.ErrCodeNotImplemented))
}
