package services

import (
	"context"
	"fmt"
	"time"

	"github.com/epeers/portfoliobuilder/internal/alphavantage"
	"github.com/epeers/portfoliobuilder/internal/models"
	"github.com/epeers/portfoliobuilder/internal/optimizer"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// minReliableRows is the number of aligned rows below which the covariance
// estimate is flagged as unreliable.
const minReliableRows = 60

// PriceProvider fetches daily adjusted bars for a symbol
type PriceProvider interface {
	GetDailyAdjusted(ctx context.Context, symbol string, outputSize string) ([]alphavantage.ParsedPriceData, error)
}

// MarketData is the merged price history and the estimates derived from it.
// It is computed once at startup and treated as read-only afterwards.
type MarketData struct {
	Table           *models.PriceTable
	ExpectedReturns []float64
	Covariance      *mat.SymDense
	Warnings        []models.Warning
}

// Summary describes the loaded history for the API
func (m *MarketData) Summary() models.MarketDataResponse {
	resp := models.MarketDataResponse{
		Tickers:  m.Table.Tickers,
		Rows:     m.Table.Len(),
		Warnings: m.Warnings,
	}
	if m.Table.Len() > 0 {
		resp.StartDate = m.Table.Dates[0].Format("2006-01-02")
		resp.EndDate = m.Table.Dates[m.Table.Len()-1].Format("2006-01-02")
	}
	return resp
}

// PricingService loads price history from the market-data provider
type PricingService struct {
	provider     PriceProvider
	fetchDelay   time.Duration
	lookbackDays int
	now          func() time.Time
}

// NewPricingService creates a new PricingService.
// fetchDelay is waited between consecutive provider requests to respect its rate limit.
func NewPricingService(provider PriceProvider, fetchDelay time.Duration, lookbackDays int) *PricingService {
	return &PricingService{
		provider:     provider,
		fetchDelay:   fetchDelay,
		lookbackDays: lookbackDays,
		now:          time.Now,
	}
}

// LoadMarketData fetches the lookback window of every ticker one after the
// other, joins the series on date and estimates annualized expected returns
// and covariance. Any fetch failure aborts the load.
func (s *PricingService) LoadMarketData(ctx context.Context, tickers []string) (*MarketData, error) {
	defer TrackTime("LoadMarketData", time.Now())
	ctx, wc := NewWarningContext(ctx)

	start := s.now().AddDate(0, 0, -s.lookbackDays)
	series := make([]models.PriceSeries, 0, len(tickers))
	for i, ticker := range tickers {
		if i > 0 {
			if err := s.throttle(ctx); err != nil {
				return nil, err
			}
		}

		prices, err := s.fetchSeries(ctx, ticker, start)
		if err != nil {
			return nil, err
		}
		log.Infof("Fetched %d daily bars for %s", len(prices), ticker)
		series = append(series, models.NewPriceSeries(ticker, prices))
	}

	table, dropped, err := models.MergeSeries(series)
	if err != nil {
		return nil, fmt.Errorf("failed to merge price series: %w", err)
	}
	if dropped > 0 {
		AddWarning(ctx, models.Warning{
			Code:    models.WarnDatesDropped,
			Message: fmt.Sprintf("%d dates were not traded by every ticker and were dropped", dropped),
		})
	}
	if table.Len() < minReliableRows {
		AddWarning(ctx, models.Warning{
			Code:    models.WarnShortHistory,
			Message: fmt.Sprintf("only %d aligned rows of prices are available", table.Len()),
		})
	}

	mu, err := optimizer.MeanHistoricalReturn(table, optimizer.TradingDaysPerYear)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate expected returns: %w", err)
	}
	cov, err := optimizer.SampleCov(table, optimizer.TradingDaysPerYear)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate covariance: %w", err)
	}

	for _, w := range wc.GetWarnings() {
		log.Warnf("%s: %s", w.Code, w.Message)
	}

	return &MarketData{
		Table:           table,
		ExpectedReturns: mu,
		Covariance:      cov,
		Warnings:        wc.GetWarnings(),
	}, nil
}

func (s *PricingService) fetchSeries(ctx context.Context, ticker string, start time.Time) ([]models.PriceData, error) {
	// "compact" returns the last 100 bars, enough only for short windows
	outputSize := "full"
	if s.lookbackDays < 100 {
		outputSize = "compact"
	}

	avPrices, err := s.provider.GetDailyAdjusted(ctx, ticker, outputSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices for %s: %w", ticker, err)
	}

	var prices []models.PriceData
	for _, p := range avPrices {
		if p.Date.Before(start) {
			continue
		}
		prices = append(prices, models.PriceData{
			Symbol:        ticker,
			Date:          p.Date,
			Open:          p.Open,
			High:          p.High,
			Low:           p.Low,
			Close:         p.Close,
			AdjustedClose: p.AdjustedClose,
			Volume:        p.Volume,
		})
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("no prices for %s since %s", ticker, start.Format("2006-01-02"))
	}
	return prices, nil
}

func (s *PricingService) throttle(ctx context.Context) error {
	if s.fetchDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.fetchDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
