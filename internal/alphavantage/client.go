package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Alphavantage is a Stock and ETF API that fetches data including pricing data
// It is a subscription service, but provides free API access
// https://www.alphavantage.co/documentation/
const defaultBaseURL = "https://www.alphavantage.co/query"

// ErrAPI is returned when AlphaVantage answers with an error payload instead of data
var ErrAPI = errors.New("alphavantage API error")

// Client is an HTTP client for the AlphaVantage API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new AlphaVantage client
func NewClient(apiKey string) *Client {
	return NewClientWithBaseURL(apiKey, defaultBaseURL)
}

// NewClientWithBaseURL creates a new AlphaVantage client with a custom base URL (for testing)
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetDailyAdjusted fetches split and dividend adjusted daily bars for a symbol,
// sorted by date ascending. outputSize is "compact" (last 100 bars) or "full".
func (c *Client) GetDailyAdjusted(ctx context.Context, symbol string, outputSize string) ([]ParsedPriceData, error) {
	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY_ADJUSTED")
	params.Set("symbol", symbol)
	params.Set("outputsize", outputSize)
	params.Set("apikey", c.apiKey)

	body, err := c.doRequest(ctx, params)
	if err != nil {
		return nil, err
	}

	var tsResp TimeSeriesDailyAdjustedResponse
	if err := json.Unmarshal(body, &tsResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	switch {
	case tsResp.ErrorMessage != "":
		return nil, fmt.Errorf("%w: %s", ErrAPI, tsResp.ErrorMessage)
	case tsResp.Note != "":
		return nil, fmt.Errorf("%w: %s", ErrAPI, tsResp.Note)
	case len(tsResp.TimeSeries) == 0 && tsResp.Information != "":
		// Free keys are answered with an Information payload on this endpoint
		return nil, fmt.Errorf("%w: %s (TIME_SERIES_DAILY_ADJUSTED requires a premium API key)", ErrAPI, tsResp.Information)
	}

	prices := make([]ParsedPriceData, 0, len(tsResp.TimeSeries))
	for dateStr, ohlcv := range tsResp.TimeSeries {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			log.Debugf("skipping %s bar with bad date %q", symbol, dateStr)
			continue
		}

		closePrice, err := strconv.ParseFloat(ohlcv.Close, 64)
		if err != nil {
			log.Debugf("skipping %s bar on %s with bad close %q", symbol, dateStr, ohlcv.Close)
			continue
		}
		open, _ := strconv.ParseFloat(ohlcv.Open, 64)
		high, _ := strconv.ParseFloat(ohlcv.High, 64)
		low, _ := strconv.ParseFloat(ohlcv.Low, 64)
		adjClose, _ := strconv.ParseFloat(ohlcv.AdjustedClose, 64)
		volume, _ := strconv.ParseInt(ohlcv.Volume, 10, 64)
		dividend, _ := strconv.ParseFloat(ohlcv.Dividend, 64)
		split, _ := strconv.ParseFloat(ohlcv.SplitCoefficient, 64)

		prices = append(prices, ParsedPriceData{
			Date:             date,
			Open:             open,
			High:             high,
			Low:              low,
			Close:            closePrice,
			AdjustedClose:    adjClose,
			Volume:           volume,
			Dividend:         dividend,
			SplitCoefficient: split,
		})
	}

	sort.Slice(prices, func(i, j int) bool {
		return prices[i].Date.Before(prices[j].Date)
	})
	return prices, nil
}

func (c *Client) doRequest(ctx context.Context, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
