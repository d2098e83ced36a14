package alphavantage

import "time"

// TimeSeriesDailyAdjustedResponse represents the AlphaVantage TIME_SERIES_DAILY_ADJUSTED response
type TimeSeriesDailyAdjustedResponse struct {
	MetaData   map[string]string        `json:"Meta Data"`
	TimeSeries map[string]AdjustedOHLCV `json:"Time Series (Daily)"`

	// AlphaVantage reports failures with HTTP 200 and one of these fields
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
}

// AdjustedOHLCV is one day of the adjusted time series; AlphaVantage sends numbers as strings
type AdjustedOHLCV struct {
	Open             string `json:"1. open"`
	High             string `json:"2. high"`
	Low              string `json:"3. low"`
	Close            string `json:"4. close"`
	AdjustedClose    string `json:"5. adjusted close"`
	Volume           string `json:"6. volume"`
	Dividend         string `json:"7. dividend amount"`
	SplitCoefficient string `json:"8. split coefficient"`
}

// ParsedPriceData represents parsed price data ready for use
type ParsedPriceData struct {
	Date             time.Time
	Open             float64
	High             float64
	Low              float64
	Close            float64
	AdjustedClose    float64
	Volume           int64
	Dividend         float64
	SplitCoefficient float64
}
