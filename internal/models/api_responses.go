package models

// RiskLevelsResponse lists the selector choices
type RiskLevelsResponse struct {
	Choices []RiskLevel `json:"choices"`
	Default RiskLevel   `json:"default"`
}

// MarketDataResponse summarizes the price history loaded at startup
type MarketDataResponse struct {
	Tickers   []string  `json:"tickers"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Rows      int       `json:"rows"`
	Warnings  []Warning `json:"warnings,omitempty"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
