package models

import "github.com/shopspring/decimal"

// Objective names the efficient-frontier solver used for an allocation
type Objective string

const (
	ObjectiveMinVolatility Objective = "min_volatility"
	ObjectiveEfficientRisk Objective = "efficient_risk"
	ObjectiveMaxSharpe     Objective = "max_sharpe"
)

// WeightRow is one line of the weight table
type WeightRow struct {
	Ticker  string          `json:"ticker"`
	Weight  float64         `json:"weight"`
	Percent decimal.Decimal `json:"weight_pct" swaggertype:"string" example:"42.17"`
}

// percentDecimals is the precision of the displayed weight percentages
const percentDecimals = 2

var hundred = decimal.NewFromInt(100)

// NewWeightRow converts a cleaned weight into a table row. Percentages are
// rounded half to even so ties match the usual float rounding of w*100.
func NewWeightRow(ticker string, weight float64) WeightRow {
	return WeightRow{
		Ticker:  ticker,
		Weight:  weight,
		Percent: decimal.NewFromFloat(weight).Mul(hundred).RoundBank(percentDecimals),
	}
}

// Performance holds the expected annual figures of a weighting
type Performance struct {
	ExpectedReturn float64 `json:"expected_return"`
	Volatility     float64 `json:"volatility"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
}

// Allocation is the optimizer result for one risk level
type Allocation struct {
	RiskLevel   RiskLevel   `json:"risk_level"`
	Objective   Objective   `json:"objective"`
	Weights     []WeightRow `json:"weights"`
	Performance Performance `json:"performance"`
	Warnings    []Warning   `json:"warnings,omitempty"`
}

// TotalPercent sums the rounded percentage weights
func (a *Allocation) TotalPercent() decimal.Decimal {
	total := decimal.Zero
	for _, w := range a.Weights {
		total = total.Add(w.Percent)
	}
	return total
}
