package optimizer

import (
	"fmt"
	"math"

	"github.com/epeers/portfoliobuilder/internal/models"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the annualization frequency for daily bars
const TradingDaysPerYear = 252

// Returns computes the daily simple returns of every column of the table.
// The result has one row fewer than the table.
func Returns(table *models.PriceTable) (*mat.Dense, error) {
	if table.Len() < 2 {
		return nil, fmt.Errorf("need at least 2 rows of prices, got %d", table.Len())
	}

	k := len(table.Tickers)
	out := mat.NewDense(table.Len()-1, k, nil)
	for r := 1; r < table.Len(); r++ {
		for c := 0; c < k; c++ {
			prev := table.Rows[r-1][c]
			if prev <= 0 {
				return nil, fmt.Errorf("non-positive price %v for %s on %s", prev, table.Tickers[c], table.Dates[r-1].Format("2006-01-02"))
			}
			out.Set(r-1, c, table.Rows[r][c]/prev-1)
		}
	}
	return out, nil
}

// MeanHistoricalReturn returns the compounded annualized return of each column:
// (last/first)^(frequency/nReturns) - 1.
func MeanHistoricalReturn(table *models.PriceTable, frequency int) ([]float64, error) {
	if table.Len() < 2 {
		return nil, fmt.Errorf("need at least 2 rows of prices, got %d", table.Len())
	}

	n := table.Len() - 1
	mu := make([]float64, len(table.Tickers))
	for c := range table.Tickers {
		first := table.Rows[0][c]
		last := table.Rows[n][c]
		if first <= 0 {
			return nil, fmt.Errorf("non-positive first price %v for %s", first, table.Tickers[c])
		}
		mu[c] = math.Pow(last/first, float64(frequency)/float64(n)) - 1
	}
	return mu, nil
}

// SampleCov returns the annualized sample covariance of daily returns
func SampleCov(table *models.PriceTable, frequency int) (*mat.SymDense, error) {
	returns, err := Returns(table)
	if err != nil {
		return nil, err
	}
	rows, k := returns.Dims()
	if rows < 2 {
		return nil, fmt.Errorf("need at least 2 returns for a covariance estimate, got %d", rows)
	}

	cov := mat.NewSymDense(k, nil)
	stat.CovarianceMatrix(cov, returns, nil)
	cov.ScaleSym(float64(frequency), cov)
	return cov, nil
}
