package optimizer

import (
	"errors"
	"fmt"
	"math"

	"github.com/epeers/portfoliobuilder/internal/models"
	"gonum.org/v1/gonum/mat"
)

// DefaultRiskFreeRate is the annual risk-free rate used by MaxSharpe
const DefaultRiskFreeRate = 0.02

var (
	ErrInfeasibleTarget     = errors.New("target volatility is below the minimum achievable volatility")
	ErrNoAssetAboveRiskFree = errors.New("at least one asset must have an expected return exceeding the risk-free rate")
	ErrNotSolved            = errors.New("weights have not been computed yet")
)

// Weight is a ticker's share of the portfolio
type Weight struct {
	Ticker string
	Value  float64
}

// EfficientFrontier solves long-only mean-variance problems over a fixed
// set of assets. Weights are bounded to [0, 1] and sum to 1.
// An EfficientFrontier is not safe for concurrent use; build one per solve.
type EfficientFrontier struct {
	tickers []string
	mu      *mat.VecDense
	cov     *mat.SymDense

	// RiskFreeRate is the annual rate MaxSharpe and PortfolioPerformance measure excess return against
	RiskFreeRate float64

	weights []float64
}

// NewEfficientFrontier creates a frontier for the expected returns and covariance matrix
func NewEfficientFrontier(tickers []string, mu []float64, cov *mat.SymDense) (*EfficientFrontier, error) {
	n := len(tickers)
	if n == 0 {
		return nil, fmt.Errorf("no tickers provided")
	}
	if len(mu) != n {
		return nil, fmt.Errorf("expected returns size %d doesn't match tickers count %d", len(mu), n)
	}
	if cov == nil || cov.SymmetricDim() != n {
		return nil, fmt.Errorf("covariance matrix doesn't match tickers count %d", n)
	}
	for i := 0; i < n; i++ {
		if math.IsNaN(mu[i]) || math.IsNaN(cov.At(i, i)) {
			return nil, fmt.Errorf("NaN estimate for %s", tickers[i])
		}
	}

	return &EfficientFrontier{
		tickers:      append([]string(nil), tickers...),
		mu:           mat.NewVecDense(n, append([]float64(nil), mu...)),
		cov:          cov,
		RiskFreeRate: DefaultRiskFreeRate,
	}, nil
}

// MinVolatility finds the portfolio with the lowest volatility
func (ef *EfficientFrontier) MinVolatility() ([]Weight, error) {
	w, err := ef.minVolatility()
	if err != nil {
		return nil, err
	}
	ef.weights = w
	return ef.named(w), nil
}

// EfficientRisk maximizes expected return for a volatility no greater than target
func (ef *EfficientFrontier) EfficientRisk(targetVolatility float64) ([]Weight, error) {
	if targetVolatility <= 0 {
		return nil, fmt.Errorf("target volatility must be positive, got %v", targetVolatility)
	}

	wMin, err := ef.minVolatility()
	if err != nil {
		return nil, err
	}
	minVol := ef.volatility(wMin)
	if minVol > targetVolatility+1e-6 {
		return nil, fmt.Errorf("%w: minimum volatility is %.3f, target is %.3f", ErrInfeasibleTarget, minVol, targetVolatility)
	}

	// The highest-return portfolio is fully invested in the best asset.
	best := 0
	for i := 1; i < ef.mu.Len(); i++ {
		if ef.mu.AtVec(i) > ef.mu.AtVec(best) {
			best = i
		}
	}
	corner := make([]float64, ef.mu.Len())
	corner[best] = 1
	if ef.volatility(corner) <= targetVolatility {
		ef.weights = corner
		return ef.named(corner), nil
	}

	// Bisect on risk aversion: volatility falls as aversion rises.
	lo, hi := math.Log(1e-3), math.Log(1e5)
	feasible := wMin
	w := wMin
	for iter := 0; iter < 50; iter++ {
		mid := (lo + hi) / 2
		aversion := math.Exp(mid)
		w, err = minimizeOnSimplex(func(x []float64) float64 {
			return aversion*ef.variance(x) - ef.expectedReturn(x)
		}, w)
		if err != nil {
			return nil, err
		}

		vol := ef.volatility(w)
		if vol > targetVolatility {
			lo = mid
		} else {
			hi = mid
			feasible = w
			if targetVolatility-vol < 1e-7 {
				break
			}
		}
	}

	ef.weights = feasible
	return ef.named(feasible), nil
}

// MaxSharpe finds the tangency portfolio, maximizing (return - RiskFreeRate) / volatility
func (ef *EfficientFrontier) MaxSharpe() ([]Weight, error) {
	n := ef.mu.Len()
	anyAbove := false
	for i := 0; i < n; i++ {
		if ef.mu.AtVec(i) > ef.RiskFreeRate {
			anyAbove = true
			break
		}
	}
	if !anyAbove {
		return nil, ErrNoAssetAboveRiskFree
	}

	objective := func(w []float64) float64 {
		vol := math.Sqrt(math.Max(ef.variance(w), 1e-18))
		return -(ef.expectedReturn(w) - ef.RiskFreeRate) / vol
	}

	// Start from the best of equal weights and the single-asset corners so the
	// search begins where excess return is positive.
	init := equalWeights(n)
	bestF := objective(init)
	for i := 0; i < n; i++ {
		corner := make([]float64, n)
		corner[i] = 1
		if f := objective(corner); f < bestF {
			init, bestF = corner, f
		}
	}

	w, err := minimizeOnSimplex(objective, init)
	if err != nil {
		return nil, err
	}
	ef.weights = w
	return ef.named(w), nil
}

// Weights returns the last solved weights
func (ef *EfficientFrontier) Weights() ([]Weight, error) {
	if ef.weights == nil {
		return nil, ErrNotSolved
	}
	return ef.named(ef.weights), nil
}

// CleanWeights zeroes weights whose magnitude is below cutoff and rounds the
// rest to the given number of decimals. The solved weights are left untouched.
func (ef *EfficientFrontier) CleanWeights(cutoff float64, rounding int) ([]Weight, error) {
	if ef.weights == nil {
		return nil, ErrNotSolved
	}
	scale := math.Pow(10, float64(rounding))
	out := ef.named(ef.weights)
	for i := range out {
		if math.Abs(out[i].Value) < cutoff {
			out[i].Value = 0
			continue
		}
		out[i].Value = math.Round(out[i].Value*scale) / scale
	}
	return out, nil
}

// PortfolioPerformance returns the expected annual return, volatility and
// Sharpe ratio of the last solved weights.
func (ef *EfficientFrontier) PortfolioPerformance() (models.Performance, error) {
	if ef.weights == nil {
		return models.Performance{}, ErrNotSolved
	}
	ret := ef.expectedReturn(ef.weights)
	vol := ef.volatility(ef.weights)
	perf := models.Performance{
		ExpectedReturn: ret,
		Volatility:     vol,
	}
	if vol > 0 {
		perf.SharpeRatio = (ret - ef.RiskFreeRate) / vol
	}
	return perf, nil
}

func (ef *EfficientFrontier) minVolatility() ([]float64, error) {
	return minimizeOnSimplex(ef.variance, equalWeights(ef.mu.Len()))
}

func (ef *EfficientFrontier) variance(w []float64) float64 {
	v := mat.NewVecDense(len(w), w)
	return mat.Inner(v, ef.cov, v)
}

func (ef *EfficientFrontier) volatility(w []float64) float64 {
	return math.Sqrt(math.Max(ef.variance(w), 0))
}

func (ef *EfficientFrontier) expectedReturn(w []float64) float64 {
	return mat.Dot(ef.mu, mat.NewVecDense(len(w), w))
}

func (ef *EfficientFrontier) named(w []float64) []Weight {
	out := make([]Weight, len(w))
	for i, v := range w {
		out[i] = Weight{Ticker: ef.tickers[i], Value: v}
	}
	return out
}

func equalWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}
	return w
}
