package services_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/epeers/portfoliobuilder/internal/cache"
	"github.com/epeers/portfoliobuilder/internal/models"
	"github.com/epeers/portfoliobuilder/internal/optimizer"
	"github.com/epeers/portfoliobuilder/internal/services"
	"github.com/epeers/portfoliobuilder/internal/testutil"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/mat"
)

func newPortfolioService(t *testing.T, targetVol float64) *services.PortfolioService {
	t.Helper()
	data, err := services.NewPricingService(testutil.NewProvider(), 0, 365).LoadMarketData(context.Background(), tickers)
	if err != nil {
		t.Fatalf("LoadMarketData failed: %v", err)
	}
	return services.NewPortfolioService(data, cache.NewMemoryCache(0), targetVol, 0.02)
}

func TestOptimize_DispatchesRiskLevelToObjective(t *testing.T) {
	svc := newPortfolioService(t, 0.15)

	want := map[models.RiskLevel]models.Objective{
		models.RiskLow:    models.ObjectiveMinVolatility,
		models.RiskMedian: models.ObjectiveEfficientRisk,
		models.RiskHigh:   models.ObjectiveMaxSharpe,
	}
	for risk, objective := range want {
		a, err := svc.Optimize(context.Background(), risk)
		if err != nil {
			t.Fatalf("Optimize(%q) failed: %v", risk, err)
		}
		if a.Objective != objective {
			t.Errorf("Optimize(%q) used %s, expected %s", risk, a.Objective, objective)
		}
		if a.RiskLevel != risk {
			t.Errorf("expected risk level %q echoed, got %q", risk, a.RiskLevel)
		}
	}
}

func TestOptimize_PercentagesSumToHundred(t *testing.T) {
	svc := newPortfolioService(t, 0.15)

	for _, risk := range models.RiskLevels() {
		a, err := svc.Optimize(context.Background(), risk)
		if err != nil {
			t.Fatalf("Optimize(%q) failed: %v", risk, err)
		}
		if len(a.Weights) != 4 {
			t.Fatalf("expected 4 weight rows, got %d", len(a.Weights))
		}
		diff := a.TotalPercent().Sub(decimal.NewFromInt(100)).Abs()
		if diff.GreaterThan(decimal.RequireFromString("0.05")) {
			t.Errorf("%q percentages sum to %s", risk, a.TotalPercent())
		}
		for _, w := range a.Weights {
			if w.Percent.Exponent() < -2 {
				t.Errorf("%s percent %s has more than 2 decimals", w.Ticker, w.Percent)
			}
			if w.Weight < 0 || w.Weight > 1 {
				t.Errorf("%s weight %v out of bounds", w.Ticker, w.Weight)
			}
		}
	}
}

func TestOptimize_RiskLevelsAreOrdered(t *testing.T) {
	svc := newPortfolioService(t, 0.15)
	ctx := context.Background()

	low, err := svc.Optimize(ctx, models.RiskLow)
	if err != nil {
		t.Fatalf("low risk failed: %v", err)
	}
	median, err := svc.Optimize(ctx, models.RiskMedian)
	if err != nil {
		t.Fatalf("median risk failed: %v", err)
	}
	high, err := svc.Optimize(ctx, models.RiskHigh)
	if err != nil {
		t.Fatalf("high risk failed: %v", err)
	}

	if low.Performance.Volatility > median.Performance.Volatility+1e-6 ||
		low.Performance.Volatility > high.Performance.Volatility+1e-6 {
		t.Errorf("low risk volatility %v is not the lowest", low.Performance.Volatility)
	}
	if median.Performance.Volatility > 0.15+1e-6 {
		t.Errorf("median risk volatility %v exceeds the target", median.Performance.Volatility)
	}
	if high.Performance.SharpeRatio < low.Performance.SharpeRatio-1e-6 ||
		high.Performance.SharpeRatio < median.Performance.SharpeRatio-1e-6 {
		t.Errorf("high risk Sharpe %v is not the highest", high.Performance.SharpeRatio)
	}
}

func TestOptimize_InvalidRiskLevel(t *testing.T) {
	svc := newPortfolioService(t, 0.15)

	_, err := svc.Optimize(context.Background(), models.RiskLevel("extreme risk"))
	if !errors.Is(err, models.ErrInvalidRiskLevel) {
		t.Fatalf("expected ErrInvalidRiskLevel, got %v", err)
	}
}

func TestOptimize_InfeasibleTargetPropagates(t *testing.T) {
	svc := newPortfolioService(t, 0.001)

	_, err := svc.Optimize(context.Background(), models.RiskMedian)
	if !errors.Is(err, optimizer.ErrInfeasibleTarget) {
		t.Fatalf("expected ErrInfeasibleTarget, got %v", err)
	}

	// a failed solve is not cached
	if _, err := svc.Optimize(context.Background(), models.RiskMedian); !errors.Is(err, optimizer.ErrInfeasibleTarget) {
		t.Fatalf("expected ErrInfeasibleTarget on retry, got %v", err)
	}
}

func TestOptimize_CachesAndSharesResults(t *testing.T) {
	svc := newPortfolioService(t, 0.15)

	var wg sync.WaitGroup
	results := make([]*models.Allocation, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, err := svc.Optimize(context.Background(), models.RiskHigh)
			if err != nil {
				t.Errorf("Optimize failed: %v", err)
				return
			}
			results[i] = a
		}(i)
	}
	wg.Wait()

	again, err := svc.Optimize(context.Background(), models.RiskHigh)
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	for i, a := range results {
		if a == nil {
			continue
		}
		for j := range a.Weights {
			if math.Abs(a.Weights[j].Weight-again.Weights[j].Weight) > 0 {
				t.Errorf("result %d differs from cached allocation", i)
				break
			}
		}
	}
}

func TestOptimize_WarnsWhenCleaningZeroesAWeight(t *testing.T) {
	// WILD is so volatile that the minimum-volatility weight lands near 5e-5,
	// below the clean-up cutoff.
	data := &services.MarketData{
		Table:           &models.PriceTable{Tickers: []string{"AAA", "WILD"}},
		ExpectedReturns: []float64{0.08, 0.05},
		Covariance:      mat.NewSymDense(2, []float64{0.01, 0, 0, 200}),
	}
	svc := services.NewPortfolioService(data, cache.NewMemoryCache(0), 0.15, 0.02)

	a, err := svc.Optimize(context.Background(), models.RiskLow)
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	if a.Weights[1].Ticker != "WILD" || a.Weights[1].Weight != 0 {
		t.Errorf("expected WILD weight cleaned to 0, got %+v", a.Weights[1])
	}
	if !a.Weights[1].Percent.IsZero() {
		t.Errorf("expected WILD percent 0, got %s", a.Weights[1].Percent)
	}
	if a.Weights[0].Weight < 0.999 {
		t.Errorf("expected AAA to carry the portfolio, got %v", a.Weights[0].Weight)
	}

	var cleaned []models.Warning
	for _, w := range a.Warnings {
		if w.Code == models.WarnWeightsCleaned {
			cleaned = append(cleaned, w)
		}
	}
	if len(cleaned) != 1 {
		t.Fatalf("expected one %s warning, got %v", models.WarnWeightsCleaned, a.Warnings)
	}
	if !strings.Contains(cleaned[0].Message, "WILD") {
		t.Errorf("expected warning to name WILD, got %q", cleaned[0].Message)
	}
	// the solver's raw weight was positive, so the message reports a non-zero value
	if strings.Contains(cleaned[0].Message, "weight 0.00e+00") {
		t.Errorf("expected a non-zero raw weight in %q", cleaned[0].Message)
	}
}
