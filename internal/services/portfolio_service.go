package services

import (
	"context"
	"fmt"
	"time"

	"github.com/epeers/portfoliobuilder/internal/cache"
	"github.com/epeers/portfoliobuilder/internal/models"
	"github.com/epeers/portfoliobuilder/internal/optimizer"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	// cleanCutoff and cleanRounding are applied to solved weights before display
	cleanCutoff   = 1e-4
	cleanRounding = 5
)

// PortfolioService builds allocations for a risk level from the loaded market data
type PortfolioService struct {
	data             *MarketData
	targetVolatility float64
	riskFreeRate     float64
	cache            *cache.MemoryCache
	group            singleflight.Group
}

// NewPortfolioService creates a new PortfolioService
func NewPortfolioService(data *MarketData, memCache *cache.MemoryCache, targetVolatility, riskFreeRate float64) *PortfolioService {
	return &PortfolioService{
		data:             data,
		targetVolatility: targetVolatility,
		riskFreeRate:     riskFreeRate,
		cache:            memCache,
	}
}

// TargetVolatility is the annual volatility the median risk level aims for
func (s *PortfolioService) TargetVolatility() float64 {
	return s.targetVolatility
}

// Optimize returns the allocation for a risk level. Results are cached per
// level and concurrent requests for the same level share one solve.
// The returned allocation is shared and must not be modified.
func (s *PortfolioService) Optimize(ctx context.Context, risk models.RiskLevel) (*models.Allocation, error) {
	if _, err := models.ParseRiskLevel(string(risk)); err != nil {
		return nil, fmt.Errorf("%w: %q", err, risk)
	}

	if allocation, ok := s.cache.GetAllocation(risk); ok {
		return allocation, nil
	}

	v, err, shared := s.group.Do(string(risk), func() (interface{}, error) {
		allocation, err := s.solve(ctx, risk)
		if err != nil {
			return nil, err
		}
		s.cache.SetAllocation(risk, allocation)
		return allocation, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debugf("allocation for %q shared with a concurrent request", risk)
	}
	return v.(*models.Allocation), nil
}

// solve dispatches the risk level to its efficient-frontier objective
func (s *PortfolioService) solve(ctx context.Context, risk models.RiskLevel) (*models.Allocation, error) {
	defer TrackTime("solve "+string(risk), time.Now())
	ctx, wc := NewWarningContext(ctx)

	ef, err := optimizer.NewEfficientFrontier(s.data.Table.Tickers, s.data.ExpectedReturns, s.data.Covariance)
	if err != nil {
		return nil, fmt.Errorf("failed to build efficient frontier: %w", err)
	}
	ef.RiskFreeRate = s.riskFreeRate

	var objective models.Objective
	switch risk {
	case models.RiskLow:
		objective = models.ObjectiveMinVolatility
		_, err = ef.MinVolatility()
	case models.RiskMedian:
		objective = models.ObjectiveEfficientRisk
		_, err = ef.EfficientRisk(s.targetVolatility)
	case models.RiskHigh:
		objective = models.ObjectiveMaxSharpe
		_, err = ef.MaxSharpe()
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidRiskLevel, risk)
	}
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", objective, err)
	}

	raw, err := ef.Weights()
	if err != nil {
		return nil, err
	}
	cleaned, err := ef.CleanWeights(cleanCutoff, cleanRounding)
	if err != nil {
		return nil, err
	}
	perf, err := ef.PortfolioPerformance()
	if err != nil {
		return nil, err
	}

	rows := make([]models.WeightRow, len(cleaned))
	for i, w := range cleaned {
		if w.Value == 0 && raw[i].Value != 0 {
			AddWarning(ctx, models.Warning{
				Code:    models.WarnWeightsCleaned,
				Message: fmt.Sprintf("weight %.2e for %s is below the %.0e cutoff and was set to 0", raw[i].Value, w.Ticker, cleanCutoff),
			})
		}
		rows[i] = models.NewWeightRow(w.Ticker, w.Value)
	}

	log.WithFields(log.Fields{
		"risk":       risk,
		"objective":  objective,
		"return":     perf.ExpectedReturn,
		"volatility": perf.Volatility,
		"sharpe":     perf.SharpeRatio,
	}).Info("Solved allocation")

	return &models.Allocation{
		RiskLevel:   risk,
		Objective:   objective,
		Weights:     rows,
		Performance: perf,
		Warnings:    wc.GetWarnings(),
	}, nil
}
