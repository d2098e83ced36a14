// Package testutil provides a deterministic market-data provider for tests.
package testutil

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/epeers/portfoliobuilder/internal/alphavantage"
)

// Profile shapes the synthetic daily returns of one ticker
type Profile struct {
	Drift     float64 // mean daily return
	Amplitude float64 // size of the oscillating component
	Frequency float64 // radians per day of the oscillation
	Phase     float64
}

// DefaultProfiles resemble the ETF universe: equity, healthcare, dollar, long bonds
var DefaultProfiles = map[string]Profile{
	"QQQ": {Drift: 0.0008, Amplitude: 0.018, Frequency: 0.9, Phase: 0.1},
	"XLV": {Drift: 0.0003, Amplitude: 0.012, Frequency: 1.7, Phase: 0.7},
	"UUP": {Drift: 0.0001, Amplitude: 0.004, Frequency: 2.3, Phase: 1.9},
	"TLT": {Drift: -0.0001, Amplitude: 0.010, Frequency: 0.4, Phase: 2.6},
}

// Call records one provider request
type Call struct {
	Symbol     string
	OutputSize string
	At         time.Time
}

// Provider serves synthetic weekday bars ending today
type Provider struct {
	Profiles map[string]Profile
	Days     int                  // calendar days of history, defaults to 300
	Skip     map[string]time.Time // a date to leave out for a symbol
	Fail     map[string]error

	mu    sync.Mutex
	calls []Call
}

// NewProvider creates a provider with DefaultProfiles
func NewProvider() *Provider {
	return &Provider{Profiles: DefaultProfiles}
}

// Calls returns the requests made so far
func (p *Provider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}

// GetDailyAdjusted implements services.PriceProvider
func (p *Provider) GetDailyAdjusted(ctx context.Context, symbol string, outputSize string) ([]alphavantage.ParsedPriceData, error) {
	p.mu.Lock()
	p.calls = append(p.calls, Call{Symbol: symbol, OutputSize: outputSize, At: time.Now()})
	p.mu.Unlock()

	if err := p.Fail[symbol]; err != nil {
		return nil, err
	}
	profile, ok := p.Profiles[symbol]
	if !ok {
		return nil, fmt.Errorf("unknown symbol %s", symbol)
	}

	days := p.Days
	if days == 0 {
		days = 300
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	skip, hasSkip := p.Skip[symbol]

	var bars []alphavantage.ParsedPriceData
	price := 100.0
	t := 0
	for d := today.AddDate(0, 0, -days); !d.After(today); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		price *= 1 + profile.Drift + profile.Amplitude*math.Sin(profile.Frequency*float64(t)+profile.Phase)
		t++
		if hasSkip && d.Equal(skip) {
			continue
		}
		bars = append(bars, alphavantage.ParsedPriceData{
			Date:          d,
			Open:          price,
			High:          price,
			Low:           price,
			Close:         price,
			AdjustedClose: price,
			Volume:        1000000,
		})
	}
	return bars, nil
}
