package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Tickers is the fixed ETF universe the builder optimizes over
var Tickers = []string{"QQQ", "XLV", "UUP", "TLT"}

// Config holds application configuration loaded from environment variables
type Config struct {
	AVKey            string
	Port             string
	TargetVolatility float64
	RiskFreeRate     float64
	FetchDelay       time.Duration
	LookbackDays     int
	LogLevel         log.Level
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first; variables already
// set in the shell take precedence over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	avKey := os.Getenv("AV_KEY")
	if avKey == "" {
		return nil, fmt.Errorf("AV_KEY environment variable is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	targetVol, err := floatEnv("TARGET_VOLATILITY", 0.15)
	if err != nil {
		return nil, err
	}
	if targetVol <= 0 {
		return nil, fmt.Errorf("TARGET_VOLATILITY must be positive, got %v", targetVol)
	}

	riskFree, err := floatEnv("RISK_FREE_RATE", 0.02)
	if err != nil {
		return nil, err
	}

	fetchDelay := 200 * time.Millisecond
	if v := os.Getenv("FETCH_DELAY"); v != "" {
		fetchDelay, err = time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid FETCH_DELAY %q: %w", v, err)
		}
	}

	lookback := 365
	if v := os.Getenv("LOOKBACK_DAYS"); v != "" {
		lookback, err = strconv.Atoi(v)
		if err != nil || lookback <= 0 {
			return nil, fmt.Errorf("invalid LOOKBACK_DAYS %q", v)
		}
	}

	level := log.InfoLevel
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level, err = log.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", v, err)
		}
	}

	return &Config{
		AVKey:            avKey,
		Port:             port,
		TargetVolatility: targetVol,
		RiskFreeRate:     riskFree,
		FetchDelay:       fetchDelay,
		LookbackDays:     lookback,
		LogLevel:         level,
	}, nil
}

func floatEnv(name string, def float64) (float64, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	return f, nil
}
