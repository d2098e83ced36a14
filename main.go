package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/epeers/portfoliobuilder/config"
	_ "github.com/epeers/portfoliobuilder/docs"
	"github.com/epeers/portfoliobuilder/internal/alphavantage"
	"github.com/epeers/portfoliobuilder/internal/cache"
	"github.com/epeers/portfoliobuilder/internal/handlers"
	"github.com/epeers/portfoliobuilder/internal/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// @title Automated Portfolio Builder API
// @version 1.0
// @description Mean-variance allocations over a fixed ETF universe for a qualitative risk level.
// @BasePath /
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.SetLevel(cfg.LogLevel)
	if cfg.LogLevel < log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	// Interrupting the startup fetch aborts it
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize AlphaVantage client
	avClient := alphavantage.NewClient(cfg.AVKey)

	// Fetch price history once at startup
	pricingSvc := services.NewPricingService(avClient, cfg.FetchDelay, cfg.LookbackDays)
	marketData, err := pricingSvc.LoadMarketData(ctx, config.Tickers)
	if err != nil {
		log.Fatalf("Failed to load market data: %v", err)
	}
	stop()
	summary := marketData.Summary()
	log.Infof("Loaded %d aligned rows for %v (%s to %s)", summary.Rows, summary.Tickers, summary.StartDate, summary.EndDate)

	// Initialize services and handlers
	memCache := cache.NewMemoryCache(0)
	portfolioSvc := services.NewPortfolioService(marketData, memCache, cfg.TargetVolatility, cfg.RiskFreeRate)
	allocationHandler := handlers.NewAllocationHandler(portfolioSvc, marketData)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handlers.NewRouter(allocationHandler),
	}

	// Start server in goroutine
	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Give outstanding requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Info("Server exited")
}
