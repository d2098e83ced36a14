package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/epeers/portfoliobuilder/internal/cache"
	"github.com/epeers/portfoliobuilder/internal/handlers"
	"github.com/epeers/portfoliobuilder/internal/models"
	"github.com/epeers/portfoliobuilder/internal/services"
	"github.com/epeers/portfoliobuilder/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var (
	dataOnce   sync.Once
	marketData *services.MarketData
	dataErr    error
)

func loadMarketData(t *testing.T) *services.MarketData {
	t.Helper()
	dataOnce.Do(func() {
		svc := services.NewPricingService(testutil.NewProvider(), 0, 365)
		marketData, dataErr = svc.LoadMarketData(context.Background(), []string{"QQQ", "XLV", "UUP", "TLT"})
	})
	if dataErr != nil {
		t.Fatalf("LoadMarketData failed: %v", dataErr)
	}
	return marketData
}

func setupRouter(t *testing.T, targetVol float64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log.SetLevel(log.WarnLevel)

	data := loadMarketData(t)
	svc := services.NewPortfolioService(data, cache.NewMemoryCache(0), targetVol, 0.02)
	return handlers.NewRouter(handlers.NewAllocationHandler(svc, data))
}

func get(router *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHealth(t *testing.T) {
	router := setupRouter(t, 0.15)
	w := get(router, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestPage_DefaultsToMedianRisk(t *testing.T) {
	router := setupRouter(t, 0.15)

	w := get(router, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()

	for _, want := range []string{
		"Automated Portfolio Builder",
		"Choose risk level:",
		`<option value="median risk" selected>`,
		"You selected: median risk",
		"Weight (%)",
		"median risk targets 15.0% annual volatility",
		"<table>",
		"QQQ", "XLV", "UUP", "TLT",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in page", want)
		}
	}
}

func TestPage_EchoesSelectionVerbatim(t *testing.T) {
	router := setupRouter(t, 0.15)

	for _, risk := range models.RiskLevels() {
		w := get(router, "/?risk="+url.QueryEscape(string(risk)))
		if w.Code != http.StatusOK {
			t.Fatalf("%q: expected 200, got %d", risk, w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, "You selected: "+string(risk)) {
			t.Errorf("expected selection %q echoed", risk)
		}
		if !strings.Contains(body, `<option value="`+string(risk)+`" selected>`) {
			t.Errorf("expected %q to be preselected", risk)
		}
	}
}

func TestPage_ShowsConfiguredTargetVolatility(t *testing.T) {
	router := setupRouter(t, 0.2)

	w := get(router, "/?risk="+url.QueryEscape("low risk"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "median risk targets 20.0% annual volatility") {
		t.Error("expected configured target volatility on page")
	}
}

func TestPage_UnknownRiskLevel(t *testing.T) {
	router := setupRouter(t, 0.15)

	w := get(router, "/?risk="+url.QueryEscape("yolo risk"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "You selected: yolo risk") {
		t.Error("expected raw selection echoed")
	}
	if !strings.Contains(body, "unknown risk level") {
		t.Error("expected error message on page")
	}
	if strings.Contains(body, "<table>") {
		t.Error("expected no weight table for unknown risk level")
	}
}

func TestPage_InfeasibleTarget(t *testing.T) {
	router := setupRouter(t, 0.001)

	w := get(router, "/?risk="+url.QueryEscape("median risk"))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "minimum achievable volatility") {
		t.Error("expected infeasibility message on page")
	}
}

func TestAllocationAPI(t *testing.T) {
	router := setupRouter(t, 0.15)

	want := map[models.RiskLevel]models.Objective{
		models.RiskLow:    models.ObjectiveMinVolatility,
		models.RiskMedian: models.ObjectiveEfficientRisk,
		models.RiskHigh:   models.ObjectiveMaxSharpe,
	}
	for risk, objective := range want {
		w := get(router, "/api/allocation?risk="+url.QueryEscape(string(risk)))
		if w.Code != http.StatusOK {
			t.Fatalf("%q: expected 200, got %d: %s", risk, w.Code, w.Body.String())
		}

		var a models.Allocation
		if err := json.Unmarshal(w.Body.Bytes(), &a); err != nil {
			t.Fatalf("failed to decode allocation: %v", err)
		}
		if a.Objective != objective {
			t.Errorf("%q: expected objective %s, got %s", risk, objective, a.Objective)
		}
		total := decimal.Zero
		for _, row := range a.Weights {
			total = total.Add(row.Percent)
		}
		if total.Sub(decimal.NewFromInt(100)).Abs().GreaterThan(decimal.RequireFromString("0.05")) {
			t.Errorf("%q: percentages sum to %s", risk, total)
		}
	}
}

func TestAllocationAPI_Errors(t *testing.T) {
	router := setupRouter(t, 0.001)

	w := get(router, "/api/allocation?risk=extreme")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var errResp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("failed to decode error: %v", err)
	}
	if errResp.Error != "bad_request" {
		t.Errorf("expected bad_request, got %q", errResp.Error)
	}

	w = get(router, "/api/allocation")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for infeasible default target, got %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("failed to decode error: %v", err)
	}
	if errResp.Error != "infeasible" {
		t.Errorf("expected infeasible, got %q", errResp.Error)
	}
}

func TestRiskLevelsAPI(t *testing.T) {
	router := setupRouter(t, 0.15)

	w := get(router, "/api/risk-levels")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp models.RiskLevelsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(resp.Choices) != 3 || resp.Default != models.RiskMedian {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestMarketDataAPI(t *testing.T) {
	router := setupRouter(t, 0.15)

	w := get(router, "/api/market-data")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp models.MarketDataResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(resp.Tickers) != 4 || resp.Rows == 0 {
		t.Errorf("unexpected response %+v", resp)
	}
}
