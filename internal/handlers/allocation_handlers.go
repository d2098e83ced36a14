package handlers

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/epeers/portfoliobuilder/internal/models"
	"github.com/epeers/portfoliobuilder/internal/optimizer"
	"github.com/epeers/portfoliobuilder/internal/render"
	"github.com/epeers/portfoliobuilder/internal/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const pageTitle = "Automated Portfolio Builder"

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the HTML templates served by AllocationHandler
func Templates() *template.Template {
	funcs := template.FuncMap{
		"pct": func(v float64) float64 { return v * 100 },
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

// AllocationHandler serves the risk form and the allocation API
type AllocationHandler struct {
	portfolioSvc *services.PortfolioService
	marketData   *services.MarketData
}

// NewAllocationHandler creates a new AllocationHandler
func NewAllocationHandler(portfolioSvc *services.PortfolioService, marketData *services.MarketData) *AllocationHandler {
	return &AllocationHandler{
		portfolioSvc: portfolioSvc,
		marketData:   marketData,
	}
}

type pageData struct {
	Title            string
	Choices          []models.RiskLevel
	Selected         models.RiskLevel
	SelectedText     string
	TargetVolatility float64
	Table            template.HTML
	Allocation       *models.Allocation
	Error            string
}

// Page handles GET /
// It renders the risk selector, echoes the selection and shows the weight table.
func (h *AllocationHandler) Page(c *gin.Context) {
	raw := c.DefaultQuery("risk", string(models.DefaultRiskLevel))
	data := pageData{
		Title:            pageTitle,
		Choices:          models.RiskLevels(),
		Selected:         models.DefaultRiskLevel,
		SelectedText:     render.SelectedText(raw),
		TargetVolatility: h.portfolioSvc.TargetVolatility(),
	}

	risk, err := models.ParseRiskLevel(raw)
	if err != nil {
		data.Error = "unknown risk level " + raw
		c.HTML(http.StatusBadRequest, "index.html", data)
		return
	}
	data.Selected = risk

	allocation, err := h.portfolioSvc.Optimize(c.Request.Context(), risk)
	if err != nil {
		status, _ := errorStatus(err)
		log.Errorf("optimization for %q failed: %v", risk, err)
		data.Error = err.Error()
		c.HTML(status, "index.html", data)
		return
	}

	table, err := render.WeightsHTML(allocation)
	if err != nil {
		data.Error = err.Error()
		c.HTML(http.StatusInternalServerError, "index.html", data)
		return
	}
	data.Table = table
	data.Allocation = allocation

	c.HTML(http.StatusOK, "index.html", data)
}

// Allocation handles GET /api/allocation
// @Summary Optimize the ETF portfolio for a risk level
// @Description Runs the efficient-frontier objective mapped to the risk level and returns cleaned weights
// @Tags allocation
// @Produce json
// @Param risk query string false "Risk level" Enums(low risk, median risk, high risk) default(median risk)
// @Success 200 {object} models.Allocation
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/allocation [get]
func (h *AllocationHandler) Allocation(c *gin.Context) {
	raw := c.DefaultQuery("risk", string(models.DefaultRiskLevel))
	risk, err := models.ParseRiskLevel(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: "risk must be one of 'low risk', 'median risk', 'high risk'",
		})
		return
	}

	allocation, err := h.portfolioSvc.Optimize(c.Request.Context(), risk)
	if err != nil {
		status, code := errorStatus(err)
		c.JSON(status, models.ErrorResponse{
			Error:   code,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, allocation)
}

// RiskLevels handles GET /api/risk-levels
// @Summary List risk levels
// @Tags allocation
// @Produce json
// @Success 200 {object} models.RiskLevelsResponse
// @Router /api/risk-levels [get]
func (h *AllocationHandler) RiskLevels(c *gin.Context) {
	c.JSON(http.StatusOK, models.RiskLevelsResponse{
		Choices: models.RiskLevels(),
		Default: models.DefaultRiskLevel,
	})
}

// MarketData handles GET /api/market-data
// @Summary Describe the price history loaded at startup
// @Tags allocation
// @Produce json
// @Success 200 {object} models.MarketDataResponse
// @Router /api/market-data [get]
func (h *AllocationHandler) MarketData(c *gin.Context) {
	c.JSON(http.StatusOK, h.marketData.Summary())
}

// errorStatus maps optimization errors to an HTTP status and error code
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrInvalidRiskLevel):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, optimizer.ErrInfeasibleTarget), errors.Is(err, optimizer.ErrNoAssetAboveRiskFree):
		return http.StatusUnprocessableEntity, "infeasible"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
