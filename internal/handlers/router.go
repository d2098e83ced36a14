package handlers

import (
	"net/http"

	"github.com/epeers/portfoliobuilder/internal/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter wires the form, API, health and swagger routes
func NewRouter(allocationHandler *AllocationHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())
	router.SetHTMLTemplate(Templates())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/", allocationHandler.Page)

	api := router.Group("/api")
	api.GET("/allocation", allocationHandler.Allocation)
	api.GET("/risk-levels", allocationHandler.RiskLevels)
	api.GET("/market-data", allocationHandler.MarketData)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
