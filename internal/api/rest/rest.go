package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/tunemint/market-ledger/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Catalog reads (public access)
		v1.GET("/tokens", handler.ListTokens)
		v1.GET("/tokens/:id", handler.GetToken)
		v1.GET("/tokens/:id/listings/:seller", handler.GetListing)
		v1.GET("/tokens/:id/balances/:holder", handler.GetBalance)

		// Settlement operations (require authentication)
		v1.POST("/tokens", middleware.Auth(authCfg), handler.CreateToken)
		v1.POST("/tokens/:id/deactivate", middleware.Auth(authCfg), handler.DeactivateToken)
		v1.POST("/tokens/:id/mint", middleware.Auth(authCfg), handler.Mint)
		v1.POST("/tokens/:id/listings", middleware.Auth(authCfg), handler.ListForSale)
		v1.POST("/tokens/:id/purchases", middleware.Auth(authCfg), handler.Buy)
		v1.POST("/approvals", middleware.Auth(authCfg), handler.SetApproval)
	}
}
