package restapi

import (
	"net/http"

	"token_balance/internal/infrastructure/configloader"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter builds the gin engine with the token API under /api/v1.
// metricsHandler is mounted at /metrics when not nil.
func SetupRouter(h *TokenHandler, cfg configloader.ServerConfig, metricsHandler http.Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(h.logger))

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	v1.Use(RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	{
		v1.GET("/networks", h.ListNetworksHandler)
		v1.GET("/tokens", h.ListTokensHandler)
		v1.GET("/tokens/:id/balance", h.GetBalanceHandler)
		v1.GET("/tokens/:id/contract", h.GetContractHandler)
		v1.GET("/tokens/:id/calldata/transfer", h.TransferCallDataHandler)
		v1.PUT("/tokens/:id/price", h.UpdatePriceHandler)
		v1.PUT("/balances/:network/:address", h.PutBalanceHandler)
	}

	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	return router
}
