package handlers

import (
	"co_monitoring/internal/config"
	"co_monitoring/internal/logger"
	"co_monitoring/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the HTTP layer to services and logging.
type Handler struct {
	services         *service.Service
	log              *logger.Logger
	defaultThreshold float64
}

// NewHandler constructs the HTTP handler with its dependencies.
func NewHandler(services *service.Service, cfg *config.Config, log *logger.Logger) *Handler {
	h := &Handler{services: services, log: log}
	if cfg != nil {
		h.defaultThreshold = cfg.Analytics.AlertThresholdPpm
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
// The analytics routes live at the root, matching the dashboard contract.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.corsMiddleware, h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	h.registerAnalyticsRoutes(router)
	h.registerAlertRoutes(router)

	// Live readings feed (HTTP upgrade) — same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAnalyticsRoutes(r *gin.Engine) {
	r.GET("/latest", h.latest)
	r.GET("/avg_metrics", h.avgMetrics)
	r.GET("/max_metrics", h.maxMetrics)
	r.GET("/humidity_co", h.humidityCO)
	r.GET("/temp_dist", h.tempDist)
	r.GET("/alert_counts", h.alertCounts)
	r.GET("/co_trend", h.coTrend)
}

func (h *Handler) registerAlertRoutes(r *gin.Engine) {
	r.POST("/acknowledge_alert", h.acknowledgeAlert)
	r.POST("/reset_alerts", h.resetAlerts)
}
