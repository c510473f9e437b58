package service

import (
	"context"
	"time"

	"co_monitoring/internal/config"
	"co_monitoring/internal/gateway"
	"co_monitoring/internal/logger"
	"co_monitoring/internal/models"
	"co_monitoring/internal/storage"
)

// Analytics exposes the read-only dashboard queries, one per endpoint.
type Analytics interface {
	Latest(ctx context.Context, tentID string) ([]models.TelemetryReading, error)
	AvgMetrics(ctx context.Context, tentID string) ([]models.TentAverages, error)
	MaxMetrics(ctx context.Context, tentID string) ([]models.TentMaxima, error)
	HumidityCO(ctx context.Context, tentID string) ([]models.HumidityCOPoint, error)
	TempDist(ctx context.Context, tentID string) ([]models.TempBucket, error)
	AlertCounts(ctx context.Context, thresholdPpm float64) (map[string]int64, error)
	COTrend(ctx context.Context, tentID string) ([]models.COTrendPoint, error)
}

// Alerts tracks which alert popups the dashboard has acknowledged. Held in
// process memory only; there is deliberately no alert history.
type Alerts interface {
	Acknowledge(key string) error
	Acknowledged(key string) bool
	Keys() []string
	Reset()
}

// Simulator runs the background loop that generates telemetry readings.
// Stop via context cancellation in main() for graceful shutdown.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
}

// Service aggregates all sub-services.
type Service struct {
	Analytics
	Alerts
	Simulator
}

// NewService wires the gateway and the reading sink into concrete services.
func NewService(gw *gateway.Gateway, sink storage.ReadingSink, cfg *config.Config, log *logger.Logger) *Service {
	return &Service{
		Analytics: gw,
		Alerts:    NewAlertRegistry(),
		Simulator: NewSimulatorService(sink, cfg.Simulator, log),
	}
}
