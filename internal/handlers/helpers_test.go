package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"co_monitoring/internal/config"
	"co_monitoring/internal/models"
	"co_monitoring/internal/service"
)

// mockAnalytics records the last call and plays back configured data/errors.
type mockAnalytics struct {
	err           error
	readings      []models.TelemetryReading
	averages      []models.TentAverages
	maxima        []models.TentMaxima
	humidity      []models.HumidityCOPoint
	buckets       []models.TempBucket
	counts        map[string]int64
	trend         []models.COTrendPoint
	lastTent      string
	lastThreshold float64
	calls         int
}

func (m *mockAnalytics) Latest(_ context.Context, tentID string) ([]models.TelemetryReading, error) {
	m.calls++
	m.lastTent = tentID
	if m.err != nil {
		return nil, m.err
	}
	if m.readings == nil {
		return []models.TelemetryReading{}, nil
	}
	return m.readings, nil
}

func (m *mockAnalytics) AvgMetrics(_ context.Context, tentID string) ([]models.TentAverages, error) {
	m.calls++
	m.lastTent = tentID
	if m.err != nil {
		return nil, m.err
	}
	if m.averages == nil {
		return []models.TentAverages{}, nil
	}
	return m.averages, nil
}

func (m *mockAnalytics) MaxMetrics(_ context.Context, tentID string) ([]models.TentMaxima, error) {
	m.calls++
	m.lastTent = tentID
	if m.err != nil {
		return nil, m.err
	}
	if m.maxima == nil {
		return []models.TentMaxima{}, nil
	}
	return m.maxima, nil
}

func (m *mockAnalytics) HumidityCO(_ context.Context, tentID string) ([]models.HumidityCOPoint, error) {
	m.calls++
	m.lastTent = tentID
	if m.err != nil {
		return nil, m.err
	}
	if m.humidity == nil {
		return []models.HumidityCOPoint{}, nil
	}
	return m.humidity, nil
}

func (m *mockAnalytics) TempDist(_ context.Context, tentID string) ([]models.TempBucket, error) {
	m.calls++
	m.lastTent = tentID
	if m.err != nil {
		return nil, m.err
	}
	if m.buckets == nil {
		return []models.TempBucket{}, nil
	}
	return m.buckets, nil
}

func (m *mockAnalytics) AlertCounts(_ context.Context, thresholdPpm float64) (map[string]int64, error) {
	m.calls++
	m.lastThreshold = thresholdPpm
	if m.err != nil {
		return nil, m.err
	}
	if m.counts == nil {
		return map[string]int64{}, nil
	}
	return m.counts, nil
}

func (m *mockAnalytics) COTrend(_ context.Context, tentID string) ([]models.COTrendPoint, error) {
	m.calls++
	m.lastTent = tentID
	if m.err != nil {
		return nil, m.err
	}
	if m.trend == nil {
		return []models.COTrendPoint{}, nil
	}
	return m.trend, nil
}

func newTestRouter(analytics *mockAnalytics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	s := &service.Service{
		Analytics: analytics,
		Alerts:    service.NewAlertRegistry(),
	}
	cfg := &config.Config{
		Analytics: config.Analytics{AlertThresholdPpm: 120.0},
	}
	return NewHandler(s, cfg, nil).InitRoutes()
}

func testContextWithQuery(t *testing.T, query string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/ws?"+query, nil)
	return c
}
