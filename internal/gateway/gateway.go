// Package gateway maps each analytics endpoint onto one query against
// structured storage, drives the asynchronous job to a terminal state and
// normalizes the rows into fixed response shapes.
package gateway

import (
	"context"
	"fmt"
	"math"
	"time"

	"co_monitoring/internal/engine"
	"co_monitoring/internal/logger"
	"co_monitoring/internal/models"
)

// Options tune query shaping and the job lifecycle. Zero values fall back to
// the defaults below.
type Options struct {
	Table            string
	LatestLimit      int
	TempBucketWidthC float64
	PollInterval     time.Duration
	QueryTimeout     time.Duration
	MaxAttempts      int
	RetryBackoff     time.Duration
}

const (
	defaultTable        = "readings"
	defaultLatestLimit  = 20
	defaultBucketWidthC = 2.0
	defaultPollInterval = time.Second
	defaultQueryTimeout = 30 * time.Second
	defaultMaxAttempts  = 3
	defaultRetryBackoff = 200 * time.Millisecond
)

// Gateway is stateless apart from its configuration; operations are safe to
// call concurrently and never write to storage.
type Gateway struct {
	engine engine.Client
	opts   Options
	clock  Clock
	log    *logger.Logger
}

func New(eng engine.Client, opts Options, log *logger.Logger) *Gateway {
	if opts.Table == "" {
		opts.Table = defaultTable
	}
	if opts.LatestLimit <= 0 {
		opts.LatestLimit = defaultLatestLimit
	}
	if opts.TempBucketWidthC <= 0 {
		opts.TempBucketWidthC = defaultBucketWidthC
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = defaultQueryTimeout
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = defaultRetryBackoff
	}
	return &Gateway{engine: eng, opts: opts, clock: realClock{}, log: log}
}

// WithClock replaces the wall clock; tests use it to simulate slow jobs.
func (g *Gateway) WithClock(c Clock) *Gateway {
	g.clock = c
	return g
}

// Latest returns the most recent readings, newest first, bounded to the
// configured limit per tent.
func (g *Gateway) Latest(ctx context.Context, tentID string) ([]models.TelemetryReading, error) {
	filter, err := tentFilter(tentID)
	if err != nil {
		return nil, err
	}
	rs, err := g.runQuery(ctx, fmt.Sprintf(latestSQL, g.opts.Table, filter, g.opts.LatestLimit))
	if err != nil {
		return nil, err
	}
	t, err := newTable(rs, "tent_id", "ts", "temperature_c", "humidity_pct", "co_ppm")
	if err != nil {
		return nil, err
	}
	out := make([]models.TelemetryReading, 0, t.len())
	for i := 0; i < t.len(); i++ {
		out = append(out, models.TelemetryReading{
			TentID:       t.str(i, "tent_id"),
			Timestamp:    t.integer(i, "ts"),
			TemperatureC: t.float(i, "temperature_c"),
			HumidityPct:  t.float(i, "humidity_pct"),
			COPpm:        t.float(i, "co_ppm"),
		})
	}
	return out, nil
}

// AvgMetrics returns per-tent averages over all stored readings.
func (g *Gateway) AvgMetrics(ctx context.Context, tentID string) ([]models.TentAverages, error) {
	filter, err := tentFilter(tentID)
	if err != nil {
		return nil, err
	}
	rs, err := g.runQuery(ctx, fmt.Sprintf(avgMetricsSQL, g.opts.Table, filter))
	if err != nil {
		return nil, err
	}
	t, err := newTable(rs, "tent_id", "avg_temp", "avg_humidity", "avg_co")
	if err != nil {
		return nil, err
	}
	out := make([]models.TentAverages, 0, t.len())
	for i := 0; i < t.len(); i++ {
		out = append(out, models.TentAverages{
			TentID:      t.str(i, "tent_id"),
			AvgTemp:     t.float(i, "avg_temp"),
			AvgHumidity: t.float(i, "avg_humidity"),
			AvgCO:       t.float(i, "avg_co"),
		})
	}
	return out, nil
}

// MaxMetrics returns per-tent maxima over all stored readings.
func (g *Gateway) MaxMetrics(ctx context.Context, tentID string) ([]models.TentMaxima, error) {
	filter, err := tentFilter(tentID)
	if err != nil {
		return nil, err
	}
	rs, err := g.runQuery(ctx, fmt.Sprintf(maxMetricsSQL, g.opts.Table, filter))
	if err != nil {
		return nil, err
	}
	t, err := newTable(rs, "tent_id", "max_temp", "max_humidity", "max_co")
	if err != nil {
		return nil, err
	}
	out := make([]models.TentMaxima, 0, t.len())
	for i := 0; i < t.len(); i++ {
		out = append(out, models.TentMaxima{
			TentID:      t.str(i, "tent_id"),
			MaxTemp:     t.float(i, "max_temp"),
			MaxHumidity: t.float(i, "max_humidity"),
			MaxCO:       t.float(i, "max_co"),
		})
	}
	return out, nil
}

// HumidityCO returns average CO per humidity level, ordered by humidity, for
// scatter-plot consumption.
func (g *Gateway) HumidityCO(ctx context.Context, tentID string) ([]models.HumidityCOPoint, error) {
	filter, err := tentFilter(tentID)
	if err != nil {
		return nil, err
	}
	rs, err := g.runQuery(ctx, fmt.Sprintf(humidityCOSQL, g.opts.Table, filter))
	if err != nil {
		return nil, err
	}
	t, err := newTable(rs, "humidity_pct", "co_ppm")
	if err != nil {
		return nil, err
	}
	out := make([]models.HumidityCOPoint, 0, t.len())
	for i := 0; i < t.len(); i++ {
		out = append(out, models.HumidityCOPoint{
			HumidityPct: t.float(i, "humidity_pct"),
			COPpm:       t.float(i, "co_ppm"),
		})
	}
	return out, nil
}

// TempDist returns the temperature histogram in fixed-width buckets, ordered
// ascending. The query groups by truncated bucket index; the bounds are
// derived here.
func (g *Gateway) TempDist(ctx context.Context, tentID string) ([]models.TempBucket, error) {
	filter, err := tentFilter(tentID)
	if err != nil {
		return nil, err
	}
	width := g.opts.TempBucketWidthC
	rs, err := g.runQuery(ctx, fmt.Sprintf(tempDistSQL, g.opts.Table, filter, sqlFloat(width)))
	if err != nil {
		return nil, err
	}
	t, err := newTable(rs, "bucket", "count")
	if err != nil {
		return nil, err
	}
	out := make([]models.TempBucket, 0, t.len())
	for i := 0; i < t.len(); i++ {
		low := float64(t.integer(i, "bucket")) * width
		out = append(out, models.TempBucket{
			RangeLow:  low,
			RangeHigh: low + width,
			Count:     t.integer(i, "count"),
		})
	}
	return out, nil
}

// AlertCounts returns, per tent, how many readings meet or exceed the CO
// threshold in ppm.
func (g *Gateway) AlertCounts(ctx context.Context, thresholdPpm float64) (map[string]int64, error) {
	if thresholdPpm < 0 || math.IsNaN(thresholdPpm) || math.IsInf(thresholdPpm, 0) {
		return nil, fmt.Errorf("%w: threshold_ppm %v", ErrInvalidParameter, thresholdPpm)
	}
	rs, err := g.runQuery(ctx, fmt.Sprintf(alertCountsSQL, g.opts.Table, sqlFloat(thresholdPpm)))
	if err != nil {
		return nil, err
	}
	t, err := newTable(rs, "tent_id", "alerts")
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, t.len())
	for i := 0; i < t.len(); i++ {
		out[t.str(i, "tent_id")] = t.integer(i, "alerts")
	}
	return out, nil
}

// COTrend returns the CO time series sorted ascending by timestamp.
func (g *Gateway) COTrend(ctx context.Context, tentID string) ([]models.COTrendPoint, error) {
	filter, err := tentFilter(tentID)
	if err != nil {
		return nil, err
	}
	rs, err := g.runQuery(ctx, fmt.Sprintf(coTrendSQL, g.opts.Table, filter))
	if err != nil {
		return nil, err
	}
	t, err := newTable(rs, "ts", "co_ppm")
	if err != nil {
		return nil, err
	}
	out := make([]models.COTrendPoint, 0, t.len())
	for i := 0; i < t.len(); i++ {
		out = append(out, models.COTrendPoint{
			Timestamp: t.integer(i, "ts"),
			COPpm:     t.float(i, "co_ppm"),
		})
	}
	return out, nil
}
