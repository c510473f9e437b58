package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"co_monitoring/internal/gateway"
)

const (
	statusOK = "ok"

	errBadThreshold = "invalid threshold_ppm; must be a non-negative number"
)

// writeGatewayError maps gateway errors onto HTTP status codes and logs them.
func (h *Handler) writeGatewayError(c *gin.Context, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, gateway.ErrInvalidParameter):
		status = http.StatusBadRequest
	case errors.Is(err, gateway.ErrTimeout):
		status = http.StatusGatewayTimeout
	case errors.Is(err, gateway.ErrUnavailable), errors.Is(err, gateway.ErrQueryFailed):
		status = http.StatusBadGateway
	}
	if h.log != nil {
		h.log.Errorw("analytics query failed", "op", op, "status", status, "err", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func tentParam(c *gin.Context) string {
	return strings.TrimSpace(c.Query("tent_id"))
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

// @Summary      Latest readings
// @Description  Most recent readings, newest first, bounded per tent.
// @Tags         analytics
// @Produce      json
// @Param        tent_id  query  string  false  "Filter to one tent"
// @Success      200  {array}   models.TelemetryReading
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Failure      504  {object}  map[string]string
// @Router       /latest [get]
func (h *Handler) latest(c *gin.Context) {
	readings, err := h.services.Analytics.Latest(c.Request.Context(), tentParam(c))
	if err != nil {
		h.writeGatewayError(c, "latest", err)
		return
	}
	c.JSON(http.StatusOK, readings)
}

// @Summary      Per-tent averages
// @Tags         analytics
// @Produce      json
// @Param        tent_id  query  string  false  "Filter to one tent"
// @Success      200  {array}   models.TentAverages
// @Failure      400  {object}  map[string]string
// @Router       /avg_metrics [get]
func (h *Handler) avgMetrics(c *gin.Context) {
	rows, err := h.services.Analytics.AvgMetrics(c.Request.Context(), tentParam(c))
	if err != nil {
		h.writeGatewayError(c, "avg_metrics", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// @Summary      Per-tent maxima
// @Tags         analytics
// @Produce      json
// @Param        tent_id  query  string  false  "Filter to one tent"
// @Success      200  {array}   models.TentMaxima
// @Failure      400  {object}  map[string]string
// @Router       /max_metrics [get]
func (h *Handler) maxMetrics(c *gin.Context) {
	rows, err := h.services.Analytics.MaxMetrics(c.Request.Context(), tentParam(c))
	if err != nil {
		h.writeGatewayError(c, "max_metrics", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// @Summary      Humidity vs CO
// @Description  Average CO per humidity level, ordered by humidity.
// @Tags         analytics
// @Produce      json
// @Param        tent_id  query  string  false  "Filter to one tent"
// @Success      200  {array}   models.HumidityCOPoint
// @Router       /humidity_co [get]
func (h *Handler) humidityCO(c *gin.Context) {
	points, err := h.services.Analytics.HumidityCO(c.Request.Context(), tentParam(c))
	if err != nil {
		h.writeGatewayError(c, "humidity_co", err)
		return
	}
	c.JSON(http.StatusOK, points)
}

// @Summary      Temperature distribution
// @Description  Histogram of temperatures in fixed-width buckets.
// @Tags         analytics
// @Produce      json
// @Param        tent_id  query  string  false  "Filter to one tent"
// @Success      200  {array}   models.TempBucket
// @Router       /temp_dist [get]
func (h *Handler) tempDist(c *gin.Context) {
	buckets, err := h.services.Analytics.TempDist(c.Request.Context(), tentParam(c))
	if err != nil {
		h.writeGatewayError(c, "temp_dist", err)
		return
	}
	c.JSON(http.StatusOK, buckets)
}

// @Summary      Alert counts
// @Description  Per-tent count of readings with co_ppm >= threshold_ppm.
// @Tags         analytics
// @Produce      json
// @Param        threshold_ppm  query  number  false  "CO threshold in ppm (configured default when omitted)"
// @Success      200  {object}  map[string]int64
// @Failure      400  {object}  map[string]string
// @Router       /alert_counts [get]
func (h *Handler) alertCounts(c *gin.Context) {
	threshold := h.defaultThreshold
	if s := c.Query("threshold_ppm"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errBadThreshold})
			return
		}
		threshold = v
	}
	counts, err := h.services.Analytics.AlertCounts(c.Request.Context(), threshold)
	if err != nil {
		h.writeGatewayError(c, "alert_counts", err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// @Summary      CO trend
// @Description  CO time series sorted ascending by timestamp.
// @Tags         analytics
// @Produce      json
// @Param        tent_id  query  string  false  "Filter to one tent"
// @Success      200  {array}   models.COTrendPoint
// @Router       /co_trend [get]
func (h *Handler) coTrend(c *gin.Context) {
	points, err := h.services.Analytics.COTrend(c.Request.Context(), tentParam(c))
	if err != nil {
		h.writeGatewayError(c, "co_trend", err)
		return
	}
	c.JSON(http.StatusOK, points)
}
