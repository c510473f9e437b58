package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"co_monitoring/internal/gateway"
	"co_monitoring/internal/models"
)

func doGET(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestLatest_ReturnsReadingsForTent(t *testing.T) {
	m := &mockAnalytics{readings: []models.TelemetryReading{
		{TentID: "b8", Timestamp: 1700000200, TemperatureC: 28, HumidityPct: 41, COPpm: 130.5},
		{TentID: "b8", Timestamp: 1700000100, TemperatureC: 27, HumidityPct: 40, COPpm: 5.2},
	}}
	r := newTestRouter(m)

	w := doGET(r, "/latest?tent_id=b8")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if m.lastTent != "b8" {
		t.Fatalf("tent_id not passed through: %q", m.lastTent)
	}
	var got []models.TelemetryReading
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 2 || got[0].COPpm != 130.5 {
		t.Fatalf("bad body: %+v", got)
	}
}

func TestLatest_EmptyStorageIsEmptyArray(t *testing.T) {
	r := newTestRouter(&mockAnalytics{})

	w := doGET(r, "/latest")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Fatalf("want literal [], got %q", body)
	}
}

func TestAnalytics_ErrorToStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid parameter", fmt.Errorf("%w: tent_id", gateway.ErrInvalidParameter), http.StatusBadRequest},
		{"timeout", fmt.Errorf("%w: job x", gateway.ErrTimeout), http.StatusGatewayTimeout},
		{"unavailable", fmt.Errorf("%w: submit", gateway.ErrUnavailable), http.StatusBadGateway},
		{"query failed", fmt.Errorf("%w: boom", gateway.ErrQueryFailed), http.StatusBadGateway},
	}
	routes := []string{"/latest", "/avg_metrics", "/max_metrics", "/humidity_co", "/temp_dist", "/alert_counts", "/co_trend"}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&mockAnalytics{err: tc.err})
			for _, route := range routes {
				w := doGET(r, route)
				if w.Code != tc.want {
					t.Fatalf("%s: want %d, got %d (body=%s)", route, tc.want, w.Code, w.Body.String())
				}
				var body map[string]string
				if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["error"] == "" {
					t.Fatalf("%s: error body missing: %s", route, w.Body.String())
				}
			}
		})
	}
}

func TestAlertCounts_ThresholdParsing(t *testing.T) {
	m := &mockAnalytics{counts: map[string]int64{"00": 1}}
	r := newTestRouter(m)

	// default threshold from config
	w := doGET(r, "/alert_counts")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if m.lastThreshold != 120.0 {
		t.Fatalf("default threshold: want 120, got %v", m.lastThreshold)
	}

	// explicit threshold
	w = doGET(r, "/alert_counts?threshold_ppm=130")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if m.lastThreshold != 130.0 {
		t.Fatalf("explicit threshold: want 130, got %v", m.lastThreshold)
	}
	var counts map[string]int64
	if err := json.Unmarshal(w.Body.Bytes(), &counts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if counts["00"] != 1 {
		t.Fatalf("bad counts: %v", counts)
	}

	// malformed threshold never reaches the gateway
	calls := m.calls
	for _, q := range []string{"abc", "-5", "12,0"} {
		w = doGET(r, "/alert_counts?threshold_ppm="+q)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("threshold %q: want 400, got %d", q, w.Code)
		}
	}
	if m.calls != calls {
		t.Fatalf("gateway called with malformed threshold")
	}
}

func TestCOTrend_PassesThrough(t *testing.T) {
	m := &mockAnalytics{trend: []models.COTrendPoint{
		{Timestamp: 1700000100, COPpm: 5},
		{Timestamp: 1700000200, COPpm: 6},
	}}
	r := newTestRouter(m)

	w := doGET(r, "/co_trend?tent_id=00")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if m.lastTent != "00" {
		t.Fatalf("tent_id not passed: %q", m.lastTent)
	}
	var got []models.COTrendPoint
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 2 || got[1].Timestamp != 1700000200 {
		t.Fatalf("bad body: %+v", got)
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&mockAnalytics{})
	w := doGET(r, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), statusOK) {
		t.Fatalf("body=%s", w.Body.String())
	}
}

func TestCORSHeadersPresent(t *testing.T) {
	r := newTestRouter(&mockAnalytics{})

	w := doGET(r, "/latest")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-origin: %q", got)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/latest", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status=%d", w.Code)
	}
}
