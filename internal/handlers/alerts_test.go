package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"co_monitoring/internal/config"
	"co_monitoring/internal/service"
)

func doPOST(r http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAcknowledgeAndResetAlerts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	alerts := service.NewAlertRegistry()
	s := &service.Service{Analytics: &mockAnalytics{}, Alerts: alerts}
	r := NewHandler(s, &config.Config{}, nil).InitRoutes()

	// missing key → 400
	w := doPOST(r, "/acknowledge_alert", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing key: want 400, got %d", w.Code)
	}

	// acknowledge → 200, registry updated
	w = doPOST(r, "/acknowledge_alert", `{"alert_key":"b8:1700000200"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("ack status=%d, body=%s", w.Code, w.Body.String())
	}
	if !alerts.Acknowledged("b8:1700000200") {
		t.Fatal("key not recorded in registry")
	}

	// reset clears everything
	w = doPOST(r, "/reset_alerts", ``)
	if w.Code != http.StatusOK {
		t.Fatalf("reset status=%d", w.Code)
	}
	if alerts.Acknowledged("b8:1700000200") {
		t.Fatal("reset did not clear acknowledged keys")
	}
}
