package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Request DTO for acknowledging an alert popup.
type acknowledgeRequest struct {
	AlertKey string `json:"alert_key" binding:"required"`
}

// AcknowledgeRequest is an exported model for Swagger docs of the payload.
type AcknowledgeRequest struct {
	// Opaque key identifying the alert popup, e.g. "<tent_id>:<ts>"
	AlertKey string `json:"alert_key" example:"b8:27:eb:bf:9d:51:1735725600"`
}

// @Summary      Acknowledge an alert
// @Description  Marks an alert key as seen so the dashboard does not re-popup it.
// @Tags         alerts
// @Accept       json
// @Produce      json
// @Param        body  body  AcknowledgeRequest  true  "Alert key payload"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /acknowledge_alert [post]
func (h *Handler) acknowledgeAlert(c *gin.Context) {
	var req acknowledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "alert_key required"})
		return
	}
	if err := h.services.Alerts.Acknowledge(req.AlertKey); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if h.log != nil {
		h.log.Infow("alert acknowledged", "key", req.AlertKey)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "acknowledged": req.AlertKey})
}

// @Summary      Reset acknowledged alerts
// @Tags         alerts
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /reset_alerts [post]
func (h *Handler) resetAlerts(c *gin.Context) {
	h.services.Alerts.Reset()
	if h.log != nil {
		h.log.Infow("acknowledged alerts reset")
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "all alerts reset"})
}
