package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusHandler handles liveness and readiness checks.
type StatusHandler struct {
	aiProviders []string
	ocrEngine   string
}

// NewStatusHandler creates a new StatusHandler from the names of the
// configured AI providers and OCR engine.
func NewStatusHandler(aiProviders []string, ocrEngine string) *StatusHandler {
	return &StatusHandler{aiProviders: aiProviders, ocrEngine: ocrEngine}
}

// Liveness handles GET /healthz
func (h *StatusHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readiness handles GET /readyz
func (h *StatusHandler) Readiness(c *gin.Context) {
	checks := map[string]string{"ai": "ok", "ocr": "ok"}
	ready := true
	if len(h.aiProviders) == 0 {
		checks["ai"] = "no provider configured"
		ready = false
	}
	if h.ocrEngine == "" {
		checks["ocr"] = "no engine configured"
		ready = false
	}
	if !ready {
		c.JSON(http.StatusServiceUnavailable, StatusResponse{Status: "unavailable", Checks: checks})
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: "ok", Checks: checks})
}
