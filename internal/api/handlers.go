package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/companion-safety/internal/logger"
	"github.com/jonesrussell/companion-safety/internal/safety"
)

// Handler handles HTTP requests for the safety API.
type Handler struct {
	service *safety.Service
	log     logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(service *safety.Service, log logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// ScreenResponse wraps the screening result for the wire.
type ScreenResponse struct {
	ResponseText string `json:"response_text,omitempty"`
	IsCrisis     bool   `json:"is_crisis"`
	Severity     string `json:"severity,omitempty"`
	IsThirdParty bool   `json:"is_third_party"`
}

// Screen handles POST /api/v1/screen.
func (h *Handler) Screen(c *gin.Context) {
	var req safety.ScreenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid screen request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.service.HandleMessage(c.Request.Context(), req)

	c.JSON(http.StatusOK, ScreenResponse{
		ResponseText: result.ResponseText,
		IsCrisis:     result.Classification.IsCrisis,
		Severity:     string(result.Classification.Severity),
		IsThirdParty: result.Classification.IsThirdParty,
	})
}

// ReadyCheck handles GET /ready.
func (h *Handler) ReadyCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
