package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/minicanvas-api/pkg/errors"
	"github.com/noah-isme/minicanvas-api/pkg/response"
)

// WelcomeMessage is the payload of the root route.
const WelcomeMessage = "Welcome to our miniCanvas!"

// ReadinessCheck probes one dependency.
type ReadinessCheck func(ctx context.Context) error

// SystemHandler serves the greeting and probe routes.
type SystemHandler struct {
	checks map[string]ReadinessCheck
}

// NewSystemHandler constructs the handler. checks are run by Ready.
func NewSystemHandler(checks map[string]ReadinessCheck) *SystemHandler {
	return &SystemHandler{checks: checks}
}

// Welcome godoc
// @Summary Greeting
// @Tags System
// @Produce json
// @Success 200 {string} string
// @Router / [get]
func (h *SystemHandler) Welcome(c *gin.Context) {
	response.Raw(c, http.StatusOK, WelcomeMessage)
}

// Health godoc
// @Summary Liveness probe
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready godoc
// @Summary Readiness probe
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} response.Envelope
// @Router /ready [get]
func (h *SystemHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			response.Error(c, appErrors.WrapAs(err, appErrors.ErrUnavailable, name+" not ready"))
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
