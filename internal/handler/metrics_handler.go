package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MetricsHandler serves the Prometheus exposition.
type MetricsHandler struct {
	exposition http.Handler
}

// NewMetricsHandler wraps the exposition handler; nil disables the route.
func NewMetricsHandler(exposition http.Handler) *MetricsHandler {
	return &MetricsHandler{exposition: exposition}
}

// Prometheus serves the metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.exposition == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.exposition.ServeHTTP(c.Writer, c.Request)
}
