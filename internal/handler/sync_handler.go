package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/minicanvas-api/internal/dto"
	"github.com/noah-isme/minicanvas-api/pkg/response"
)

type syncTrigger interface {
	Trigger(ctx context.Context) (*dto.SyncJobResponse, error)
}

// SyncHandler triggers course persistence.
type SyncHandler struct {
	service syncTrigger
}

// NewSyncHandler builds a new handler.
func NewSyncHandler(service syncTrigger) *SyncHandler {
	return &SyncHandler{service: service}
}

// Trigger godoc
// @Summary Enqueue a course sync
// @Tags Sync
// @Produce json
// @Success 202 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /sync [post]
func (h *SyncHandler) Trigger(c *gin.Context) {
	job, err := h.service.Trigger(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, job)
}
