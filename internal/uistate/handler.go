// File: internal/uistate/handler.go
package uistate

import (
	"io"

	"medical_assistant_backend/internal/common"
	"medical_assistant_backend/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is a UiState as sent over HTTP.
type Response struct {
	State    Kind             `json:"state"`
	UserData *domain.UserData `json:"user_data,omitempty"`
}

// ToResponse converts a UiState to its response shape.
func ToResponse(s UiState) Response {
	resp := Response{State: s.Kind}
	if s.Kind == KindSuccess {
		u := s.UserData
		resp.UserData = &u
	}
	return resp
}

// Handler serves the projected UI state.
type Handler struct {
	projector *Projector
	logger    *zap.Logger
}

// NewHandler creates a new UI state handler.
func NewHandler(projector *Projector, logger *zap.Logger) *Handler {
	return &Handler{projector: projector, logger: logger}
}

// RegisterRoutes sets up the routes for the UI state.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/ui-state")
	{
		group.GET("", h.current)
		group.GET("/stream", h.stream)
	}
}

func (h *Handler) current(c *gin.Context) {
	common.RespondOK(c, "UI state retrieved successfully.", ToResponse(h.projector.Current()))
}

// stream is a server-sent event feed; the connection is a projector observer
// for as long as it stays open.
func (h *Handler) stream(c *gin.Context) {
	ctx := c.Request.Context()
	states := h.projector.Attach(ctx)
	h.logger.Debug("UI state stream opened", zap.Int("observers", h.projector.Observers()))

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case st, ok := <-states:
			if !ok {
				return false
			}
			c.SSEvent("ui-state", ToResponse(st))
			return true
		case <-ctx.Done():
			return false
		}
	})
	h.logger.Debug("UI state stream closed")
}
