// File: internal/user/handler.go
package user

import (
	"errors"

	"medical_assistant_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for user handlers.
type Handler struct {
	repo   Repository
	logger *zap.Logger
}

// NewHandler creates a new user handler.
func NewHandler(repo Repository, logger *zap.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// RegisterRoutes sets up the routes for profile operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	userGroup := router.Group("/users")
	{
		userGroup.GET("/me", h.getMe)
		userGroup.PUT("/me/preferences", h.updatePreferences)
	}
}

func (h *Handler) getMe(c *gin.Context) {
	common.RespondOK(c, "User profile retrieved successfully.", ToProfileResponse(h.repo.Current()))
}

func (h *Handler) updatePreferences(c *gin.Context) {
	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Update preferences: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	changes := req.changes()
	if len(changes) == 0 {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("No preference given."))
		return
	}
	for _, ch := range changes {
		if err := h.repo.SetPreference(c.Request.Context(), ch.pref, ch.value); err != nil {
			h.logger.Error("Failed to update preference", zap.String("preference", string(ch.pref)), zap.Error(err))
			common.RespondWithError(c, err)
			return
		}
	}
	common.RespondOK(c, "Preferences updated successfully.", ToProfileResponse(h.repo.Current()))
}
