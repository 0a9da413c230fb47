// File: internal/patient/handler.go
package patient

import (
	"errors"

	"medical_assistant_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler holds dependencies for patient registry handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new patient handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routes for the patient registry.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/patients", h.listPatients)
}

func (h *Handler) listPatients(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	patients, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		h.logger.Error("Failed to list patients", zap.Error(err))
		common.RespondWithError(c, err)
		return
	}
	resp := make([]PatientResponse, len(patients))
	for i, p := range patients {
		resp[i] = ToPatientResponse(p)
	}
	common.RespondPaginated(c, "Patients retrieved successfully.", resp, pagination)
}
