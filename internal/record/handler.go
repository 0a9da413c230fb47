// File: internal/record/handler.go
package record

import (
	"errors"

	"medical_assistant_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler holds dependencies for audio record handlers.
type Handler struct {
	service      Service
	maxFormBytes int64
	logger       *zap.Logger
}

// NewHandler creates a new record handler. maxFormBytes caps the multipart
// form kept in memory; larger parts spill to temporary files.
func NewHandler(service Service, maxFormBytes int64, logger *zap.Logger) *Handler {
	if maxFormBytes <= 0 {
		maxFormBytes = 32 << 20
	}
	return &Handler{service: service, maxFormBytes: maxFormBytes, logger: logger}
}

// RegisterRoutes sets up the routes for audio records.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	recordGroup := router.Group("/records")
	{
		recordGroup.POST("", h.createRecord)
		recordGroup.GET("", h.listRecords)
		recordGroup.GET("/:id", h.getRecord)
		recordGroup.GET("/:id/audio", h.streamAudio)
		recordGroup.DELETE("/:id", h.deleteRecord)
	}
}

func respondBindError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
		return
	}
	common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
}

func parseRecordID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid record ID format."))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) createRecord(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(h.maxFormBytes); err != nil {
		h.logger.Warn("Create record: Failed to parse multipart form", zap.Error(err))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request format: "+err.Error()))
		return
	}

	var req CreateAudioRequest
	if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
		h.logger.Warn("Create record: Invalid form data", zap.Error(err))
		respondBindError(c, err)
		return
	}

	file, err := c.FormFile("audio")
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Form field 'audio' is required."))
		return
	}

	a, err := h.service.CreateRecord(c.Request.Context(), req, file)
	if err != nil {
		h.logger.Warn("Create record failed", zap.Error(err))
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Recording saved successfully.", ToAudioResponse(*a))
}

func (h *Handler) listRecords(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	records, pagination, err := h.service.ListRecords(c.Request.Context(), query)
	if err != nil {
		h.logger.Error("Failed to list records", zap.Error(err))
		common.RespondWithError(c, err)
		return
	}
	resp := make([]AudioResponse, len(records))
	for i, a := range records {
		resp[i] = ToAudioResponse(a)
	}
	common.RespondPaginated(c, "Recordings retrieved successfully.", resp, pagination)
}

func (h *Handler) getRecord(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}
	a, err := h.service.GetRecord(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Recording retrieved successfully.", ToAudioResponse(*a))
}

func (h *Handler) streamAudio(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}
	p, a, err := h.service.AudioFilePath(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	if a.MIME != "" {
		c.Header("Content-Type", a.MIME)
	}
	c.File(p)
}

func (h *Handler) deleteRecord(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteRecord(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
