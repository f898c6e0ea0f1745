package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	httpPlatform "github.com/teddycheru/tenderlens/internal/platform/http"
	"github.com/teddycheru/tenderlens/modules/tenders/model"
	"github.com/teddycheru/tenderlens/modules/tenders/ports"
	"github.com/teddycheru/tenderlens/modules/tenders/service"
)

// TenderHandler handles tender HTTP requests
type TenderHandler struct {
	service *service.TenderService
}

// NewTenderHandler creates a new tender handler
func NewTenderHandler(service *service.TenderService) *TenderHandler {
	return &TenderHandler{service: service}
}

// Create handles the collaborator CRUD surface an ingestion pipeline
// writes through; the pipeline itself lives outside this service.
func (h *TenderHandler) Create(c *gin.Context) {
	var req model.CreateTenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	tender, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		errorCode := model.GetErrorCode(err)
		errorMessage := model.GetErrorMessage(err)

		statusCode := http.StatusInternalServerError
		switch errorCode {
		case model.CodeTenderSourceURLRequired, model.CodeInvalidBudgetRange:
			statusCode = http.StatusBadRequest
		case model.CodeTenderAlreadyExists:
			statusCode = http.StatusConflict
		}

		httpPlatform.RespondWithError(c, statusCode, string(errorCode), errorMessage)
		return
	}

	httpPlatform.RespondWithData(c, http.StatusCreated, tender)
}

// Get returns a single tender by ID
func (h *TenderHandler) Get(c *gin.Context) {
	tenderID := c.Param("id")

	tender, err := h.service.GetByID(c.Request.Context(), tenderID)
	if err != nil {
		errorCode := model.GetErrorCode(err)
		errorMessage := model.GetErrorMessage(err)

		statusCode := http.StatusInternalServerError
		if errorCode == model.CodeTenderNotFound {
			statusCode = http.StatusNotFound
		}

		httpPlatform.RespondWithError(c, statusCode, string(errorCode), errorMessage)
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, tender)
}

// List returns a paginated, filtered tender listing
func (h *TenderHandler) List(c *gin.Context) {
	pagination, err := httpPlatform.ParsePaginationParams(c)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	daysAhead := 7
	if raw := c.Query("days_ahead"); raw != "" {
		if parsed, convErr := strconv.Atoi(raw); convErr == nil {
			daysAhead = parsed
		}
	}

	filter := ports.ListFilter{
		Status:    c.Query("status"),
		Sectors:   c.QueryArray("sectors"),
		Regions:   c.QueryArray("regions"),
		DaysAhead: daysAhead,
		Limit:     pagination.Limit,
		Offset:    pagination.Offset,
	}

	tenders, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	httpPlatform.RespondWithPagination(c, http.StatusOK, tenders, pagination.Limit, pagination.Offset, total)
}

// Delete deletes a tender
func (h *TenderHandler) Delete(c *gin.Context) {
	tenderID := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), tenderID); err != nil {
		errorCode := model.GetErrorCode(err)
		errorMessage := model.GetErrorMessage(err)

		statusCode := http.StatusInternalServerError
		if errorCode == model.CodeTenderNotFound {
			statusCode = http.StatusNotFound
		}

		httpPlatform.RespondWithError(c, statusCode, string(errorCode), errorMessage)
		return
	}

	c.Status(http.StatusNoContent)
}

// Embed forces a (re)compute and upsert of a tender's embedding
func (h *TenderHandler) Embed(c *gin.Context) {
	tenderID := c.Param("id")

	tender, err := h.service.Embed(c.Request.Context(), tenderID)
	if err != nil {
		errorCode := model.GetErrorCode(err)
		errorMessage := model.GetErrorMessage(err)

		statusCode := http.StatusInternalServerError
		if errorCode == model.CodeTenderNotFound {
			statusCode = http.StatusNotFound
		}

		httpPlatform.RespondWithError(c, statusCode, string(errorCode), errorMessage)
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, tender)
}

// ContentStatus polls the background content-generation job for a
// tender, returning pending/ready/failed/cached.
func (h *TenderHandler) ContentStatus(c *gin.Context) {
	tenderID := c.Param("id")

	status, err := h.service.ContentStatus(c.Request.Context(), tenderID)
	if err != nil {
		errorCode := model.GetErrorCode(err)
		errorMessage := model.GetErrorMessage(err)

		statusCode := http.StatusInternalServerError
		switch errorCode {
		case model.CodeTenderNotFound:
			statusCode = http.StatusNotFound
		case model.CodeContentExtractionUnavailable:
			statusCode = http.StatusServiceUnavailable
		}

		httpPlatform.RespondWithError(c, statusCode, string(errorCode), errorMessage)
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, gin.H{"status": status})
}

// RegisterRoutes registers tender routes
func (h *TenderHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	tenders := router.Group("/tenders")
	tenders.Use(authMiddleware)
	{
		tenders.POST("", h.Create)
		tenders.GET("", h.List)
		tenders.GET("/:id", h.Get)
		tenders.DELETE("/:id", h.Delete)
		tenders.POST("/:id/embed", h.Embed)
		tenders.GET("/:id/content-status", h.ContentStatus)
	}
}
