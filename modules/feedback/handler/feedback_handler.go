package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teddycheru/tenderlens/internal/platform/auth"
	httpPlatform "github.com/teddycheru/tenderlens/internal/platform/http"
	"github.com/teddycheru/tenderlens/modules/feedback/model"
	"github.com/teddycheru/tenderlens/modules/feedback/service"
	profileports "github.com/teddycheru/tenderlens/modules/profiles/ports"
)

// FeedbackHandler handles the interaction-recording HTTP surface.
type FeedbackHandler struct {
	feedback *service.FeedbackService
	profiles profileports.ProfileRepository
}

func NewFeedbackHandler(feedback *service.FeedbackService, profiles profileports.ProfileRepository) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback, profiles: profiles}
}

// RecordInteraction handles POST /recommendations/feedback/{tender_id}.
func (h *FeedbackHandler) RecordInteraction(c *gin.Context) {
	accountID, exists := auth.GetUserID(c)
	if !exists {
		httpPlatform.RespondWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	var req model.RecordInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	profile, err := h.profiles.GetByAccountID(c.Request.Context(), accountID)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusNotFound, "PROFILE_NOT_FOUND", "Company profile not found")
		return
	}

	tenderID := c.Param("tender_id")
	result, err := h.feedback.RecordInteraction(c.Request.Context(), profile, accountID, tenderID, &req)
	if err != nil {
		errorCode := model.GetErrorCode(err)
		errorMessage := model.GetErrorMessage(err)

		statusCode := http.StatusInternalServerError
		switch errorCode {
		case model.CodeValidationError:
			statusCode = http.StatusBadRequest
		case model.CodeTenderNotFound:
			statusCode = http.StatusNotFound
		}

		httpPlatform.RespondWithError(c, statusCode, string(errorCode), errorMessage)
		return
	}

	httpPlatform.RespondWithData(c, http.StatusCreated, result)
}

// Stats handles GET /recommendations/feedback/stats.
func (h *FeedbackHandler) Stats(c *gin.Context) {
	accountID, exists := auth.GetUserID(c)
	if !exists {
		httpPlatform.RespondWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	stats, err := h.feedback.GetUserInteractionStats(c.Request.Context(), accountID)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, string(model.CodeInternalError), "Failed to load interaction stats")
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, stats)
}

// RegisterRoutes registers the feedback-surface routes under
// /recommendations alongside modules/recommend's own routes.
func (h *FeedbackHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	recommendations := router.Group("/recommendations")
	recommendations.Use(authMiddleware)
	{
		recommendations.POST("/feedback/:tender_id", h.RecordInteraction)
		recommendations.GET("/feedback/stats", h.Stats)
	}
}
