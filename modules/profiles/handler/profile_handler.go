package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teddycheru/tenderlens/internal/platform/auth"
	httpPlatform "github.com/teddycheru/tenderlens/internal/platform/http"
	"github.com/teddycheru/tenderlens/modules/profiles/model"
	"github.com/teddycheru/tenderlens/modules/profiles/service"
)

// ProfileHandler handles company-profile HTTP requests
type ProfileHandler struct {
	service *service.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Create handles onboarding step 1
func (h *ProfileHandler) Create(c *gin.Context) {
	accountID, exists := auth.GetUserID(c)
	if !exists {
		httpPlatform.RespondWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	var req model.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	profile, err := h.service.Create(c.Request.Context(), accountID, &req)
	if err != nil {
		errorCode := model.GetErrorCode(err)
		errorMessage := model.GetErrorMessage(err)

		statusCode := http.StatusInternalServerError
		switch errorCode {
		case model.CodeProfileAlreadyExists:
			statusCode = http.StatusConflict
		case model.CodeInvalidTier1Fields:
			statusCode = http.StatusBadRequest
		}

		httpPlatform.RespondWithError(c, statusCode, string(errorCode), errorMessage)
		return
	}

	httpPlatform.RespondWithData(c, http.StatusCreated, profile)
}

// Get returns the authenticated account's company profile
func (h *ProfileHandler) Get(c *gin.Context) {
	accountID, exists := auth.GetUserID(c)
	if !exists {
		httpPlatform.RespondWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	profile, err := h.service.GetByAccountID(c.Request.Context(), accountID)
	if err != nil {
		errorCode := model.GetErrorCode(err)
		errorMessage := model.GetErrorMessage(err)

		statusCode := http.StatusInternalServerError
		if errorCode == model.CodeProfileNotFound {
			statusCode = http.StatusNotFound
		}

		httpPlatform.RespondWithError(c, statusCode, string(errorCode), errorMessage)
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, profile)
}

// Update applies a partial update to the company profile
func (h *ProfileHandler) Update(c *gin.Context) {
	accountID, exists := auth.GetUserID(c)
	if !exists {
		httpPlatform.RespondWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	profile, err := h.service.Update(c.Request.Context(), accountID, &req)
	if err != nil {
		errorCode := model.GetErrorCode(err)
		errorMessage := model.GetErrorMessage(err)

		statusCode := http.StatusInternalServerError
		switch errorCode {
		case model.CodeProfileNotFound:
			statusCode = http.StatusNotFound
		case model.CodeInvalidBudgetRange, model.CodeInvalidTier1Fields:
			statusCode = http.StatusBadRequest
		}

		httpPlatform.RespondWithError(c, statusCode, string(errorCode), errorMessage)
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, profile)
}

// RegisterRoutes registers company-profile routes. The explicit
// re-embed trigger (`POST /recommendations/refresh-profile-embedding`)
// is owned by modules/recommend, which calls service.Embed directly.
func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	profile := router.Group("/company-profile")
	profile.Use(authMiddleware)
	{
		profile.POST("", h.Create)
		profile.GET("", h.Get)
		profile.PUT("", h.Update)
	}
}
