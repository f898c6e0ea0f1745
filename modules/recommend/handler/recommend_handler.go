package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/teddycheru/tenderlens/internal/platform/auth"
	httpPlatform "github.com/teddycheru/tenderlens/internal/platform/http"
	"github.com/teddycheru/tenderlens/modules/recommend/model"
	"github.com/teddycheru/tenderlens/modules/recommend/service"
	profileservice "github.com/teddycheru/tenderlens/modules/profiles/service"
)

// RecommendHandler handles recommendation-surface HTTP requests.
type RecommendHandler struct {
	matcher  *service.Matcher
	profiles *profileservice.ProfileService
}

// NewRecommendHandler creates a new recommend handler.
func NewRecommendHandler(matcher *service.Matcher, profiles *profileservice.ProfileService) *RecommendHandler {
	return &RecommendHandler{matcher: matcher, profiles: profiles}
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func floatQuery(c *gin.Context, key string, def float64) float64 {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

func csvQuery(c *gin.Context, key string) []string {
	raw := c.QueryArray(key)
	if len(raw) == 1 && strings.Contains(raw[0], ",") {
		return strings.Split(raw[0], ",")
	}
	return raw
}

// Recommend handles GET /recommendations.
func (h *RecommendHandler) Recommend(c *gin.Context) {
	accountID, exists := auth.GetUserID(c)
	if !exists {
		httpPlatform.RespondWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	filters := model.Filters{
		Limit:     intQuery(c, "limit", model.DefaultLimit),
		MinScore:  floatQuery(c, "min_score", model.DefaultMinScore),
		DaysAhead: intQuery(c, "days_ahead", model.DefaultDaysAhead),
		Sectors:   csvQuery(c, "sectors"),
		Regions:   csvQuery(c, "regions"),
	}

	resp, err := h.matcher.Recommend(c.Request.Context(), accountID, filters)
	if err != nil {
		errorCode := model.GetErrorCode(err)
		errorMessage := model.GetErrorMessage(err)

		statusCode := http.StatusInternalServerError
		switch errorCode {
		case model.CodeProfileNotFound:
			statusCode = http.StatusNotFound
		case model.CodeProfileIncomplete:
			statusCode = http.StatusConflict
		case model.CodeVectorStoreUnavailable:
			statusCode = http.StatusServiceUnavailable
		}

		httpPlatform.RespondWithError(c, statusCode, string(errorCode), errorMessage)
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, resp)
}

// Similar handles GET /recommendations/tenders/{id}/similar.
func (h *RecommendHandler) Similar(c *gin.Context) {
	tenderID := c.Param("id")
	limit := intQuery(c, "limit", model.DefaultLimit)

	resp, err := h.matcher.Similar(c.Request.Context(), tenderID, limit)
	if err != nil {
		errorCode := model.GetErrorCode(err)
		errorMessage := model.GetErrorMessage(err)

		statusCode := http.StatusInternalServerError
		switch errorCode {
		case model.CodeReferenceNotEmbedded:
			statusCode = http.StatusNotFound
		case model.CodeVectorStoreUnavailable:
			statusCode = http.StatusServiceUnavailable
		}

		httpPlatform.RespondWithError(c, statusCode, string(errorCode), errorMessage)
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, resp)
}

// RefreshProfileEmbedding handles POST /recommendations/refresh-profile-embedding.
// The explicit re-embed trigger always reembeds, calling modules/profiles'
// Service.Embed directly.
func (h *RecommendHandler) RefreshProfileEmbedding(c *gin.Context) {
	accountID, exists := auth.GetUserID(c)
	if !exists {
		httpPlatform.RespondWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	profile, err := h.profiles.GetByAccountID(c.Request.Context(), accountID)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusNotFound, "PROFILE_NOT_FOUND", "Company profile not found")
		return
	}

	if err := h.profiles.Embed(c.Request.Context(), profile.ID); err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to refresh profile embedding")
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, gin.H{"message": "profile embedding refreshed"})
}

// RegisterRoutes registers the recommendation-surface routes.
func (h *RecommendHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	recommendations := router.Group("/recommendations")
	recommendations.Use(authMiddleware)
	{
		recommendations.GET("", h.Recommend)
		recommendations.GET("/tenders/:id/similar", h.Similar)
		recommendations.POST("/refresh-profile-embedding", h.RefreshProfileEmbedding)
	}
}
