package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teddycheru/tenderlens/internal/platform/auth"
	httpPlatform "github.com/teddycheru/tenderlens/internal/platform/http"
	accountModel "github.com/teddycheru/tenderlens/modules/accounts/model"
	authModel "github.com/teddycheru/tenderlens/modules/auth/model"
	"github.com/teddycheru/tenderlens/modules/auth/service"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterResponse represents the registration response
type RegisterResponse struct {
	Account *accountModel.AccountDTO `json:"account"`
	Tokens  *authModel.AuthTokens    `json:"tokens"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Account *accountModel.AccountDTO `json:"account"`
	Tokens  *authModel.AuthTokens    `json:"tokens"`
}

// Register creates a new account with email and password
func (h *AuthHandler) Register(c *gin.Context) {
	var req authModel.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, string(accountModel.CodeValidationError), "Invalid request payload")
		return
	}

	account, tokens, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		errorCode := accountModel.GetErrorCode(err)
		errorMessage := accountModel.GetErrorMessage(err)

		statusCode := http.StatusInternalServerError
		if errorCode == accountModel.CodeAccountAlreadyExists {
			statusCode = http.StatusConflict
		} else if errorCode == accountModel.CodeInvalidEmail || errorCode == accountModel.CodeInvalidPassword {
			statusCode = http.StatusBadRequest
		}

		httpPlatform.RespondWithError(c, statusCode, string(errorCode), errorMessage)
		return
	}

	httpPlatform.RespondWithData(c, http.StatusCreated, RegisterResponse{
		Account: account,
		Tokens:  tokens,
	})
}

// Login authenticates an account and issues JWT tokens
func (h *AuthHandler) Login(c *gin.Context) {
	var req authModel.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, string(accountModel.CodeValidationError), "Invalid request payload")
		return
	}

	account, tokens, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		errorCode := accountModel.GetErrorCode(err)
		errorMessage := accountModel.GetErrorMessage(err)

		statusCode := http.StatusUnauthorized
		if errorCode != accountModel.CodeInvalidCredentials {
			statusCode = http.StatusInternalServerError
		}

		httpPlatform.RespondWithError(c, statusCode, string(errorCode), errorMessage)
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, LoginResponse{
		Account: account,
		Tokens:  tokens,
	})
}

// Refresh issues a new access token from a valid refresh token
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req authModel.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, string(accountModel.CodeValidationError), "Invalid request payload")
		return
	}

	tokens, err := h.authService.RefreshTokens(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusUnauthorized, string(accountModel.CodeUnauthorized), "Invalid or expired refresh token")
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, tokens)
}

// Logout revokes all refresh tokens for the authenticated account
func (h *AuthHandler) Logout(c *gin.Context) {
	accountID, exists := auth.GetUserID(c)
	if !exists {
		httpPlatform.RespondWithError(c, http.StatusUnauthorized, string(accountModel.CodeUnauthorized), "Unauthorized")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), accountID); err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, string(accountModel.CodeInternalError), "Failed to logout")
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
	}
}
