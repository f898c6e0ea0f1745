package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	accountModel "github.com/teddycheru/tenderlens/modules/accounts/model"
	accountPorts "github.com/teddycheru/tenderlens/modules/accounts/ports"
	authModel "github.com/teddycheru/tenderlens/modules/auth/model"
	authPorts "github.com/teddycheru/tenderlens/modules/auth/ports"
	"github.com/teddycheru/tenderlens/internal/platform/auth"
)

// AuthService handles authentication business logic
type AuthService struct {
	accountRepo   accountPorts.AccountRepository
	tokenRepo     authPorts.RefreshTokenRepository
	jwtManager    *auth.JWTManager
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	accountRepo accountPorts.AccountRepository,
	tokenRepo authPorts.RefreshTokenRepository,
	jwtManager *auth.JWTManager,
	accessExpiry time.Duration,
	refreshExpiry time.Duration,
) *AuthService {
	return &AuthService{
		accountRepo:   accountRepo,
		tokenRepo:     tokenRepo,
		jwtManager:    jwtManager,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// Register registers a new account
func (s *AuthService) Register(ctx context.Context, req *authModel.RegisterRequest) (*accountModel.AccountDTO, *authModel.AuthTokens, error) {
	if !isValidEmail(req.Email) {
		return nil, nil, accountModel.ErrInvalidEmail
	}

	if len(req.Password) < 8 {
		return nil, nil, accountModel.ErrInvalidPassword
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.accountRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, nil, accountModel.ErrAccountAlreadyExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}

	locale := req.Locale
	if locale == "" {
		locale = "en"
	}

	account := accountModel.NewAccount(email, req.Name, passwordHash, locale)
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, nil, err
	}

	tokens, err := s.generateTokens(ctx, account.ID)
	if err != nil {
		return nil, nil, err
	}

	return account.ToDTO(), tokens, nil
}

// Login authenticates an account
func (s *AuthService) Login(ctx context.Context, req *authModel.LoginRequest) (*accountModel.AccountDTO, *authModel.AuthTokens, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, accountModel.ErrAccountNotFound) {
			return nil, nil, accountModel.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := auth.VerifyPassword(req.Password, account.PasswordHash); err != nil {
		return nil, nil, accountModel.ErrInvalidCredentials
	}

	tokens, err := s.generateTokens(ctx, account.ID)
	if err != nil {
		return nil, nil, err
	}

	return account.ToDTO(), tokens, nil
}

// RefreshTokens refreshes access token using refresh token
func (s *AuthService) RefreshTokens(ctx context.Context, refreshTokenString string) (*authModel.AuthTokens, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshTokenString)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	tokenHash := auth.HashToken(refreshTokenString)
	dbToken, err := s.tokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	if !dbToken.IsValid() {
		return nil, errors.New("refresh token expired or revoked")
	}

	tokens, err := s.generateTokens(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	_ = s.tokenRepo.Revoke(ctx, tokenHash)

	return tokens, nil
}

// Logout revokes all refresh tokens for an account
func (s *AuthService) Logout(ctx context.Context, accountID string) error {
	return s.tokenRepo.RevokeAllForUser(ctx, accountID)
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(ctx context.Context, accountID string) (*authModel.AuthTokens, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(accountID)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(accountID)
	if err != nil {
		return nil, err
	}

	tokenHash := auth.HashToken(refreshToken)
	dbToken := authModel.NewRefreshToken(accountID, tokenHash, time.Now().UTC().Add(s.refreshExpiry))
	if err := s.tokenRepo.Create(ctx, dbToken); err != nil {
		return nil, err
	}

	return &authModel.AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessExpiry.Seconds()),
	}, nil
}

// isValidEmail validates email format
func isValidEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}
