// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zaukho/zaukho-backend/internal/config"
	"github.com/zaukho/zaukho-backend/internal/models"
	"github.com/zaukho/zaukho-backend/internal/utils"
)

// TokenStore is the revocation list for refresh tokens. The Redis cache
// implements it in production; tests use an in-memory fake.
type TokenStore interface {
	BlacklistToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, tokenID string) (bool, error)
}

type AuthService struct {
	db     *gorm.DB
	cfg    *config.Config
	tokens TokenStore
}

type RegisterRequest struct {
	Username        string `json:"username" validate:"required,username"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,strong_password"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
}

// Login accepts a username or an email under either key; both are matched
// case-insensitively against both columns.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Password   string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // in seconds
}

func NewAuthService(db *gorm.DB, cfg *config.Config, tokens TokenStore) *AuthService {
	return &AuthService{
		db:     db,
		cfg:    cfg,
		tokens: tokens,
	}
}

func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorsFrom(err)
	}

	if req.Password != req.PasswordConfirm {
		return nil, fieldError("password", "password fields didn't match")
	}

	// Check uniqueness case-insensitively so login-by-either-field stays unambiguous
	var existingUser models.User
	err := s.db.Where("LOWER(email) = ? OR LOWER(username) = ?",
		strings.ToLower(req.Email), strings.ToLower(req.Username)).First(&existingUser).Error
	if err == nil {
		if strings.EqualFold(existingUser.Email, req.Email) {
			return nil, fieldError("email", "a user with that email already exists")
		}
		return nil, fieldError("username", "username already taken")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		UserType:  models.UserTypeMember,
	}

	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueTokens(user)
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorsFrom(err)
	}

	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Email
	}
	if identifier == "" {
		return nil, fieldError("identifier", "username or email is required")
	}

	var user models.User
	err := s.db.Where("LOWER(username) = ? OR LOWER(email) = ?",
		strings.ToLower(identifier), strings.ToLower(identifier)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLoginAt = &now
	s.db.Save(&user)

	return s.issueTokens(&user)
}

// RefreshToken rotates the pair: the presented token's jti is blacklisted for
// its remaining lifetime and a new pair is issued.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	revoked, err := s.tokens.IsTokenBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("token store error: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.tokens.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		return nil, fmt.Errorf("token store error: %w", err)
	}

	return s.issueTokens(&user)
}

// Logout blacklists the presented refresh token so it cannot be used again.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return ErrInvalidToken
	}

	return s.tokens.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}

// VerifyAccessToken reports whether an access token is currently valid.
func (s *AuthService) VerifyAccessToken(token string) error {
	if _, err := utils.ValidateJWT(token); err != nil {
		return ErrInvalidToken
	}
	return nil
}

func (s *AuthService) GetUserByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(
		user.ID,
		user.Username,
		string(user.UserType),
		s.cfg.JWT.AccessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWT.AccessTokenTTL * 3600,
	}, nil
}

// validationErrorsFrom converts validator output into the field-level error type.
func validationErrorsFrom(err error) error {
	fieldErrs := utils.GetValidationErrors(err)
	if len(fieldErrs) == 0 {
		return err
	}
	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, FieldError{Field: fe.Field, Message: fe.Message})
	}
	return out
}
