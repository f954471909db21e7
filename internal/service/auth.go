package service

import (
	"context"
	"regexp"
	"time"

	"github.com/andreivolkov/gatechat/internal/auth"
	"github.com/andreivolkov/gatechat/internal/database"
	"github.com/andreivolkov/gatechat/internal/models"
	"github.com/andreivolkov/gatechat/internal/redis"
	"github.com/andreivolkov/gatechat/internal/snowflake"
)

var usernameRegexp = regexp.MustCompile(`^[a-z0-9_]{2,32}$`)

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService handles registration, login, and token rotation. Refresh tokens
// are opaque and live in redis; losing redis logs everyone out, which is the
// intended failure mode.
type AuthService struct {
	users     database.UserRepository
	tokens    *auth.TokenService
	redis     *redis.Client
	snowflake *snowflake.Generator
}

// NewAuthService creates an AuthService.
func NewAuthService(users database.UserRepository, tokens *auth.TokenService, rdb *redis.Client, sf *snowflake.Generator) *AuthService {
	return &AuthService{users: users, tokens: tokens, redis: rdb, snowflake: sf}
}

// Register creates a user account.
func (s *AuthService) Register(ctx context.Context, username, displayName, password string) (*models.User, error) {
	if !usernameRegexp.MatchString(username) {
		return nil, Validation("INVALID_USERNAME", "username must be 2-32 lowercase letters, digits, or underscores")
	}
	if len(password) < 8 || len(password) > 128 {
		return nil, Validation("INVALID_PASSWORD", "password must be 8-128 characters")
	}
	if displayName == "" {
		displayName = username
	}
	if len(displayName) > 64 {
		return nil, Validation("INVALID_DISPLAY_NAME", "display name must be at most 64 characters")
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if existing != nil {
		return nil, Conflict("USERNAME_TAKEN", "username is already taken")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	user := &models.User{
		ID:           s.snowflake.Generate().Int64(),
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	return user, nil
}

// Login verifies credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, *TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, Internal("INTERNAL", "internal server error")
	}
	if user == nil {
		return nil, nil, Unauthorized("INVALID_CREDENTIALS", "invalid username or password")
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, nil, Internal("INTERNAL", "internal server error")
	}
	if !ok {
		return nil, nil, Unauthorized("INVALID_CREDENTIALS", "invalid username or password")
	}

	pair, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh rotates a refresh token: the old token is invalidated and a new
// pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.redis.GetRefreshTokenUserID(ctx, refreshToken)
	if err != nil {
		return nil, Unauthorized("INVALID_REFRESH_TOKEN", "invalid or expired refresh token")
	}

	if err := s.redis.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	return s.issueTokens(ctx, userID)
}

// Logout invalidates a refresh token. Unknown tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.redis.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, userID int64) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(userID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	refresh, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if err := s.redis.StoreRefreshToken(ctx, refresh, userID, s.tokens.RefreshExpiry()); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
