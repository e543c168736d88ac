package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/eaaniwezi/anirecs/internal/auth"
	"github.com/eaaniwezi/anirecs/internal/domain"
	"github.com/eaaniwezi/anirecs/internal/event"
	"github.com/eaaniwezi/anirecs/internal/repository"
	apperrors "github.com/eaaniwezi/anirecs/pkg/errors"
)

// tokenTypeBearer is the token_type value returned with every token pair.
const tokenTypeBearer = "bearer"

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// AuthService implements account and token operations.
type AuthService struct {
	userRepo     repository.UserRepository
	hasher       *auth.PasswordHasher
	tokenManager *auth.TokenManager
	producer     *event.Producer
	logger       *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	hasher *auth.PasswordHasher,
	tokenManager *auth.TokenManager,
	producer *event.Producer,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		hasher:       hasher,
		tokenManager: tokenManager,
		producer:     producer,
		logger:       logger,
	}
}

// RegisterInput holds the parameters for registering a new account.
type RegisterInput struct {
	Username string
	Password string
}

// LoginInput holds the parameters for logging in.
type LoginInput struct {
	Username string
	Password string
}

// Register creates a new account with a bcrypt-hashed password. A taken
// username is reported as invalid input, not as a conflict.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Username == "" {
		return nil, apperrors.InvalidInput("username is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		PasswordHash: hash,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, apperrors.InvalidInput("username already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.producer.UserRegistered(ctx, user.ID, user.Username)

	s.logger.InfoContext(ctx, "user registered",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login authenticates a user and returns an access/refresh token pair.
// Unknown username and wrong password produce the same error so callers
// cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.TokenPair, error) {
	if input.Username == "" || input.Password == "" {
		return nil, apperrors.InvalidInput("username and password are required")
	}

	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, apperrors.Forbidden("invalid username or password")
	}

	if !s.hasher.Verify(user.PasswordHash, input.Password) {
		return nil, apperrors.Forbidden("invalid username or password")
	}

	tokens, err := s.generateTokenPair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return tokens, nil
}

// Refresh validates a refresh token and issues a fresh access token. The
// refresh token itself is not rotated. If the account was deleted since the
// token was issued the refresh fails with not found.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, apperrors.InvalidInput("refresh token is required")
	}

	claims, err := s.tokenManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user", claims.UserID)
		}
		return nil, fmt.Errorf("get user for token refresh: %w", err)
	}

	accessToken, err := s.tokenManager.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	s.logger.InfoContext(ctx, "access token refreshed",
		slog.Int64("user_id", user.ID),
	)

	return &domain.TokenPair{
		AccessToken: accessToken,
		TokenType:   tokenTypeBearer,
	}, nil
}

// Logout acknowledges a logout. Tokens are stateless and simply expire;
// clients are expected to discard them.
func (s *AuthService) Logout(ctx context.Context, userID int64) {
	s.logger.InfoContext(ctx, "user logged out",
		slog.Int64("user_id", userID),
	)
}

// CurrentUser returns the account behind the authenticated user ID. A stale
// token for a deleted account is treated as unauthorized.
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid or expired token")
		}
		return nil, fmt.Errorf("get current user: %w", err)
	}
	return user, nil
}

// ListUsers returns registered accounts, optionally filtered by a username
// search term.
func (s *AuthService) ListUsers(ctx context.Context, usernameFilter string) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx, usernameFilter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetUser returns a single account by ID.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user", id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateUsername renames an account. Users may only rename themselves.
func (s *AuthService) UpdateUsername(ctx context.Context, callerID, targetID int64, username string) (*domain.User, error) {
	if callerID != targetID {
		return nil, apperrors.Forbidden("cannot update another user's account")
	}
	if username == "" {
		return nil, apperrors.InvalidInput("username is required")
	}

	if err := s.userRepo.UpdateUsername(ctx, targetID, username); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, apperrors.InvalidInput("username already exists")
		}
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user", targetID)
		}
		return nil, fmt.Errorf("update username: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}

	s.logger.InfoContext(ctx, "username updated",
		slog.Int64("user_id", targetID),
		slog.String("username", username),
	)

	return user, nil
}

// DeleteAccount removes the authenticated user's own account.
func (s *AuthService) DeleteAccount(ctx context.Context, userID int64) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.InfoContext(ctx, "user deleted",
		slog.Int64("user_id", userID),
	)

	return nil
}

// ValidateAccessToken checks an access token and returns its claims. Used by
// the HTTP auth middleware.
func (s *AuthService) ValidateAccessToken(token string) (*auth.Claims, error) {
	return s.tokenManager.ValidateAccessToken(token)
}

func (s *AuthService) generateTokenPair(userID int64) (*domain.TokenPair, error) {
	accessToken, err := s.tokenManager.GenerateAccessToken(userID)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.tokenManager.GenerateRefreshToken(userID)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenTypeBearer,
	}, nil
}
