package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// TokenTypeAccess marks short-lived tokens accepted by the auth middleware.
	TokenTypeAccess = "access"
	// TokenTypeRefresh marks long-lived tokens accepted only by the refresh endpoint.
	TokenTypeRefresh = "refresh"
)

// Claims are the JWT claims carried by every token this service issues.
type Claims struct {
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates HS256 tokens.
type TokenManager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager creates a token manager with the given signing secret and TTLs.
func NewTokenManager(secret, issuer string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateAccessToken issues a short-lived access token for the user.
func (m *TokenManager) GenerateAccessToken(userID int64) (string, error) {
	return m.generate(userID, TokenTypeAccess, m.accessTTL)
}

// GenerateRefreshToken issues a long-lived refresh token for the user.
func (m *TokenManager) GenerateRefreshToken(userID int64) (string, error) {
	return m.generate(userID, TokenTypeRefresh, m.refreshTTL)
}

func (m *TokenManager) generate(userID int64, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// ValidateAccessToken parses a token and verifies it is a valid access token.
func (m *TokenManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	return m.validate(tokenString, TokenTypeAccess)
}

// ValidateRefreshToken parses a token and verifies it is a valid refresh token.
// An access token presented here is rejected so the short TTL cannot be
// bypassed.
func (m *TokenManager) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return m.validate(tokenString, TokenTypeRefresh)
}

func (m *TokenManager) validate(tokenString, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.TokenType != wantType {
		return nil, fmt.Errorf("unexpected token type %q", claims.TokenType)
	}
	if claims.UserID == 0 {
		return nil, fmt.Errorf("token missing user id")
	}
	return claims, nil
}
