package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"residora/internal/caching"
	"residora/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthService handles JWT access tokens and opaque refresh tokens.
type AuthService interface {
	GenerateTokens(ctx context.Context, userID uuid.UUID, role string) (*models.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
	RevokeToken(ctx context.Context, refreshToken string) error
}

type authService struct {
	cacheSvc   caching.CacheService
	userRoles  func(ctx context.Context, userID uuid.UUID) (string, error)
	jwtSecret  []byte
	tokenTTL   int // Access token TTL in seconds
	refreshTTL int // Refresh token TTL in seconds
}

// TokenClaims represents JWT claims
type TokenClaims struct {
	Role    string `json:"role"`
	TokenID string `json:"token_id"`
	jwt.RegisteredClaims
}

// NewAuthService creates a new authentication service. roleLookup resolves a
// user's current role when a refresh token is exchanged.
func NewAuthService(cacheSvc caching.CacheService, roleLookup func(ctx context.Context, userID uuid.UUID) (string, error), jwtSecret string, tokenTTLSeconds, refreshTTLSeconds int) AuthService {
	return &authService{
		cacheSvc:   cacheSvc,
		userRoles:  roleLookup,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTLSeconds,
		refreshTTL: refreshTTLSeconds,
	}
}

func (s *authService) GenerateTokens(ctx context.Context, userID uuid.UUID, role string) (*models.TokenResponse, error) {
	now := time.Now()
	tokenID := uuid.NewString()

	claims := TokenClaims{
		Role:    role,
		TokenID: tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "residora-auth",
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{"residora-api"},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.tokenTTL) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessTokenString, err := accessToken.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %v", err)
	}

	refreshToken := s.generateSecureToken()
	refreshTokenHash := s.hashToken(refreshToken)

	refreshTokenData := fmt.Sprintf("%s:%d", userID.String(), now.Unix()+int64(s.refreshTTL))
	cacheKey := fmt.Sprintf("residora:refresh_token:%s", refreshTokenHash)
	if err := s.cacheSvc.SetString(ctx, cacheKey, refreshTokenData, time.Duration(s.refreshTTL)*time.Second); err != nil {
		log.Printf("Failed to store refresh token: %v", err)
		// Continue - token generation succeeded
	}

	return &models.TokenResponse{
		AccessToken:  accessTokenString,
		TokenType:    "Bearer",
		ExpiresIn:    s.tokenTTL,
		RefreshToken: refreshToken,
	}, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	refreshTokenHash := s.hashToken(refreshToken)
	cacheKey := fmt.Sprintf("residora:refresh_token:%s", refreshTokenHash)

	stored, err := s.cacheSvc.GetString(ctx, cacheKey)
	if err != nil {
		return nil, fmt.Errorf("refresh token not recognized")
	}

	parts := strings.SplitN(stored, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("refresh token record malformed")
	}

	userID, err := uuid.Parse(parts[0])
	if err != nil {
		return nil, fmt.Errorf("refresh token record malformed")
	}

	expiresAt, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || time.Now().Unix() > expiresAt {
		return nil, fmt.Errorf("refresh token expired")
	}

	role, err := s.userRoles(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("refresh token user unknown")
	}

	// Single use: rotate the refresh token on every exchange
	if err := s.cacheSvc.Delete(ctx, cacheKey); err != nil {
		log.Printf("Failed to rotate refresh token: %v", err)
	}

	return s.GenerateTokens(ctx, userID, role)
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func (s *authService) RevokeToken(ctx context.Context, refreshToken string) error {
	refreshTokenHash := s.hashToken(refreshToken)
	return s.cacheSvc.Delete(ctx, fmt.Sprintf("residora:refresh_token:%s", refreshTokenHash))
}

func (s *authService) generateSecureToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is unrecoverable for token issuance
		panic(fmt.Sprintf("secure token generation failed: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

func (s *authService) hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
