// File: internal/auth/service.go
package auth

import (
	"fmt"
	"strconv"
	"time"

	"sinergia_backend/internal/common"
	"sinergia_backend/internal/config"
	"sinergia_backend/internal/shared"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// JWTService issues and decodes HS256 access tokens.
type JWTService struct {
	cfg    *config.Config
	logger *zap.Logger
	now    func() time.Time
}

var _ shared.TokenService = (*JWTService)(nil)

// NewJWTService creates a new JWT service.
func NewJWTService(cfg *config.Config, logger *zap.Logger) *JWTService {
	return &JWTService{cfg: cfg, logger: logger.Named("jwt"), now: time.Now}
}

// IssueToken signs a token for userID carrying role, valid for the configured lifetime.
func (s *JWTService) IssueToken(userID uint, role common.Role) (string, time.Time, error) {
	now := s.now()
	expirationTime := now.Add(s.cfg.JWTAccessTokenExpiry)

	claims := &shared.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.JWTIssuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		s.logger.Error("Failed to sign access token", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("could not sign access token: %w", err)
	}
	return tokenString, expirationTime, nil
}

// DecodeToken validates tokenString and returns its claims. Every failure
// (signature, algorithm, expiry, malformed input) yields shared.ErrInvalidToken.
func (s *JWTService) DecodeToken(tokenString string) (*shared.Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.cfg.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.JWTIssuer))
	}

	claims := &shared.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	}, opts...)
	if err != nil {
		s.logger.Debug("Token rejected", zap.Error(err))
		return nil, shared.ErrInvalidToken
	}
	if !token.Valid || claims.UserID == 0 || !claims.Role.Valid() {
		s.logger.Debug("Token claims are invalid")
		return nil, shared.ErrInvalidToken
	}
	return claims, nil
}
