package shared

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sinergia_backend/internal/common"
)

// ErrInvalidToken is returned for every token that fails decoding: bad
// signature, unexpected algorithm, expired or malformed.
var ErrInvalidToken = errors.New("invalid or expired token")

// User represents a user in the system.
type User struct {
	ID             uint
	Email          string
	Name           string
	Role           common.Role
	Specialization *string
	LicenseNumber  *string
	CreatedAt      time.Time
}

// Service defines the user lookups other packages depend on.
type Service interface {
	GetUserByID(ctx context.Context, id uint) (*User, error)
}

// Claims represents the JWT claims structure
type Claims struct {
	UserID uint        `json:"user_id"`
	Role   common.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for JWT operations.
type TokenService interface {
	IssueToken(userID uint, role common.Role) (token string, expiresAt time.Time, err error)
	DecodeToken(tokenString string) (*Claims, error)
}
