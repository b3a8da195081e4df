// File: internal/auth/model.go
package auth

import (
	"time"

	"sinergia_backend/internal/shared"
)

// TokenTypeBearer is reported in every login response.
const TokenTypeBearer = "bearer"

// RegisterResponse is the account summary returned after self-registration.
type RegisterResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// UserSummary is the user block of a login response.
type UserSummary struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// LoginResponse defines the structure for login responses.
type LoginResponse struct {
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
}

func toRegisterResponse(u *shared.User) RegisterResponse {
	return RegisterResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
	}
}

func toUserSummary(u *shared.User) UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role.String()}
}
