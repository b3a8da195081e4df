package shared

import (
	"time"
)

// UserResponse is the public view of an account. It never carries the password hash.
type UserResponse struct {
	ID             uint      `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	Specialization *string   `json:"specialization,omitempty"`
	LicenseNumber  *string   `json:"license_number,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToUserResponse converts a shared.User to a UserResponse DTO.
func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           u.Role.String(),
		Specialization: u.Specialization,
		LicenseNumber:  u.LicenseNumber,
		CreatedAt:      u.CreatedAt,
	}
}

// ToUserResponses converts a slice of users.
func ToUserResponses(users []*User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out
}
