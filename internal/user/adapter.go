package user

import (
	"strings"

	"sinergia_backend/internal/shared"
)

// DBToShared converts a GORM user.User model to a shared.User DTO.
func DBToShared(dbUser *User) *shared.User {
	if dbUser == nil {
		return nil
	}
	return &shared.User{
		ID:             dbUser.ID,
		Email:          dbUser.Email,
		Name:           dbUser.Name,
		Role:           dbUser.Role,
		Specialization: dbUser.Specialization,
		LicenseNumber:  dbUser.LicenseNumber,
		CreatedAt:      dbUser.CreatedAt,
	}
}

// DBListToShared converts a slice of GORM users.
func DBListToShared(dbUsers []User) []*shared.User {
	out := make([]*shared.User, 0, len(dbUsers))
	for i := range dbUsers {
		out = append(out, DBToShared(&dbUsers[i]))
	}
	return out
}

// NormalizeEmail lowercases and trims an email address before storage or lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
