// File: internal/user/model.go
package user

import (
	"time"

	"sinergia_backend/internal/common"
	"sinergia_backend/internal/shared"
)

// User represents the user model in the database.
type User struct {
	common.BaseModel
	Email          string      `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash   string      `gorm:"type:varchar(255);not null"`
	Name           string      `gorm:"type:varchar(255);not null"`
	Role           common.Role `gorm:"type:varchar(20);not null;default:patient;index"`
	Specialization *string     `gorm:"type:varchar(255)"`
	LicenseNumber  *string     `gorm:"type:varchar(100)"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// --- DTOs (Data Transfer Objects) for API requests/responses ---

// RegisterRequest is the body of a public self-registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=1,max=72"` // bcrypt max is 72 bytes
	Name     string `json:"name" binding:"required,max=255"`
	Role     string `json:"role,omitempty" binding:"omitempty,oneof=patient therapist admin"`
}

// LoginRequest carries email/password credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateProfessionalRequest is the body an admin sends to onboard a therapist.
// The license (CRM/CRP) may be sent as "license" or "license_number".
type CreateProfessionalRequest struct {
	Email          string `json:"email" binding:"required,email,max=255"`
	Name           string `json:"name" binding:"required,max=255"`
	Specialization string `json:"specialization" binding:"required,max=255"`
	License        string `json:"license" binding:"required_without=LicenseNumber,max=100"`
	LicenseNumber  string `json:"license_number,omitempty" binding:"max=100"`
}

// LicenseValue returns the license, preferring the "license" key.
func (r CreateProfessionalRequest) LicenseValue() string {
	if r.License != "" {
		return r.License
	}
	return r.LicenseNumber
}

// CreatedProfessional is returned once, at creation, with the only copy of
// the plain-text temporary password.
type CreatedProfessional struct {
	User              *shared.User
	TemporaryPassword string
}

// Statistics holds per-role account counts.
type Statistics struct {
	TotalUsers      int64 `json:"total_users"`
	TotalTherapists int64 `json:"total_therapists"`
	TotalPatients   int64 `json:"total_patients"`
	TotalAdmins     int64 `json:"total_admins"`
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *shared.User
}
