// File: internal/appointment/model.go
package appointment

import (
	"fmt"
	"strings"
	"time"

	"sinergia_backend/internal/common"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// DateLayout is the wall-clock format appointment dates are rendered in.
const DateLayout = "2006-01-02T15:04:05"

// acceptedDateLayouts are tried in order when parsing a requested date.
var acceptedDateLayouts = []string{
	DateLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339Nano,
}

// Appointment represents the appointment model in the database.
type Appointment struct {
	common.BaseModel
	TherapistID    uint      `gorm:"not null;index"`
	PatientID      uint      `gorm:"not null;index"`
	Date           time.Time `gorm:"type:timestamp;not null;index"`
	Status         Status    `gorm:"type:varchar(20);not null;default:scheduled"`
	MeetingEventID *string   `gorm:"type:varchar(255)"`
	MeetingLink    *string   `gorm:"type:text"`
	Notes          *string   `gorm:"type:text"`
}

// TableName specifies the table name for the Appointment model.
func (Appointment) TableName() string {
	return "appointments"
}

// WallClock returns the appointment date as a wall-clock value in UTC,
// whatever location the driver decoded it into.
func (a *Appointment) WallClock() time.Time {
	return a.Date.UTC()
}

// HasMeeting reports whether a meeting link is attached.
func (a *Appointment) HasMeeting() bool {
	return a.MeetingLink != nil && *a.MeetingLink != ""
}

// --- DTOs ---

// CreateAppointmentRequest is accepted as a JSON body or as query/form parameters.
type CreateAppointmentRequest struct {
	TherapistID uint   `json:"therapist_id" form:"therapist_id" binding:"required,gt=0"`
	PatientID   uint   `json:"patient_id" form:"patient_id" binding:"required,gt=0"`
	Date        string `json:"date" form:"date" binding:"required"`
	Notes       string `json:"notes,omitempty" form:"notes" binding:"omitempty,max=2000"`
}

// AppointmentResponse defines the structure for appointment data sent in API responses.
type AppointmentResponse struct {
	ID             uint      `json:"id"`
	TherapistID    uint      `json:"therapist_id"`
	PatientID      uint      `json:"patient_id"`
	Date           string    `json:"date"`
	Status         Status    `json:"status"`
	MeetingEventID *string   `json:"meeting_event_id"`
	MeetingLink    *string   `json:"meeting_link"`
	Notes          *string   `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToAppointmentResponse converts an Appointment model to its response DTO.
func ToAppointmentResponse(a *Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:             a.ID,
		TherapistID:    a.TherapistID,
		PatientID:      a.PatientID,
		Date:           a.WallClock().Format(DateLayout),
		Status:         a.Status,
		MeetingEventID: a.MeetingEventID,
		MeetingLink:    a.MeetingLink,
		Notes:          a.Notes,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// ParseDate parses an appointment date. Any UTC offset in the input is
// discarded: dates are stored as wall-clock values.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range acceptedDateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected format %s", s, DateLayout)
}
