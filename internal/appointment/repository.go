// File: internal/appointment/repository.go
package appointment

import (
	"context"
	"errors"
	"fmt"

	"sinergia_backend/internal/common"

	"gorm.io/gorm"
)

// Repository defines the interface for appointment data operations.
type Repository interface {
	Create(ctx context.Context, appt *Appointment) error
	FindAll(ctx context.Context) ([]Appointment, error)
	FindByID(ctx context.Context, id uint) (*Appointment, error)
	UpdateMeeting(ctx context.Context, id uint, eventID, link *string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM appointment repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, appt *Appointment) error {
	if err := r.db.WithContext(ctx).Create(appt).Error; err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// FindAll returns every appointment ordered by date, then id.
func (r *gormRepository) FindAll(ctx context.Context) ([]Appointment, error) {
	var appts []Appointment
	if err := r.db.WithContext(ctx).Order("date ASC").Order("id ASC").Find(&appts).Error; err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appts, nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uint) (*Appointment, error) {
	var appt Appointment
	err := r.db.WithContext(ctx).First(&appt, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Appointment not found.")
		}
		return nil, fmt.Errorf("failed to find appointment: %w", err)
	}
	return &appt, nil
}

// UpdateMeeting overwrites both meeting fields. nil clears a field.
func (r *gormRepository) UpdateMeeting(ctx context.Context, id uint, eventID, link *string) error {
	result := r.db.WithContext(ctx).Model(&Appointment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"meeting_event_id": eventID,
		"meeting_link":     link,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update appointment meeting: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Appointment not found.")
	}
	return nil
}
