package appointment

import (
	"context"
	"strings"

	"sinergia_backend/internal/common"

	"go.uber.org/zap"
)

// Service defines the appointment operations.
type Service interface {
	List(ctx context.Context) ([]Appointment, error)
	Create(ctx context.Context, req CreateAppointmentRequest) (*Appointment, error)
	GetByID(ctx context.Context, id uint) (*Appointment, error)
	SetMeeting(ctx context.Context, appt *Appointment, eventID, link string) error
	ClearMeeting(ctx context.Context, appt *Appointment) error
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new appointment service.
func NewService(repo Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{repo: repo, logger: logger.Named("appointment")}
}

func (s *ServiceImplementation) List(ctx context.Context) ([]Appointment, error) {
	return s.repo.FindAll(ctx)
}

// Create books an appointment in the scheduled state. Participants are not
// checked for existence or role and no overlap check is performed.
func (s *ServiceImplementation) Create(ctx context.Context, req CreateAppointmentRequest) (*Appointment, error) {
	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, common.NewValidationAPIError(map[string]string{"Date": err.Error()})
	}

	appt := &Appointment{
		TherapistID: req.TherapistID,
		PatientID:   req.PatientID,
		Date:        date,
		Status:      StatusScheduled,
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		appt.Notes = &notes
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		s.logger.Error("Failed to create appointment", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Appointment created",
		zap.Uint("appointmentID", appt.ID),
		zap.Uint("therapistID", appt.TherapistID),
		zap.Uint("patientID", appt.PatientID),
	)
	return appt, nil
}

func (s *ServiceImplementation) GetByID(ctx context.Context, id uint) (*Appointment, error) {
	return s.repo.FindByID(ctx, id)
}

// SetMeeting stores the meeting identifiers on appt, in the database and in memory.
func (s *ServiceImplementation) SetMeeting(ctx context.Context, appt *Appointment, eventID, link string) error {
	if err := s.repo.UpdateMeeting(ctx, appt.ID, &eventID, &link); err != nil {
		return err
	}
	appt.MeetingEventID = &eventID
	appt.MeetingLink = &link
	return nil
}

// ClearMeeting removes both meeting fields from appt.
func (s *ServiceImplementation) ClearMeeting(ctx context.Context, appt *Appointment) error {
	if err := s.repo.UpdateMeeting(ctx, appt.ID, nil, nil); err != nil {
		return err
	}
	appt.MeetingEventID = nil
	appt.MeetingLink = nil
	return nil
}
