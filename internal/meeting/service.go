package meeting

import (
	"context"
	"errors"
	"fmt"

	"sinergia_backend/internal/appointment"
	"sinergia_backend/internal/common"
	"sinergia_backend/internal/config"
	"sinergia_backend/internal/shared"

	"go.uber.org/zap"
)

// CreateMeetingRequest is the body of POST /api/google-meet/create.
type CreateMeetingRequest struct {
	AppointmentID uint   `json:"appointment_id" binding:"required,gt=0"`
	Title         string `json:"title,omitempty" binding:"omitempty,max=255"`
}

// MeetingSummary is returned after a meeting is created.
type MeetingSummary struct {
	Message  string    `json:"message"`
	EventID  string    `json:"event_id"`
	Title    string    `json:"title"`
	MeetLink string    `json:"meet_link"`
	Start    EventTime `json:"start"`
	End      EventTime `json:"end"`
}

// MeetingLink is the stored meeting of an appointment.
type MeetingLink struct {
	AppointmentID uint    `json:"appointment_id"`
	MeetLink      string  `json:"meet_link"`
	EventID       *string `json:"event_id"`
}

// Service attaches video meetings to appointments.
type Service interface {
	CreateMeeting(ctx context.Context, caller common.Principal, req CreateMeetingRequest) (*MeetingSummary, error)
	GetMeetingLink(ctx context.Context, caller common.Principal, appointmentID uint, refresh bool) (*MeetingLink, error)
	DeleteMeeting(ctx context.Context, caller common.Principal, appointmentID uint) error
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	appointments appointment.Service
	users        shared.Service
	provider     Provider
	cfg          *config.Config
	logger       *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new meeting service.
func NewService(
	appointments appointment.Service,
	users shared.Service,
	provider Provider,
	cfg *config.Config,
	logger *zap.Logger,
) *ServiceImplementation {
	return &ServiceImplementation{
		appointments: appointments,
		users:        users,
		provider:     provider,
		cfg:          cfg,
		logger:       logger.Named("meeting"),
	}
}

// CreateMeeting creates a calendar event with a video conference for the
// appointment and stores its identifiers. A provider failure leaves the
// appointment untouched.
func (s *ServiceImplementation) CreateMeeting(ctx context.Context, caller common.Principal, req CreateMeetingRequest) (*MeetingSummary, error) {
	appt, err := s.appointments.GetByID(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if !appointment.CanManageMeeting(caller, appt) {
		s.logger.Warn("Meeting creation denied",
			zap.Uint("userID", caller.UserID), zap.Uint("appointmentID", appt.ID))
		return nil, common.ErrForbidden.WithDetails("No permission to create a meeting for this appointment.")
	}

	therapist, err := s.participant(ctx, appt.TherapistID)
	if err != nil {
		return nil, err
	}
	patient, err := s.participant(ctx, appt.PatientID)
	if err != nil {
		return nil, err
	}

	title := req.Title
	if title == "" {
		title = s.cfg.MeetingDefaultTitle
	}
	if appt.MeetingEventID != nil {
		s.logger.Warn("Appointment already has a meeting, replacing it",
			zap.Uint("appointmentID", appt.ID), zap.String("previousEventID", *appt.MeetingEventID))
	}

	event, err := s.provider.CreateEvent(ctx, EventRequest{
		Title:       title,
		Description: fmt.Sprintf("Telehealth session between %s and %s", therapist.Email, patient.Email),
		Start:       appt.WallClock(),
		End:         appt.WallClock().Add(s.cfg.MeetingDuration),
		TimeZone:    s.cfg.MeetingTimezone,
		Attendees:   []string{therapist.Email, patient.Email},
	})
	if err != nil {
		s.logger.Error("Provider failed to create meeting", zap.Error(err), zap.Uint("appointmentID", appt.ID))
		return nil, common.ErrInternalServer.WithMessage("Failed to create meeting: " + err.Error())
	}

	link := event.JoinLink()
	if err := s.appointments.SetMeeting(ctx, appt, event.ID, link); err != nil {
		s.logger.Error("Failed to store meeting, removing orphan event",
			zap.Error(err), zap.Uint("appointmentID", appt.ID), zap.String("eventID", event.ID))
		if delErr := s.provider.DeleteEvent(ctx, event.ID); delErr != nil {
			s.logger.Error("Failed to remove orphan event", zap.Error(delErr), zap.String("eventID", event.ID))
		}
		return nil, err
	}

	s.logger.Info("Meeting created", zap.Uint("appointmentID", appt.ID), zap.String("eventID", event.ID))
	return &MeetingSummary{
		Message:  "Meeting created successfully",
		EventID:  event.ID,
		Title:    event.Title,
		MeetLink: link,
		Start:    event.Start,
		End:      event.End,
	}, nil
}

// GetMeetingLink returns the stored meeting of the appointment. With refresh
// the event is fetched from the provider first and the stored link updated.
func (s *ServiceImplementation) GetMeetingLink(ctx context.Context, caller common.Principal, appointmentID uint, refresh bool) (*MeetingLink, error) {
	appt, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !appointment.CanViewMeeting(caller, appt) {
		return nil, common.ErrForbidden.WithDetails("No permission to access this appointment.")
	}

	if refresh && appt.MeetingEventID != nil && *appt.MeetingEventID != "" {
		event, err := s.provider.GetEvent(ctx, *appt.MeetingEventID)
		if err != nil {
			s.logger.Error("Provider failed to fetch meeting", zap.Error(err), zap.Uint("appointmentID", appt.ID))
			return nil, common.ErrInternalServer.WithMessage("Failed to fetch meeting: " + err.Error())
		}
		if link := event.JoinLink(); link != "" && (appt.MeetingLink == nil || *appt.MeetingLink != link) {
			if err := s.appointments.SetMeeting(ctx, appt, event.ID, link); err != nil {
				return nil, err
			}
		}
	}

	if !appt.HasMeeting() {
		return nil, common.ErrNotFound.WithDetails("No meeting has been created for this appointment.")
	}
	return &MeetingLink{
		AppointmentID: appt.ID,
		MeetLink:      *appt.MeetingLink,
		EventID:       appt.MeetingEventID,
	}, nil
}

// DeleteMeeting removes the provider event, if any, then clears the stored
// meeting fields. Deleting an appointment without a meeting succeeds.
func (s *ServiceImplementation) DeleteMeeting(ctx context.Context, caller common.Principal, appointmentID uint) error {
	appt, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if !appointment.CanManageMeeting(caller, appt) {
		return common.ErrForbidden.WithDetails("No permission to delete the meeting of this appointment.")
	}

	if appt.MeetingEventID != nil && *appt.MeetingEventID != "" {
		if err := s.provider.DeleteEvent(ctx, *appt.MeetingEventID); err != nil {
			s.logger.Error("Provider failed to delete meeting", zap.Error(err), zap.Uint("appointmentID", appt.ID))
			return common.ErrInternalServer.WithMessage("Failed to delete meeting: " + err.Error())
		}
	}

	if appt.MeetingEventID == nil && appt.MeetingLink == nil {
		return nil
	}
	if err := s.appointments.ClearMeeting(ctx, appt); err != nil {
		return err
	}
	s.logger.Info("Meeting deleted", zap.Uint("appointmentID", appt.ID))
	return nil
}

func (s *ServiceImplementation) participant(ctx context.Context, id uint) (*shared.User, error) {
	usr, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound.WithDetails("Therapist or patient not found.")
		}
		return nil, err
	}
	return usr, nil
}
