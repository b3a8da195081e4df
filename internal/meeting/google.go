package meeting

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"sinergia_backend/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	conferenceTypeMeet = "hangoutsMeet"
	requestIDPrefix    = "sinergia-"
	eventDateLayout    = "2006-01-02T15:04:05"
)

// GoogleProvider talks to Google Calendar and lets it attach a Google Meet
// conference to every event it creates.
type GoogleProvider struct {
	svc        *calendar.Service
	calendarID string
	logger     *zap.Logger
}

var _ Provider = (*GoogleProvider)(nil)

// NewGoogleProvider authenticates with the service-account key in
// GOOGLE_CREDENTIALS_FILE. When GOOGLE_IMPERSONATE_USER is set the key is
// used with domain-wide delegation on behalf of that user.
func NewGoogleProvider(cfg *config.Config, logger *zap.Logger) (*GoogleProvider, error) {
	data, err := os.ReadFile(cfg.GoogleCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read google credentials: %w", err)
	}
	jwtCfg, err := google.JWTConfigFromJSON(data, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse google credentials: %w", err)
	}
	if cfg.GoogleImpersonateUser != "" {
		jwtCfg.Subject = cfg.GoogleImpersonateUser
	}

	// The token source outlives any single request.
	ctx := context.Background()
	svc, err := calendar.NewService(ctx, option.WithTokenSource(jwtCfg.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}
	return newGoogleProvider(svc, cfg.GoogleCalendarID, logger), nil
}

func newGoogleProvider(svc *calendar.Service, calendarID string, logger *zap.Logger) *GoogleProvider {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &GoogleProvider{svc: svc, calendarID: calendarID, logger: logger.Named("google_calendar")}
}

func (p *GoogleProvider) CreateEvent(ctx context.Context, req EventRequest) (*Event, error) {
	attendees := make([]*calendar.EventAttendee, 0, len(req.Attendees))
	for _, email := range req.Attendees {
		attendees = append(attendees, &calendar.EventAttendee{Email: email})
	}

	ev := &calendar.Event{
		Summary:     req.Title,
		Description: req.Description,
		Start:       &calendar.EventDateTime{DateTime: req.Start.Format(eventDateLayout), TimeZone: req.TimeZone},
		End:         &calendar.EventDateTime{DateTime: req.End.Format(eventDateLayout), TimeZone: req.TimeZone},
		Attendees:   attendees,
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId:             requestIDPrefix + uuid.NewString(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: conferenceTypeMeet},
			},
		},
	}

	created, err := p.svc.Events.Insert(p.calendarID, ev).ConferenceDataVersion(1).Context(ctx).Do()
	if err != nil {
		p.logger.Error("Failed to insert calendar event", zap.Error(err))
		return nil, fmt.Errorf("calendar insert: %w", err)
	}
	p.logger.Info("Calendar event created", zap.String("eventID", created.Id))
	return toEvent(created), nil
}

func (p *GoogleProvider) GetEvent(ctx context.Context, eventID string) (*Event, error) {
	ev, err := p.svc.Events.Get(p.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("calendar get: %w", err)
	}
	return toEvent(ev), nil
}

// DeleteEvent removes the event. An event that no longer exists counts as deleted.
func (p *GoogleProvider) DeleteEvent(ctx context.Context, eventID string) error {
	err := p.svc.Events.Delete(p.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		var gErr *googleapi.Error
		if errors.As(err, &gErr) && (gErr.Code == http.StatusNotFound || gErr.Code == http.StatusGone) {
			p.logger.Info("Calendar event already gone", zap.String("eventID", eventID))
			return nil
		}
		return fmt.Errorf("calendar delete: %w", err)
	}
	return nil
}

func toEvent(ev *calendar.Event) *Event {
	out := &Event{
		ID:          ev.Id,
		Title:       ev.Summary,
		HangoutLink: ev.HangoutLink,
	}
	if ev.ConferenceData != nil {
		for _, ep := range ev.ConferenceData.EntryPoints {
			if ep != nil && ep.Uri != "" {
				out.EntryPointURI = ep.Uri
				break
			}
		}
	}
	if ev.Start != nil {
		out.Start = EventTime{DateTime: ev.Start.DateTime, TimeZone: ev.Start.TimeZone}
	}
	if ev.End != nil {
		out.End = EventTime{DateTime: ev.End.DateTime, TimeZone: ev.End.TimeZone}
	}
	return out
}

// NewProvider selects the provider named by MEETING_PROVIDER.
func NewProvider(cfg *config.Config, logger *zap.Logger) (Provider, error) {
	switch cfg.MeetingProvider {
	case config.MeetingProviderDisabled:
		logger.Warn("Meeting provider disabled, meeting operations will fail")
		return NewDisabledProvider(), nil
	default:
		if !cfg.GoogleCredentialsAvailable() {
			logger.Warn("Google credentials file not found, meeting provider disabled",
				zap.String("file", cfg.GoogleCredentialsFile))
			return NewDisabledProvider(), nil
		}
		return NewGoogleProvider(cfg, logger)
	}
}
