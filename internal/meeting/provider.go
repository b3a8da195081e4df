package meeting

import (
	"context"
	"errors"
	"time"
)

// ErrProviderDisabled is returned by every call to the disabled provider.
var ErrProviderDisabled = errors.New("meeting provider is disabled (set MEETING_PROVIDER=google and GOOGLE_CREDENTIALS_FILE)")

// EventRequest describes a calendar event with an attached video conference.
// Start and End are wall-clock times interpreted in TimeZone.
type EventRequest struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
	Attendees   []string
}

// EventTime is an event boundary as reported by the calendar.
type EventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone,omitempty"`
}

// Event is a calendar event created by a Provider.
type Event struct {
	ID          string
	Title       string
	HangoutLink string
	// EntryPointURI is the first conference entry point, if any.
	EntryPointURI string
	Start         EventTime
	End           EventTime
}

// JoinLink returns the link participants use to join, preferring the hangout link.
func (e *Event) JoinLink() string {
	if e.HangoutLink != "" {
		return e.HangoutLink
	}
	return e.EntryPointURI
}

// Provider creates, fetches and deletes calendar events with video meetings.
type Provider interface {
	CreateEvent(ctx context.Context, req EventRequest) (*Event, error)
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

type disabledProvider struct{}

// NewDisabledProvider returns a Provider that fails every call.
func NewDisabledProvider() Provider {
	return disabledProvider{}
}

func (disabledProvider) CreateEvent(context.Context, EventRequest) (*Event, error) {
	return nil, ErrProviderDisabled
}

func (disabledProvider) GetEvent(context.Context, string) (*Event, error) {
	return nil, ErrProviderDisabled
}

func (disabledProvider) DeleteEvent(context.Context, string) error {
	return ErrProviderDisabled
}
