package meeting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"sinergia_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// fakeCalendar is a minimal stand-in for the Calendar v3 events endpoints.
type fakeCalendar struct {
	mu       sync.Mutex
	inserted map[string]interface{}
	query    string
	deleted  []string
}

func (f *fakeCalendar) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /calendars/{cal}/events", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.query = r.URL.RawQuery
		f.inserted = map[string]interface{}{}
		_ = json.NewDecoder(r.Body).Decode(&f.inserted)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":          "evt-123",
			"summary":     f.inserted["summary"],
			"hangoutLink": "https://meet.google.com/abc-defg-hij",
			"start":       f.inserted["start"],
			"end":         f.inserted["end"],
			"conferenceData": map[string]interface{}{
				"entryPoints": []map[string]string{
					{"entryPointType": "video", "uri": "https://meet.google.com/abc-defg-hij"},
				},
			},
		})
	})
	mux.HandleFunc("GET /calendars/{cal}/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      r.PathValue("id"),
			"summary": "Session",
			"conferenceData": map[string]interface{}{
				"entryPoints": []map[string]string{{"entryPointType": "video", "uri": "https://meet.google.com/from-entry"}},
			},
		})
	})
	mux.HandleFunc("DELETE /calendars/{cal}/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "gone" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusGone)
			_, _ = w.Write([]byte(`{"error":{"code":410,"message":"Resource has been deleted"}}`))
			return
		}
		if id == "broken" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"message":"Insufficient Permission"}}`))
			return
		}
		f.mu.Lock()
		f.deleted = append(f.deleted, id)
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func newTestGoogleProvider(t *testing.T) (*GoogleProvider, *fakeCalendar) {
	fake := &fakeCalendar{}
	ts := httptest.NewServer(fake.handler())
	t.Cleanup(ts.Close)

	svc, err := calendar.NewService(context.Background(),
		option.WithEndpoint(ts.URL+"/"),
		option.WithHTTPClient(ts.Client()),
	)
	require.NoError(t, err)
	return newGoogleProvider(svc, "primary", zap.NewNop()), fake
}

func TestGoogleProvider_CreateEvent(t *testing.T) {
	p, fake := newTestGoogleProvider(t)
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	ev, err := p.CreateEvent(context.Background(), EventRequest{
		Title:     "Teleatendimento Sinergia Pro",
		Start:     start,
		End:       start.Add(time.Hour),
		TimeZone:  "America/Sao_Paulo",
		Attendees: []string{"bia@example.com", "ana@example.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, "evt-123", ev.ID)
	assert.Equal(t, "https://meet.google.com/abc-defg-hij", ev.JoinLink())
	assert.Equal(t, "2025-01-01T10:00:00", ev.Start.DateTime)
	assert.Equal(t, "America/Sao_Paulo", ev.End.TimeZone)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Contains(t, fake.query, "conferenceDataVersion=1")
	start0 := fake.inserted["start"].(map[string]interface{})
	assert.Equal(t, "2025-01-01T10:00:00", start0["dateTime"])
	assert.Equal(t, "America/Sao_Paulo", start0["timeZone"])
	end0 := fake.inserted["end"].(map[string]interface{})
	assert.Equal(t, "2025-01-01T11:00:00", end0["dateTime"])
	assert.Len(t, fake.inserted["attendees"], 2)

	conf := fake.inserted["conferenceData"].(map[string]interface{})
	create := conf["createRequest"].(map[string]interface{})
	assert.True(t, strings.HasPrefix(create["requestId"].(string), requestIDPrefix))
	key := create["conferenceSolutionKey"].(map[string]interface{})
	assert.Equal(t, "hangoutsMeet", key["type"])
}

func TestGoogleProvider_GetEventFallsBackToEntryPoint(t *testing.T) {
	p, _ := newTestGoogleProvider(t)

	ev, err := p.GetEvent(context.Background(), "evt-9")
	require.NoError(t, err)
	assert.Equal(t, "evt-9", ev.ID)
	assert.Empty(t, ev.HangoutLink)
	assert.Equal(t, "https://meet.google.com/from-entry", ev.JoinLink())
}

func TestGoogleProvider_DeleteEvent(t *testing.T) {
	p, fake := newTestGoogleProvider(t)
	ctx := context.Background()

	require.NoError(t, p.DeleteEvent(ctx, "evt-1"))
	require.NoError(t, p.DeleteEvent(ctx, "gone"))
	err := p.DeleteEvent(ctx, "broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Insufficient Permission")

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, []string{"evt-1"}, fake.deleted)
}

func TestDisabledProvider(t *testing.T) {
	p := NewDisabledProvider()
	_, err := p.CreateEvent(context.Background(), EventRequest{})
	assert.ErrorIs(t, err, ErrProviderDisabled)
	assert.ErrorIs(t, p.DeleteEvent(context.Background(), "x"), ErrProviderDisabled)
}

func TestNewProvider_FallsBackToDisabled(t *testing.T) {
	cfg := &config.Config{MeetingProvider: config.MeetingProviderDisabled}
	p, err := NewProvider(cfg, zap.NewNop())
	require.NoError(t, err)
	_, err = p.GetEvent(context.Background(), "x")
	assert.ErrorIs(t, err, ErrProviderDisabled)

	cfg = &config.Config{
		MeetingProvider:       config.MeetingProviderGoogle,
		GoogleCredentialsFile: filepath.Join(t.TempDir(), "missing.json"),
	}
	p, err = NewProvider(cfg, zap.NewNop())
	require.NoError(t, err)
	_, err = p.CreateEvent(context.Background(), EventRequest{Title: "x"})
	assert.ErrorIs(t, err, ErrProviderDisabled)
}
