package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"sinergia_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type AppointmentTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *ServiceImplementation
	router  *gin.Engine
}

func (s *AppointmentTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(filepath.Join(s.T().TempDir(), "appointments.db")), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(&Appointment{}))
	s.db = db

	s.service = NewService(NewGORMRepository(db), zap.NewNop())
	s.router = gin.New()
	NewHandler(s.service, zap.NewNop()).RegisterRoutes(s.router.Group("/api"))
}

func (s *AppointmentTestSuite) TearDownTest() {
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (s *AppointmentTestSuite) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *AppointmentTestSuite) postJSON(body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/appointments/", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

func (s *AppointmentTestSuite) TestCreateFromJSON() {
	w := s.postJSON(gin.H{"therapist_id": 2, "patient_id": 1, "date": "2025-01-01T10:00:00"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("scheduled", resp["status"])
	s.Equal("2025-01-01T10:00:00", resp["date"])
	s.Nil(resp["meeting_link"])
	s.Nil(resp["meeting_event_id"])
	s.Contains(resp, "meeting_link")
}

func (s *AppointmentTestSuite) TestCreateFromQueryParameters() {
	req := httptest.NewRequest(http.MethodPost, "/api/appointments/?therapist_id=2&patient_id=1&date=2025-02-03T09:30:00", nil)
	w := s.do(req)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp AppointmentResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(uint(2), resp.TherapistID)
	s.Equal("2025-02-03T09:30:00", resp.Date)
}

func (s *AppointmentTestSuite) TestCreateValidation() {
	w := s.postJSON(gin.H{"therapist_id": 2, "patient_id": 1, "date": "next monday"})
	s.Equal(http.StatusBadRequest, w.Code)
	var apiErr common.APIError
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &apiErr))
	s.Equal("VALIDATION_ERROR", apiErr.Code)

	w = s.postJSON(gin.H{"patient_id": 1, "date": "2025-01-01T10:00:00"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *AppointmentTestSuite) TestListOrderedByDate() {
	s.Require().Equal(http.StatusOK, s.postJSON(gin.H{"therapist_id": 2, "patient_id": 1, "date": "2025-03-01T10:00:00"}).Code)
	s.Require().Equal(http.StatusOK, s.postJSON(gin.H{"therapist_id": 2, "patient_id": 1, "date": "2025-01-01T10:00:00"}).Code)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/appointments/", nil))
	s.Require().Equal(http.StatusOK, w.Code)

	var resp []AppointmentResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().Len(resp, 2)
	s.Equal("2025-01-01T10:00:00", resp[0].Date)
	s.Equal("2025-03-01T10:00:00", resp[1].Date)
}

func (s *AppointmentTestSuite) TestListEmptyIsArray() {
	w := s.do(httptest.NewRequest(http.MethodGet, "/api/appointments/", nil))
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq("[]", w.Body.String())
}

func (s *AppointmentTestSuite) TestSetAndClearMeeting() {
	ctx := context.Background()
	appt, err := s.service.Create(ctx, CreateAppointmentRequest{TherapistID: 2, PatientID: 1, Date: "2025-01-01T10:00:00"})
	s.Require().NoError(err)

	s.Require().NoError(s.service.SetMeeting(ctx, appt, "evt-1", "https://meet.google.com/abc"))
	stored, err := s.service.GetByID(ctx, appt.ID)
	s.Require().NoError(err)
	s.Require().NotNil(stored.MeetingLink)
	s.Equal("https://meet.google.com/abc", *stored.MeetingLink)
	s.Equal("evt-1", *stored.MeetingEventID)

	s.Require().NoError(s.service.ClearMeeting(ctx, stored))
	stored, err = s.service.GetByID(ctx, appt.ID)
	s.Require().NoError(err)
	s.Nil(stored.MeetingLink)
	s.Nil(stored.MeetingEventID)
}

func (s *AppointmentTestSuite) TestReloadedDateKeepsWallClock() {
	ctx := context.Background()
	appt, err := s.service.Create(ctx, CreateAppointmentRequest{TherapistID: 2, PatientID: 1, Date: "2025-01-01T10:00:00"})
	s.Require().NoError(err)

	stored, err := s.service.GetByID(ctx, appt.ID)
	s.Require().NoError(err)
	s.Equal("2025-01-01T10:00:00", ToAppointmentResponse(stored).Date)

	// A driver that decodes into a non-UTC location must not shift the date.
	stored.Date = stored.Date.In(time.FixedZone("BRT", -3*60*60))
	s.Equal("2025-01-01T10:00:00", ToAppointmentResponse(stored).Date)
	s.Equal(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), stored.WallClock())
}

func (s *AppointmentTestSuite) TestGetByIDNotFound() {
	_, err := s.service.GetByID(context.Background(), 404)
	s.True(errors.Is(err, common.ErrNotFound))
}

func TestAppointmentTestSuite(t *testing.T) {
	suite.Run(t, new(AppointmentTestSuite))
}
