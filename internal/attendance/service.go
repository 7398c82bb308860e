package attendance

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"classtrack/internal/model"
)

// DefaultSessionMinutes applies when a session is created without an
// explicit duration.
const DefaultSessionMinutes = 30

// Service coordinates session creation and check-in validation.
type Service struct {
	repo           *Repository
	baseURL        string
	defaultMinutes int
}

// NewService creates a service backed by a repository. baseURL is the
// externally reachable origin embedded in check-in URLs.
func NewService(repo *Repository, baseURL string, defaultMinutes int) *Service {
	if defaultMinutes <= 0 {
		defaultMinutes = DefaultSessionMinutes
	}
	return &Service{repo: repo, baseURL: baseURL, defaultMinutes: defaultMinutes}
}

// CreatedSession is the result of opening a check-in window.
type CreatedSession struct {
	model.Session
	CheckinURL string `json:"checkin_url"`
}

// CreateSession opens a check-in window for a section. durationMinutes <= 0
// selects the default. The faculty id must resolve to a faculty user and the
// section must exist.
func (s *Service) CreateSession(ctx context.Context, facultyID, sectionID string, durationMinutes int) (CreatedSession, error) {
	faculty, err := s.repo.GetUser(ctx, facultyID)
	if err != nil {
		return CreatedSession{}, fmt.Errorf("resolve faculty: %w", err)
	}
	if faculty == nil || faculty.Role != model.RoleFaculty {
		return CreatedSession{}, ErrInvalidFaculty
	}

	section, err := s.repo.GetSection(ctx, sectionID)
	if err != nil {
		return CreatedSession{}, fmt.Errorf("resolve section: %w", err)
	}
	if section == nil {
		return CreatedSession{}, ErrInvalidSection
	}

	if durationMinutes <= 0 {
		durationMinutes = s.defaultMinutes
	}

	start := time.Now().UTC()
	sess := model.Session{
		ID:        uuid.NewString(),
		SectionID: section.ID,
		Token:     newToken(),
		StartAt:   start,
		ExpiresAt: start.Add(time.Duration(durationMinutes) * time.Minute),
	}
	if err := s.repo.InsertSession(ctx, sess); err != nil {
		return CreatedSession{}, fmt.Errorf("insert session: %w", err)
	}

	return CreatedSession{Session: sess, CheckinURL: s.CheckinURL(sess)}, nil
}

// CheckinURL builds the URL students open to check in, with session id and
// token as query parameters. This is what the QR code encodes.
func (s *Service) CheckinURL(sess model.Session) string {
	q := url.Values{}
	q.Set("session", sess.ID)
	q.Set("token", sess.Token)
	return s.baseURL + "/scan?" + q.Encode()
}

// CheckIn records a student's presence against a session. Checks run in a
// fixed order and the first failure short-circuits, so an expired session
// with a wrong token reports ErrInvalidToken, never ErrSessionExpired.
func (s *Service) CheckIn(ctx context.Context, sessionID, token, studentID string) (model.Attendance, error) {
	sess, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return model.Attendance{}, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return model.Attendance{}, ErrSessionNotFound
	}

	if token != sess.Token {
		return model.Attendance{}, ErrInvalidToken
	}

	now := time.Now().UTC()
	if !sess.Active(now) {
		return model.Attendance{}, ErrSessionExpired
	}

	student, err := s.repo.GetUser(ctx, studentID)
	if err != nil {
		return model.Attendance{}, fmt.Errorf("resolve student: %w", err)
	}
	if student == nil || student.Role != model.RoleStudent {
		return model.Attendance{}, ErrStudentNotFound
	}

	exists, err := s.repo.HasAttendance(ctx, sess.ID, student.ID)
	if err != nil {
		return model.Attendance{}, fmt.Errorf("check attendance: %w", err)
	}
	if exists {
		return model.Attendance{}, ErrDuplicateCheckin
	}

	rec := model.Attendance{
		ID:          uuid.NewString(),
		SessionID:   sess.ID,
		StudentID:   student.ID,
		Status:      "present",
		CheckinTime: now,
		Method:      "qr",
	}
	// InsertAttendance reports ErrDuplicateCheckin when a concurrent
	// check-in won the race against the existence check above.
	if err := s.repo.InsertAttendance(ctx, rec); err != nil {
		return model.Attendance{}, err
	}
	return rec, nil
}

// ListSessions returns sessions joined with section metadata, newest first.
func (s *Service) ListSessions(ctx context.Context) ([]model.SessionListing, error) {
	return s.repo.ListSessions(ctx)
}

// ListAttendance returns attendance joined with student and section
// metadata, newest first. sectionID is an optional filter.
func (s *Service) ListAttendance(ctx context.Context, sectionID string) ([]model.AttendanceListing, error) {
	return s.repo.ListAttendance(ctx, sectionID)
}

// newToken returns the short opaque secret embedded in check-in URLs: the
// first hex group of a random UUID. Collision probability across active
// sessions is accepted as-is; the required strength is an open question.
func newToken() string {
	return uuid.NewString()[:8]
}
