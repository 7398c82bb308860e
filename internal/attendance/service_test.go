package attendance

import (
	"context"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classtrack/internal/model"
	"classtrack/internal/store"
)

func newTestService(t *testing.T) (*Service, *Repository) {
	t.Helper()
	db, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	repo := NewRepository(db.Client)
	users := []model.User{
		{ID: "faculty1", Name: "Dr. Rao", Role: model.RoleFaculty},
		{ID: "stu1", Name: "Priya Nair", Role: model.RoleStudent},
		{ID: "stu2", Name: "Marcus Lee", Role: model.RoleStudent},
	}
	for _, u := range users {
		require.NoError(t, repo.CreateUser(ctx, u))
	}
	_, err = db.Client.ExecContext(ctx,
		`INSERT INTO sections (id, code, title, faculty_id) VALUES ('sec101', 'CS101', 'Intro to Computing', 'faculty1')`)
	require.NoError(t, err)

	return NewService(repo, "http://localhost:8080", 30), repo
}

func TestCreateSessionExpiry(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, "faculty1", "sec101", 45)
	require.NoError(t, err)

	assert.Equal(t, created.StartAt.Add(45*time.Minute), created.ExpiresAt)
	assert.Len(t, created.Token, 8)
	assert.NotEmpty(t, created.ID)

	u, err := url.Parse(created.CheckinURL)
	require.NoError(t, err)
	assert.Equal(t, "/scan", u.Path)
	assert.Equal(t, created.ID, u.Query().Get("session"))
	assert.Equal(t, created.Token, u.Query().Get("token"))
}

func TestCreateSessionDefaultDuration(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.CreateSession(context.Background(), "faculty1", "sec101", 0)
	require.NoError(t, err)
	assert.Equal(t, created.StartAt.Add(30*time.Minute), created.ExpiresAt)
}

func TestCreateSessionRejectsStudentAsFaculty(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateSession(context.Background(), "stu1", "sec101", 30)
	assert.ErrorIs(t, err, ErrInvalidFaculty)

	_, err = svc.CreateSession(context.Background(), "nobody", "sec101", 30)
	assert.ErrorIs(t, err, ErrInvalidFaculty)
}

func TestCreateSessionUnknownSection(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateSession(context.Background(), "faculty1", "sec999", 30)
	assert.ErrorIs(t, err, ErrInvalidSection)
}

func TestCheckinScenario(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, "faculty1", "sec101", 30)
	require.NoError(t, err)
	require.Equal(t, created.StartAt.Add(30*time.Minute), created.ExpiresAt)

	rec, err := svc.CheckIn(ctx, created.ID, created.Token, "stu1")
	require.NoError(t, err)
	assert.Equal(t, "present", rec.Status)
	assert.Equal(t, "qr", rec.Method)
	assert.Equal(t, created.ID, rec.SessionID)
	assert.Equal(t, "stu1", rec.StudentID)
	assert.False(t, rec.CheckinTime.IsZero())

	// Same parameters a second time must be rejected.
	_, err = svc.CheckIn(ctx, created.ID, created.Token, "stu1")
	assert.ErrorIs(t, err, ErrDuplicateCheckin)

	// A different student may still check in.
	_, err = svc.CheckIn(ctx, created.ID, created.Token, "stu2")
	assert.NoError(t, err)
}

func TestCheckinSessionNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CheckIn(context.Background(), "missing", "tok", "stu1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCheckinWrongToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, "faculty1", "sec101", 30)
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, created.ID, "wrong", "stu1")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCheckinExpiredSession(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	expired := model.Session{
		ID:        "expired-session",
		SectionID: "sec101",
		Token:     "deadbeef",
		StartAt:   time.Now().UTC().Add(-time.Hour),
		ExpiresAt: time.Now().UTC().Add(-30 * time.Minute),
	}
	require.NoError(t, repo.InsertSession(ctx, expired))

	// Correct token on an expired session reports the expiry.
	_, err := svc.CheckIn(ctx, expired.ID, expired.Token, "stu1")
	assert.ErrorIs(t, err, ErrSessionExpired)

	// Wrong token wins over expiry: check order is fixed.
	_, err = svc.CheckIn(ctx, expired.ID, "wrong", "stu1")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCheckinStudentNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, "faculty1", "sec101", 30)
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, created.ID, created.Token, "ghost")
	assert.ErrorIs(t, err, ErrStudentNotFound)

	// A faculty id is not a student either.
	_, err = svc.CheckIn(ctx, created.ID, created.Token, "faculty1")
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestInsertAttendanceUniqueConstraint(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, "faculty1", "sec101", 30)
	require.NoError(t, err)

	first := model.Attendance{
		ID: "att1", SessionID: created.ID, StudentID: "stu1",
		Status: "present", CheckinTime: time.Now().UTC(), Method: "qr",
	}
	require.NoError(t, repo.InsertAttendance(ctx, first))

	// A second insert for the same pair loses against the unique
	// constraint even without the application-level existence check.
	second := first
	second.ID = "att2"
	err = repo.InsertAttendance(ctx, second)
	assert.ErrorIs(t, err, ErrDuplicateCheckin)
}

func TestListSessionsNewestFirst(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	old := model.Session{
		ID: "s-old", SectionID: "sec101", Token: "aaaa1111",
		StartAt:   time.Now().UTC().Add(-2 * time.Hour),
		ExpiresAt: time.Now().UTC().Add(-90 * time.Minute),
	}
	require.NoError(t, repo.InsertSession(ctx, old))

	created, err := svc.CreateSession(ctx, "faculty1", "sec101", 30)
	require.NoError(t, err)

	listings, err := svc.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, created.ID, listings[0].ID)
	assert.Equal(t, "CS101", listings[0].SectionCode)
	assert.Equal(t, "Intro to Computing", listings[0].SectionTitle)
	assert.Equal(t, "s-old", listings[1].ID)
}

func TestListAttendanceSectionFilter(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO sections (id, code, title, faculty_id) VALUES ('sec202', 'CS202', 'Data Structures', 'faculty1')`)
	require.NoError(t, err)

	s1, err := svc.CreateSession(ctx, "faculty1", "sec101", 30)
	require.NoError(t, err)
	s2, err := svc.CreateSession(ctx, "faculty1", "sec202", 30)
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, s1.ID, s1.Token, "stu1")
	require.NoError(t, err)
	_, err = svc.CheckIn(ctx, s2.ID, s2.Token, "stu2")
	require.NoError(t, err)

	all, err := svc.ListAttendance(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	only101, err := svc.ListAttendance(ctx, "sec101")
	require.NoError(t, err)
	require.Len(t, only101, 1)
	assert.Equal(t, "stu1", only101[0].StudentID)
	assert.Equal(t, "Priya Nair", only101[0].StudentName)
	assert.Equal(t, "CS101", only101[0].SectionCode)
}

func TestRosterManagement(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.CreateFaculty(ctx, "faculty9", "New Prof")
	require.NoError(t, err)
	assert.Equal(t, model.RoleFaculty, u.Role)

	_, err = svc.CreateFaculty(ctx, "faculty9", "Duplicate")
	assert.ErrorIs(t, err, ErrDuplicateUser)

	faculty, err := svc.ListFaculty(ctx)
	require.NoError(t, err)
	for _, f := range faculty {
		assert.Equal(t, model.RoleFaculty, f.Role)
	}

	require.NoError(t, svc.DeleteFaculty(ctx, "faculty9"))
	assert.ErrorIs(t, svc.DeleteFaculty(ctx, "faculty9"), ErrInvalidFaculty)

	// Students cannot be deleted through the faculty endpoint.
	assert.ErrorIs(t, svc.DeleteFaculty(ctx, "stu1"), ErrInvalidFaculty)
}
