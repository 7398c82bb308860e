package model

import "time"

// User roles. Faculty own sections and open sessions; students check in.
const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
)

// User is a student or faculty member. IDs are caller-supplied, opaque,
// and immutable once created.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Section is a course grouping owned by one faculty user.
type Section struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Title     string `json:"title"`
	FacultyID string `json:"faculty_id"`
}

// Session is a time-boxed attendance window for one section. It becomes
// invalid once ExpiresAt passes and is never deleted.
type Session struct {
	ID        string    `json:"id"`
	SectionID string    `json:"section_id"`
	Token     string    `json:"token"`
	StartAt   time.Time `json:"start_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Active reports whether the session still accepts check-ins at t.
func (s Session) Active(t time.Time) bool {
	return t.Before(s.ExpiresAt)
}

// SessionListing is a session joined with its section for list views.
type SessionListing struct {
	Session
	SectionCode  string `json:"section_code"`
	SectionTitle string `json:"section_title"`
}

// Attendance is one successful check-in. At most one record exists per
// (session, student) pair; rows are immutable after insert.
type Attendance struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	StudentID   string    `json:"student_id"`
	Status      string    `json:"status"`
	CheckinTime time.Time `json:"checkin_time"`
	Method      string    `json:"method"`
}

// AttendanceListing is an attendance row joined with the student's name,
// and with section metadata for the CSV export.
type AttendanceListing struct {
	Attendance
	StudentName string `json:"student_name"`
	SectionID   string `json:"section_id"`
	SectionCode string `json:"section_code"`
}
