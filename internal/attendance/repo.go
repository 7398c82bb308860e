package attendance

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"

	"classtrack/internal/model"
)

// Repository persists users, sections, sessions and attendance in sqlite.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo around an injected database handle.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// GetUser returns a user by id, or nil when absent.
func (r *Repository) GetUser(ctx context.Context, id string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, role FROM users WHERE id = ?`, id)
	var u model.User
	if err := row.Scan(&u.ID, &u.Name, &u.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// ListUsers returns all users ordered by id.
func (r *Repository) ListUsers(ctx context.Context) ([]model.User, error) {
	return r.listUsers(ctx, `SELECT id, name, role FROM users ORDER BY id`)
}

// ListFaculty returns users with role faculty ordered by id.
func (r *Repository) ListFaculty(ctx context.Context) ([]model.User, error) {
	return r.listUsers(ctx, `SELECT id, name, role FROM users WHERE role = 'faculty' ORDER BY id`)
}

func (r *Repository) listUsers(ctx context.Context, query string) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Role); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateUser inserts a user. A duplicate id reports ErrDuplicateUser.
func (r *Repository) CreateUser(ctx context.Context, u model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, role) VALUES (?, ?, ?)`,
		u.ID, u.Name, u.Role,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateUser
	}
	return err
}

// DeleteUser removes a user by id and reports whether a row was deleted.
// Deleting a user still referenced by sections or attendance reports
// ErrUserReferenced.
func (r *Repository) DeleteUser(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, ErrUserReferenced
		}
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// GetSection returns a section by id, or nil when absent.
func (r *Repository) GetSection(ctx context.Context, id string) (*model.Section, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, code, title, faculty_id FROM sections WHERE id = ?`, id)
	var s model.Section
	if err := row.Scan(&s.ID, &s.Code, &s.Title, &s.FacultyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// ListSections returns all sections ordered by code.
func (r *Repository) ListSections(ctx context.Context) ([]model.Section, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, code, title, faculty_id FROM sections ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []model.Section
	for rows.Next() {
		var s model.Section
		if err := rows.Scan(&s.ID, &s.Code, &s.Title, &s.FacultyID); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// InsertSession writes a new session.
func (r *Repository) InsertSession(ctx context.Context, s model.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, section_id, token, start_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
	`, s.ID, s.SectionID, s.Token, s.StartAt, s.ExpiresAt)
	return err
}

// GetSession returns a session by id, or nil when absent.
func (r *Repository) GetSession(ctx context.Context, id string) (*model.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, section_id, token, start_at, expires_at
		FROM sessions WHERE id = ?
	`, id)
	var s model.Session
	if err := row.Scan(&s.ID, &s.SectionID, &s.Token, &s.StartAt, &s.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// ListSessions returns sessions joined with section metadata, newest first.
func (r *Repository) ListSessions(ctx context.Context) ([]model.SessionListing, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.section_id, s.token, s.start_at, s.expires_at, c.code, c.title
		FROM sessions s
		JOIN sections c ON c.id = s.section_id
		ORDER BY s.start_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []model.SessionListing
	for rows.Next() {
		var l model.SessionListing
		if err := rows.Scan(&l.ID, &l.SectionID, &l.Token, &l.StartAt, &l.ExpiresAt,
			&l.SectionCode, &l.SectionTitle); err != nil {
			return nil, err
		}
		res = append(res, l)
	}
	return res, rows.Err()
}

// HasAttendance reports whether a record exists for (session, student).
func (r *Repository) HasAttendance(ctx context.Context, sessionID, studentID string) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM attendance WHERE session_id = ? AND student_id = ?
	`, sessionID, studentID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// InsertAttendance writes a new attendance record. The unique constraint on
// (session_id, student_id) makes concurrent duplicate check-ins lose the
// race here; those report ErrDuplicateCheckin.
func (r *Repository) InsertAttendance(ctx context.Context, a model.Attendance) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance (id, session_id, student_id, status, checkin_time, method)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID, a.SessionID, a.StudentID, a.Status, a.CheckinTime, a.Method)
	if isUniqueViolation(err) {
		return ErrDuplicateCheckin
	}
	return err
}

// ListAttendance returns attendance joined with student name and section
// metadata, newest first. An empty sectionID means no filter.
func (r *Repository) ListAttendance(ctx context.Context, sectionID string) ([]model.AttendanceListing, error) {
	query := `
		SELECT a.id, a.session_id, a.student_id, a.status, a.checkin_time, a.method,
		       u.name, c.id, c.code
		FROM attendance a
		JOIN users u    ON u.id = a.student_id
		JOIN sessions s ON s.id = a.session_id
		JOIN sections c ON c.id = s.section_id
	`
	args := []any{}
	if sectionID != "" {
		query += ` WHERE c.id = ?`
		args = append(args, sectionID)
	}
	query += ` ORDER BY a.checkin_time DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []model.AttendanceListing
	for rows.Next() {
		var l model.AttendanceListing
		if err := rows.Scan(&l.ID, &l.Attendance.SessionID, &l.StudentID, &l.Status,
			&l.CheckinTime, &l.Method, &l.StudentName, &l.SectionID, &l.SectionCode); err != nil {
			return nil, err
		}
		res = append(res, l)
	}
	return res, rows.Err()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) &&
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) &&
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}
