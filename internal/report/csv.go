package report

import (
	"encoding/csv"
	"io"
	"time"

	"classtrack/internal/model"
)

// header matches the column order of the attendance export.
var header = []string{"section_code", "session_id", "student_id", "student_name", "status", "method", "checkin_time"}

// WriteAttendanceCSV renders attendance rows as CSV. Timestamps are written
// as RFC 3339 UTC strings. An empty slice produces a header-only file, not
// an error.
func WriteAttendanceCSV(w io.Writer, rows []model.AttendanceListing) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.SectionCode,
			r.Attendance.SessionID,
			r.StudentID,
			r.StudentName,
			r.Status,
			r.Method,
			r.CheckinTime.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
