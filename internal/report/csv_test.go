package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classtrack/internal/model"
)

func TestWriteAttendanceCSV(t *testing.T) {
	when := time.Date(2025, 9, 1, 10, 15, 0, 0, time.UTC)
	rows := []model.AttendanceListing{
		{
			Attendance: model.Attendance{
				ID: "att1", SessionID: "sess1", StudentID: "stu1",
				Status: "present", CheckinTime: when, Method: "qr",
			},
			StudentName: "Priya Nair",
			SectionID:   "sec101",
			SectionCode: "CS101",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAttendanceCSV(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "section_code,session_id,student_id,student_name,status,method,checkin_time", lines[0])
	assert.Equal(t, "CS101,sess1,stu1,Priya Nair,present,qr,2025-09-01T10:15:00Z", lines[1])
}

func TestWriteAttendanceCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAttendanceCSV(&buf, nil))

	// Header only; an empty report is not an error.
	assert.Equal(t, "section_code,session_id,student_id,student_name,status,method,checkin_time\n", buf.String())
}

func TestWriteAttendanceCSVNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+4", 4*3600)
	rows := []model.AttendanceListing{
		{
			Attendance: model.Attendance{
				ID: "att1", SessionID: "sess1", StudentID: "stu1",
				Status: "present", CheckinTime: time.Date(2025, 9, 1, 14, 0, 0, 0, loc), Method: "qr",
			},
			StudentName: "Marcus Lee",
			SectionCode: "CS101",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAttendanceCSV(&buf, rows))
	assert.Contains(t, buf.String(), "2025-09-01T10:00:00Z")
}
