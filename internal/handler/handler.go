package handler

import (
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"classtrack/internal/attendance"
	"classtrack/internal/model"
	"classtrack/internal/qr"
	"classtrack/internal/report"
)

// Handler binds the attendance service to the HTTP surface.
type Handler struct {
	svc    *attendance.Service
	logger *zap.SugaredLogger
}

// New creates a handler.
func New(svc *attendance.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Healthz reports process liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ---------- Roster ----------

// ListSections returns all sections.
func (h *Handler) ListSections(c *gin.Context) {
	sections, err := h.svc.ListSections(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	if sections == nil {
		sections = []model.Section{}
	}
	c.JSON(http.StatusOK, sections)
}

// ListUsers returns all users.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	c.JSON(http.StatusOK, users)
}

// ListFaculty returns faculty users only.
func (h *Handler) ListFaculty(c *gin.Context) {
	users, err := h.svc.ListFaculty(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	c.JSON(http.StatusOK, users)
}

type addFacultyRequest struct {
	ID   string `json:"id" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// AddFaculty creates a faculty user.
func (h *Handler) AddFaculty(c *gin.Context) {
	var req addFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id and name are required"})
		return
	}
	u, err := h.svc.CreateFaculty(c.Request.Context(), req.ID, req.Name)
	if err != nil {
		if errors.Is(err, attendance.ErrDuplicateUser) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// DeleteFaculty removes a faculty user by id.
func (h *Handler) DeleteFaculty(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.DeleteFaculty(c.Request.Context(), id); err != nil {
		if errors.Is(err, attendance.ErrInvalidFaculty) {
			c.JSON(http.StatusNotFound, gin.H{"error": "faculty not found"})
			return
		}
		if errors.Is(err, attendance.ErrUserReferenced) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// ---------- Sessions ----------

type createSessionRequest struct {
	FacultyID       string `json:"facultyId" binding:"required"`
	SectionID       string `json:"sectionId" binding:"required"`
	DurationMinutes int    `json:"durationMinutes"`
}

// CreateSession opens a check-in window and returns its token, expiry and
// check-in URL.
func (h *Handler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "facultyId and sectionId are required"})
		return
	}
	created, err := h.svc.CreateSession(c.Request.Context(), req.FacultyID, req.SectionID, req.DurationMinutes)
	if err != nil {
		if errors.Is(err, attendance.ErrInvalidFaculty) || errors.Is(err, attendance.ErrInvalidSection) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListSessions returns sessions joined with section metadata.
func (h *Handler) ListSessions(c *gin.Context) {
	sessions, err := h.svc.ListSessions(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	if sessions == nil {
		sessions = []model.SessionListing{}
	}
	c.JSON(http.StatusOK, sessions)
}

// SessionQR renders an HTML page with the session's check-in URL embedded
// as an inline QR image.
func (h *Handler) SessionQR(c *gin.Context) {
	sess, err := h.svc.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serverError(c, err)
		return
	}
	if sess == nil {
		c.String(http.StatusNotFound, "session not found")
		return
	}

	checkinURL := h.svc.CheckinURL(*sess)
	img, err := qr.DataURI(checkinURL)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	err = qrPageTmpl.Execute(c.Writer, qrPageData{
		SessionID:  sess.ID,
		CheckinURL: checkinURL,
		ExpiresAt:  sess.ExpiresAt.UTC().Format(time.RFC3339),
		QRImage:    template.URL(img),
	})
	if err != nil {
		h.logger.Errorw("render qr page", "session_id", sess.ID, "err", err)
	}
}

// ---------- Check-in ----------

type checkinRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	Token     string `json:"token" binding:"required"`
	StudentID string `json:"studentId" binding:"required"`
}

// Checkin applies the check-in state machine and maps each failure kind to
// its status code.
func (h *Handler) Checkin(c *gin.Context) {
	var req checkinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId, token and studentId are required"})
		return
	}

	rec, err := h.svc.CheckIn(c.Request.Context(), req.SessionID, req.Token, req.StudentID)
	if err != nil {
		status, result := checkinFailure(err)
		checkinsTotal.WithLabelValues(result).Inc()
		if status == http.StatusInternalServerError {
			h.serverError(c, err)
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	checkinsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, gin.H{"checked_in": true, "attendance": rec})
}

// checkinFailure maps a validator error to its HTTP status and metric label.
func checkinFailure(err error) (int, string) {
	switch {
	case errors.Is(err, attendance.ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, attendance.ErrStudentNotFound):
		return http.StatusNotFound, "student_not_found"
	case errors.Is(err, attendance.ErrInvalidToken):
		return http.StatusForbidden, "invalid_token"
	case errors.Is(err, attendance.ErrSessionExpired):
		return http.StatusForbidden, "session_expired"
	case errors.Is(err, attendance.ErrDuplicateCheckin):
		return http.StatusConflict, "duplicate"
	default:
		return http.StatusInternalServerError, "error"
	}
}

// ---------- Reporting ----------

// ListAttendance returns attendance joined with student names.
func (h *Handler) ListAttendance(c *gin.Context) {
	rows, err := h.svc.ListAttendance(c.Request.Context(), c.Query("section"))
	if err != nil {
		h.serverError(c, err)
		return
	}
	if rows == nil {
		rows = []model.AttendanceListing{}
	}
	c.JSON(http.StatusOK, rows)
}

// ExportCSV streams the attendance report as a CSV attachment, optionally
// filtered by section.
func (h *Handler) ExportCSV(c *gin.Context) {
	rows, err := h.svc.ListAttendance(c.Request.Context(), c.Query("section"))
	if err != nil {
		h.serverError(c, err)
		return
	}

	filename := "attendance_" + time.Now().UTC().Format("20060102_150405") + ".csv"
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)
	if err := report.WriteAttendanceCSV(c.Writer, rows); err != nil {
		h.logger.Errorw("write csv", "err", err)
	}
}

func (h *Handler) serverError(c *gin.Context, err error) {
	h.logger.Errorw("request failed", "path", c.FullPath(), "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
