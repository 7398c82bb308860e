package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes registers the API, report and static view routes on r. webDir is
// the directory holding the static HTML views.
func Routes(r *gin.Engine, h *Handler, webDir string) {
	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/sections", h.ListSections)
		api.GET("/users", h.ListUsers)
		api.GET("/faculty", h.ListFaculty)
		api.POST("/faculty/add", h.AddFaculty)
		api.DELETE("/faculty/delete/:id", h.DeleteFaculty)

		api.POST("/session", h.CreateSession)
		api.GET("/sessions", h.ListSessions)

		api.POST("/checkin", h.Checkin)
		api.GET("/attendance", h.ListAttendance)
	}

	r.GET("/session/:id/qr", h.SessionQR)
	r.GET("/report/csv", h.ExportCSV)

	// Static HTML views; thin glue over the API.
	r.Static("/static", webDir+"/static")
	r.StaticFile("/", webDir+"/index.html")
	r.StaticFile("/faculty", webDir+"/faculty.html")
	r.StaticFile("/faculty_management", webDir+"/faculty_management.html")
	r.StaticFile("/scan", webDir+"/scan.html")
	r.StaticFile("/qr", webDir+"/qr.html")
	r.StaticFile("/report", webDir+"/report.html")
}
