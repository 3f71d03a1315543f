package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/masjid-almuttaqin/kuliah-api/internal/middleware"
	"github.com/masjid-almuttaqin/kuliah-api/internal/service"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth       *AuthHandler
	Lecturer   *LecturerHandler
	Session    *SessionHandler
	Evaluation *EvaluationHandler
	Dashboard  *DashboardHandler
	Report     *ReportHandler
	Draft      *DraftHandler
	QR         *QRHandler
	System     *SystemHandler
}

// Register mounts all API routes under the prefix. Public routes carry
// no authentication; everything else sits behind the JWT guard.
func Register(r *gin.Engine, prefix string, h Handlers, auth *service.AuthService) {
	api := r.Group(prefix)

	// Public surface: the evaluation form and what it needs.
	api.POST("/auth/login", h.Auth.Login)
	api.GET("/lecturers", h.Lecturer.List)
	api.GET("/lecturers/:id", h.Lecturer.Get)
	api.GET("/schedule", h.Session.PublicSchedule)
	api.POST("/evaluations", h.Evaluation.Submit)
	api.POST("/evaluations/validate", h.Evaluation.Validate)
	api.GET("/qr", h.QR.Image)
	api.GET("/qr/data-url", h.QR.DataURL)
	api.GET("/reports/download/:token", h.Report.Download)

	drafts := api.Group("/drafts")
	drafts.PUT("/:key", h.Draft.Save)
	drafts.GET("/:key", h.Draft.Load)
	drafts.DELETE("/:key", h.Draft.Clear)

	// Admin surface.
	admin := api.Group("")
	admin.Use(middleware.JWT(auth))

	admin.GET("/auth/me", h.Auth.Me)
	admin.PUT("/auth/password", h.Auth.ChangePassword)

	admin.POST("/lecturers", h.Lecturer.Create)
	admin.PUT("/lecturers/:id", h.Lecturer.Update)
	admin.DELETE("/lecturers/:id", h.Lecturer.Delete)

	admin.GET("/sessions", h.Session.List)
	admin.GET("/sessions/:id", h.Session.Get)
	admin.POST("/sessions", h.Session.Create)
	admin.PUT("/sessions/:id", h.Session.Update)
	admin.DELETE("/sessions/:id", h.Session.Delete)

	admin.GET("/evaluations", h.Evaluation.List)
	admin.GET("/evaluations/:id", h.Evaluation.Get)
	admin.DELETE("/evaluations/:id", h.Evaluation.Delete)

	admin.GET("/dashboard", h.Dashboard.Overview)
	admin.GET("/dashboard/trend", h.Dashboard.Trend)
	admin.POST("/dashboard/compare", h.Dashboard.Compare)
	admin.GET("/dashboard/alerts", h.Dashboard.Alerts)

	admin.POST("/reports/evaluations/csv", h.Report.ExportEvaluationsCSV)
	admin.POST("/reports/lecturers/csv", h.Report.ExportLecturerSummaryCSV)
	admin.POST("/reports/executive/csv", h.Report.ExportExecutiveSummaryCSV)
	admin.POST("/reports/comparison/csv", h.Report.ExportComparisonCSV)
	admin.POST("/reports/pdf", h.Report.ExportPDF)

	admin.GET("/system/metrics", h.System.Metrics)
}
