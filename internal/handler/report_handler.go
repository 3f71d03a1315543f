package handler

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/masjid-almuttaqin/kuliah-api/internal/service"
	appErrors "github.com/masjid-almuttaqin/kuliah-api/pkg/errors"
	"github.com/masjid-almuttaqin/kuliah-api/pkg/response"
	"github.com/masjid-almuttaqin/kuliah-api/pkg/storage"
)

// ReportHandler renders exports and serves the signed downloads. Export
// endpoints are admin-only; the download route is public because the
// token itself carries the authorization.
type ReportHandler struct {
	service *service.ReportService
	storage *storage.LocalStorage
}

// NewReportHandler constructs a report handler.
func NewReportHandler(svc *service.ReportService, store *storage.LocalStorage) *ReportHandler {
	return &ReportHandler{service: svc, storage: store}
}

func (h *ReportHandler) export(c *gin.Context, render func(c *gin.Context, req service.ReportRequest) (*service.ReportFile, error)) {
	var req service.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	file, err := render(c, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, file)
}

// ExportEvaluationsCSV godoc
// @Summary Export raw evaluations as CSV
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.ReportRequest true "Report scope"
// @Success 201 {object} response.Envelope
// @Router /reports/evaluations/csv [post]
func (h *ReportHandler) ExportEvaluationsCSV(c *gin.Context) {
	h.export(c, func(c *gin.Context, req service.ReportRequest) (*service.ReportFile, error) {
		return h.service.ExportEvaluationsCSV(c.Request.Context(), req)
	})
}

// ExportLecturerSummaryCSV godoc
// @Summary Export per-lecturer summary as CSV
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.ReportRequest true "Report scope"
// @Success 201 {object} response.Envelope
// @Router /reports/lecturers/csv [post]
func (h *ReportHandler) ExportLecturerSummaryCSV(c *gin.Context) {
	h.export(c, func(c *gin.Context, req service.ReportRequest) (*service.ReportFile, error) {
		return h.service.ExportLecturerSummaryCSV(c.Request.Context(), req)
	})
}

// ExportExecutiveSummaryCSV godoc
// @Summary Export the executive summary as CSV
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.ReportRequest true "Report scope"
// @Success 201 {object} response.Envelope
// @Router /reports/executive/csv [post]
func (h *ReportHandler) ExportExecutiveSummaryCSV(c *gin.Context) {
	h.export(c, func(c *gin.Context, req service.ReportRequest) (*service.ReportFile, error) {
		return h.service.ExportExecutiveSummaryCSV(c.Request.Context(), req)
	})
}

// ExportComparisonCSV godoc
// @Summary Export the period-on-period comparison as CSV
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.ReportRequest true "Report scope"
// @Success 201 {object} response.Envelope
// @Router /reports/comparison/csv [post]
func (h *ReportHandler) ExportComparisonCSV(c *gin.Context) {
	h.export(c, func(c *gin.Context, req service.ReportRequest) (*service.ReportFile, error) {
		return h.service.ExportComparisonCSV(c.Request.Context(), req)
	})
}

// ExportPDF godoc
// @Summary Export the full report as PDF
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.ReportRequest true "Report scope"
// @Success 201 {object} response.Envelope
// @Router /reports/pdf [post]
func (h *ReportHandler) ExportPDF(c *gin.Context) {
	h.export(c, func(c *gin.Context, req service.ReportRequest) (*service.ReportFile, error) {
		return h.service.ExportPDF(c.Request.Context(), req)
	})
}

// Download godoc
// @Summary Download a generated report
// @Tags Reports
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Router /reports/download/{token} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	relPath, err := h.service.Open(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.storage.Open(relPath)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrNotFound.Code, http.StatusNotFound, "report no longer available"))
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read report"))
		return
	}

	filename := filepath.Base(relPath)
	c.DataFromReader(http.StatusOK, info.Size(), contentTypeFor(filename), file, map[string]string{
		"Content-Disposition": `attachment; filename="` + filename + `"`,
	})
}

func contentTypeFor(filename string) string {
	switch filepath.Ext(filename) {
	case ".pdf":
		return "application/pdf"
	case ".csv":
		return "text/csv; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
