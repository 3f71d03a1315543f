package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/masjid-almuttaqin/kuliah-api/internal/service"
	appErrors "github.com/masjid-almuttaqin/kuliah-api/pkg/errors"
	"github.com/masjid-almuttaqin/kuliah-api/pkg/response"
)

// DashboardHandler exposes the admin analytics endpoints.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs a dashboard handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// CompareRequest selects the lecturers for a side-by-side comparison.
type CompareRequest struct {
	IDs []string `json:"ids"`
}

// Overview godoc
// @Summary Dashboard overview aggregates
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil)
}

// Trend godoc
// @Summary Monthly score trend
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param lecturer_id query string false "Scope to one lecturer"
// @Param months query int false "Window in months"
// @Success 200 {object} response.Envelope
// @Router /dashboard/trend [get]
func (h *DashboardHandler) Trend(c *gin.Context) {
	months := 0
	if raw := c.Query("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "months must be a number"))
			return
		}
		months = parsed
	}

	points, err := h.service.Trend(c.Request.Context(), c.Query("lecturer_id"), months)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, points, nil)
}

// Compare godoc
// @Summary Compare lecturers
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body handler.CompareRequest true "Lecturer IDs"
// @Success 200 {object} response.Envelope
// @Router /dashboard/compare [post]
func (h *DashboardHandler) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	comparisons, err := h.service.Compare(c.Request.Context(), req.IDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, comparisons, nil)
}

// Alerts godoc
// @Summary Low-score lecturer alerts
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param threshold query number false "Override the configured threshold"
// @Success 200 {object} response.Envelope
// @Router /dashboard/alerts [get]
func (h *DashboardHandler) Alerts(c *gin.Context) {
	threshold := 0.0
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "threshold must be a number"))
			return
		}
		threshold = parsed
	}

	alerts, err := h.service.Alerts(c.Request.Context(), threshold)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, alerts, nil)
}
