package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
	"github.com/masjid-almuttaqin/kuliah-api/internal/service"
	appErrors "github.com/masjid-almuttaqin/kuliah-api/pkg/errors"
	"github.com/masjid-almuttaqin/kuliah-api/pkg/response"
)

// EvaluationHandler exposes the public submission flow and the admin
// read side.
type EvaluationHandler struct {
	service *service.EvaluationService
}

// NewEvaluationHandler constructs an evaluation handler.
func NewEvaluationHandler(svc *service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{service: svc}
}

// Submit godoc
// @Summary Submit an evaluation form
// @Tags Evaluations
// @Accept json
// @Produce json
// @Param payload body service.SubmitEvaluationRequest true "Evaluation payload"
// @Success 201 {object} response.Envelope
// @Router /evaluations [post]
func (h *EvaluationHandler) Submit(c *gin.Context) {
	var req service.SubmitEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Validate godoc
// @Summary Validate an evaluation form without submitting
// @Tags Evaluations
// @Accept json
// @Produce json
// @Param payload body service.SubmitEvaluationRequest true "Evaluation payload"
// @Success 200 {object} response.Envelope
// @Router /evaluations/validate [post]
func (h *EvaluationHandler) Validate(c *gin.Context) {
	var req service.SubmitEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	response.JSON(c, http.StatusOK, h.service.Validate(req), nil)
}

// List godoc
// @Summary List evaluations
// @Tags Evaluations
// @Produce json
// @Security BearerAuth
// @Param lecturer_id query string false "Filter by lecturer"
// @Param week query int false "Filter by week (1-5)"
// @Param jenis_kuliah query string false "Filter by lecture type"
// @Param date_from query string false "Range start (YYYY-MM-DD)"
// @Param date_to query string false "Range end (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /evaluations [get]
func (h *EvaluationHandler) List(c *gin.Context) {
	var filter models.EvaluationFilter
	filter.LecturerID = c.Query("lecturer_id")
	if week, err := strconv.Atoi(c.Query("week")); err == nil {
		filter.Week = week
	}
	filter.LectureType = c.Query("jenis_kuliah")
	filter.DateFrom = c.Query("date_from")
	filter.DateTo = c.Query("date_to")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	evaluations, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, evaluations, pagination)
}

// Get godoc
// @Summary Get evaluation detail
// @Tags Evaluations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Evaluation ID"
// @Success 200 {object} response.Envelope
// @Router /evaluations/{id} [get]
func (h *EvaluationHandler) Get(c *gin.Context) {
	evaluation, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, evaluation, nil)
}

// Delete godoc
// @Summary Delete evaluation
// @Tags Evaluations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Evaluation ID"
// @Success 204
// @Router /evaluations/{id} [delete]
func (h *EvaluationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
