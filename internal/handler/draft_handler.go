package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
	"github.com/masjid-almuttaqin/kuliah-api/internal/service"
	appErrors "github.com/masjid-almuttaqin/kuliah-api/pkg/errors"
	"github.com/masjid-almuttaqin/kuliah-api/pkg/response"
)

// DraftHandler exposes server-side form drafts, keyed by a
// client-generated draft key. These routes are public; the key is the
// only handle to the data.
type DraftHandler struct {
	service *service.DraftService
}

// NewDraftHandler constructs a draft handler.
func NewDraftHandler(svc *service.DraftService) *DraftHandler {
	return &DraftHandler{service: svc}
}

// DraftStatus wraps a loaded draft with display metadata.
type DraftStatus struct {
	Exists     bool          `json:"exists"`
	Draft      *models.Draft `json:"draft,omitempty"`
	AgeMinutes int           `json:"age_minutes,omitempty"`
	AgeText    string        `json:"age_text,omitempty"`
}

// Save godoc
// @Summary Save a form draft
// @Tags Drafts
// @Accept json
// @Produce json
// @Param key path string true "Draft key"
// @Param payload body models.Draft true "Draft payload"
// @Success 204
// @Router /drafts/{key} [put]
func (h *DraftHandler) Save(c *gin.Context) {
	var draft models.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.service.Save(c.Request.Context(), c.Param("key"), draft); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Load godoc
// @Summary Load a form draft
// @Tags Drafts
// @Produce json
// @Param key path string true "Draft key"
// @Success 200 {object} response.Envelope
// @Router /drafts/{key} [get]
func (h *DraftHandler) Load(c *gin.Context) {
	draft, err := h.service.Load(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if draft == nil {
		response.JSON(c, http.StatusOK, DraftStatus{Exists: false}, nil)
		return
	}

	age := h.service.Age(*draft)
	response.JSON(c, http.StatusOK, DraftStatus{
		Exists:     true,
		Draft:      draft,
		AgeMinutes: age,
		AgeText:    service.FormatDraftAge(age),
	}, nil)
}

// Clear godoc
// @Summary Clear a form draft
// @Tags Drafts
// @Produce json
// @Param key path string true "Draft key"
// @Success 204
// @Router /drafts/{key} [delete]
func (h *DraftHandler) Clear(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context(), c.Param("key")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
