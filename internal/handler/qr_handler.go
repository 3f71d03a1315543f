package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/masjid-almuttaqin/kuliah-api/pkg/errors"
	"github.com/masjid-almuttaqin/kuliah-api/pkg/qrcode"
	"github.com/masjid-almuttaqin/kuliah-api/pkg/response"
)

// QRHandler serves QR codes pointing at the public evaluation form, for
// printing and embedding in announcements.
type QRHandler struct {
	formURL string
}

// NewQRHandler constructs a QR handler for the given form URL.
func NewQRHandler(formURL string) *QRHandler {
	return &QRHandler{formURL: formURL}
}

func (h *QRHandler) size(c *gin.Context) (int, error) {
	raw := c.DefaultQuery("size", "256")
	size, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "size must be a number")
	}
	return size, nil
}

// Image godoc
// @Summary QR code for the evaluation form as PNG
// @Tags QR
// @Produce png
// @Param size query int false "Image size in pixels"
// @Success 200 {file} binary
// @Router /qr [get]
func (h *QRHandler) Image(c *gin.Context) {
	size, err := h.size(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	png, err := qrcode.EncodePNG(h.formURL, qrcode.Options{Size: size})
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render qr code"))
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// DataURL godoc
// @Summary QR code for the evaluation form as a data URL
// @Tags QR
// @Produce json
// @Param size query int false "Image size in pixels"
// @Success 200 {object} response.Envelope
// @Router /qr/data-url [get]
func (h *QRHandler) DataURL(c *gin.Context) {
	size, err := h.size(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	dataURL, err := qrcode.EncodeDataURL(h.formURL, qrcode.Options{Size: size})
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render qr code"))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"url": h.formURL, "data_url": dataURL}, nil)
}
