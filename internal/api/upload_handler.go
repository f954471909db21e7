package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/andreivolkov/gatechat/internal/service"
)

// UploadHandler handles attachment uploads.
type UploadHandler struct {
	uploads *service.UploadService
}

// NewUploadHandler creates an UploadHandler.
func NewUploadHandler(uploads *service.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload handles POST /api/v1/uploads (multipart form, "file" field).
func (h *UploadHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_BODY", "missing file field")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_BODY", "cannot read uploaded file")
	}
	defer f.Close()

	url, err := h.uploads.Upload(c.Request().Context(), f, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, uploadResponse{URL: url})
}
