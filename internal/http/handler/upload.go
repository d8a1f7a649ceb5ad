package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"mindora.app/gateway/internal/http/dto"
	"mindora.app/gateway/internal/model"
	"mindora.app/gateway/internal/service"
)

const headerFilename = "X-Filename"

type UploadHandler struct {
	uploadService service.UploadService
	maxBytes      int64
}

// NewUploadHandler reads at most maxBytes of each request body.
func NewUploadHandler(uploadService service.UploadService, maxBytes int64) *UploadHandler {
	return &UploadHandler{uploadService: uploadService, maxBytes: maxBytes}
}

// Upload stores the raw request body. The object name comes from the
// x-filename header and the content type from Content-Type.
func (h *UploadHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes))
	if err != nil {
		slog.ErrorContext(ctx, "failed to read upload body", "error", err, "max_bytes", h.maxBytes)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}

	url, err := h.uploadService.Upload(ctx, model.UploadPayload{
		Body:        body,
		Filename:    c.GetHeader(headerFilename),
		ContentType: c.GetHeader("Content-Type"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UploadResponse{URL: url})
}
