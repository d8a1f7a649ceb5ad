package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"mindora.app/gateway/internal/http/dto"
	"mindora.app/gateway/internal/service"
)

const msgInvalidBody = "Invalid request body"

// respondError writes the caller-facing message of err with the status its
// kind maps to.
func respondError(c *gin.Context, err error) {
	status := service.StatusCode(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"error", err,
			"kind", service.KindOf(err).String(),
			"status", status)
	}
	c.JSON(status, dto.ErrorResponse{Error: service.Message(err)})
}

// bindJSON decodes the request body into req. An empty body leaves req at its
// zero value so that the service reports which fields are missing.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		slog.WarnContext(c.Request.Context(), "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgInvalidBody})
		return false
	}
	return true
}
