package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mindora.app/gateway/internal/http/dto"
	"mindora.app/gateway/internal/service"
)

type ContactHandler struct {
	contactService service.ContactService
}

func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

func (h *ContactHandler) Create(c *gin.Context) {
	var req dto.ContactRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.contactService.Notify(c.Request.Context(), req.ToIssueReport()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
