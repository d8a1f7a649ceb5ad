package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mindora.app/gateway/internal/http/dto"
	"mindora.app/gateway/internal/service"
)

type AskHandler struct {
	askService service.AskService
}

func NewAskHandler(askService service.AskService) *AskHandler {
	return &AskHandler{askService: askService}
}

func (h *AskHandler) Ask(c *gin.Context) {
	var req dto.AskRequest
	if !bindJSON(c, &req) {
		return
	}

	answer, err := h.askService.Ask(c.Request.Context(), req.Question)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AskResponse{Answer: answer})
}
