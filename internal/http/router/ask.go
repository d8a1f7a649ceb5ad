package router

import (
	"github.com/gin-gonic/gin"

	"mindora.app/gateway/internal/http/handler"
)

// AskRouter keeps the path the existing web client calls and a neutral alias.
func AskRouter(rg *gin.RouterGroup, h *handler.AskHandler) {
	rg.POST("/gemini-ans-for-chat", h.Ask)
	rg.POST("/ask", h.Ask)
}
