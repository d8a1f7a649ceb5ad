package router

import (
	"github.com/gin-gonic/gin"

	"mindora.app/gateway/internal/http/handler"
)

func ContactRouter(rg *gin.RouterGroup, h *handler.ContactHandler) {
	rg.POST("/contact", h.Create)
}
