package router

import (
	"github.com/gin-gonic/gin"

	"mindora.app/gateway/internal/http/handler"
)

// UploadRouter keeps the path the existing web client calls and a neutral alias.
func UploadRouter(rg *gin.RouterGroup, h *handler.UploadHandler) {
	rg.POST("/upload-pdf-s3", h.Upload)
	rg.POST("/upload", h.Upload)
}
