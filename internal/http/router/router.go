package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mindora.app/gateway/internal/http/handler"
	"mindora.app/gateway/internal/metrics"
	"mindora.app/gateway/internal/service"
)

type RouterConfig struct {
	MaxUploadBytes int64
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metrics.Exposer())

	api := router.Group("/api")
	{
		ContactRouter(api, handler.NewContactHandler(services.Contact()))
		AskRouter(api, handler.NewAskHandler(services.Ask()))
		UploadRouter(api, handler.NewUploadHandler(services.Upload(), cfg.MaxUploadBytes))
	}
}
