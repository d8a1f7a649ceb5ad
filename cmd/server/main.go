package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"mindora.app/gateway/common/id"
	"mindora.app/gateway/common/llm"
	"mindora.app/gateway/common/logger"
	"mindora.app/gateway/common/otel"
	"mindora.app/gateway/core/config"
	"mindora.app/gateway/core/db"
	"mindora.app/gateway/internal/http/middleware"
	httprouter "mindora.app/gateway/internal/http/router"
	"mindora.app/gateway/internal/mailer"
	"mindora.app/gateway/internal/metrics"
	"mindora.app/gateway/internal/objectstore"
	"mindora.app/gateway/internal/service"
	"mindora.app/gateway/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel, cfg.Env)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "gateway starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	// Collaborators that are not configured stay nil; the endpoints that need
	// them answer with a configuration error instead of failing startup.
	var users store.UserStore
	if cfg.DB.Enabled() {
		database, err := db.New(ctx, cfg.DB)
		if err != nil {
			slog.ErrorContext(ctx, "failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer database.Close()
		users = store.NewStores(database.Pool()).Users()
		slog.InfoContext(ctx, "database connected")
	} else {
		slog.WarnContext(ctx, "user directory disabled (DATABASE_URL not set)")
	}

	var mail mailer.Mailer
	if cfg.Mail.Enabled() {
		mail, err = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			Timeout:  cfg.Mail.Timeout,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to create mailer", "error", err)
			os.Exit(1)
		}
		slog.InfoContext(ctx, "mailer configured", "host", cfg.Mail.Host, "port", cfg.Mail.Port)
	} else {
		slog.WarnContext(ctx, "contact notifications disabled (mail settings incomplete)")
	}

	var completer llm.Completer
	if cfg.Completion.Enabled() {
		completer, err = llm.NewCompleter(llm.Config{
			Provider:   cfg.Completion.Provider,
			APIKey:     cfg.Completion.APIKey,
			BaseURL:    cfg.Completion.BaseURL,
			Model:      cfg.Completion.Model,
			MaxTokens:  cfg.Completion.MaxTokens,
			APIVersion: cfg.Completion.APIVersion,
			Timeout:    cfg.Completion.Timeout,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to create completion client", "error", err)
			os.Exit(1)
		}
		slog.InfoContext(ctx, "completion client configured",
			"provider", cfg.Completion.Provider,
			"model", completer.Model())
	} else {
		slog.WarnContext(ctx, "ask endpoint disabled (COMPLETION_API_KEY not set)")
	}

	var uploader objectstore.Uploader
	if cfg.Storage.Enabled() {
		client, err := objectstore.NewSupabaseClient(objectstore.SupabaseConfig{
			URL:        cfg.Storage.URL,
			ServiceKey: cfg.Storage.ServiceKey,
			Timeout:    cfg.Storage.Timeout,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to create storage client", "error", err)
			os.Exit(1)
		}
		uploader = client
		slog.InfoContext(ctx, "object storage configured", "bucket", cfg.Storage.Bucket)
	} else {
		slog.WarnContext(ctx, "upload endpoint disabled (storage settings incomplete)")
	}

	services := service.NewServices(service.ServicesConfig{
		Users:     users,
		Mailer:    mail,
		Completer: completer,
		Uploader:  uploader,
		Contact: service.ContactConfig{
			AdminEmail:  cfg.Mail.AdminEmail,
			FromName:    cfg.Mail.FromName,
			FromAddress: cfg.Mail.Username,
		},
		Upload: service.UploadConfig{
			Bucket:             cfg.Storage.Bucket,
			DefaultFilename:    cfg.Storage.DefaultFilename,
			DefaultContentType: cfg.Storage.DefaultContentType,
			PublicURL:          objectstore.PrefixURL(cfg.Storage.URL, cfg.Storage.PublicPath),
		},
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → RequestID seeds log fields → Logger
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(metrics.Handler())

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
	})

	return router
}

const banner = `
 ██████╗  █████╗ ████████╗███████╗██╗    ██╗ █████╗ ██╗   ██╗
██╔════╝ ██╔══██╗╚══██╔══╝██╔════╝██║    ██║██╔══██╗╚██╗ ██╔╝
██║  ███╗███████║   ██║   █████╗  ██║ █╗ ██║███████║ ╚████╔╝
██║   ██║██╔══██║   ██║   ██╔══╝  ██║███╗██║██╔══██║  ╚██╔╝
╚██████╔╝██║  ██║   ██║   ███████╗╚███╔███╔╝██║  ██║   ██║
 ╚═════╝ ╚═╝  ╚═╝   ╚═╝   ╚══════╝ ╚══╝╚══╝ ╚═╝  ╚═╝   ╚═╝
`
