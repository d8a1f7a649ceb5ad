package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"mindora.app/gateway/common/logger"
	"mindora.app/gateway/internal/metrics"
	"mindora.app/gateway/internal/model"
	"mindora.app/gateway/internal/objectstore"
)

const (
	msgMissingFullPath      = "Upload succeeded but no fullPath returned"
	msgStorageNotConfigured = "storage is not configured"
)

type UploadConfig struct {
	Bucket             string
	DefaultFilename    string
	DefaultContentType string
	PublicURL          objectstore.PublicURLFunc
}

type UploadService interface {
	// Upload stores payload in the configured bucket, replacing any object
	// of the same name, and returns its public URL.
	Upload(ctx context.Context, payload model.UploadPayload) (string, error)
}

type uploadService struct {
	uploader objectstore.Uploader
	cfg      UploadConfig
}

func NewUploadService(uploader objectstore.Uploader, cfg UploadConfig) UploadService {
	return &uploadService{
		uploader: uploader,
		cfg:      cfg,
	}
}

func (s *uploadService) Upload(ctx context.Context, payload model.UploadPayload) (string, error) {
	filename := payload.Filename
	if filename == "" {
		filename = s.cfg.DefaultFilename
	}
	contentType := payload.ContentType
	if contentType == "" {
		contentType = s.cfg.DefaultContentType
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component:  "gateway.service.upload",
		ObjectName: logger.Ptr(filename),
	})

	if s.uploader == nil || s.cfg.PublicURL == nil {
		slog.ErrorContext(ctx, "object storage is not configured")
		return "", configurationError(msgStorageNotConfigured, nil)
	}

	sc := logger.StartSpan(context.WithoutCancel(ctx), "storage.upload", trace.WithSpanKind(trace.SpanKindClient))
	defer sc.End()

	obj, err := s.uploader.Upload(sc.Context(), s.cfg.Bucket, filename, payload.Body, objectstore.UploadOptions{
		ContentType: contentType,
		Upsert:      true,
	})
	metrics.ObserveCall(metrics.CollaboratorStorage, err)
	if err != nil {
		sc.RecordError(err)
		slog.ErrorContext(ctx, "upload failed", "error", err, "bucket", s.cfg.Bucket)
		return "", internalError(err.Error(), err)
	}

	if obj == nil || obj.FullPath == "" {
		err := errors.New(msgMissingFullPath)
		sc.RecordError(err)
		slog.ErrorContext(ctx, "storage accepted upload without a path", "bucket", s.cfg.Bucket)
		return "", internalError(msgMissingFullPath, nil)
	}

	url := s.cfg.PublicURL(obj.FullPath)
	slog.InfoContext(ctx, "object uploaded",
		"bucket", s.cfg.Bucket,
		"size_bytes", len(payload.Body),
		"content_type", contentType,
		"full_path", obj.FullPath)

	return url, nil
}
