package service

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"mindora.app/gateway/common/logger"
	"mindora.app/gateway/internal/mailer"
	"mindora.app/gateway/internal/metrics"
	"mindora.app/gateway/internal/model"
	"mindora.app/gateway/internal/store"
)

const (
	msgMissingFields = "Missing fields"
	msgUserNotFound  = "User not found"
	msgFailedToSend  = "Failed to send"

	contactSubjectPrefix = "New Contact Issue: "
)

// issueTemplate escapes every interpolated value on purpose: reporter text
// reaches the administrator's mail client as markup otherwise.
var issueTemplate = template.Must(template.New("issue").Parse(`
<h2>New Issue Reported</h2>
<p><strong>User:</strong> {{.User.Name}} ({{.User.Email}})</p>
<p><strong>Topic:</strong> {{.Report.Topic}}</p>
<p><strong>Description:</strong></p>
<p>{{.Report.Description}}</p>
`))

// ContactConfig names the mailbox notifications go to and the sender they come from.
type ContactConfig struct {
	AdminEmail  string
	FromName    string
	FromAddress string
}

type ContactService interface {
	// Notify mails report to the administrator on behalf of the reporting user.
	Notify(ctx context.Context, report model.IssueReport) error
}

type contactService struct {
	userStore store.UserStore
	mailer    mailer.Mailer
	cfg       ContactConfig
}

// NewContactService wires the contact flow. A nil store or mailer leaves the
// service unconfigured; Notify then fails with a configuration error.
func NewContactService(userStore store.UserStore, m mailer.Mailer, cfg ContactConfig) ContactService {
	return &contactService{
		userStore: userStore,
		mailer:    m,
		cfg:       cfg,
	}
}

func (s *contactService) Notify(ctx context.Context, report model.IssueReport) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "gateway.service.contact"})

	if report.Topic == "" || report.Description == "" || report.UserID == "" {
		slog.WarnContext(ctx, "issue report rejected: missing fields")
		return validationError(msgMissingFields)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{ExternalUserID: logger.Ptr(report.UserID)})

	if s.userStore == nil || s.mailer == nil || s.cfg.AdminEmail == "" || s.cfg.FromAddress == "" {
		slog.ErrorContext(ctx, "contact notifications are not configured")
		return configurationError(msgFailedToSend, errors.New("mail transport or user directory not configured"))
	}

	// Collaborator calls run to completion even if the caller disconnects;
	// their clients own the timeouts.
	callCtx := context.WithoutCancel(ctx)

	user, err := s.userStore.GetByExternalID(callCtx, report.UserID)
	lookupErr := err
	if errors.Is(err, store.ErrNotFound) {
		lookupErr = nil // the directory answered; the user is just absent
	}
	metrics.ObserveCall(metrics.CollaboratorDirectory, lookupErr)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.InfoContext(ctx, "issue report for unknown user")
			return notFoundError(msgUserNotFound, err)
		}
		slog.ErrorContext(ctx, "failed to look up user", "error", err)
		return internalError(msgFailedToSend, err)
	}

	html, err := renderIssue(user, report)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render issue notification", "error", err)
		return internalError(msgFailedToSend, err)
	}

	msg := mailer.Message{
		FromName: s.cfg.FromName,
		From:     s.cfg.FromAddress,
		To:       s.cfg.AdminEmail,
		Subject:  contactSubjectPrefix + report.Topic,
		HTML:     html,
	}

	sc := logger.StartSpan(callCtx, "mailer.send", trace.WithSpanKind(trace.SpanKindClient))
	defer sc.End()

	err = s.mailer.Send(sc.Context(), msg)
	metrics.ObserveCall(metrics.CollaboratorMailer, err)
	if err != nil {
		sc.RecordError(err)
		slog.ErrorContext(ctx, "failed to send issue notification", "error", err, "topic", report.Topic)
		return internalError(msgFailedToSend, err)
	}

	slog.InfoContext(ctx, "issue notification sent", "topic", report.Topic)
	return nil
}

func renderIssue(user *model.User, report model.IssueReport) (string, error) {
	var buf bytes.Buffer
	err := issueTemplate.Execute(&buf, struct {
		User   *model.User
		Report model.IssueReport
	}{User: user, Report: report})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
