package service

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"mindora.app/gateway/common/llm"
	"mindora.app/gateway/common/logger"
	"mindora.app/gateway/internal/metrics"
)

const (
	msgNoQuestion      = "No question provided"
	questionPreviewLen = 50
)

// FallbackAnswer is returned in place of an answer when the completion
// service fails. Callers always receive an answer-shaped payload.
const FallbackAnswer = "Sorry, I couldn't fetch an answer."

const promptTemplate = `You are an expert assistant. Answer the following question clearly and concisely:
You should return the answer in max 10 lines. But you should always try to be short.

Question:
{{question}}

Answer:`

// BuildPrompt wraps a question in the fixed instruction template.
func BuildPrompt(question string) string {
	return strings.Replace(promptTemplate, "{{question}}", question, 1)
}

type AskService interface {
	// Ask returns an answer to question. Completion failures and a missing
	// completer degrade to FallbackAnswer with a nil error; only an empty
	// question produces an error.
	Ask(ctx context.Context, question string) (string, error)
}

type askService struct {
	completer llm.Completer
}

// NewAskService creates the completion proxy. A nil completer means no
// credential was configured.
func NewAskService(completer llm.Completer) AskService {
	return &askService{completer: completer}
}

func (s *askService) Ask(ctx context.Context, question string) (string, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "gateway.service.ask"})

	if question == "" {
		slog.WarnContext(ctx, "question rejected: empty")
		return "", validationError(msgNoQuestion)
	}

	if s.completer == nil {
		slog.ErrorContext(ctx, "completion service is not configured",
			"error", llm.ErrMissingAPIKey,
			"kind", KindConfiguration.String())
		return FallbackAnswer, nil
	}

	slog.DebugContext(ctx, "question received", "question", logger.Truncate(question, questionPreviewLen))

	sc := logger.StartSpan(context.WithoutCancel(ctx), "llm.complete", trace.WithSpanKind(trace.SpanKindClient))
	defer sc.End()

	resp, err := s.completer.Complete(sc.Context(), llm.CompletionRequest{Prompt: BuildPrompt(question)})
	metrics.ObserveCall(metrics.CollaboratorCompletion, err)
	if err != nil {
		sc.RecordError(err)
		logCompletionFailure(ctx, err)
		return FallbackAnswer, nil
	}

	answer := strings.TrimSpace(resp.Text)
	slog.InfoContext(ctx, "question answered",
		"model", s.completer.Model(),
		"answer_length", len(answer),
		"output_tokens", resp.OutputTokens)

	return answer, nil
}

func logCompletionFailure(ctx context.Context, err error) {
	kind := llm.Classify(err)
	attrs := []any{"error", err, "failure", string(kind), "status_code", llm.StatusCode(err)}

	switch kind {
	case llm.FailureAuth:
		slog.ErrorContext(ctx, "completion authentication failed, check the API key", attrs...)
	case llm.FailureRateLimited:
		slog.WarnContext(ctx, "completion rate limit exceeded", attrs...)
	case llm.FailureServer:
		slog.ErrorContext(ctx, "completion service error", attrs...)
	case llm.FailureTimeout:
		slog.WarnContext(ctx, "completion timed out", attrs...)
	default:
		slog.ErrorContext(ctx, "completion failed", attrs...)
	}
}
