package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"mindora.app/gateway/common/llm"
)

var _ = Describe("NewCompleter", func() {
	It("refuses an empty API key", func() {
		c, err := llm.NewCompleter(llm.Config{Provider: llm.ProviderAnthropic})
		Expect(err).To(MatchError(llm.ErrMissingAPIKey))
		Expect(c).To(BeNil())
	})

	It("rejects unknown providers", func() {
		_, err := llm.NewCompleter(llm.Config{Provider: "gemini", APIKey: "k"})
		Expect(err).To(MatchError(ContainSubstring("unsupported completion provider")))
	})

	It("defaults to the anthropic model", func() {
		c, err := llm.NewCompleter(llm.Config{APIKey: "k"})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Model()).To(Equal("claude-3-5-sonnet-20241022"))
	})

	It("builds an openai completer when asked", func() {
		c, err := llm.NewCompleter(llm.Config{Provider: llm.ProviderOpenAI, APIKey: "k", Model: "gpt-4o"})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Model()).To(Equal("gpt-4o"))
	})
})

var _ = Describe("Classify", func() {
	DescribeTable("buckets failures by status",
		func(err error, expected llm.FailureKind) {
			Expect(llm.Classify(err)).To(Equal(expected))
		},
		Entry("401", &llm.Error{Provider: "anthropic", StatusCode: 401, Err: errors.New("bad key")}, llm.FailureAuth),
		Entry("403", &llm.Error{Provider: "anthropic", StatusCode: 403, Err: errors.New("forbidden")}, llm.FailureAuth),
		Entry("429", &llm.Error{Provider: "anthropic", StatusCode: 429, Err: errors.New("slow down")}, llm.FailureRateLimited),
		Entry("500", &llm.Error{Provider: "openai", StatusCode: 500, Err: errors.New("boom")}, llm.FailureServer),
		Entry("529", &llm.Error{Provider: "anthropic", StatusCode: 529, Err: errors.New("overloaded")}, llm.FailureServer),
		Entry("400", &llm.Error{Provider: "anthropic", StatusCode: 400, Err: errors.New("bad request")}, llm.FailureRequest),
		Entry("no status", &llm.Error{Provider: "anthropic", Err: errors.New("dial tcp")}, llm.FailureNetwork),
		Entry("plain error", errors.New("something"), llm.FailureNetwork),
		Entry("deadline", &llm.Error{Provider: "anthropic", Err: context.DeadlineExceeded}, llm.FailureTimeout),
	)

	It("exposes the status code through wrapping", func() {
		err := fmt.Errorf("ask: %w", &llm.Error{Provider: "anthropic", StatusCode: 429, Err: errors.New("x")})
		Expect(llm.StatusCode(err)).To(Equal(429))
		Expect(llm.StatusCode(errors.New("x"))).To(BeZero())
	})
})

type capturedRequest struct {
	path    string
	headers http.Header
	body    map[string]any
}

// recordingServer answers every request with respond and reports what it saw.
func recordingServer(respond http.HandlerFunc) (*httptest.Server, <-chan capturedRequest, *atomic.Int32) {
	seen := make(chan capturedRequest, 4)
	calls := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		seen <- capturedRequest{path: r.URL.Path, headers: r.Header.Clone(), body: body}
		respond(w, r)
	}))
	return server, seen, calls
}

var _ = Describe("anthropic completer", func() {
	var server *httptest.Server

	AfterEach(func() {
		server.Close()
	})

	newCompleter := func() llm.Completer {
		c, err := llm.NewAnthropicCompleter(llm.Config{
			APIKey:    "test-key",
			BaseURL:   server.URL,
			Model:     "claude-3-5-sonnet-20241022",
			MaxTokens: 500,
		})
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	It("sends the fixed model, token cap and protocol headers", func() {
		var seen <-chan capturedRequest
		server, seen, _ = recordingServer(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"id": "msg_1", "type": "message", "role": "assistant",
				"model": "claude-3-5-sonnet-20241022",
				"content": [{"type": "text", "text": "Paris."}, {"type": "text", "text": "ignored"}],
				"stop_reason": "end_turn",
				"usage": {"input_tokens": 12, "output_tokens": 3}
			}`))
		})

		resp, err := newCompleter().Complete(context.Background(), llm.CompletionRequest{Prompt: "Capital of France?"})

		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Text).To(Equal("Paris."))
		Expect(resp.OutputTokens).To(Equal(3))

		var req capturedRequest
		Eventually(seen).Should(Receive(&req))
		Expect(req.path).To(Equal("/v1/messages"))
		Expect(req.headers.Get("x-api-key")).To(Equal("test-key"))
		Expect(req.headers.Get("anthropic-version")).To(Equal("2023-06-01"))
		Expect(req.headers.Get("Content-Type")).To(ContainSubstring("application/json"))
		Expect(req.body["model"]).To(Equal("claude-3-5-sonnet-20241022"))
		Expect(req.body["max_tokens"]).To(BeNumerically("==", 500))
		messages := req.body["messages"].([]any)
		Expect(messages).To(HaveLen(1))
		Expect(messages[0].(map[string]any)["role"]).To(Equal("user"))
	})

	It("returns empty text when the model sends no content", func() {
		server, _, _ = recordingServer(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"id": "msg_2", "type": "message", "role": "assistant",
				"model": "claude-3-5-sonnet-20241022", "content": [],
				"stop_reason": "end_turn", "usage": {"input_tokens": 1, "output_tokens": 0}
			}`))
		})

		resp, err := newCompleter().Complete(context.Background(), llm.CompletionRequest{Prompt: "?"})

		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Text).To(BeEmpty())
	})

	It("reports the status code and does not retry", func() {
		var calls *atomic.Int32
		server, _, calls = recordingServer(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
		})

		resp, err := newCompleter().Complete(context.Background(), llm.CompletionRequest{Prompt: "?"})

		Expect(resp).To(BeNil())
		Expect(llm.StatusCode(err)).To(Equal(http.StatusTooManyRequests))
		Expect(llm.Classify(err)).To(Equal(llm.FailureRateLimited))
		Expect(calls.Load()).To(BeEquivalentTo(1))
	})
})

var _ = Describe("openai completer", func() {
	var server *httptest.Server

	AfterEach(func() {
		server.Close()
	})

	It("returns the first choice", func() {
		var seen <-chan capturedRequest
		server, seen, _ = recordingServer(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"id": "c1", "object": "chat.completion", "created": 1, "model": "gpt-4o-mini",
				"choices": [{"index": 0, "message": {"role": "assistant", "content": "Paris."}, "finish_reason": "stop"}],
				"usage": {"prompt_tokens": 5, "completion_tokens": 2, "total_tokens": 7}
			}`))
		})

		c, err := llm.NewCompleter(llm.Config{Provider: llm.ProviderOpenAI, APIKey: "test-key", BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())

		resp, err := c.Complete(context.Background(), llm.CompletionRequest{Prompt: "Capital of France?"})

		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Text).To(Equal("Paris."))
		Expect(resp.StopReason).To(Equal("stop"))

		var req capturedRequest
		Eventually(seen).Should(Receive(&req))
		Expect(req.path).To(HaveSuffix("/chat/completions"))
		Expect(req.headers.Get("Authorization")).To(Equal("Bearer test-key"))
	})

	It("wraps API failures with their status", func() {
		server, _, _ = recordingServer(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
		})

		c, err := llm.NewCompleter(llm.Config{Provider: llm.ProviderOpenAI, APIKey: "test-key", BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())

		_, err = c.Complete(context.Background(), llm.CompletionRequest{Prompt: "?"})

		Expect(llm.Classify(err)).To(Equal(llm.FailureAuth))
	})
})
