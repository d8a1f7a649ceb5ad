package service_test

import (
	"context"
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"mindora.app/gateway/common/llm"
	"mindora.app/gateway/internal/service"
)

var _ = Describe("AskService", func() {
	var (
		ctx       context.Context
		completer *mockCompleter
	)

	BeforeEach(func() {
		ctx = context.Background()
		completer = &mockCompleter{}
	})

	It("returns the trimmed first content element", func() {
		completer.completeFn = func(context.Context, llm.CompletionRequest) (*llm.CompletionResponse, error) {
			return &llm.CompletionResponse{Text: "  Paris.\n"}, nil
		}

		answer, err := service.NewAskService(completer).Ask(ctx, "Capital of France?")

		Expect(err).NotTo(HaveOccurred())
		Expect(answer).To(Equal("Paris."))
	})

	It("wraps the question in the instruction template", func() {
		_, err := service.NewAskService(completer).Ask(ctx, "Capital of France?")

		Expect(err).NotTo(HaveOccurred())
		Expect(completer.requests).To(HaveLen(1))
		Expect(completer.requests[0].Prompt).To(Equal(service.BuildPrompt("Capital of France?")))
		Expect(completer.requests[0].Prompt).To(ContainSubstring("Question:\nCapital of France?\n\nAnswer:"))
	})

	It("returns an empty answer when the model produced no content", func() {
		answer, err := service.NewAskService(completer).Ask(ctx, "Anything?")

		Expect(err).NotTo(HaveOccurred())
		Expect(answer).To(BeEmpty())
	})

	It("rejects an empty question without calling the model", func() {
		_, err := service.NewAskService(completer).Ask(ctx, "")

		Expect(service.KindOf(err)).To(Equal(service.KindValidation))
		Expect(service.StatusCode(err)).To(Equal(http.StatusBadRequest))
		Expect(service.Message(err)).To(Equal("No question provided"))
		Expect(completer.requests).To(BeEmpty())
	})

	DescribeTable("degrades any completion failure to the fallback answer",
		func(failure error) {
			completer.completeFn = func(context.Context, llm.CompletionRequest) (*llm.CompletionResponse, error) {
				return nil, failure
			}

			answer, err := service.NewAskService(completer).Ask(ctx, "Capital of France?")

			Expect(err).NotTo(HaveOccurred())
			Expect(answer).To(Equal(service.FallbackAnswer))
			Expect(completer.requests).To(HaveLen(1))
		},
		Entry("unauthorized", &llm.Error{Provider: "anthropic", StatusCode: 401, Err: errors.New("invalid x-api-key")}),
		Entry("rate limited", &llm.Error{Provider: "anthropic", StatusCode: 429, Err: errors.New("slow down")}),
		Entry("server error", &llm.Error{Provider: "anthropic", StatusCode: 529, Err: errors.New("overloaded")}),
		Entry("bad request", &llm.Error{Provider: "anthropic", StatusCode: 400, Err: errors.New("bad model")}),
		Entry("timeout", context.DeadlineExceeded),
		Entry("caller went away", context.Canceled),
		Entry("network", errors.New("dial tcp: connection refused")),
	)

	It("lets the completion run even after the caller has gone", func() {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		var seen error
		completer.completeFn = func(c context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
			seen = c.Err()
			return &llm.CompletionResponse{Text: "Paris."}, nil
		}

		answer, err := service.NewAskService(completer).Ask(cancelled, "Capital of France?")

		Expect(err).NotTo(HaveOccurred())
		Expect(answer).To(Equal("Paris."))
		Expect(seen).NotTo(HaveOccurred())
	})

	It("answers with the fallback when no completer is configured", func() {
		answer, err := service.NewAskService(nil).Ask(ctx, "Capital of France?")

		Expect(err).NotTo(HaveOccurred())
		Expect(answer).To(Equal(service.FallbackAnswer))
	})
})
