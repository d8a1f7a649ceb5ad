package service_test

import (
	"context"
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"mindora.app/gateway/internal/mailer"
	"mindora.app/gateway/internal/metrics"
	"mindora.app/gateway/internal/model"
	"mindora.app/gateway/internal/service"
	"mindora.app/gateway/internal/store"
)

var _ = Describe("ContactService", func() {
	var (
		ctx    context.Context
		users  *mockUserStore
		mail   *mockMailer
		cfg    service.ContactConfig
		report model.IssueReport
	)

	BeforeEach(func() {
		ctx = context.Background()
		users = &mockUserStore{
			getByExternalIDFn: func(_ context.Context, id string) (*model.User, error) {
				if id == "u1" {
					return &model.User{ID: 1, ExternalID: "u1", Name: "Ann", Email: "ann@x.com"}, nil
				}
				return nil, store.ErrNotFound
			},
		}
		mail = &mockMailer{}
		cfg = service.ContactConfig{AdminEmail: "admin@mindora.app", FromName: "Contact Form", FromAddress: "bot@mindora.app"}
		report = model.IssueReport{Topic: "Bug", Description: "Crash on save", UserID: "u1"}
	})

	notify := func() error {
		return service.NewContactService(users, mail, cfg).Notify(ctx, report)
	}

	Context("when the report is complete and the user exists", func() {
		It("sends exactly one notification to the administrator", func() {
			Expect(notify()).To(Succeed())

			Expect(mail.sent).To(HaveLen(1))
			msg := mail.sent[0]
			Expect(msg.To).To(Equal("admin@mindora.app"))
			Expect(msg.From).To(Equal("bot@mindora.app"))
			Expect(msg.FromName).To(Equal("Contact Form"))
			Expect(msg.Subject).To(Equal("New Contact Issue: Bug"))
			Expect(msg.HTML).To(ContainSubstring("Ann"))
			Expect(msg.HTML).To(ContainSubstring("ann@x.com"))
			Expect(msg.HTML).To(ContainSubstring("Crash on save"))
			Expect(msg.HTML).To(ContainSubstring("<h2>New Issue Reported</h2>"))
		})

		It("escapes markup supplied by the reporter", func() {
			report.Description = `<script>alert("x")</script>`

			Expect(notify()).To(Succeed())

			Expect(mail.sent[0].HTML).NotTo(ContainSubstring("<script>"))
			Expect(mail.sent[0].HTML).To(ContainSubstring("&lt;script&gt;"))
		})
	})

	DescribeTable("rejects incomplete reports without touching collaborators",
		func(mutate func(r *model.IssueReport)) {
			mutate(&report)

			err := notify()

			Expect(service.KindOf(err)).To(Equal(service.KindValidation))
			Expect(service.StatusCode(err)).To(Equal(http.StatusBadRequest))
			Expect(service.Message(err)).To(Equal("Missing fields"))
			Expect(users.calls).To(BeZero())
			Expect(mail.sent).To(BeEmpty())
		},
		Entry("missing topic", func(r *model.IssueReport) { r.Topic = "" }),
		Entry("missing description", func(r *model.IssueReport) { r.Description = "" }),
		Entry("missing user id", func(r *model.IssueReport) { r.UserID = "" }),
		Entry("everything missing", func(r *model.IssueReport) { *r = model.IssueReport{} }),
	)

	It("returns not found and sends nothing for unknown users", func() {
		report.UserID = "ghost"

		err := notify()

		Expect(service.StatusCode(err)).To(Equal(http.StatusNotFound))
		Expect(service.Message(err)).To(Equal("User not found"))
		Expect(errors.Is(err, store.ErrNotFound)).To(BeTrue())
		Expect(mail.sent).To(BeEmpty())
	})

	It("counts a lookup that found no user as a successful directory call", func() {
		ok := metrics.CollaboratorCalls.WithLabelValues(metrics.CollaboratorDirectory, "success")
		before := testutil.ToFloat64(ok)
		report.UserID = "ghost"

		Expect(notify()).To(HaveOccurred())

		Expect(testutil.ToFloat64(ok) - before).To(Equal(1.0))
	})

	It("maps directory failures to an internal error", func() {
		users.getByExternalIDFn = func(context.Context, string) (*model.User, error) {
			return nil, errors.New("connection refused")
		}

		err := notify()

		Expect(service.StatusCode(err)).To(Equal(http.StatusInternalServerError))
		Expect(service.Message(err)).To(Equal("Failed to send"))
		Expect(mail.sent).To(BeEmpty())
	})

	It("maps transport failures to an internal error without retrying", func() {
		mail.sendFn = func(context.Context, mailer.Message) error {
			return errors.New("535 authentication failed")
		}

		err := notify()

		Expect(service.KindOf(err)).To(Equal(service.KindInternal))
		Expect(service.StatusCode(err)).To(Equal(http.StatusInternalServerError))
		Expect(service.Message(err)).To(Equal("Failed to send"))
		Expect(err.Error()).To(ContainSubstring("535 authentication failed"))
		Expect(mail.sent).To(HaveLen(1))
	})

	It("reports a configuration error when mail is not configured", func() {
		err := service.NewContactService(users, nil, cfg).Notify(ctx, report)

		Expect(service.KindOf(err)).To(Equal(service.KindConfiguration))
		Expect(service.StatusCode(err)).To(Equal(http.StatusInternalServerError))
		Expect(users.calls).To(BeZero())
	})

	It("reports a configuration error when no administrator address is set", func() {
		cfg.AdminEmail = ""

		err := notify()

		Expect(service.KindOf(err)).To(Equal(service.KindConfiguration))
		Expect(mail.sent).To(BeEmpty())
	})
})
