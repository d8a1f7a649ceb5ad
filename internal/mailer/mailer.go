package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

// Message is a single HTML mail.
type Message struct {
	FromName string
	From     string
	To       string
	Subject  string
	HTML     string
}

// Mailer delivers a message or reports why it could not.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

type smtpMailer struct {
	client *mail.Client
}

// NewSMTPMailer creates a Mailer that authenticates with PLAIN over a
// mandatory STARTTLS connection. Each Send dials a fresh connection.
func NewSMTPMailer(cfg SMTPConfig) (Mailer, error) {
	if cfg.Host == "" {
		return nil, errors.New("SMTP host is required")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, errors.New("SMTP credentials are required")
	}

	opts := []mail.Option{
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	}
	if cfg.Port > 0 {
		opts = append(opts, mail.WithPort(cfg.Port))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}

	return &smtpMailer{client: client}, nil
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	mm, err := buildMessage(msg)
	if err != nil {
		return err
	}

	if err := m.client.DialAndSendWithContext(ctx, mm); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}

func buildMessage(msg Message) (*mail.Msg, error) {
	mm := mail.NewMsg()

	if msg.FromName != "" {
		if err := mm.FromFormat(msg.FromName, msg.From); err != nil {
			return nil, fmt.Errorf("setting sender: %w", err)
		}
	} else if err := mm.From(msg.From); err != nil {
		return nil, fmt.Errorf("setting sender: %w", err)
	}

	if err := mm.To(msg.To); err != nil {
		return nil, fmt.Errorf("setting recipient: %w", err)
	}

	mm.Subject(msg.Subject)
	mm.SetBodyString(mail.TypeTextHTML, msg.HTML)

	return mm, nil
}
