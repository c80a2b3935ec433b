package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/spigell/recruiter/internal/sanitize"
)

const (
	DefaultSMTPHost = "smtp.gmail.com"
	DefaultSMTPPort = 587
)

// SMTPConfig describes the authenticated submission channel.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTP submits messages with STARTTLS and PLAIN auth.
type SMTP struct {
	cfg SMTPConfig
}

func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		cfg.Host = DefaultSMTPHost
	}
	if cfg.Port <= 0 {
		cfg.Port = DefaultSMTPPort
	}
	if strings.TrimSpace(cfg.Username) == "" {
		return nil, errors.New("smtp username is required")
	}
	if cfg.Password == "" {
		return nil, errors.New("smtp password is required")
	}
	return &SMTP{cfg: cfg}, nil
}

func (s *SMTP) Send(ctx context.Context, msg *Message) error {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return fmt.Errorf("set sender %q: %w", msg.From, err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("set recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, sanitize.Clean(msg.Body))

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

var _ Transport = (*SMTP)(nil)
