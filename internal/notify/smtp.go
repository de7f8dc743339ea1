package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"hireflow/internal/secrets"
)

// SMTPConfig holds mail server settings. The password may be given inline or
// through a file, like every other credential.
type SMTPConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	PasswordFile string `mapstructure:"password-file"`
	From         string `mapstructure:"from"`
}

// Enabled reports whether the config is complete enough to send mail.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

// SMTP delivers messages over SMTP.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTP builds the dialer, resolving the password through the secrets
// loader. A server without authentication keeps an empty password.
func NewSMTP(cfg SMTPConfig) *SMTP {
	port := cfg.Port
	if port == 0 {
		port = 587
	}

	password := cfg.Password
	if resolved, err := secrets.Load(secrets.Source{
		Name:  "smtp password",
		Value: cfg.Password,
		File:  cfg.PasswordFile,
		Env:   "SMTP_PASSWORD",
	}); err == nil {
		password = resolved
	}

	return &SMTP{
		dialer: gomail.NewDialer(cfg.Host, port, cfg.Username, password),
		from:   cfg.From,
	}
}

func (s *SMTP) Send(_ context.Context, msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}
