package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"sort"
	"strings"

	"github.com/fisacferrandez/contactform/internal/config"
)

// SMTPSender delivers messages through a mail relay.
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPSender constructs a sender for the given relay. Authentication is
// used only when a username is configured.
func NewSMTPSender(cfg config.SMTPConfig, from string) (*SMTPSender, error) {
	host, _, err := net.SplitHostPort(cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("smtp address must be host:port: %w", err)
	}

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, host)
	}

	return &SMTPSender{addr: cfg.Addr, from: from, auth: auth}, nil
}

// Send writes the message to the relay. The transport call itself carries
// no timeout beyond the context deadline honored by connection setup.
func (s *SMTPSender) Send(_ context.Context, msg Message) error {
	payload := encode(msg)
	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{msg.To}, payload); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

// encode serializes headers and body into an RFC 5322 message. Headers are
// emitted in a stable order so tests can assert on the payload.
func encode(msg Message) []byte {
	var b strings.Builder

	names := make([]string, 0, len(msg.Headers))
	for name := range msg.Headers {
		names = append(names, name)
	}
	sort.Strings(names)

	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	for _, name := range names {
		b.WriteString(name + ": " + msg.Headers[name] + "\r\n")
	}
	b.WriteString("\r\n")
	b.WriteString(msg.HTMLBody)

	return []byte(b.String())
}

// LogSender is the development transport: it logs instead of delivering.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender constructs the log-only transport.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

// Send logs the message metadata and succeeds.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("email suppressed (log sender)",
		"to", msg.To,
		"subject", msg.Subject,
		"bytes", len(msg.HTMLBody),
	)
	return nil
}
