// Package mailer delivers review request emails.
//
// A Sender is chosen once at startup from config.MailConfig: when SMTP_HOST is
// set, messages go out over SMTP; otherwise they are written to the log so a
// local setup works without a mail server.
package mailer

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/review-outreach/internal/config"
)

// ErrNoRecipient is returned when a message has no To address.
var ErrNoRecipient = errors.New("mailer: no recipient")

// Message is a single plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Sender delivers one message. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTPSender when cfg.Host is set and a LogSender otherwise.
func New(cfg config.MailConfig) Sender {
	if strings.TrimSpace(cfg.Host) == "" {
		log.Warn().Msg("SMTP_HOST not set; review emails will be logged, not delivered")
		return LogSender{}
	}
	return &SMTPSender{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
	}
}

// LogSender writes messages to the request logger instead of delivering them.
type LogSender struct{}

// Send logs the envelope and subject at info level.
func (LogSender) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return ErrNoRecipient
	}
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		l = &log.Logger
	}
	l.Info().
		Str("from", msg.From).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Int("body_len", len(msg.Body)).
		Msg("review email (log only)")
	return nil
}
