package mailer

import (
	"context"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/uad-deukouway/housing-api/pkg/config"
)

// Batch is one outbound email addressed to a group of recipients.
type Batch struct {
	To      []string
	Subject string
	HTML    string
	// UseBCC hides recipients from each other. The historical behaviour
	// puts the whole batch in the visible "to" list.
	UseBCC bool
}

// Sender dispatches a single batch through a mail relay.
type Sender interface {
	Send(ctx context.Context, batch Batch) error
	Name() string
}

// SMTPSender delivers batches over an authenticated SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTP builds an SMTP-backed sender.
func NewSMTP(cfg config.SMTPConfig, from string) *SMTPSender {
	if from == "" {
		from = cfg.Username
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   from,
	}
}

func (s *SMTPSender) Name() string { return "smtp" }

func (s *SMTPSender) Send(ctx context.Context, batch Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	if batch.UseBCC {
		m.SetHeader("Bcc", batch.To...)
	} else {
		m.SetHeader("To", batch.To...)
	}
	m.SetHeader("Subject", batch.Subject)
	m.SetBody("text/html", batch.HTML)

	return s.dialer.DialAndSend(m)
}

// LogSender records batches instead of sending them. Used when no SMTP
// credentials are configured, so development environments stay quiet.
type LogSender struct {
	logger *zap.Logger
}

// NewLog builds a logging sender.
func NewLog(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Name() string { return "log" }

func (s *LogSender) Send(_ context.Context, batch Batch) error {
	s.logger.Info("mail batch suppressed",
		zap.Int("recipients", len(batch.To)),
		zap.String("subject", batch.Subject),
	)
	return nil
}
