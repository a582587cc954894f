package notifier

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-finance-tracker/internal/config"
	"github.com/MKhiriev/go-finance-tracker/internal/logger"
	"github.com/wneessen/go-mail"
)

type mailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type smtpNotifier struct {
	client mailSender
	from   string
	logger *logger.Logger
}

// NewSMTPNotifier returns a Notifier that submits mail through the SMTP
// server in cfg. Authentication is enabled when a username is configured.
func NewSMTPNotifier(cfg config.Notifier, log *logger.Logger) (Notifier, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating smtp client: %w", err)
	}

	log.Debug().Str("host", cfg.Host).Int("port", cfg.Port).Msg("creating smtp notifier")
	return &smtpNotifier{
		client: client,
		from:   cfg.From,
		logger: log,
	}, nil
}

func (n *smtpNotifier) Send(ctx context.Context, to, subject, body string) error {
	log := logger.FromContext(ctx)

	msg, err := n.buildMessage(to, subject, body)
	if err != nil {
		log.Err(err).Str("func", "*smtpNotifier.Send").Msg("error building message")
		return err
	}

	if err = n.client.DialAndSendWithContext(ctx, msg); err != nil {
		log.Err(err).Str("func", "*smtpNotifier.Send").Msg("error sending message")
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	log.Info().Str("func", "*smtpNotifier.Send").Msg("verification email sent")
	return nil
}

func (n *smtpNotifier) buildMessage(to, subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return nil, fmt.Errorf("%w: from: %w", ErrInvalidMessage, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("%w: to: %w", ErrInvalidMessage, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	return msg, nil
}
