package notifier

import (
	"context"

	"github.com/MKhiriev/go-finance-tracker/internal/logger"
)

type logNotifier struct {
	logger *logger.Logger
}

// NewLogNotifier returns a Notifier that writes every message, body
// included, to the log instead of sending it.
func NewLogNotifier(log *logger.Logger) Notifier {
	return &logNotifier{logger: log}
}

func (n *logNotifier) Send(ctx context.Context, to, subject, body string) error {
	n.logger.Info().
		Str("func", "*logNotifier.Send").
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("email not sent, log notifier in use")
	return nil
}
