package notify

import (
	"context"
	"log/slog"

	domain "github.com/varcodes/trackmyprices/pkg/types"
)

// NoOpNotifier implements Notifier by logging discarded emails. It is used
// when SMTP is not configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards emails with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// Render builds the email for kind so template errors still surface.
func (*NoOpNotifier) Render(ctx context.Context, info ProductInfo, kind domain.NotificationKind) (*Email, error) {
	return Render(ctx, info, kind)
}

// Dispatch logs and discards the email.
func (n *NoOpNotifier) Dispatch(_ context.Context, email *Email, recipients []string) error {
	if len(recipients) == 0 || email == nil {
		return nil
	}
	n.log.Debug("notification discarded (no smtp configured)",
		"kind", email.Kind,
		"subject", email.Subject,
		"recipients", len(recipients),
	)
	return nil
}
