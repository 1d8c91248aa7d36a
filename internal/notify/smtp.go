package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/varcodes/trackmyprices/internal/metrics"
	domain "github.com/varcodes/trackmyprices/pkg/types"
)

const defaultSMTPTimeout = 15 * time.Second

// Sender delivers composed messages. Implementations must give up once ctx
// is done.
type Sender interface {
	Send(ctx context.Context, msgs ...*gomail.Message) error
}

// SMTPNotifier implements Notifier by sending one HTML message per dispatch
// with every recipient in Bcc.
type SMTPNotifier struct {
	from    string
	sender  Sender
	timeout time.Duration
	log     *slog.Logger
}

// SMTPOption configures an SMTPNotifier.
type SMTPOption func(*SMTPNotifier)

// WithSender replaces the SMTP dialer, mainly for tests.
func WithSender(s Sender) SMTPOption {
	return func(n *SMTPNotifier) {
		n.sender = s
	}
}

// WithTimeout bounds each dispatch.
func WithTimeout(d time.Duration) SMTPOption {
	return func(n *SMTPNotifier) {
		n.timeout = d
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) SMTPOption {
	return func(n *SMTPNotifier) {
		n.log = l
	}
}

// NewSMTPNotifier creates a notifier that sends through host:port.
func NewSMTPNotifier(host string, port int, username, password, from string, opts ...SMTPOption) *SMTPNotifier {
	n := &SMTPNotifier{
		from:    from,
		sender:  newDialer(host, port, username, password),
		timeout: defaultSMTPTimeout,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Render builds the email for kind.
func (*SMTPNotifier) Render(ctx context.Context, info ProductInfo, kind domain.NotificationKind) (*Email, error) {
	return Render(ctx, info, kind)
}

// Dispatch sends email to recipients. An empty recipient list is a no-op.
func (n *SMTPNotifier) Dispatch(ctx context.Context, email *Email, recipients []string) error {
	if len(recipients) == 0 {
		return nil
	}
	if email == nil {
		return errors.New("dispatching nil email")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.from)
	m.SetHeader("Bcc", recipients...)
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/html", email.HTML)

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	start := time.Now()
	err := n.sender.Send(ctx, m)
	metrics.NotificationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.NotificationFailuresTotal.Inc()
		return fmt.Errorf("sending %s email to %d recipients: %w", email.Kind, len(recipients), err)
	}

	metrics.NotificationsSentTotal.WithLabelValues(string(email.Kind)).Inc()
	n.log.Debug("email sent", "kind", email.Kind, "recipients", len(recipients))
	return nil
}
