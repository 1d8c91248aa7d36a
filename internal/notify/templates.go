package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"

	domain "github.com/varcodes/trackmyprices/pkg/types"
)

const subjectTitleLimit = 20

type message struct {
	subject string
	heading string
	lead    string
}

func messageFor(info ProductInfo, kind domain.NotificationKind) (message, bool) {
	short := shortTitle(info.Title)
	price := formatPrice(info.Price, info.Currency)

	switch kind {
	case domain.NotifyWelcome:
		return message{
			subject: "Welcome to price tracking for " + short,
			heading: "You're now tracking this product",
			lead: "We'll email you when " + info.Title +
				" drops in price, hits its lowest price yet, or comes back in stock.",
		}, true
	case domain.NotifyPriceDrop:
		return message{
			subject: "Price drop alert for " + short,
			heading: "The price just dropped",
			lead:    info.Title + " is now " + price + ".",
		}, true
	case domain.NotifyLowestPrice:
		return message{
			subject: "Lowest price alert for " + short,
			heading: "Lowest price we've ever seen",
			lead:    info.Title + " is now " + price + ", its lowest recorded price.",
		}, true
	case domain.NotifyBackInStock:
		return message{
			subject: short + " is back in stock",
			heading: "Back in stock",
			lead:    info.Title + " is available again at " + price + ".",
		}, true
	default:
		return message{}, false
	}
}

// Render builds the email for kind. It performs no I/O beyond writing to
// an in-memory buffer.
func Render(ctx context.Context, info ProductInfo, kind domain.NotificationKind) (*Email, error) {
	msg, ok := messageFor(info, kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoNotification, kind)
	}

	var buf bytes.Buffer
	if err := emailPage(msg, info).Render(ctx, &buf); err != nil {
		return nil, fmt.Errorf("rendering %s email: %w", kind, err)
	}

	return &Email{Kind: kind, Subject: msg.subject, HTML: buf.String()}, nil
}

func emailPage(msg message, info ProductInfo) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html><body style="font-family:sans-serif;color:#222">`); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "<h2>%s</h2><p>%s</p>",
			templ.EscapeString(msg.heading), templ.EscapeString(msg.lead)); err != nil {
			return err
		}
		if err := productCard(info).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w,
			`<p style="font-size:12px;color:#888">You are receiving this because you subscribed to price alerts for this product.</p></body></html>`)
		return err
	})
}

func productCard(info ProductInfo) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		href := templ.EscapeString(string(templ.URL(info.URL)))
		if _, err := io.WriteString(w, `<div style="border:1px solid #ddd;padding:12px">`); err != nil {
			return err
		}
		if info.Image != "" {
			if _, err := fmt.Fprintf(w, `<img src="%s" alt="" style="max-width:200px"/>`,
				templ.EscapeString(string(templ.URL(info.Image)))); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, `<h3>%s</h3><p><strong>%s</strong></p><a href="%s">View product</a></div>`,
			templ.EscapeString(info.Title),
			templ.EscapeString(formatPrice(info.Price, info.Currency)),
			href,
		)
		return err
	})
}

func shortTitle(title string) string {
	if utf8.RuneCountInString(title) <= subjectTitleLimit {
		return title
	}
	return string([]rune(title)[:subjectTitleLimit]) + "..."
}

// formatPrice prints a symbol prefix ("$12.50") or an ISO code suffix
// ("12.50 EUR").
func formatPrice(price float64, currency string) string {
	amount := decimal.NewFromFloat(price).StringFixed(2)
	switch {
	case currency == "":
		return amount
	case utf8.RuneCountInString(currency) == 1:
		return currency + amount
	default:
		return amount + " " + currency
	}
}
