// Package notify renders and delivers product notification emails.
package notify

import (
	"context"
	"errors"

	domain "github.com/varcodes/trackmyprices/pkg/types"
)

// ErrNoNotification is returned when asked to render the "none" kind or an
// unknown kind.
var ErrNoNotification = errors.New("no notification for kind")

// ProductInfo is the product data an email is rendered from.
type ProductInfo struct {
	Title    string
	URL      string
	Image    string
	Price    float64
	Currency string
}

// InfoFromProduct builds ProductInfo from a stored product.
func InfoFromProduct(p *domain.Product) ProductInfo {
	return ProductInfo{
		Title:    p.Title,
		URL:      p.URL,
		Image:    p.Image,
		Price:    p.CurrentPrice,
		Currency: p.Currency,
	}
}

// Email is a rendered notification ready for dispatch.
type Email struct {
	Kind    domain.NotificationKind
	Subject string
	HTML    string
}

// Notifier renders notification emails and sends them to recipients.
type Notifier interface {
	Render(ctx context.Context, info ProductInfo, kind domain.NotificationKind) (*Email, error)
	Dispatch(ctx context.Context, email *Email, recipients []string) error
}
