package engine

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/varcodes/trackmyprices/internal/metrics"
	"github.com/varcodes/trackmyprices/internal/scrape"
	"github.com/varcodes/trackmyprices/internal/store"
	score "github.com/varcodes/trackmyprices/pkg/scorer"
	domain "github.com/varcodes/trackmyprices/pkg/types"
)

// ErrInvalidEmail is returned by Subscribe for addresses that do not parse.
var ErrInvalidEmail = errors.New("invalid email address")

// TrackResult is the outcome of Track.
type TrackResult struct {
	Product *domain.Product
	Created bool
}

// SubscribeResult is the outcome of Subscribe. A failed welcome email does
// not undo the subscription.
type SubscribeResult struct {
	Product      *domain.Product `json:"product"`
	Added        bool            `json:"added"`
	WelcomeSent  bool            `json:"welcome_sent"`
	WelcomeError string          `json:"welcome_error,omitempty"`
}

// Track scrapes rawURL and stores the result, appending to the history of
// an already tracked product.
func (eng *Engine) Track(ctx context.Context, rawURL string) (*TrackResult, error) {
	canonical, err := scrape.Canonicalize(rawURL)
	if err != nil {
		return nil, err
	}

	ctx, span := eng.tracer.Start(ctx, "engine.Track", trace.WithAttributes(
		attribute.String("product.url", canonical),
	))
	defer span.End()

	snap, err := eng.scrapeWithTimeout(ctx, canonical)
	if err != nil {
		span.SetStatus(codes.Error, "scrape")
		return nil, err
	}

	var history []domain.PricePoint
	existing, err := eng.store.GetProductByURL(ctx, canonical)
	switch {
	case err == nil:
		history = existing.PriceHistory
	case errors.Is(err, store.ErrNotFound):
	default:
		span.SetStatus(codes.Error, "lookup")
		return nil, fmt.Errorf("looking up %s: %w", canonical, err)
	}

	patch, err := eng.buildPatch(history, snap)
	if err != nil {
		return nil, err
	}

	product, err := eng.store.UpsertProduct(ctx, canonical, patch)
	if err != nil {
		span.SetStatus(codes.Error, "store")
		return nil, fmt.Errorf("storing %s: %w", canonical, err)
	}

	eng.log.Info("product tracked",
		"product_id", product.ID,
		"url", canonical,
		"price", product.CurrentPrice,
		"created", existing == nil,
	)
	eng.present(product)
	return &TrackResult{Product: product, Created: existing == nil}, nil
}

// Subscribe adds email to the product's subscribers. Only a newly added
// subscriber receives the welcome email.
func (eng *Engine) Subscribe(ctx context.Context, productID, email string) (*SubscribeResult, error) {
	addr, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	ctx, span := eng.tracer.Start(ctx, "engine.Subscribe", trace.WithAttributes(
		attribute.String("product.id", productID),
	))
	defer span.End()

	product, added, err := eng.store.AddSubscriber(ctx, productID, addr)
	if err != nil {
		span.SetStatus(codes.Error, "store")
		return nil, fmt.Errorf("adding subscriber to %s: %w", productID, err)
	}

	eng.present(product)
	res := &SubscribeResult{Product: product, Added: added}
	if !added {
		return res, nil
	}
	metrics.SubscribersAddedTotal.Inc()

	if err := eng.Welcome(ctx, product, addr); err != nil {
		eng.log.Warn("welcome email failed", "product_id", productID, "error", err)
		res.WelcomeError = err.Error()
		return res, nil
	}
	res.WelcomeSent = true
	return res, nil
}

// Welcome sends the welcome email for p to a single address.
func (eng *Engine) Welcome(ctx context.Context, p *domain.Product, email string) error {
	return eng.notify(ctx, p, domain.NotifyWelcome, []string{email})
}

// Product returns a product by id.
func (eng *Engine) Product(ctx context.Context, id string) (*domain.Product, error) {
	p, err := eng.store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	eng.present(p)
	return p, nil
}

// QueryProducts returns one filtered page of products and the total count.
func (eng *Engine) QueryProducts(ctx context.Context, q *store.ProductQuery) ([]domain.Product, int, error) {
	products, total, err := eng.store.QueryProducts(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	eng.presentAll(products)
	return products, total, nil
}

// Similar returns up to three other products. The sample is not ranked.
func (eng *Engine) Similar(ctx context.Context, id string) ([]domain.Product, error) {
	if _, err := eng.store.GetProduct(ctx, id); err != nil {
		return nil, err
	}
	others, err := eng.store.ListOtherProducts(ctx, id, similarLimit)
	if err != nil {
		return nil, err
	}
	eng.presentAll(others)
	return others, nil
}

// present fills the fields computed on read before a product leaves the
// engine.
func (eng *Engine) present(p *domain.Product) {
	if p == nil {
		return
	}
	p.SubscriberCount = len(p.Subscribers)
	p.DealScore = score.Product(p, eng.weights).Total
}

func (eng *Engine) presentAll(products []domain.Product) {
	for i := range products {
		eng.present(&products[i])
	}
}

// CycleRuns returns the most recent cycle runs, newest first.
func (eng *Engine) CycleRuns(ctx context.Context, limit int) ([]domain.CycleRun, error) {
	return eng.store.ListCycleRuns(ctx, cycleJobName, limit)
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidEmail)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, raw)
	}
	return email, nil
}
