package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/varcodes/trackmyprices/internal/metrics"
	domain "github.com/varcodes/trackmyprices/pkg/types"
)

const (
	defaultTimeout   = 20 * time.Second
	defaultUserAgent = "trackmyprices/1.0"
)

// CollyScraper implements Scraper with a fresh colly collector per call.
type CollyScraper struct {
	userAgent string
	timeout   time.Duration
	selectors Selectors
	policy    HostPolicy
	limiter   *HostLimiter
	transport http.RoundTripper
	log       *slog.Logger
	nowFunc   func() time.Time
}

// CollyOption configures the CollyScraper.
type CollyOption func(*CollyScraper)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) CollyOption {
	return func(s *CollyScraper) {
		s.userAgent = ua
	}
}

// WithTimeout bounds each scrape, including rate limiter waits.
func WithTimeout(d time.Duration) CollyOption {
	return func(s *CollyScraper) {
		s.timeout = d
	}
}

// WithSelectors replaces the page selectors.
func WithSelectors(sel Selectors) CollyOption {
	return func(s *CollyScraper) {
		s.selectors = sel
	}
}

// WithHostPolicy restricts which hosts may be scraped.
func WithHostPolicy(p HostPolicy) CollyOption {
	return func(s *CollyScraper) {
		s.policy = p
	}
}

// WithHostLimiter paces requests per host.
func WithHostLimiter(l *HostLimiter) CollyOption {
	return func(s *CollyScraper) {
		s.limiter = l
	}
}

// WithTransport sets the HTTP transport used by the collector.
func WithTransport(rt http.RoundTripper) CollyOption {
	return func(s *CollyScraper) {
		s.transport = rt
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) CollyOption {
	return func(s *CollyScraper) {
		s.log = l
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) CollyOption {
	return func(s *CollyScraper) {
		s.nowFunc = f
	}
}

// NewCollyScraper creates a CollyScraper with Amazon selectors by default.
func NewCollyScraper(opts ...CollyOption) *CollyScraper {
	s := &CollyScraper{
		userAgent: defaultUserAgent,
		timeout:   defaultTimeout,
		selectors: DefaultSelectors(),
		log:       slog.Default(),
		nowFunc:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape fetches rawURL and parses it into a snapshot. Failures are
// returned as *Error wrapping one of the package's failure classes.
func (s *CollyScraper) Scrape(ctx context.Context, rawURL string) (*domain.Snapshot, error) {
	start := time.Now()

	snap, err := s.scrape(ctx, rawURL)

	metrics.ScrapeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ScrapeFailuresTotal.WithLabelValues(Reason(err)).Inc()
		s.log.Debug("scrape failed", "url", rawURL, "error", err)
		return nil, &Error{URL: rawURL, Err: err}
	}
	return snap, nil
}

func (s *CollyScraper) scrape(ctx context.Context, rawURL string) (*domain.Snapshot, error) {
	target, err := Canonicalize(rawURL)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Check(target); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if s.limiter != nil {
		u, _ := url.Parse(target)
		if err := s.limiter.Wait(ctx, u.Hostname()); err != nil {
			return nil, err
		}
	}

	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent(s.userAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(s.timeout)
	if s.transport != nil {
		c.WithTransport(s.transport)
	}

	var (
		snap     *domain.Snapshot
		parseErr error
		status   int
	)

	c.OnHTML("html", func(e *colly.HTMLElement) {
		snap, parseErr = s.selectors.Extract(e.DOM)
	})
	c.OnError(func(r *colly.Response, _ error) {
		status = r.StatusCode
	})

	if err := c.Visit(target); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetch, ctxErr)
		}
		if status != 0 {
			return nil, fmt.Errorf("%w: status %d: %w", ErrFetch, status, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	if parseErr != nil {
		return nil, parseErr
	}
	if snap == nil {
		return nil, errors.Join(ErrUnrecognizedPage, errors.New("response was not HTML"))
	}

	snap.URL = target
	snap.ScrapedAt = s.nowFunc().UTC()
	return snap, nil
}
