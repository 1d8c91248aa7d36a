// Package scrape fetches product pages and turns them into snapshots.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	domain "github.com/varcodes/trackmyprices/pkg/types"
)

// Failure classes. Every error returned by a Scraper wraps exactly one.
var (
	// ErrInvalidURL means the URL cannot be tracked at all.
	ErrInvalidURL = errors.New("invalid product url")
	// ErrFetch means the page could not be retrieved.
	ErrFetch = errors.New("fetch failed")
	// ErrUnrecognizedPage means the page has no product markup.
	ErrUnrecognizedPage = errors.New("unrecognized page structure")
	// ErrIncomplete means the page lacks a title or a price.
	ErrIncomplete = errors.New("incomplete product data")
)

// Scraper returns a fresh snapshot of the product page at rawURL.
type Scraper interface {
	Scrape(ctx context.Context, rawURL string) (*domain.Snapshot, error)
}

// Error records the URL a scrape failed for.
type Error struct {
	URL string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("scraping %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Reason returns a short label for err suitable for metrics.
func Reason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	case errors.Is(err, ErrInvalidURL):
		return "invalid_url"
	case errors.Is(err, ErrFetch):
		return "fetch"
	case errors.Is(err, ErrUnrecognizedPage):
		return "unrecognized"
	case errors.Is(err, ErrIncomplete):
		return "incomplete"
	default:
		return "other"
	}
}

// Canonicalize normalizes rawURL into the key products are tracked under:
// scheme defaults to https, host is lowercased, query, fragment and trailing
// slashes are dropped.
func Canonicalize(rawURL string) (string, error) {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	u.Scheme = scheme
	u.Host = strings.ToLower(u.Host)
	u.User = nil
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""

	return u.String(), nil
}

// HostPolicy restricts which hosts may be scraped. The zero value allows all.
type HostPolicy struct {
	allowed []string
}

// NewHostPolicy returns a policy allowing only hosts (case-insensitive).
// An empty list allows every host.
func NewHostPolicy(hosts []string) HostPolicy {
	allowed := make([]string, 0, len(hosts))
	for _, h := range hosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			allowed = append(allowed, h)
		}
	}
	return HostPolicy{allowed: allowed}
}

// Check returns ErrInvalidURL if canonicalURL's host is not allowed.
func (p HostPolicy) Check(canonicalURL string) error {
	if len(p.allowed) == 0 {
		return nil
	}
	u, err := url.Parse(canonicalURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if !slices.Contains(p.allowed, strings.ToLower(u.Hostname())) {
		return fmt.Errorf("%w: host %q is not allowed", ErrInvalidURL, u.Hostname())
	}
	return nil
}
