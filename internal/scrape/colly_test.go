package scrape

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newShop(t *testing.T) *httptest.Server {
	t.Helper()

	product := loadFixture(t, "amazon_product.html")
	mux := http.NewServeMux()
	mux.HandleFunc("/dp/kindle", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			http.Error(w, "query should have been stripped", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, product)
	})
	mux.HandleFunc("/dp/blank", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, "<html><body><p>Sorry, we couldn't find that page</p></body></html>")
	})
	mux.HandleFunc("/dp/json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"price": 10}`)
	})
	mux.HandleFunc("/dp/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestCollyScraper_Scrape(t *testing.T) {
	t.Parallel()

	srv := newShop(t)
	fixed := time.Date(2026, 3, 14, 9, 0, 0, 0, time.FixedZone("EST", -5*3600))

	var sawUA atomic.Value
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		sawUA.Store(r.Header.Get("User-Agent"))
		return http.DefaultTransport.RoundTrip(r)
	})

	s := NewCollyScraper(
		WithLogger(quietLogger()),
		WithUserAgent("test-agent/2.0"),
		WithTransport(rt),
		WithNowFunc(func() time.Time { return fixed }),
		WithHostLimiter(NewHostLimiter(100, 5)),
	)

	snap, err := s.Scrape(context.Background(), srv.URL+"/dp/kindle/?tag=aff#top")
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/dp/kindle", snap.URL)
	assert.Equal(t, 1049.99, snap.CurrentPrice)
	assert.Equal(t, fixed.UTC(), snap.ScrapedAt)
	assert.Equal(t, "test-agent/2.0", sawUA.Load())
}

func TestCollyScraper_Failures(t *testing.T) {
	t.Parallel()

	srv := newShop(t)

	tests := []struct {
		name       string
		url        string
		opts       []CollyOption
		wantErr    error
		wantReason string
	}{
		{
			name:       "not found",
			url:        srv.URL + "/dp/missing",
			wantErr:    ErrFetch,
			wantReason: "fetch",
		},
		{
			name:       "no product markup",
			url:        srv.URL + "/dp/blank",
			wantErr:    ErrUnrecognizedPage,
			wantReason: "unrecognized",
		},
		{
			name:       "not html",
			url:        srv.URL + "/dp/json",
			wantErr:    ErrUnrecognizedPage,
			wantReason: "unrecognized",
		},
		{
			name:       "invalid url",
			url:        "ftp://files.example.com/catalog",
			wantErr:    ErrInvalidURL,
			wantReason: "invalid_url",
		},
		{
			name:       "host not allowed",
			url:        srv.URL + "/dp/kindle",
			opts:       []CollyOption{WithHostPolicy(NewHostPolicy([]string{"www.amazon.com"}))},
			wantErr:    ErrInvalidURL,
			wantReason: "invalid_url",
		},
		{
			name:       "timeout",
			url:        srv.URL + "/dp/slow",
			opts:       []CollyOption{WithTimeout(100 * time.Millisecond)},
			wantErr:    ErrFetch,
			wantReason: "timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := append([]CollyOption{WithLogger(quietLogger())}, tt.opts...)
			s := NewCollyScraper(opts...)

			snap, err := s.Scrape(context.Background(), tt.url)
			require.Error(t, err)
			assert.Nil(t, snap)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantReason, Reason(err))

			var scrapeErr *Error
			require.ErrorAs(t, err, &scrapeErr)
			assert.Equal(t, tt.url, scrapeErr.URL)
		})
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
