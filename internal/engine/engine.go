// Package engine drives refresh cycles and the product operations exposed
// by the API: tracking URLs, subscribing emails and lookups.
package engine

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/varcodes/trackmyprices/internal/events"
	"github.com/varcodes/trackmyprices/internal/lock"
	"github.com/varcodes/trackmyprices/internal/notify"
	"github.com/varcodes/trackmyprices/internal/scrape"
	"github.com/varcodes/trackmyprices/internal/store"
	score "github.com/varcodes/trackmyprices/pkg/scorer"
)

const (
	instrumentationName = "github.com/varcodes/trackmyprices/internal/engine"

	cycleJobName  = "refresh"
	cycleLockName = "refresh-cycle"

	defaultConcurrency   = 8
	defaultCycleTimeout  = 60 * time.Second
	defaultScrapeTimeout = 20 * time.Second

	similarLimit = 3
)

// Engine orchestrates scraping, persistence, classification and
// notification.
type Engine struct {
	store     store.Store
	scraper   scrape.Scraper
	notifier  notify.Notifier
	publisher events.Publisher
	locker    lock.Locker
	log       *slog.Logger

	concurrency   int
	cycleTimeout  time.Duration
	scrapeTimeout time.Duration
	nowFunc       func() time.Time
	weights       score.Weights

	tracer   trace.Tracer
	verdicts metric.Int64Counter
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(
	s store.Store,
	sc scrape.Scraper,
	n notify.Notifier,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		store:         s,
		scraper:       sc,
		notifier:      n,
		publisher:     events.NoopPublisher{},
		locker:        lock.NewLocalLocker(),
		log:           slog.Default(),
		concurrency:   defaultConcurrency,
		cycleTimeout:  defaultCycleTimeout,
		scrapeTimeout: defaultScrapeTimeout,
		nowFunc:       time.Now,
		weights:       score.DefaultWeights(),
		tracer:        otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(eng)
	}

	verdicts, err := otel.Meter(instrumentationName).Int64Counter(
		"trackmyprices.cycle.verdicts",
		metric.WithDescription("Verdicts produced by refresh cycles."),
	)
	if err != nil {
		eng.log.Warn("creating verdict counter", "error", err)
		verdicts = noop.Int64Counter{}
	}
	eng.verdicts = verdicts

	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithLocker sets the lock that keeps cycles from overlapping.
func WithLocker(l lock.Locker) EngineOption {
	return func(e *Engine) {
		e.locker = l
	}
}

// WithPublisher sets the product event publisher.
func WithPublisher(p events.Publisher) EngineOption {
	return func(e *Engine) {
		e.publisher = p
	}
}

// WithConcurrency bounds the number of products updated at once.
// Values below 1 are ignored.
func WithConcurrency(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithCycleTimeout sets the wall-clock budget of one cycle. Zero disables
// the budget.
func WithCycleTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.cycleTimeout = d
	}
}

// WithScrapeTimeout bounds each scrape.
func WithScrapeTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.scrapeTimeout = d
	}
}

// WithScoreWeights sets the deal score weights.
func WithScoreWeights(w score.Weights) EngineOption {
	return func(e *Engine) {
		e.weights = w
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) EngineOption {
	return func(e *Engine) {
		e.nowFunc = f
	}
}
