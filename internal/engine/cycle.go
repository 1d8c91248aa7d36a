package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/varcodes/trackmyprices/internal/events"
	"github.com/varcodes/trackmyprices/internal/lock"
	"github.com/varcodes/trackmyprices/internal/metrics"
	"github.com/varcodes/trackmyprices/internal/notify"
	"github.com/varcodes/trackmyprices/internal/store"
	"github.com/varcodes/trackmyprices/pkg/pricestats"
	domain "github.com/varcodes/trackmyprices/pkg/types"
	"github.com/varcodes/trackmyprices/pkg/verdict"
)

// ErrCycleInProgress is returned when another cycle holds the cycle lock.
var ErrCycleInProgress = errors.New("refresh cycle already in progress")

// Stage names the step of a product update that failed.
type Stage string

// Update stages.
const (
	StageScrape Stage = "scrape"
	StageStore  Stage = "store"
	StageNotify Stage = "notify"
)

// ItemFailure describes one product whose update did not fully succeed.
type ItemFailure struct {
	ProductID string `json:"product_id"`
	URL       string `json:"url"`
	Stage     Stage  `json:"stage"`
	Error     string `json:"error"`
}

// CycleResult summarizes one refresh cycle.
type CycleResult struct {
	ID        string           `json:"id"`
	Status    string           `json:"status"`
	Updated   []domain.Product `json:"updated"`
	Failures  []ItemFailure    `json:"failures"`
	Notified  int              `json:"notified"`
	StartedAt time.Time        `json:"started_at"`
	Duration  time.Duration    `json:"duration"`
}

type itemOutcome struct {
	updated  *domain.Product
	failure  *ItemFailure
	notified bool
}

// RunCycle refreshes every tracked product once. Per-product failures are
// reported in the result; only a failure to acquire the lock or load the
// product list is returned as an error.
func (eng *Engine) RunCycle(ctx context.Context) (*CycleResult, error) {
	release, err := eng.locker.TryLock(ctx, cycleLockName)
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, ErrCycleInProgress
		}
		return nil, fmt.Errorf("acquiring cycle lock: %w", err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			eng.log.Warn("releasing cycle lock", "error", err)
		}
	}()

	ctx, span := eng.tracer.Start(ctx, "engine.RunCycle")
	defer span.End()

	metrics.CycleInProgress.Set(1)
	defer metrics.CycleInProgress.Set(0)

	startedAt := eng.nowFunc()
	runID, recorded := eng.startCycleRun(ctx)
	span.SetAttributes(attribute.String("cycle.id", runID))

	cycleCtx := ctx
	if eng.cycleTimeout > 0 {
		var cancel context.CancelFunc
		cycleCtx, cancel = context.WithTimeout(ctx, eng.cycleTimeout)
		defer cancel()
	}

	result, err := eng.runCycle(cycleCtx, runID)
	elapsed := eng.nowFunc().Sub(startedAt)
	metrics.CycleDuration.Observe(elapsed.Seconds())

	if err != nil {
		metrics.CyclesTotal.WithLabelValues(domain.CycleStatusFailed).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if recorded {
			eng.completeCycleRun(ctx, runID, domain.CycleStatusFailed, err.Error(), 0)
		}
		eng.log.Error("refresh cycle failed", "cycle_id", runID, "error", err)
		return nil, err
	}

	result.ID = runID
	result.StartedAt = startedAt.UTC()
	result.Duration = elapsed

	metrics.CyclesTotal.WithLabelValues(result.Status).Inc()
	metrics.CycleLastSuccessTimestamp.Set(float64(eng.nowFunc().Unix()))
	span.SetAttributes(
		attribute.Int("cycle.updated", len(result.Updated)),
		attribute.Int("cycle.failures", len(result.Failures)),
	)

	var errText string
	if len(result.Failures) > 0 {
		errText = fmt.Sprintf("%d item failures", len(result.Failures))
	}
	if recorded {
		eng.completeCycleRun(ctx, runID, result.Status, errText, len(result.Updated))
	}

	eng.log.Info("refresh cycle completed",
		"cycle_id", runID,
		"status", result.Status,
		"updated", len(result.Updated),
		"failures", len(result.Failures),
		"notified", result.Notified,
		"duration", elapsed,
	)
	return result, nil
}

func (eng *Engine) runCycle(ctx context.Context, cycleID string) (*CycleResult, error) {
	products, err := eng.store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading products: %w", err)
	}
	metrics.ProductsTracked.Set(float64(len(products)))

	outcomes := make([]itemOutcome, len(products))

	var g errgroup.Group
	g.SetLimit(eng.concurrency)
	for i := range products {
		g.Go(func() error {
			outcomes[i] = eng.updateProduct(ctx, &products[i], cycleID)
			return nil
		})
	}
	_ = g.Wait()

	result := &CycleResult{
		Status:   domain.CycleStatusSuccess,
		Updated:  []domain.Product{},
		Failures: []ItemFailure{},
	}
	for _, o := range outcomes {
		if o.updated != nil {
			eng.present(o.updated)
			result.Updated = append(result.Updated, *o.updated)
		}
		if o.failure != nil {
			result.Failures = append(result.Failures, *o.failure)
		}
		if o.notified {
			result.Notified++
		}
	}
	if len(result.Failures) > 0 {
		result.Status = domain.CycleStatusPartial
	}
	return result, nil
}

// updateProduct runs scrape, merge, upsert, classify, notify and publish
// for one product. It never returns an error; failures are outcome values.
func (eng *Engine) updateProduct(ctx context.Context, prev *domain.Product, cycleID string) itemOutcome {
	ctx, span := eng.tracer.Start(ctx, "engine.updateProduct", trace.WithAttributes(
		attribute.String("product.id", prev.ID),
		attribute.String("product.url", prev.URL),
	))
	defer span.End()

	fail := func(stage Stage, err error) *ItemFailure {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(stage))
		metrics.CycleItemsTotal.WithLabelValues(string(stage) + "_failed").Inc()
		eng.log.Warn("product update failed",
			"product_id", prev.ID,
			"url", prev.URL,
			"stage", stage,
			"error", err,
		)
		return &ItemFailure{ProductID: prev.ID, URL: prev.URL, Stage: stage, Error: err.Error()}
	}

	snap, err := eng.scrapeWithTimeout(ctx, prev.URL)
	if err != nil {
		return itemOutcome{failure: fail(StageScrape, err)}
	}

	patch, err := eng.buildPatch(prev.PriceHistory, snap)
	if err != nil {
		return itemOutcome{failure: fail(StageStore, err)}
	}

	updated, err := eng.store.UpsertProduct(ctx, prev.URL, patch)
	if err != nil {
		return itemOutcome{failure: fail(StageStore, err)}
	}
	metrics.CycleItemsTotal.WithLabelValues("updated").Inc()

	kind := verdict.Classify(prev, snap)
	eng.verdicts.Add(ctx, 1, metric.WithAttributes(attribute.String("verdict", string(kind))))
	span.SetAttributes(attribute.String("product.verdict", string(kind)))

	out := itemOutcome{updated: updated}
	if kind != domain.NotifyNone && len(updated.Subscribers) > 0 {
		if err := eng.notify(ctx, updated, kind, updated.Subscribers); err != nil {
			out.failure = fail(StageNotify, err)
		} else {
			out.notified = true
		}
	}

	ev := events.NewProductUpdated(updated, kind, cycleID, eng.nowFunc())
	if err := eng.publisher.Publish(ctx, ev); err != nil {
		eng.log.Warn("publishing product event", "product_id", updated.ID, "error", err)
	}

	return out
}

func (eng *Engine) scrapeWithTimeout(ctx context.Context, rawURL string) (*domain.Snapshot, error) {
	if eng.scrapeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, eng.scrapeTimeout)
		defer cancel()
	}
	return eng.scraper.Scrape(ctx, rawURL)
}

// buildPatch appends the snapshot price to history and recomputes the
// derived statistics.
func (eng *Engine) buildPatch(history []domain.PricePoint, snap *domain.Snapshot) (*store.ProductPatch, error) {
	at := snap.ScrapedAt
	if at.IsZero() {
		at = eng.nowFunc().UTC()
	}

	merged := append(slices.Clone(history), domain.PricePoint{Price: snap.CurrentPrice, Date: at})
	stats, err := pricestats.Summarize(merged)
	if err != nil {
		return nil, fmt.Errorf("summarizing price history: %w", err)
	}

	return &store.ProductPatch{
		Title:         snap.Title,
		Description:   snap.Description,
		Category:      snap.Category,
		Image:         snap.Image,
		Images:        snap.Images,
		Currency:      snap.Currency,
		CurrentPrice:  snap.CurrentPrice,
		OriginalPrice: snap.OriginalPrice,
		DiscountRate:  snap.DiscountRate,
		IsOutOfStock:  snap.IsOutOfStock,
		Stars:         snap.Stars,
		ReviewsCount:  snap.ReviewsCount,
		PriceHistory:  merged,
		LowestPrice:   stats.Lowest,
		HighestPrice:  stats.Highest,
		AveragePrice:  stats.Average,
	}, nil
}

func (eng *Engine) notify(
	ctx context.Context,
	p *domain.Product,
	kind domain.NotificationKind,
	recipients []string,
) error {
	email, err := eng.notifier.Render(ctx, notify.InfoFromProduct(p), kind)
	if err != nil {
		return fmt.Errorf("rendering %s email: %w", kind, err)
	}
	if err := eng.notifier.Dispatch(ctx, email, recipients); err != nil {
		return err
	}
	return nil
}

// startCycleRun records the cycle start. Bookkeeping failures never block
// the cycle; a random id is used instead and recorded is false.
func (eng *Engine) startCycleRun(ctx context.Context) (id string, recorded bool) {
	id, err := eng.store.InsertCycleRun(ctx, cycleJobName)
	if err != nil {
		eng.log.Warn("recording cycle start", "error", err)
		return uuid.NewString(), false
	}
	return id, true
}

func (eng *Engine) completeCycleRun(ctx context.Context, id, status, errText string, rows int) {
	ctx = context.WithoutCancel(ctx)
	if err := eng.store.CompleteCycleRun(ctx, id, status, errText, rows); err != nil {
		eng.log.Warn("recording cycle completion", "cycle_id", id, "error", err)
	}
}
