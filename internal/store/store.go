// Package store defines the datastore abstraction for trackmyprices.
// All business logic depends on the Store interface, never on concrete
// implementations. This enables mock-based testing without a running database.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/varcodes/trackmyprices/pkg/types"
)

// ErrNotFound is returned when a product lookup matches nothing.
var ErrNotFound = errors.New("not found")

// ErrInvalidPatch is returned when an upsert patch fails validation.
var ErrInvalidPatch = errors.New("invalid product patch")

// ProductQuery defines optional filters for paged product queries.
type ProductQuery struct {
	Search      *string // case-insensitive title substring
	InStockOnly bool
	MaxPrice    *float64
	Limit       int // default 50
	Offset      int
	OrderBy     string // "created_at", "updated_at", "price", "discount"
}

// ProductPatch is the complete set of fields an upsert writes. It is built
// by the engine from a scrape snapshot merged with the stored history.
// Subscribers are never part of a patch.
type ProductPatch struct {
	Title         string
	Description   string
	Category      string
	Image         string
	Images        []string
	Currency      string
	CurrentPrice  float64
	OriginalPrice float64
	DiscountRate  float64
	IsOutOfStock  bool
	Stars         float64
	ReviewsCount  int

	PriceHistory []domain.PricePoint
	LowestPrice  float64
	HighestPrice float64
	AveragePrice float64
}

// Validate rejects patches that are missing required fields or whose
// statistics do not bound the history.
func (p *ProductPatch) Validate() error {
	var errs []error

	if strings.TrimSpace(p.Title) == "" {
		errs = append(errs, errors.New("title is required"))
	}
	if p.CurrentPrice <= 0 {
		errs = append(errs, fmt.Errorf("current price must be positive (got %v)", p.CurrentPrice))
	}
	if len(p.PriceHistory) == 0 {
		errs = append(errs, errors.New("price history must not be empty"))
	}
	for i, h := range p.PriceHistory {
		if h.Price < p.LowestPrice || h.Price > p.HighestPrice {
			errs = append(errs, fmt.Errorf(
				"history entry %d price %v outside [%v, %v]",
				i, h.Price, p.LowestPrice, p.HighestPrice,
			))
			break
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidPatch, errors.Join(errs...))
	}
	return nil
}

// Store defines all data access operations for trackmyprices.
type Store interface {
	// Products
	ListProducts(ctx context.Context) ([]domain.Product, error)
	QueryProducts(ctx context.Context, q *ProductQuery) ([]domain.Product, int, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetProductByURL(ctx context.Context, url string) (*domain.Product, error)
	UpsertProduct(ctx context.Context, url string, patch *ProductPatch) (*domain.Product, error)
	AddSubscriber(ctx context.Context, id, email string) (*domain.Product, bool, error)
	ListOtherProducts(ctx context.Context, excludeID string, limit int) ([]domain.Product, error)
	CountProducts(ctx context.Context) (int, error)

	// Cycle runs
	InsertCycleRun(ctx context.Context, jobName string) (string, error)
	CompleteCycleRun(ctx context.Context, id, status, errText string, rowsAffected int) error
	ListCycleRuns(ctx context.Context, jobName string, limit int) ([]domain.CycleRun, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close()
}
