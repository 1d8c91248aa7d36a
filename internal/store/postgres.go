package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/varcodes/trackmyprices/pkg/types"
)

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
// Each product is one row; price history is an embedded JSONB array.
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
// Pool sizing comes from the pool_max_conns connection string parameter.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// ListProducts returns every tracked product, oldest first.
func (s *PostgresStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx, queryListProducts)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// QueryProducts returns one page of products matching q and the total match count.
func (s *PostgresStore) QueryProducts(
	ctx context.Context,
	q *ProductQuery,
) ([]domain.Product, int, error) {
	if q == nil {
		q = &ProductQuery{}
	}
	dataSQL, countSQL, args := q.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetProduct returns a product by id. Malformed ids are reported as ErrNotFound.
func (s *PostgresStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	var p domain.Product
	if err := scanProduct(s.pool.QueryRow(ctx, queryGetProduct, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting product %s: %w", id, err)
	}
	return &p, nil
}

// GetProductByURL returns the product tracked under url.
func (s *PostgresStore) GetProductByURL(ctx context.Context, url string) (*domain.Product, error) {
	var p domain.Product
	if err := scanProduct(s.pool.QueryRow(ctx, queryGetProductByURL, url), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting product by url: %w", err)
	}
	return &p, nil
}

// UpsertProduct inserts or updates a product by url and returns the stored row.
func (s *PostgresStore) UpsertProduct(
	ctx context.Context,
	url string,
	patch *ProductPatch,
) (*domain.Product, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: url is required", ErrInvalidPatch)
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	history, err := json.Marshal(patch.PriceHistory)
	if err != nil {
		return nil, fmt.Errorf("marshaling price history: %w", err)
	}

	images := patch.Images
	if images == nil {
		images = []string{}
	}

	args := pgx.NamedArgs{
		"url":             url,
		"title":           patch.Title,
		"description":     patch.Description,
		"category":        patch.Category,
		"image":           patch.Image,
		"images":          images,
		"currency":        patch.Currency,
		"current_price":   patch.CurrentPrice,
		"original_price":  patch.OriginalPrice,
		"discount_rate":   patch.DiscountRate,
		"is_out_of_stock": patch.IsOutOfStock,
		"stars":           patch.Stars,
		"reviews_count":   patch.ReviewsCount,
		"price_history":   history,
		"lowest_price":    patch.LowestPrice,
		"highest_price":   patch.HighestPrice,
		"average_price":   patch.AveragePrice,
	}

	var p domain.Product
	if err := scanProduct(s.pool.QueryRow(ctx, queryUpsertProduct, args), &p); err != nil {
		return nil, fmt.Errorf("upserting product: %w", err)
	}
	return &p, nil
}

// AddSubscriber appends email to the product's subscribers unless already
// present. The returned bool reports whether the email was newly added.
func (s *PostgresStore) AddSubscriber(
	ctx context.Context,
	id string,
	email string,
) (*domain.Product, bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false, ErrNotFound
	}

	tag, err := s.pool.Exec(ctx, queryAddSubscriber, id, email)
	if err != nil {
		return nil, false, fmt.Errorf("adding subscriber: %w", err)
	}

	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, false, err
	}

	return p, tag.RowsAffected() == 1, nil
}

// ListOtherProducts returns up to limit products other than excludeID.
func (s *PostgresStore) ListOtherProducts(
	ctx context.Context,
	excludeID string,
	limit int,
) ([]domain.Product, error) {
	// A malformed id cannot match any row; compare against the nil UUID.
	if _, err := uuid.Parse(excludeID); err != nil {
		excludeID = uuid.Nil.String()
	}

	rows, err := s.pool.Query(ctx, queryListOtherProducts, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying other products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// CountProducts returns the number of tracked products.
func (s *PostgresStore) CountProducts(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, queryCountProducts).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	return n, nil
}

// InsertCycleRun records the start of a cycle and returns its UUID.
func (s *PostgresStore) InsertCycleRun(ctx context.Context, jobName string) (string, error) {
	var id string
	if err := s.pool.QueryRow(ctx, queryInsertCycleRun, jobName).Scan(&id); err != nil {
		return "", fmt.Errorf("inserting cycle run: %w", err)
	}
	return id, nil
}

// CompleteCycleRun marks a cycle run as finished with the given status and metadata.
func (s *PostgresStore) CompleteCycleRun(
	ctx context.Context,
	id string,
	status string,
	errText string,
	rowsAffected int,
) error {
	_, err := s.pool.Exec(ctx, queryCompleteCycleRun, id, status, errText, rowsAffected)
	if err != nil {
		return fmt.Errorf("completing cycle run: %w", err)
	}
	return nil
}

// ListCycleRuns returns the most recent runs for a job, newest first.
func (s *PostgresStore) ListCycleRuns(
	ctx context.Context,
	jobName string,
	limit int,
) ([]domain.CycleRun, error) {
	rows, err := s.pool.Query(ctx, queryListCycleRuns, jobName, limit)
	if err != nil {
		return nil, fmt.Errorf("querying cycle runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.CycleRun
	for rows.Next() {
		var r domain.CycleRun
		if err := rows.Scan(
			&r.ID, &r.JobName, &r.StartedAt, &r.CompletedAt,
			&r.Status, &r.ErrorText, &r.RowsAffected,
		); err != nil {
			return nil, fmt.Errorf("scanning cycle run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// scannable is satisfied by both pgx.Row and pgx.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func scanProduct(row scannable, p *domain.Product) error {
	var history []byte
	if err := row.Scan(
		&p.ID, &p.URL, &p.Title, &p.Description, &p.Category, &p.Image, &p.Images,
		&p.Currency, &p.CurrentPrice, &p.OriginalPrice, &p.DiscountRate, &p.IsOutOfStock,
		&p.Stars, &p.ReviewsCount, &history, &p.LowestPrice, &p.HighestPrice, &p.AveragePrice,
		&p.Subscribers, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return err
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &p.PriceHistory); err != nil {
			return fmt.Errorf("unmarshaling price history: %w", err)
		}
	}
	return nil
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
