package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domain "github.com/varcodes/trackmyprices/pkg/types"
)

const (
	productsCollection  = "products"
	cycleRunsCollection = "cycle_runs"
)

// MongoStore implements Store on MongoDB. Each product is one document with
// its price history and subscribers embedded.
//
// TODO(test): MongoStore methods require live MongoDB, tested via integration tests.
type MongoStore struct {
	client    *mongo.Client
	products  *mongo.Collection
	cycleRuns *mongo.Collection
	now       func() time.Time
}

// NewMongoStore connects to uri and uses the named database.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	db := client.Database(database)
	return &MongoStore{
		client:    client,
		products:  db.Collection(productsCollection),
		cycleRuns: db.Collection(cycleRunsCollection),
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.client.Disconnect(ctx)
}

// Ping verifies the server is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Migrate creates the indexes the store relies on. It is idempotent.
func (s *MongoStore) Migrate(ctx context.Context) error {
	if _, err := s.products.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "url", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("creating product indexes: %w", err)
	}

	if _, err := s.cycleRuns.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "job_name", Value: 1}, {Key: "started_at", Value: -1}},
	}); err != nil {
		return fmt.Errorf("creating cycle run indexes: %w", err)
	}
	return nil
}

// ListProducts returns every tracked product, oldest first.
func (s *MongoStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return s.findProducts(ctx, bson.D{}, opts)
}

// QueryProducts returns one page of products matching q and the total match count.
func (s *MongoStore) QueryProducts(
	ctx context.Context,
	q *ProductQuery,
) ([]domain.Product, int, error) {
	if q == nil {
		q = &ProductQuery{}
	}
	filter := q.toFilter()

	total, err := s.products.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	limit, offset := q.normalize()
	opts := options.Find().
		SetSort(q.toSort()).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	products, err := s.findProducts(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return products, int(total), nil
}

// GetProduct returns a product by id.
func (s *MongoStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetProductByURL returns the product tracked under url.
func (s *MongoStore) GetProductByURL(ctx context.Context, url string) (*domain.Product, error) {
	return s.findOne(ctx, bson.M{"url": url})
}

// UpsertProduct creates or merges the product keyed by url and returns the
// resulting document.
func (s *MongoStore) UpsertProduct(
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

	now := s.now()
	update := bson.M{
		"$set": bson.M{
			"title":           patch.Title,
			"description":     patch.Description,
			"category":        patch.Category,
			"image":           patch.Image,
			"images":          patch.Images,
			"currency":        patch.Currency,
			"current_price":   patch.CurrentPrice,
			"original_price":  patch.OriginalPrice,
			"discount_rate":   patch.DiscountRate,
			"is_out_of_stock": patch.IsOutOfStock,
			"stars":           patch.Stars,
			"reviews_count":   patch.ReviewsCount,
			"price_history":   patch.PriceHistory,
			"lowest_price":    patch.LowestPrice,
			"highest_price":   patch.HighestPrice,
			"average_price":   patch.AveragePrice,
			"updated_at":      now,
		},
		"$setOnInsert": bson.M{
			"_id":         uuid.NewString(),
			"url":         url,
			"subscribers": []string{},
			"created_at":  now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var p domain.Product
	if err := s.products.FindOneAndUpdate(ctx, bson.M{"url": url}, update, opts).Decode(&p); err != nil {
		return nil, fmt.Errorf("upserting product: %w", err)
	}
	return &p, nil
}

// AddSubscriber adds email to the product's subscriber set. The returned bool
// reports whether the email was newly added.
func (s *MongoStore) AddSubscriber(
	ctx context.Context,
	id string,
	email string,
) (*domain.Product, bool, error) {
	res, err := s.products.UpdateOne(ctx,
		bson.M{"_id": id, "subscribers": bson.M{"$ne": email}},
		bson.M{
			"$push": bson.M{"subscribers": email},
			"$set":  bson.M{"updated_at": s.now()},
		},
	)
	if err != nil {
		return nil, false, fmt.Errorf("adding subscriber: %w", err)
	}

	// No match means either an unknown id or an existing subscriber;
	// GetProduct tells the two apart.
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, false, err
	}

	return p, res.ModifiedCount == 1, nil
}

// ListOtherProducts returns up to limit products other than excludeID.
func (s *MongoStore) ListOtherProducts(
	ctx context.Context,
	excludeID string,
	limit int,
) ([]domain.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	return s.findProducts(ctx, bson.M{"_id": bson.M{"$ne": excludeID}}, opts)
}

// CountProducts returns the number of tracked products.
func (s *MongoStore) CountProducts(ctx context.Context) (int, error) {
	n, err := s.products.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	return int(n), nil
}

// InsertCycleRun records the start of a cycle and returns its id.
func (s *MongoStore) InsertCycleRun(ctx context.Context, jobName string) (string, error) {
	run := domain.CycleRun{
		ID:        uuid.NewString(),
		JobName:   jobName,
		StartedAt: s.now(),
		Status:    domain.CycleStatusRunning,
	}
	if _, err := s.cycleRuns.InsertOne(ctx, run); err != nil {
		return "", fmt.Errorf("inserting cycle run: %w", err)
	}
	return run.ID, nil
}

// CompleteCycleRun marks a cycle run as finished.
func (s *MongoStore) CompleteCycleRun(
	ctx context.Context,
	id string,
	status string,
	errText string,
	rowsAffected int,
) error {
	_, err := s.cycleRuns.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"completed_at":  s.now(),
		"status":        status,
		"error_text":    errText,
		"rows_affected": rowsAffected,
	}})
	if err != nil {
		return fmt.Errorf("completing cycle run: %w", err)
	}
	return nil
}

// ListCycleRuns returns the most recent runs for a job, newest first.
func (s *MongoStore) ListCycleRuns(
	ctx context.Context,
	jobName string,
	limit int,
) ([]domain.CycleRun, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := s.cycleRuns.Find(ctx, bson.M{"job_name": jobName}, opts)
	if err != nil {
		return nil, fmt.Errorf("querying cycle runs: %w", err)
	}

	var runs []domain.CycleRun
	if err := cur.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("decoding cycle runs: %w", err)
	}
	return runs, nil
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*domain.Product, error) {
	var p domain.Product
	if err := s.products.FindOne(ctx, filter).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding product: %w", err)
	}
	return &p, nil
}

func (s *MongoStore) findProducts(
	ctx context.Context,
	filter any,
	opts *options.FindOptions,
) ([]domain.Product, error) {
	cur, err := s.products.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}

	var products []domain.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decoding products: %w", err)
	}
	return products, nil
}

// toFilter mirrors ToSQL's WHERE clause as a bson filter.
func (q *ProductQuery) toFilter() bson.M {
	filter := bson.M{}
	if q.Search != nil && *q.Search != "" {
		filter["title"] = bson.M{
			"$regex":   regexp.QuoteMeta(*q.Search),
			"$options": "i",
		}
	}
	if q.InStockOnly {
		filter["is_out_of_stock"] = false
	}
	if q.MaxPrice != nil {
		filter["current_price"] = bson.M{"$lte": *q.MaxPrice}
	}
	return filter
}

// toSort mirrors ToSQL's ORDER BY clause.
func (q *ProductQuery) toSort() bson.D {
	switch q.OrderBy {
	case orderByUpdated:
		return bson.D{{Key: "updated_at", Value: -1}}
	case orderByPrice:
		return bson.D{{Key: "current_price", Value: 1}}
	case orderByDiscount:
		return bson.D{{Key: "discount_rate", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}
