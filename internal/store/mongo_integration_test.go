//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/varcodes/trackmyprices/internal/store"
	domain "github.com/varcodes/trackmyprices/pkg/types"
)

func setupMongo(t *testing.T) *store.MongoStore {
	t.Helper()
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, container.Terminate(ctx))
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	s, err := store.NewMongoStore(ctx, uri, "tmp_test")
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	require.NoError(t, s.Migrate(ctx))

	return s
}

func TestMongoStore_UpsertProduct(t *testing.T) {
	s := setupMongo(t)
	ctx := context.Background()
	url := "https://www.amazon.com/dp/B0BDHWDR12"

	created, err := s.UpsertProduct(ctx, url, testPatch(249))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, url, created.URL)
	assert.Empty(t, created.Subscribers)

	updated, err := s.UpsertProduct(ctx, url, testPatch(249, 199))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Len(t, updated.PriceHistory, 2)
	assert.Equal(t, 199.0, updated.LowestPrice)

	got, err := s.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, url, got.URL)

	_, err = s.GetProduct(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMongoStore_AddSubscriber(t *testing.T) {
	s := setupMongo(t)
	ctx := context.Background()

	p, err := s.UpsertProduct(ctx, "https://example.com/p/sub", testPatch(10))
	require.NoError(t, err)

	got, added, err := s.AddSubscriber(ctx, p.ID, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, []string{"ada@example.com"}, got.Subscribers)

	got, added, err = s.AddSubscriber(ctx, p.ID, "ada@example.com")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Len(t, got.Subscribers, 1)

	_, _, err = s.AddSubscriber(ctx, "missing", "x@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMongoStore_ListAndCycleRuns(t *testing.T) {
	s := setupMongo(t)
	ctx := context.Background()

	first, err := s.UpsertProduct(ctx, "https://example.com/p/a", testPatch(10))
	require.NoError(t, err)
	_, err = s.UpsertProduct(ctx, "https://example.com/p/b", testPatch(20))
	require.NoError(t, err)

	all, err := s.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	others, err := s.ListOtherProducts(ctx, first.ID, 3)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.NotEqual(t, first.ID, others[0].ID)

	search := "airpods"
	page, total, err := s.QueryProducts(ctx, &store.ProductQuery{Search: &search})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, page, 2)

	id, err := s.InsertCycleRun(ctx, "update_cycle")
	require.NoError(t, err)
	require.NoError(t, s.CompleteCycleRun(ctx, id, domain.CycleStatusSuccess, "", 2))

	runs, err := s.ListCycleRuns(ctx, "update_cycle", 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.CycleStatusSuccess, runs[0].Status)
}
