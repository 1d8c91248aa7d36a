package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varcodes/trackmyprices/internal/api/handlers"
	"github.com/varcodes/trackmyprices/internal/engine"
	domain "github.com/varcodes/trackmyprices/pkg/types"
)

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1") // nothing listening
	_, err := c.GetProduct(context.Background(), "p1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API server not running")
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"detail":"refresh cycle already in progress"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.RunCycle(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (HTTP 409)")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "already in progress")
}

func TestClient_ListProducts(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "lamp", q.Get("search"))
		assert.Equal(t, "true", q.Get("in_stock"))
		assert.Equal(t, "19.99", q.Get("max_price"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "price", q.Get("order_by"))
		assert.False(t, q.Has("offset"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ProductList{
			Products: []domain.Product{{ID: "p1", Title: "Desk Lamp"}},
			Total:    1,
			Limit:    10,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	list, err := c.ListProducts(context.Background(), ProductFilter{
		Search:      "lamp",
		InStockOnly: true,
		MaxPrice:    19.99,
		Limit:       10,
		OrderBy:     "price",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Products, 1)
	assert.Equal(t, "Desk Lamp", list.Products[0].Title)
}

func TestClient_ListProducts_NoFilters(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		json.NewEncoder(w).Encode(ProductList{})
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListProducts(context.Background(), ProductFilter{})
	require.NoError(t, err)
}

func TestClient_GetProductAndSimilar(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/products/p1":
			json.NewEncoder(w).Encode(domain.Product{ID: "p1", LowestPrice: 9.5})
		case "/api/v1/products/p1/similar":
			json.NewEncoder(w).Encode([]domain.Product{{ID: "p2"}, {ID: "p3"}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)

	p, err := c.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 9.5, p.LowestPrice)

	similar, err := c.SimilarProducts(context.Background(), "p1")
	require.NoError(t, err)
	assert.Len(t, similar, 2)

	_, err = c.GetProduct(context.Background(), "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestClient_TrackProduct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		wantCreated bool
	}{
		{name: "new product", status: http.StatusCreated, wantCreated: true},
		{name: "already tracked", status: http.StatusOK, wantCreated: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/v1/products", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var body map[string]string
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "https://www.amazon.com/dp/B0", body["url"])

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(domain.Product{ID: "p1", URL: body["url"]})
			}))
			defer srv.Close()

			p, created, err := New(srv.URL).TrackProduct(context.Background(), "https://www.amazon.com/dp/B0")
			require.NoError(t, err)
			assert.Equal(t, "p1", p.ID)
			assert.Equal(t, tt.wantCreated, created)
		})
	}
}

func TestClient_Subscribe(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products/p1/subscribers", r.URL.Path)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ann@example.com", body["email"])

		json.NewEncoder(w).Encode(engine.SubscribeResult{
			Product:     &domain.Product{ID: "p1"},
			Added:       true,
			WelcomeSent: true,
		})
	}))
	defer srv.Close()

	res, err := New(srv.URL).Subscribe(context.Background(), "p1", "ann@example.com")
	require.NoError(t, err)
	assert.True(t, res.Added)
	assert.True(t, res.WelcomeSent)
	assert.Equal(t, "p1", res.Product.ID)
}

func TestClient_RunCycle(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/cycle", r.URL.Path)
		assert.Equal(t, "Bearer s3cret", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(handlers.CycleBody{
			Status:   domain.CycleStatusPartial,
			Message:  "Ok",
			Data:     []domain.Product{{ID: "p1"}},
			Failures: []engine.ItemFailure{{ProductID: "p2", Stage: engine.StageScrape}},
		})
	}))
	defer srv.Close()

	report, err := New(srv.URL, WithToken("s3cret")).RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.CycleStatusPartial, report.Status)
	assert.Len(t, report.Data, 1)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, engine.StageScrape, report.Failures[0].Stage)
}

func TestClient_ListCycles(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/cycles", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Empty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]domain.CycleRun{{ID: "r1", JobName: "refresh"}})
	}))
	defer srv.Close()

	runs, err := New(srv.URL).ListCycles(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "r1", runs[0].ID)
}

func TestClient_CanceledContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.URL).ListCycles(ctx, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{}
	c := New("http://example.com", WithHTTPClient(custom))
	assert.Same(t, custom, c.httpClient)
}
