// Package main implements a mock shop for local development. It renders
// product detail pages in the same markup as Amazon so the scraper can be
// pointed at it, and exposes an admin endpoint for changing prices and
// stock between refresh cycles.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"
)

type item struct {
	ASIN          string  `json:"asin"`
	Title         string  `json:"title"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"original_price"`
	Currency      string  `json:"currency"`
	InStock       bool    `json:"in_stock"`
	Image         string  `json:"image"`
	Category      string  `json:"category"`
	Stars         float64 `json:"stars"`
	Reviews       int     `json:"reviews"`
}

type catalogFile struct {
	Items []item `json:"items"`
}

// itemUpdate is the admin request body. Nil fields are left unchanged.
type itemUpdate struct {
	Price   *float64 `json:"price"`
	InStock *bool    `json:"in_stock"`
}

type shop struct {
	mu    sync.RWMutex
	items map[string]*item
}

var productPage = template.Must(template.New("product").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"discount": func(it *item) int {
		if it.OriginalPrice <= it.Price || it.OriginalPrice == 0 {
			return 0
		}
		return int((1 - it.Price/it.OriginalPrice) * 100)
	},
}).Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
<div id="wayfinding-breadcrumbs_feature_div"><ul><li><a href="#">{{.Category}}</a></li></ul></div>
<span id="productTitle">{{.Title}}</span>
<div id="corePrice_feature_div">
  <span class="a-price priceToPay"><span class="a-price-symbol">{{.Currency}}</span><span class="a-offscreen">{{.Currency}}{{money .Price}}</span></span>
  {{if gt .OriginalPrice .Price}}<span class="a-price a-text-price basisPrice"><span class="a-offscreen">{{.Currency}}{{money .OriginalPrice}}</span></span>
  <span class="savingsPercentage">-{{discount .}}%</span>{{end}}
</div>
<div id="availability"><span>{{if .InStock}}In Stock{{else}}Currently unavailable.{{end}}</span></div>
<img id="landingImage" src="{{.Image}}" data-a-dynamic-image='{"{{.Image}}":[500,500]}'>
<span id="acrPopover" title="{{.Stars}} out of 5 stars"></span>
<span id="acrCustomerReviewText">{{.Reviews}} ratings</span>
<div id="feature-bullets"><ul><li><span class="a-list-item">{{.Title}}</span></li></ul></div>
</body>
</html>
`))

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	catalogPath := flag.String("catalog", "tools/mock-server/testdata/catalog.json", "path to the product catalog")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s, err := loadCatalog(*catalogPath)
	if err != nil {
		logger.Error("failed to load catalog", "path", *catalogPath, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded catalog", "items", len(s.items))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock shop", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, s.routes(logger)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadCatalog(path string) (*shop, error) {
	data, err := os.ReadFile(path) //nolint:gosec // catalog path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	var c catalogFile
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return newShop(c.Items), nil
}

func newShop(items []item) *shop {
	s := &shop{items: make(map[string]*item, len(items))}
	for i := range items {
		it := items[i]
		s.items[it.ASIN] = &it
	}
	return s
}

func (s *shop) routes(logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /dp/{asin}", s.productHandler(logger))
	mux.HandleFunc("GET /admin/items", s.listHandler())
	mux.HandleFunc("POST /admin/items/{asin}", s.updateHandler(logger))
	return mux
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "user_agent", r.UserAgent())
		next.ServeHTTP(w, r)
	})
}

func (s *shop) productHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asin := r.PathValue("asin")

		s.mu.RLock()
		it, ok := s.items[asin]
		var snapshot item
		if ok {
			snapshot = *it
		}
		s.mu.RUnlock()

		if !ok {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := productPage.Execute(w, &snapshot); err != nil {
			logger.Error("rendering product page", "asin", asin, "error", err)
			return
		}
		logger.Info("served product", "asin", asin, "price", snapshot.Price, "in_stock", snapshot.InStock)
	}
}

func (s *shop) listHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.mu.RLock()
		out := make([]item, 0, len(s.items))
		for _, it := range s.items {
			out = append(out, *it)
		}
		s.mu.RUnlock()

		sort.Slice(out, func(i, j int) bool { return out[i].ASIN < out[j].ASIN })

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(catalogFile{Items: out})
	}
}

func (s *shop) updateHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asin := r.PathValue("asin")

		var upd itemUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			http.Error(w, "invalid body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if upd.Price != nil && *upd.Price <= 0 {
			http.Error(w, "price must be positive", http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		it, ok := s.items[asin]
		if ok {
			if upd.Price != nil {
				it.Price = *upd.Price
			}
			if upd.InStock != nil {
				it.InStock = *upd.InStock
			}
		}
		var snapshot item
		if ok {
			snapshot = *it
		}
		s.mu.Unlock()

		if !ok {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(snapshot)
		logger.Info("updated item", "asin", asin, "price", snapshot.Price, "in_stock", snapshot.InStock)
	}
}
