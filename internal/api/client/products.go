package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/varcodes/trackmyprices/internal/engine"
	domain "github.com/varcodes/trackmyprices/pkg/types"
)

// ProductFilter holds optional filters for ListProducts.
type ProductFilter struct {
	Search      string
	InStockOnly bool
	MaxPrice    float64
	Limit       int
	Offset      int
	OrderBy     string
}

// ProductList is one page of products.
type ProductList struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

// ListProducts returns tracked products matching f.
func (c *Client) ListProducts(ctx context.Context, f ProductFilter) (*ProductList, error) {
	params := url.Values{}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	if f.InStockOnly {
		params.Set("in_stock", "true")
	}
	if f.MaxPrice > 0 {
		params.Set("max_price", strconv.FormatFloat(f.MaxPrice, 'f', -1, 64))
	}
	if f.Limit > 0 {
		params.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		params.Set("offset", strconv.Itoa(f.Offset))
	}
	if f.OrderBy != "" {
		params.Set("order_by", f.OrderBy)
	}

	path := "/api/v1/products"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var list ProductList
	if err := c.get(ctx, path, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetProduct returns a single product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := c.get(ctx, "/api/v1/products/"+url.PathEscape(id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SimilarProducts returns up to three other tracked products.
func (c *Client) SimilarProducts(ctx context.Context, id string) ([]domain.Product, error) {
	var products []domain.Product
	path := fmt.Sprintf("/api/v1/products/%s/similar", url.PathEscape(id))
	if err := c.get(ctx, path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// TrackProduct asks the server to scrape and store rawURL. created reports
// whether the product was new.
func (c *Client) TrackProduct(ctx context.Context, rawURL string) (p *domain.Product, created bool, err error) {
	var out domain.Product
	status, err := c.post(ctx, "/api/v1/products", map[string]string{"url": rawURL}, &out)
	if err != nil {
		return nil, false, err
	}
	return &out, status == http.StatusCreated, nil
}

// Subscribe adds email to the product's subscribers.
func (c *Client) Subscribe(ctx context.Context, id, email string) (*engine.SubscribeResult, error) {
	var res engine.SubscribeResult
	path := fmt.Sprintf("/api/v1/products/%s/subscribers", url.PathEscape(id))
	if _, err := c.post(ctx, path, map[string]string{"email": email}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
