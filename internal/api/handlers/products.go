package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/varcodes/trackmyprices/internal/engine"
	"github.com/varcodes/trackmyprices/internal/scrape"
	"github.com/varcodes/trackmyprices/internal/store"
	domain "github.com/varcodes/trackmyprices/pkg/types"
)

// ProductService defines the product operations the API exposes.
type ProductService interface {
	Track(ctx context.Context, rawURL string) (*engine.TrackResult, error)
	Subscribe(ctx context.Context, productID, email string) (*engine.SubscribeResult, error)
	Product(ctx context.Context, id string) (*domain.Product, error)
	QueryProducts(ctx context.Context, q *store.ProductQuery) ([]domain.Product, int, error)
	Similar(ctx context.Context, id string) ([]domain.Product, error)
}

// ProductsHandler handles product endpoints.
type ProductsHandler struct {
	svc ProductService
}

// NewProductsHandler creates a new ProductsHandler.
func NewProductsHandler(svc ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// --- Input/Output types ---

// ListProductsInput is the input for listing products with optional filters.
type ListProductsInput struct {
	Search      string  `query:"search"        doc:"Case-insensitive title substring"`
	InStockOnly bool    `query:"in_stock"      doc:"Only products currently in stock"`
	MaxPrice    float64 `query:"max_price"     doc:"Maximum current price"                minimum:"0"`
	Limit       int     `query:"limit"         doc:"Number of results (default 50)"       minimum:"1" maximum:"500"`
	Offset      int     `query:"offset"        doc:"Pagination offset"                    minimum:"0"`
	OrderBy     string  `query:"order_by"      doc:"Sort field"                           enum:"created_at,updated_at,price,discount,"`
}

// ListProductsOutput is the response for listing products.
type ListProductsOutput struct {
	Body struct {
		Products []domain.Product `json:"products"`
		Total    int              `json:"total"`
		Limit    int              `json:"limit"`
		Offset   int              `json:"offset"`
	}
}

// ProductIDInput identifies one product.
type ProductIDInput struct {
	ID string `path:"id" doc:"Product id"`
}

// GetProductOutput is the response for getting a single product.
type GetProductOutput struct {
	Body domain.Product
}

// SimilarProductsOutput is the response for the similar products endpoint.
type SimilarProductsOutput struct {
	Body []domain.Product
}

// TrackProductInput is the request body for tracking a URL.
type TrackProductInput struct {
	Body struct {
		URL string `json:"url" doc:"Product page URL" minLength:"1" example:"https://www.amazon.com/dp/B0CFPJYX7P"`
	}
}

// TrackProductOutput is the response for tracking a URL.
type TrackProductOutput struct {
	Status int
	Body   domain.Product
}

// SubscribeInput is the request for adding a subscriber.
type SubscribeInput struct {
	ID   string `path:"id" doc:"Product id"`
	Body struct {
		Email string `json:"email" doc:"Subscriber email address" minLength:"3" example:"ann@example.com"`
	}
}

// SubscribeOutput is the response for adding a subscriber.
type SubscribeOutput struct {
	Body engine.SubscribeResult
}

// --- Handlers ---

// ListProducts returns tracked products with optional filters and pagination.
func (h *ProductsHandler) ListProducts(
	ctx context.Context,
	input *ListProductsInput,
) (*ListProductsOutput, error) {
	q := &store.ProductQuery{
		InStockOnly: input.InStockOnly,
		Limit:       input.Limit,
		Offset:      input.Offset,
		OrderBy:     input.OrderBy,
	}

	if input.Search != "" {
		q.Search = &input.Search
	}

	if input.MaxPrice > 0 {
		q.MaxPrice = &input.MaxPrice
	}

	products, total, err := h.svc.QueryProducts(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("product query failed: " + err.Error())
	}

	if products == nil {
		products = []domain.Product{}
	}

	resp := &ListProductsOutput{}
	resp.Body.Products = products
	resp.Body.Total = total
	resp.Body.Limit = q.Limit
	resp.Body.Offset = q.Offset
	return resp, nil
}

// GetProduct returns a single product by id.
func (h *ProductsHandler) GetProduct(ctx context.Context, input *ProductIDInput) (*GetProductOutput, error) {
	p, err := h.svc.Product(ctx, input.ID)
	if err != nil {
		return nil, lookupError(err)
	}
	return &GetProductOutput{Body: *p}, nil
}

// SimilarProducts returns up to three other tracked products.
func (h *ProductsHandler) SimilarProducts(
	ctx context.Context,
	input *ProductIDInput,
) (*SimilarProductsOutput, error) {
	products, err := h.svc.Similar(ctx, input.ID)
	if err != nil {
		return nil, lookupError(err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return &SimilarProductsOutput{Body: products}, nil
}

// TrackProduct scrapes a URL and starts or continues tracking it.
func (h *ProductsHandler) TrackProduct(
	ctx context.Context,
	input *TrackProductInput,
) (*TrackProductOutput, error) {
	res, err := h.svc.Track(ctx, input.Body.URL)
	if err != nil {
		return nil, trackError(err)
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	return &TrackProductOutput{Status: status, Body: *res.Product}, nil
}

// Subscribe adds an email address to a product's subscribers.
func (h *ProductsHandler) Subscribe(ctx context.Context, input *SubscribeInput) (*SubscribeOutput, error) {
	res, err := h.svc.Subscribe(ctx, input.ID, input.Body.Email)
	switch {
	case errors.Is(err, engine.ErrInvalidEmail):
		return nil, huma.Error422UnprocessableEntity(err.Error())
	case err != nil:
		return nil, lookupError(err)
	}
	return &SubscribeOutput{Body: *res}, nil
}

func lookupError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return huma.Error404NotFound("product not found")
	}
	return huma.Error500InternalServerError("product lookup failed: " + err.Error())
}

func trackError(err error) error {
	switch {
	case errors.Is(err, scrape.ErrInvalidURL):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, scrape.ErrUnrecognizedPage), errors.Is(err, scrape.ErrIncomplete):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, scrape.ErrFetch),
		errors.Is(err, context.DeadlineExceeded):
		return huma.Error502BadGateway(err.Error())
	default:
		return huma.Error500InternalServerError("tracking product failed: " + err.Error())
	}
}

// RegisterProductRoutes registers product endpoints with the Huma API.
func RegisterProductRoutes(api huma.API, h *ProductsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-products",
		Method:      http.MethodGet,
		Path:        "/api/v1/products",
		Summary:     "List products",
		Description: "Returns tracked products with optional title search, stock and price filters, and pagination.",
		Tags:        []string{"products"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.ListProducts)

	huma.Register(api, huma.Operation{
		OperationID:   "track-product",
		Method:        http.MethodPost,
		Path:          "/api/v1/products",
		Summary:       "Track a product URL",
		Description:   "Scrapes the page and stores it. Returns 201 for a new product, 200 when it was already tracked.",
		Tags:          []string{"products"},
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusUnprocessableEntity,
			http.StatusBadGateway,
			http.StatusInternalServerError,
		},
	}, h.TrackProduct)

	huma.Register(api, huma.Operation{
		OperationID: "get-product",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/{id}",
		Summary:     "Get a product by id",
		Description: "Returns a single product with its price history and statistics.",
		Tags:        []string{"products"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetProduct)

	huma.Register(api, huma.Operation{
		OperationID: "similar-products",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/{id}/similar",
		Summary:     "List similar products",
		Description: "Returns up to three other tracked products. The sample is not ranked.",
		Tags:        []string{"products"},
		Errors:      []int{http.StatusNotFound},
	}, h.SimilarProducts)

	huma.Register(api, huma.Operation{
		OperationID: "add-subscriber",
		Method:      http.MethodPost,
		Path:        "/api/v1/products/{id}/subscribers",
		Summary:     "Subscribe to price alerts",
		Description: "Adds an email address to the product's subscribers. New subscribers get a welcome email.",
		Tags:        []string{"products"},
		Errors:      []int{http.StatusNotFound, http.StatusUnprocessableEntity},
	}, h.Subscribe)
}
