package store

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 50
	maxLimit     = 500

	orderByCreated  = "created_at"
	orderByUpdated  = "updated_at"
	orderByPrice    = "price"
	orderByDiscount = "discount"
)

// validOrderBy maps allowed OrderBy values to their SQL column expressions.
var validOrderBy = map[string]string{
	orderByCreated:  "created_at DESC",
	orderByUpdated:  "updated_at DESC",
	orderByPrice:    "current_price ASC",
	orderByDiscount: "discount_rate DESC",
}

const defaultOrderBy = "created_at DESC"

const productColumns = `id, url, title, description, category, image, images,
	currency, current_price, original_price, discount_rate, is_out_of_stock,
	stars, reviews_count, price_history, lowest_price, highest_price, average_price,
	subscribers, created_at, updated_at`

const baseProductsSelect = "SELECT " + productColumns + " FROM products"

const countProductsSelect = "SELECT COUNT(*) FROM products"

// normalize returns the effective limit and offset for q.
func (q *ProductQuery) normalize() (limit, offset int) {
	limit = q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, max(q.Offset, 0)
}

// ToSQL builds the WHERE clause, ORDER BY, LIMIT, and OFFSET for a product query.
// It returns two SQL strings (one for the data query, one for the count query)
// and the positional parameters.
func (q *ProductQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	var conditions []string
	paramIdx := 1

	if q.Search != nil && *q.Search != "" {
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", paramIdx))
		args = append(args, "%"+*q.Search+"%")
		paramIdx++
	}

	if q.InStockOnly {
		conditions = append(conditions, "is_out_of_stock = false")
	}

	if q.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("current_price <= $%d", paramIdx))
		args = append(args, *q.MaxPrice)
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	orderClause := defaultOrderBy
	if q.OrderBy != "" {
		if col, ok := validOrderBy[q.OrderBy]; ok {
			orderClause = col
		}
	}

	limit, offset := q.normalize()

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY %s LIMIT %d OFFSET %d",
		baseProductsSelect, whereClause, orderClause, limit, offset,
	)

	countSQL = countProductsSelect + whereClause

	return dataSQL, countSQL, args
}
