// Package score rates how good a deal a tracked product currently is.
package score

import (
	"math"
	"slices"

	domain "github.com/varcodes/trackmyprices/pkg/types"
)

// MinBaselineSamples is the history length below which the price factor is
// neutral.
const MinBaselineSamples = 5

// Weights defines the relative importance of each scoring factor.
type Weights struct {
	Price    float64
	Discount float64
	Rating   float64
	Stock    float64
	Quality  float64
}

// DefaultWeights returns the default scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Price:    0.45,
		Discount: 0.20,
		Rating:   0.15,
		Stock:    0.10,
		Quality:  0.10,
	}
}

// Baseline holds the percentile distribution of a product's price history.
type Baseline struct {
	P10         float64
	P25         float64
	P50         float64
	P75         float64
	P90         float64
	SampleCount int
}

// Breakdown shows per-factor scores.
type Breakdown struct {
	Price    float64 `json:"price"`
	Discount float64 `json:"discount"`
	Rating   float64 `json:"rating"`
	Stock    float64 `json:"stock"`
	Quality  float64 `json:"quality"`
	Total    int     `json:"total"`
}

// NewBaseline computes percentiles over history. It returns nil for an
// empty history.
func NewBaseline(history []domain.PricePoint) *Baseline {
	if len(history) == 0 {
		return nil
	}
	prices := make([]float64, len(history))
	for i, h := range history {
		prices[i] = h.Price
	}
	slices.Sort(prices)

	return &Baseline{
		P10:         percentile(prices, 0.10),
		P25:         percentile(prices, 0.25),
		P50:         percentile(prices, 0.50),
		P75:         percentile(prices, 0.75),
		P90:         percentile(prices, 0.90),
		SampleCount: len(prices),
	}
}

// Product scores p against its own price history.
func Product(p *domain.Product, w Weights) Breakdown {
	if p == nil {
		return Breakdown{}
	}
	return Score(p, NewBaseline(p.PriceHistory), w)
}

// Score computes the composite deal score for a product.
func Score(p *domain.Product, baseline *Baseline, w Weights) Breakdown {
	b := Breakdown{}

	if baseline != nil && baseline.SampleCount >= MinBaselineSamples {
		b.Price = priceScore(p.CurrentPrice, baseline)
	} else {
		b.Price = 50 // neutral without enough history
	}

	b.Discount = discountScore(p)
	b.Rating = ratingScore(p)
	b.Stock = stockScore(p)
	b.Quality = qualityScore(p)

	total := b.Price*w.Price +
		b.Discount*w.Discount +
		b.Rating*w.Rating +
		b.Stock*w.Stock +
		b.Quality*w.Quality

	b.Total = int(math.Round(total))
	if b.Total > 100 {
		b.Total = 100
	}
	if b.Total < 0 {
		b.Total = 0
	}

	return b
}

// priceScore maps the current price to a 0-100 score based on its
// percentile position in the product's history.
func priceScore(price float64, b *Baseline) float64 {
	switch {
	case price <= b.P10:
		return 100
	case price <= b.P25:
		return lerp(price, b.P10, b.P25, 100, 85)
	case price <= b.P50:
		return lerp(price, b.P25, b.P50, 85, 50)
	case price <= b.P75:
		return lerp(price, b.P50, b.P75, 50, 25)
	case price <= b.P90:
		return lerp(price, b.P75, b.P90, 25, 0)
	default:
		return 0
	}
}

// discountScore rewards the markdown from the list price. 50% off or more
// scores 100.
func discountScore(p *domain.Product) float64 {
	rate := p.DiscountRate
	if rate <= 0 && p.OriginalPrice > p.CurrentPrice && p.OriginalPrice > 0 {
		rate = (1 - p.CurrentPrice/p.OriginalPrice) * 100
	}
	if rate <= 0 {
		return 0
	}
	return math.Min(rate*2, 100)
}

// ratingScore combines the star rating with how many reviews back it.
func ratingScore(p *domain.Product) float64 {
	if p.Stars <= 0 {
		return 40 // unrated
	}

	var volume float64
	switch {
	case p.ReviewsCount >= 5000:
		volume = 100
	case p.ReviewsCount >= 500:
		volume = 70
	case p.ReviewsCount >= 50:
		volume = 40
	default:
		volume = 10
	}

	var stars float64
	switch {
	case p.Stars >= 4.5:
		stars = 100
	case p.Stars >= 4.0:
		stars = 80
	case p.Stars >= 3.5:
		stars = 50
	default:
		stars = 0
	}

	return (volume + stars) / 2
}

func stockScore(p *domain.Product) float64 {
	if p.IsOutOfStock {
		return 0
	}
	return 100
}

// qualityScore evaluates how well-described the product page is.
func qualityScore(p *domain.Product) float64 {
	score := 0.0

	if p.Image != "" || len(p.Images) > 0 {
		score += 40
	}
	if p.Category != "" {
		score += 30
	}

	switch n := len(p.Description); {
	case n > 500:
		score += 30
	case n > 200:
		score += 20
	case n > 50:
		score += 10
	}

	return math.Min(score, 100)
}

// percentile interpolates linearly between closest ranks of sorted.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	return lerp(pos, float64(lo), float64(hi), sorted[lo], sorted[hi])
}

// lerp linearly interpolates a value between two score boundaries.
func lerp(val, minVal, maxVal, minScore, maxScore float64) float64 {
	if maxVal == minVal {
		return minScore
	}
	t := (val - minVal) / (maxVal - minVal)
	return minScore + t*(maxScore-minScore)
}
