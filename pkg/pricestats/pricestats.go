// Package pricestats computes summary statistics over a product's price
// history. All functions are pure and safe for concurrent use.
package pricestats

import (
	"errors"

	"github.com/shopspring/decimal"

	domain "github.com/varcodes/trackmyprices/pkg/types"
)

// ErrEmptyHistory is returned when statistics are requested for a product
// with no recorded prices.
var ErrEmptyHistory = errors.New("price history is empty")

// averagePlaces is the number of decimal places the average is rounded to.
const averagePlaces = 2

// Summary holds the derived statistics for a price history.
type Summary struct {
	Lowest  float64 `json:"lowest"`
	Highest float64 `json:"highest"`
	Average float64 `json:"average"`
}

// Lowest returns the minimum price in history.
func Lowest(history []domain.PricePoint) (float64, error) {
	if len(history) == 0 {
		return 0, ErrEmptyHistory
	}
	low := history[0].Price
	for _, p := range history[1:] {
		if p.Price < low {
			low = p.Price
		}
	}
	return low, nil
}

// Highest returns the maximum price in history.
func Highest(history []domain.PricePoint) (float64, error) {
	if len(history) == 0 {
		return 0, ErrEmptyHistory
	}
	high := history[0].Price
	for _, p := range history[1:] {
		if p.Price > high {
			high = p.Price
		}
	}
	return high, nil
}

// Average returns the arithmetic mean of history rounded half away from
// zero to two decimal places. Summation runs in decimal so the rounding
// step sees the exact mean of the stored values.
func Average(history []domain.PricePoint) (float64, error) {
	if len(history) == 0 {
		return 0, ErrEmptyHistory
	}
	sum := decimal.Zero
	for _, p := range history {
		sum = sum.Add(decimal.NewFromFloat(p.Price))
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(history))))
	return mean.Round(averagePlaces).InexactFloat64(), nil
}

// Summarize computes lowest, highest and average in one call.
func Summarize(history []domain.PricePoint) (Summary, error) {
	if len(history) == 0 {
		return Summary{}, ErrEmptyHistory
	}
	low, _ := Lowest(history)
	high, _ := Highest(history)
	avg, _ := Average(history)
	return Summary{Lowest: low, Highest: high, Average: avg}, nil
}
