// Package verdict decides which notification, if any, a product update
// warrants.
package verdict

import (
	"github.com/varcodes/trackmyprices/pkg/pricestats"
	domain "github.com/varcodes/trackmyprices/pkg/types"
)

// Classify compares the persisted product as it was before the cycle with
// the freshly scraped snapshot. Rules are evaluated in priority order and
// the first match wins:
//
//  1. out of stock before, in stock now: back in stock
//  2. new price below the previous all-time low: lowest price
//  3. new price below the previous current price: price drop
//  4. otherwise: none
//
// A nil prev or next always yields NotifyNone.
func Classify(prev *domain.Product, next *domain.Snapshot) domain.NotificationKind {
	if prev == nil || next == nil {
		return domain.NotifyNone
	}

	if prev.IsOutOfStock && !next.IsOutOfStock {
		return domain.NotifyBackInStock
	}

	if low := previousLowest(prev); low > 0 && next.CurrentPrice < low {
		return domain.NotifyLowestPrice
	}

	if next.CurrentPrice < prev.CurrentPrice {
		return domain.NotifyPriceDrop
	}

	return domain.NotifyNone
}

// previousLowest returns the lowest price in prev's history, falling back to
// the stored LowestPrice when the history is empty.
func previousLowest(prev *domain.Product) float64 {
	if low, err := pricestats.Lowest(prev.PriceHistory); err == nil {
		return low
	}
	return prev.LowestPrice
}
