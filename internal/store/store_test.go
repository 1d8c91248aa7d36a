package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/varcodes/trackmyprices/pkg/types"
)

func validPatch() *ProductPatch {
	now := time.Now()
	return &ProductPatch{
		Title:        "Echo Dot (5th Gen)",
		Currency:     "$",
		CurrentPrice: 39.99,
		PriceHistory: []domain.PricePoint{
			{Price: 49.99, Date: now.Add(-24 * time.Hour)},
			{Price: 39.99, Date: now},
		},
		LowestPrice:  39.99,
		HighestPrice: 49.99,
		AveragePrice: 44.99,
	}
}

func TestProductPatch_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(p *ProductPatch)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*ProductPatch) {},
		},
		{
			name:    "blank title",
			mutate:  func(p *ProductPatch) { p.Title = "   " },
			wantErr: "title is required",
		},
		{
			name:    "zero price",
			mutate:  func(p *ProductPatch) { p.CurrentPrice = 0 },
			wantErr: "current price must be positive",
		},
		{
			name:    "empty history",
			mutate:  func(p *ProductPatch) { p.PriceHistory = nil },
			wantErr: "price history must not be empty",
		},
		{
			name:    "lowest above an entry",
			mutate:  func(p *ProductPatch) { p.LowestPrice = 45 },
			wantErr: "history entry 1 price 39.99 outside [45, 49.99]",
		},
		{
			name:    "highest below an entry",
			mutate:  func(p *ProductPatch) { p.HighestPrice = 40 },
			wantErr: "history entry 0 price 49.99 outside [39.99, 40]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := validPatch()
			tt.mutate(p)
			err := p.Validate()

			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPatch)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
