package client

import (
	"context"
	"strconv"

	"github.com/varcodes/trackmyprices/internal/api/handlers"
	domain "github.com/varcodes/trackmyprices/pkg/types"
)

// RunCycle triggers one refresh cycle and waits for its report.
func (c *Client) RunCycle(ctx context.Context) (*handlers.CycleBody, error) {
	var body handlers.CycleBody
	if _, err := c.post(ctx, "/api/v1/cycle", nil, &body); err != nil {
		return nil, err
	}
	return &body, nil
}

// ListCycles returns the most recent cycle runs. A zero limit uses the
// server default.
func (c *Client) ListCycles(ctx context.Context, limit int) ([]domain.CycleRun, error) {
	path := "/api/v1/cycles"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var runs []domain.CycleRun
	if err := c.get(ctx, path, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}
