package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/varcodes/trackmyprices/internal/engine"
	domain "github.com/varcodes/trackmyprices/pkg/types"
)

// CycleRunner defines the interface for triggering a refresh cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context) (*engine.CycleResult, error)
}

// CycleHistory lists recorded cycle runs.
type CycleHistory interface {
	CycleRuns(ctx context.Context, limit int) ([]domain.CycleRun, error)
}

// CycleHandler handles cycle trigger and history requests.
type CycleHandler struct {
	runner  CycleRunner
	history CycleHistory
	token   string
}

// NewCycleHandler creates a new CycleHandler. An empty token leaves the
// trigger unauthenticated.
func NewCycleHandler(r CycleRunner, h CycleHistory, token string) *CycleHandler {
	return &CycleHandler{runner: r, history: h, token: token}
}

// RunCycleInput carries the optional bearer token.
type RunCycleInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token, required when a trigger token is configured"`
}

// CycleBody is the trigger response payload.
type CycleBody struct {
	Status     string               `json:"status"      enum:"success,partial,failed" doc:"Cycle outcome"`
	Message    string               `json:"message"     example:"Ok"`
	CycleID    string               `json:"cycle_id,omitempty"`
	Data       []domain.Product     `json:"data"        doc:"Products updated by this cycle"`
	Failures   []engine.ItemFailure `json:"failures"    doc:"Products whose update did not fully succeed"`
	Notified   int                  `json:"notified"    doc:"Products whose subscribers were emailed"`
	StartedAt  time.Time            `json:"started_at"`
	DurationMS int64                `json:"duration_ms"`
}

// RunCycleOutput is the response for the trigger endpoint.
type RunCycleOutput struct {
	Status int
	Body   CycleBody
}

// ListCyclesInput is the input for listing cycle runs.
type ListCyclesInput struct {
	Limit int `query:"limit" doc:"Number of runs (default 20)" minimum:"1" maximum:"100"`
}

// ListCyclesOutput is the response for listing cycle runs.
type ListCyclesOutput struct {
	Body []domain.CycleRun
}

const defaultCycleHistoryLimit = 20

// RunCycle runs one refresh cycle and reports the updated products.
func (h *CycleHandler) RunCycle(ctx context.Context, input *RunCycleInput) (*RunCycleOutput, error) {
	if !h.authorized(input.Authorization) {
		return nil, huma.Error401Unauthorized("invalid or missing trigger token")
	}

	// The cycle has its own budget and must not die with the caller.
	result, err := h.runner.RunCycle(context.WithoutCancel(ctx))
	switch {
	case errors.Is(err, engine.ErrCycleInProgress):
		return nil, huma.Error409Conflict(err.Error())
	case err != nil:
		return &RunCycleOutput{
			Status: http.StatusInternalServerError,
			Body: CycleBody{
				Status:   domain.CycleStatusFailed,
				Message:  err.Error(),
				Data:     []domain.Product{},
				Failures: []engine.ItemFailure{},
			},
		}, nil
	}

	return &RunCycleOutput{
		Status: http.StatusOK,
		Body: CycleBody{
			Status:     result.Status,
			Message:    "Ok",
			CycleID:    result.ID,
			Data:       result.Updated,
			Failures:   result.Failures,
			Notified:   result.Notified,
			StartedAt:  result.StartedAt,
			DurationMS: result.Duration.Milliseconds(),
		},
	}, nil
}

// ListCycles returns recent cycle runs, newest first.
func (h *CycleHandler) ListCycles(ctx context.Context, input *ListCyclesInput) (*ListCyclesOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = defaultCycleHistoryLimit
	}

	runs, err := h.history.CycleRuns(ctx, limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing cycle runs failed: " + err.Error())
	}
	if runs == nil {
		runs = []domain.CycleRun{}
	}
	return &ListCyclesOutput{Body: runs}, nil
}

func (h *CycleHandler) authorized(header string) bool {
	if h.token == "" {
		return true
	}
	want := "Bearer " + h.token
	return subtle.ConstantTimeCompare([]byte(header), []byte(want)) == 1
}

// RegisterCycleRoutes registers cycle endpoints with the Huma API.
func RegisterCycleRoutes(api huma.API, h *CycleHandler) {
	errs := []int{http.StatusUnauthorized, http.StatusConflict, http.StatusInternalServerError}

	huma.Register(api, huma.Operation{
		OperationID: "run-cycle",
		Method:      http.MethodPost,
		Path:        "/api/v1/cycle",
		Summary:     "Run a refresh cycle",
		Description: "Scrapes every tracked product, stores the new prices and emails subscribers " +
			"about price drops, new lows and restocks.",
		Tags:   []string{"cycle"},
		Errors: errs,
	}, h.RunCycle)

	huma.Register(api, huma.Operation{
		OperationID: "run-cycle-get",
		Method:      http.MethodGet,
		Path:        "/api/v1/cycle",
		Summary:     "Run a refresh cycle (GET)",
		Description: "Same as POST /api/v1/cycle, for schedulers that can only issue GET requests.",
		Tags:        []string{"cycle"},
		Errors:      errs,
	}, h.RunCycle)

	huma.Register(api, huma.Operation{
		OperationID: "list-cycles",
		Method:      http.MethodGet,
		Path:        "/api/v1/cycles",
		Summary:     "List cycle runs",
		Description: "Returns the most recent refresh cycle runs (newest first).",
		Tags:        []string{"cycle"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.ListCycles)
}
