package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	ptestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varcodes/trackmyprices/internal/metrics"
	domain "github.com/varcodes/trackmyprices/pkg/types"
)

type fakeRunner struct {
	calls  atomic.Int32
	result *CycleResult
	err    error
}

func (f *fakeRunner) RunCycle(context.Context) (*CycleResult, error) {
	f.calls.Add(1)
	return f.result, f.err
}

func TestNewScheduler_RegistersCronEntry(t *testing.T) {
	t.Parallel()

	sched, err := NewScheduler(&fakeRunner{}, 15*time.Minute, quietLogger())
	require.NoError(t, err)
	assert.Len(t, sched.Entries(), 1)
}

func TestNewScheduler_RejectsNonPositiveInterval(t *testing.T) {
	t.Parallel()

	for _, d := range []time.Duration{0, -time.Minute} {
		_, err := NewScheduler(&fakeRunner{}, d, quietLogger())
		require.Error(t, err)
	}
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	sched, err := NewScheduler(&fakeRunner{}, time.Hour, quietLogger())
	require.NoError(t, err)

	sched.Start()
	ctx := sched.Stop()
	<-ctx.Done()
}

func TestScheduler_SyncNextRunTimestamp(t *testing.T) {
	t.Parallel()

	sched, err := NewScheduler(&fakeRunner{}, 15*time.Minute, quietLogger())
	require.NoError(t, err)

	sched.Start()
	defer sched.Stop()

	next := ptestutil.ToFloat64(metrics.SchedulerNextCycleTimestamp)
	assert.Greater(t, next, float64(time.Now().Unix()))
	assert.LessOrEqual(t, next, float64(time.Now().Add(16*time.Minute).Unix()))
}

func TestScheduler_RunCycleOutcomes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		runner *fakeRunner
	}{
		{
			name: "success",
			runner: &fakeRunner{result: &CycleResult{
				Status:  domain.CycleStatusSuccess,
				Updated: []domain.Product{{ID: "p1"}},
			}},
		},
		{
			name:   "in progress",
			runner: &fakeRunner{err: ErrCycleInProgress},
		},
		{
			name:   "fatal",
			runner: &fakeRunner{err: errors.New("loading products: down")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sched, err := NewScheduler(tt.runner, time.Hour, quietLogger())
			require.NoError(t, err)

			assert.NotPanics(t, sched.runCycle)
			assert.Equal(t, int32(1), tt.runner.calls.Load())
		})
	}
}

func TestScheduler_FiresOnInterval(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{result: &CycleResult{Status: domain.CycleStatusSuccess}}
	sched, err := NewScheduler(runner, time.Second, quietLogger())
	require.NoError(t, err)

	sched.Start()
	defer sched.Stop()

	assert.Eventually(t, func() bool {
		return runner.calls.Load() >= 1
	}, 5*time.Second, 50*time.Millisecond)
}
