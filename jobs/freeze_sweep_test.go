package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/meridian-hr/meridian-access/internal/jobs"
	"github.com/meridian-hr/meridian-access/internal/tenantstate"
)

type stubSweeper struct {
	result tenantstate.SweepResult
	err    error
	calls  int
}

func (s *stubSweeper) Sweep(ctx context.Context) (tenantstate.SweepResult, error) {
	s.calls++
	return s.result, s.err
}

func TestFreezeSweepHandler(t *testing.T) {
	sweeper := &stubSweeper{result: tenantstate.SweepResult{Frozen: 2, Unfrozen: 1}}
	handler := NewFreezeSweepHandler(sweeper, nil, nil)

	task, err := NewFreezeSweepTask(FreezeSweepPayload{RequestedBy: "scheduler"})
	require.NoError(t, err)
	require.NoError(t, handler(context.Background(), task))
	require.Equal(t, 1, sweeper.calls)
}

func TestFreezeSweepHandlerPropagatesError(t *testing.T) {
	sweeper := &stubSweeper{err: errors.New("db down")}
	handler := NewFreezeSweepHandler(sweeper, nil, jobmetrics.NewMetrics(nil))

	task, err := NewFreezeSweepTask(FreezeSweepPayload{})
	require.NoError(t, err)
	require.Error(t, handler(context.Background(), task))
}

func TestFreezeSweepHandlerSkipsBadPayload(t *testing.T) {
	sweeper := &stubSweeper{}
	handler := NewFreezeSweepHandler(sweeper, nil, nil)

	err := handler(context.Background(), asynq.NewTask(TaskBillingFreezeSweep, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)
	require.Zero(t, sweeper.calls)
}
