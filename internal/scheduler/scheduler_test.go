package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/mascotico-api/internal/infra/runstatus"
	"github.com/BruksfildServices01/mascotico-api/internal/metrics"
	"github.com/BruksfildServices01/mascotico-api/internal/timezone"
	"github.com/BruksfildServices01/mascotico-api/internal/usecase/appointment"
)

type fakeReconciler struct {
	mu    sync.Mutex
	calls int
	count int64
	err   error
}

func (f *fakeReconciler) Execute(context.Context) (appointment.ReconcileResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return appointment.ReconcileResult{}, f.err
	}
	return appointment.ReconcileResult{UpdatedCount: f.count}, nil
}

func (f *fakeReconciler) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newScheduler(r Reconciler) (*Scheduler, *runstatus.MemoryStore) {
	runs := runstatus.NewMemoryStore()
	clock := timezone.NewFixedClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	s := New(r, runs, metrics.New(prometheus.NewRegistry()), zap.NewNop(), clock, Options{
		Interval: time.Hour,
		Location: time.UTC,
	})
	return s, runs
}

func TestStartRunsImmediatelyAndArmsTimers(t *testing.T) {
	r := &fakeReconciler{count: 4}
	s, runs := newScheduler(r)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	assert.Equal(t, 1, r.Calls())
	assert.Len(t, s.cron.Entries(), 2)

	last, err := runs.Last(context.Background())
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, TriggerStartup, last.Trigger)
	assert.Equal(t, int64(4), last.UpdatedCount)
	assert.True(t, last.OK())

	// a second Start is a no-op
	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, 1, r.Calls())
}

func TestRunNowRecordsManualRun(t *testing.T) {
	r := &fakeReconciler{count: 2}
	s, _ := newScheduler(r)

	res, err := s.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.UpdatedCount)

	last, err := s.LastRun(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TriggerManual, last.Trigger)
}

func TestFailedRunIsRecordedAndDoesNotStopScheduler(t *testing.T) {
	r := &fakeReconciler{err: errors.New("database is down")}
	s, runs := newScheduler(r)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	last, err := runs.Last(context.Background())
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.False(t, last.OK())
	assert.Equal(t, "database is down", last.Error)

	// next trigger succeeds once the store is back
	r.mu.Lock()
	r.err = nil
	r.mu.Unlock()

	_, err = s.RunNow(context.Background())
	require.NoError(t, err)
	last, _ = runs.Last(context.Background())
	assert.True(t, last.OK())
}

func TestStopIsSafeToRepeat(t *testing.T) {
	s, _ := newScheduler(&fakeReconciler{})

	s.Stop(context.Background())

	require.NoError(t, s.Start(context.Background()))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	s.Stop(ctx)

	assert.Nil(t, s.cron)
}
