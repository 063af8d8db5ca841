package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/logging"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/store"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type source struct {
	counts []store.BacklogCount
	err    error
}

func (s source) Backlog(context.Context) ([]store.BacklogCount, error) {
	return s.counts, s.err
}

type sink struct {
	mu    sync.Mutex
	calls [][]store.BacklogCount
}

func (s *sink) SetBacklog(counts []store.BacklogCount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, counts)
}

func (s *sink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func TestRefreshCopiesCounts(t *testing.T) {
	out := &sink{}
	r := NewBacklogRefresher(source{counts: []store.BacklogCount{{Kind: "dfur", State: "flagged", Count: 2}}}, out, time.Second, logging.Discard())
	require.NoError(t, r.Refresh(context.Background()))
	require.Equal(t, 1, out.len())
	assert.Equal(t, int64(2), out.calls[0][0].Count)
}

func TestRefreshKeepsGaugesOnError(t *testing.T) {
	out := &sink{}
	r := NewBacklogRefresher(source{err: errors.New("db down")}, out, time.Second, logging.Discard())
	assert.Error(t, r.Refresh(context.Background()))
	assert.Equal(t, 0, out.len())
}

func TestScheduleRejectsBadSpec(t *testing.T) {
	r := NewBacklogRefresher(source{}, &sink{}, time.Second, logging.Discard())
	assert.Error(t, r.Schedule(cron.New(), "every now and then"))
}

func TestScheduleRunsImmediately(t *testing.T) {
	out := &sink{}
	r := NewBacklogRefresher(source{}, out, time.Second, logging.Discard())
	require.NoError(t, r.Schedule(cron.New(), "@every 1h"))
	assert.Eventually(t, func() bool { return out.len() == 1 }, 2*time.Second, 10*time.Millisecond)
}

type deadlineSource struct {
	hadDeadline bool
}

func (d *deadlineSource) Backlog(ctx context.Context) ([]store.BacklogCount, error) {
	_, d.hadDeadline = ctx.Deadline()
	return nil, ctx.Err()
}

func TestRefreshWithoutTimeout(t *testing.T) {
	src := &deadlineSource{}
	out := &sink{}
	r := NewBacklogRefresher(src, out, 0, logging.Discard())
	require.NoError(t, r.Refresh(context.Background()))
	assert.False(t, src.hadDeadline)
	assert.Equal(t, 1, out.len())

	r = NewBacklogRefresher(src, out, time.Second, logging.Discard())
	require.NoError(t, r.Refresh(context.Background()))
	assert.True(t, src.hadDeadline)
}
