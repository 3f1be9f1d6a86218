package poll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/Channel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedSource struct {
	mu      sync.Mutex
	results []result
	calls   int
}

type result struct {
	occ domain.Occupancy
	err error
}

func (s *scriptedSource) Query(ctx context.Context) (domain.Occupancy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.results[min(s.calls, len(s.results)-1)]
	s.calls++
	return r.occ, r.err
}

func (s *scriptedSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestPoller_UnknownUntilFirstResult(t *testing.T) {
	p := NewPoller(&scriptedSource{results: []result{{occ: 2}}}, time.Hour, 0)
	assert.Equal(t, domain.OccupancyUnknown, p.Current())
}

func TestPoller_StoresLatestValue(t *testing.T) {
	src := &scriptedSource{results: []result{{occ: 1}, {occ: 2}, {occ: 3}}}
	p := NewPoller(src, time.Millisecond, 10*time.Millisecond)
	p.Start(context.Background())
	defer p.Stop()

	require.Eventually(t, func() bool { return p.Current() == 3 }, time.Second, time.Millisecond)
}

func TestPoller_ErrorSentinelThenRecovers(t *testing.T) {
	src := &scriptedSource{results: []result{
		{err: errors.New("401")},
		{err: errors.New("401")},
		{occ: 0},
	}}
	p := NewPoller(src, time.Millisecond, 4*time.Millisecond)
	p.Start(context.Background())
	defer p.Stop()

	require.Eventually(t, func() bool { return src.Calls() >= 1 && p.Current() != domain.OccupancyUnknown }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return p.Current() == 0 }, time.Second, time.Millisecond)
	assert.GreaterOrEqual(t, src.Calls(), 3)
}

func TestPoller_StopIsCleanAndIdempotent(t *testing.T) {
	src := &scriptedSource{results: []result{{occ: 1}}}
	p := NewPoller(src, time.Millisecond, 0)
	p.Start(context.Background())
	p.Start(context.Background())

	require.Eventually(t, func() bool { return src.Calls() > 2 }, time.Second, time.Millisecond)
	p.Stop()
	calls := src.Calls()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, calls, src.Calls())

	p.Stop()
}

func TestPoller_StopsWithParentContext(t *testing.T) {
	src := &scriptedSource{results: []result{{occ: 1}}}
	p := NewPoller(src, time.Millisecond, 0)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}
