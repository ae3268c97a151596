package realtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualWatch is a hand-driven WatchFunc for exercising the projection state
// machine without a store behind it.
type manualWatch struct {
	snapshots chan []string
	errs      chan error
	started   int
	failNext  error
}

func newManualWatch() *manualWatch {
	return &manualWatch{
		snapshots: make(chan []string),
		errs:      make(chan error, 1),
	}
}

func (w *manualWatch) watch(ctx context.Context) (<-chan []string, <-chan error, error) {
	w.started++
	if w.failNext != nil {
		return nil, nil, w.failNext
	}
	snapshots := make(chan []string)
	errs := make(chan error, 1)
	go func() {
		defer close(snapshots)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			case snap := <-w.snapshots:
				select {
				case snapshots <- snap:
				case <-ctx.Done():
					return
				}
			case err := <-w.errs:
				select {
				case errs <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return snapshots, errs, nil
}

func waitForState[T any](t *testing.T, p *Projection[T], want State) {
	t.Helper()
	require.Eventually(t, func() bool {
		return p.State() == want
	}, 2*time.Second, 5*time.Millisecond, "projection never reached %s", want)
}

func TestProjectionStartsIdle(t *testing.T) {
	p := NewProjection[[]string]()
	assert.Equal(t, StateIdle, p.State())
	assert.Nil(t, p.Snapshot())
	assert.NoError(t, p.Err())
}

func TestProjectionLifecycle(t *testing.T) {
	p := NewProjection[[]string]()
	w := newManualWatch()

	require.NoError(t, p.Start(w.watch))
	assert.Equal(t, StateLoading, p.State())

	w.snapshots <- []string{"a"}
	waitForState(t, p, StateLive)
	assert.Equal(t, []string{"a"}, p.Snapshot())

	// Each snapshot wholesale-replaces the previous one
	w.snapshots <- []string{"b", "c"}
	require.Eventually(t, func() bool {
		snap := p.Snapshot()
		return len(snap) == 2 && snap[0] == "b"
	}, 2*time.Second, 5*time.Millisecond)

	p.Stop()
	assert.Equal(t, StateIdle, p.State())
	assert.Nil(t, p.Snapshot())
}

func TestProjectionErrorKeepsLastSnapshot(t *testing.T) {
	p := NewProjection[[]string]()
	w := newManualWatch()

	require.NoError(t, p.Start(w.watch))
	w.snapshots <- []string{"good"}
	waitForState(t, p, StateLive)

	w.errs <- errors.New("stream broke")
	waitForState(t, p, StateErrored)
	assert.EqualError(t, p.Err(), "stream broke")
	assert.Equal(t, []string{"good"}, p.Snapshot(), "error must not clear the last good snapshot")

	p.Stop()
	assert.NoError(t, p.Err())
}

func TestProjectionStartFailure(t *testing.T) {
	p := NewProjection[[]string]()
	w := newManualWatch()
	w.failNext = errors.New("subscribe refused")

	err := p.Start(w.watch)
	assert.EqualError(t, err, "subscribe refused")
	assert.Equal(t, StateErrored, p.State())
}

func TestProjectionRestartTearsDownPrevious(t *testing.T) {
	p := NewProjection[[]string]()
	first := newManualWatch()
	second := newManualWatch()

	require.NoError(t, p.Start(first.watch))
	first.snapshots <- []string{"old"}
	waitForState(t, p, StateLive)

	require.NoError(t, p.Start(second.watch))
	assert.Equal(t, StateLoading, p.State(), "restart must not leak the previous snapshot")

	second.snapshots <- []string{"new"}
	waitForState(t, p, StateLive)
	assert.Equal(t, []string{"new"}, p.Snapshot())

	// The first subscription is dead: feeding it must not disturb the live one
	select {
	case first.snapshots <- []string{"stale"}:
	case <-time.After(50 * time.Millisecond):
	}
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []string{"new"}, p.Snapshot())

	p.Stop()
}

func TestProjectionStopIsIdempotent(t *testing.T) {
	p := NewProjection[[]string]()
	p.Stop()
	p.Stop()
	assert.Equal(t, StateIdle, p.State())
}

func TestProjectionOnChange(t *testing.T) {
	p := NewProjection[[]string]()
	w := newManualWatch()

	changes := make(chan State, 16)
	p.OnChange(func() {
		changes <- p.State()
	})

	require.NoError(t, p.Start(w.watch))
	assert.Equal(t, StateLoading, <-changes)

	w.snapshots <- []string{"a"}
	assert.Equal(t, StateLive, <-changes)

	p.Stop()
	assert.Equal(t, StateIdle, <-changes)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "live", StateLive.String())
	assert.Equal(t, "errored", StateErrored.String())
	assert.Equal(t, "unknown", State(42).String())
}
