package realtime

import (
	"context"
	"sync"
)

// State of a live projection.
type State int

const (
	// StateIdle means no subscription is active (driving id absent or cleared).
	StateIdle State = iota
	// StateLoading means the subscription is established but no snapshot has
	// arrived yet.
	StateLoading
	// StateLive means at least one snapshot has been received.
	StateLive
	// StateErrored means the subscription delivered an error. The last-known
	// good snapshot is retained alongside the error.
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLive:
		return "live"
	case StateErrored:
		return "errored"
	}
	return "unknown"
}

// WatchFunc establishes a store subscription. It returns a snapshot stream
// and an error stream; both must close when ctx is cancelled.
type WatchFunc[T any] func(ctx context.Context) (<-chan T, <-chan error, error)

// Projection bridges a store subscription to render-ready local state. Every
// incoming snapshot wholesale-replaces the previous one; nothing is merged
// incrementally, so the local view can never drift from store truth. At most
// one subscription is live at a time: Start tears the previous one down
// first, and Stop releases the current one.
type Projection[T any] struct {
	mu       sync.Mutex
	state    State
	snapshot T
	err      error
	cancel   context.CancelFunc
	done     chan struct{}
	onChange func()
}

func NewProjection[T any]() *Projection[T] {
	return &Projection[T]{state: StateIdle}
}

// OnChange registers a callback invoked after every state or snapshot change.
// Must be set before Start.
func (p *Projection[T]) OnChange(fn func()) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

// Start subscribes via watch. Any previous subscription is torn down first.
func (p *Projection[T]) Start(watch WatchFunc[T]) error {
	p.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	snapshots, errs, err := watch(ctx)
	if err != nil {
		cancel()
		p.setError(err)
		return err
	}

	done := make(chan struct{})
	p.mu.Lock()
	p.state = StateLoading
	p.err = nil
	p.cancel = cancel
	p.done = done
	notify := p.onChange
	p.mu.Unlock()
	if notify != nil {
		notify()
	}

	go func() {
		defer close(done)
		for {
			select {
			case snap, ok := <-snapshots:
				if !ok {
					return
				}
				p.setSnapshot(snap)
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				p.setError(err)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Stop unsubscribes and returns the projection to Idle. Safe to call when
// already idle, and always paired with the subscription it releases: the
// watcher goroutine has exited before Stop returns.
func (p *Projection[T]) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.cancel = nil
	p.done = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.mu.Lock()
	changed := p.state != StateIdle
	var zero T
	p.state = StateIdle
	p.snapshot = zero
	p.err = nil
	notify := p.onChange
	p.mu.Unlock()
	if notify != nil && changed {
		notify()
	}
}

func (p *Projection[T]) setSnapshot(snap T) {
	p.mu.Lock()
	p.state = StateLive
	p.snapshot = snap
	p.err = nil
	notify := p.onChange
	p.mu.Unlock()
	if notify != nil {
		notify()
	}
}

func (p *Projection[T]) setError(err error) {
	p.mu.Lock()
	p.state = StateErrored
	p.err = err
	notify := p.onChange
	p.mu.Unlock()
	if notify != nil {
		notify()
	}
}

func (p *Projection[T]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Snapshot returns the current projection. In StateErrored this is the
// last-known-good snapshot, not a cleared one.
func (p *Projection[T]) Snapshot() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

func (p *Projection[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
