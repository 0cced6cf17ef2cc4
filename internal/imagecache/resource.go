package imagecache

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cardkeeper/internal/records"
)

// State of a resource.
type State int

const (
	StatePending State = iota
	StateResolved
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ErrPending is returned by Peek while the fetch is in flight.
var ErrPending = errors.New("image is still loading")

// ErrClosed fails resources requested from a closed cache.
var ErrClosed = errors.New("image cache is closed")

// FetchError is the failure of one image fetch.
type FetchError struct {
	ImageID string
	Game    records.Game
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch image %s (%s): %v", e.ImageID, e.Game, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Key identifies a resource.
type Key struct {
	ImageID string
	Game    records.Game
}

// Resource is a single image fetch.
type Resource[V any] struct {
	key  Key
	done chan struct{}
	val  V
	err  error
}

func newResource[V any](key Key) *Resource[V] {
	return &Resource[V]{key: key, done: make(chan struct{})}
}

func (r *Resource[V]) settle(v V, err error) {
	if err != nil {
		r.err = &FetchError{ImageID: r.key.ImageID, Game: r.key.Game, Err: err}
	} else {
		r.val = v
	}
	close(r.done)
}

func (r *Resource[V]) Key() Key {
	return r.key
}

// Done is closed once the fetch has settled.
func (r *Resource[V]) Done() <-chan struct{} {
	return r.done
}

func (r *Resource[V]) State() State {
	select {
	case <-r.done:
		if r.err != nil {
			return StateFailed
		}
		return StateResolved
	default:
		return StatePending
	}
}

// Read waits for the fetch to settle and returns its outcome. A failed fetch
// returns a *FetchError. Cancelling ctx stops the wait, not the fetch.
func (r *Resource[V]) Read(ctx context.Context) (V, error) {
	select {
	case <-r.done:
		return r.val, r.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Peek returns the outcome without waiting; ErrPending while in flight.
func (r *Resource[V]) Peek() (V, error) {
	select {
	case <-r.done:
		return r.val, r.err
	default:
		var zero V
		return zero, ErrPending
	}
}
