package imagecache

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/cardkeeper/internal/logging"
	"github.com/dmitrijs2005/cardkeeper/internal/records"
)

// FetchFunc retrieves one image.
type FetchFunc[V any] func(ctx context.Context, game records.Game, imageID string) (V, error)

// Cache is the single-slot resource holder of one viewing session.
type Cache[V any] struct {
	fetch FetchFunc[V]
	log   logging.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	current *Resource[V]
	closed  bool
}

type Option func(*options)

type options struct {
	log logging.Logger
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

func New[V any](fetch FetchFunc[V], opts ...Option) *Cache[V] {
	o := options{log: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Cache[V]{fetch: fetch, log: o.log, ctx: ctx, cancel: cancel}
}

// Request returns the resource for the pair, starting its fetch when the
// pair differs from the one currently held.
func (c *Cache[V]) Request(imageID string, game records.Game) *Resource[V] {
	key := Key{ImageID: imageID, Game: game}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil && c.current.key == key {
		return c.current
	}

	r := newResource[V](key)
	if c.closed {
		var zero V
		r.settle(zero, ErrClosed)
		return r
	}
	c.current = r

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		v, err := c.fetch(c.ctx, game, imageID)
		if err != nil {
			c.log.Warn(c.ctx, "image fetch failed", "game", game, "image", imageID, "err", err)
		}
		r.settle(v, err)
	}()
	return r
}

// Current returns the resource held in the slot, if any.
func (c *Cache[V]) Current() (*Resource[V], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.current != nil
}

// Reset ends the viewing session. The next Request starts a fresh fetch
// even for the pair held before.
func (c *Cache[V]) Reset() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}

// Close cancels in-flight fetches and waits for them to return.
func (c *Cache[V]) Close() {
	c.mu.Lock()
	c.closed = true
	c.current = nil
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}
