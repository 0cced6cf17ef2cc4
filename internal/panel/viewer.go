package panel

import (
	"fmt"
	"slices"

	"github.com/dmitrijs2005/cardkeeper/internal/imagecache"
	"github.com/dmitrijs2005/cardkeeper/internal/records"
)

// Viewer steps through an image list, one image resource at a time.
type Viewer[V any] struct {
	cache  *imagecache.Cache[V]
	game   records.Game
	images []string
	idx    int
}

func NewViewer[V any](cache *imagecache.Cache[V]) *Viewer[V] {
	return &Viewer[V]{cache: cache, idx: -1}
}

// Open starts a viewing session on images at idx.
func (v *Viewer[V]) Open(game records.Game, images []string, idx int) (*imagecache.Resource[V], error) {
	if idx < 0 || idx >= len(images) {
		return nil, fmt.Errorf("image %d out of range [0,%d)", idx, len(images))
	}
	v.cache.Reset()
	v.game = game
	v.images = slices.Clone(images)
	v.idx = idx
	return v.cache.Request(v.images[idx], game), nil
}

func (v *Viewer[V]) IsOpen() bool {
	return v.idx >= 0
}

// Index returns the zero-based position and the list length.
func (v *Viewer[V]) Index() (int, int) {
	return v.idx, len(v.images)
}

// Next moves to the following image. It reports false at the end of the
// list, leaving the position unchanged.
func (v *Viewer[V]) Next() (*imagecache.Resource[V], bool) {
	return v.step(1)
}

// Prev moves to the preceding image.
func (v *Viewer[V]) Prev() (*imagecache.Resource[V], bool) {
	return v.step(-1)
}

func (v *Viewer[V]) step(d int) (*imagecache.Resource[V], bool) {
	if !v.IsOpen() {
		return nil, false
	}
	n := v.idx + d
	if n < 0 || n >= len(v.images) {
		return nil, false
	}
	v.idx = n
	return v.cache.Request(v.images[n], v.game), true
}

// Close ends the session and drops the held resource.
func (v *Viewer[V]) Close() {
	v.cache.Reset()
	v.images = nil
	v.idx = -1
}
