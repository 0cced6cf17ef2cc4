// Package images stores card images by game and file name. Two stores are
// provided: a local directory tree (<root>/<game>/images/<name>) and an
// S3-compatible bucket (<prefix>/<game>/<name>).
package images

import (
	"context"

	"github.com/dmitrijs2005/cardkeeper/internal/records"
)

// Store keeps image bytes. Missing images are reported as common.ErrNotFound.
type Store interface {
	Put(ctx context.Context, game records.Game, name string, data []byte) error
	Get(ctx context.Context, game records.Game, name string) ([]byte, error)
	Delete(ctx context.Context, game records.Game, name string) error
	Exists(ctx context.Context, game records.Game, name string) (bool, error)
}
