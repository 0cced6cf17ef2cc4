package records

import (
	"context"

	"github.com/dmitrijs2005/cardkeeper/internal/records"
)

// Repository describes storage operations for records of one game at a time.
type Repository interface {
	// List returns all records of the game ordered by id.
	List(ctx context.Context, game records.Game) ([]records.Record, error)

	// Get returns one record; common.ErrNotFound when absent.
	Get(ctx context.Context, game records.Game, id int64) (records.Record, error)

	// NextID returns the id the next Insert would assign: max id + 1.
	NextID(ctx context.Context, game records.Game) (int64, error)

	// Insert stores r under a fresh id and returns it. r.ID is ignored.
	Insert(ctx context.Context, game records.Game, r records.Record) (int64, error)

	// Update overwrites the record with r.ID; common.ErrNotFound when absent.
	Update(ctx context.Context, game records.Game, r records.Record) error

	// Delete removes the record; common.ErrNotFound when absent.
	Delete(ctx context.Context, game records.Game, id int64) error
}
