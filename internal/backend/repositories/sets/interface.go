// Package sets stores the per-game set catalogue in the order it was
// published by its remote source.
package sets

import (
	"context"

	"github.com/dmitrijs2005/cardkeeper/internal/records"
)

type Repository interface {
	// List returns the stored catalogue; empty when none was stored yet.
	List(ctx context.Context, game records.Game) ([]records.SetRef, error)

	// Replace swaps the whole catalogue of the game atomically.
	Replace(ctx context.Context, game records.Game, sets []records.SetRef) error
}
