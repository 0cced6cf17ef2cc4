package backend

import (
	"fmt"

	"github.com/dmitrijs2005/cardkeeper/internal/records"
)

// Error is a failed backend operation.
type Error struct {
	Op   string
	Game records.Game
	Err  error
}

func (e *Error) Error() string {
	if e.Game == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Game, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func opError(op string, game records.Game, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Game: game, Err: err}
}
