// Package logging is the structured logger shared by the backend, the form
// controller and the CLI. SlogLogger is the only implementation.
package logging

import "context"

// Logger logs a message with key/value attributes:
//
//	log.Info(ctx, "record created", "game", game, "id", id)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds args to every line.
	With(args ...any) Logger
}

// Attribute keys every component logs under.
const (
	KeyComponent = "component"
	KeyGame      = "game"
)

// Scoped tags l with the component name and, unless it is empty, the game
// the component serves.
func Scoped(l Logger, component, game string) Logger {
	if game == "" {
		return l.With(KeyComponent, component)
	}
	return l.With(KeyComponent, component, KeyGame, game)
}
