package form

import "fmt"

// ValidationError reports a draft field that cannot be submitted. It is
// raised before any backend call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
