// Package records defines the catalogue data model shared by every game:
// the Record entry, its nested SetRef, the per-game AttributeSchema of extra
// boolean flags, and the Collection holder owned by the hosting view.
//
// Records expose their fields through Lookup (see internal/keypath), an
// explicit name-to-value mapping used for display, sorting and filtering.
//
// Collection is mutated only by replacing the whole sequence. Every
// replacement bumps Version so observers can detect a change without
// comparing elements.
package records
