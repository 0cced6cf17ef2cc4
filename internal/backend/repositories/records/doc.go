// Package records persists catalogue records, one table shared by all games
// and keyed by (game, id). Game-specific flags and the image list are kept
// as JSON columns.
package records
