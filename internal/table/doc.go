// Package table derives the displayed rows of a record table: substring
// filtering over the filterable columns and stable, toggling column sort
// applied on top of the order earlier sorts produced. The source
// collection is never reordered; every operation returns a new slice.
package table
