package table

import (
	"fmt"
	"slices"

	"github.com/dmitrijs2005/cardkeeper/internal/keypath"
)

// SortState remembers, per sort key, the direction the next sort applies.
// Keys start ascending and flip after every use.
type SortState struct {
	asc map[string]bool
}

func NewSortState() *SortState {
	return &SortState{asc: make(map[string]bool)}
}

// Peek returns the direction the next sort by key will use.
func (s *SortState) Peek(key string) bool {
	asc, ok := s.asc[key]
	if !ok {
		return true
	}
	return asc
}

// Next returns the direction to apply for key and flips it for the next
// call. Other keys are not affected.
func (s *SortState) Next(key string) bool {
	asc := s.Peek(key)
	s.asc[key] = !asc
	return asc
}

// Row is a table object with a stable identity, used to carry the display
// order across collection replacements.
type Row interface {
	keypath.Object
	RowID() int64
}

// View is one table instance: its columns, filter text, sort state and the
// display order the sorts applied so far produced. A View is not shared
// across games.
//
// Each sort stable-sorts the current display order, so consecutive sorts
// combine: rows equal under the last key keep the order the previous sorts
// gave them.
type View[T Row] struct {
	fields []Field
	state  *SortState
	filter string

	sortKey keypath.Path
	sortAsc bool
	order   []int64
}

func NewView[T Row](fields []Field) *View[T] {
	return &View[T]{fields: fields, state: NewSortState()}
}

func (v *View[T]) Fields() []Field {
	return v.fields
}

func (v *View[T]) SetFilter(text string) {
	v.filter = text
}

func (v *View[T]) FilterText() string {
	return v.filter
}

// SortBy stable-sorts the current display order of src by the column with
// the given label and returns the applied direction. The direction only
// flips when the sort succeeds.
func (v *View[T]) SortBy(label string, src []T) (bool, error) {
	for _, f := range v.fields {
		if f.Label != label {
			continue
		}
		key := f.SortKey.String()
		asc := v.state.Peek(key)
		sorted, err := Sort(v.arrange(src), f.SortKey, asc)
		if err != nil {
			return false, fmt.Errorf("failed to sort by %s: %w", label, err)
		}
		v.state.Next(key)
		v.sortKey = f.SortKey
		v.sortAsc = asc
		v.order = make([]int64, len(sorted))
		for i, o := range sorted {
			v.order[i] = o.RowID()
		}
		return asc, nil
	}
	return false, fmt.Errorf("unknown column %q", label)
}

// Sorted reports the last applied sort key, if any.
func (v *View[T]) Sorted() (key string, asc bool, ok bool) {
	if v.sortKey.IsZero() {
		return "", false, false
	}
	return v.sortKey.String(), v.sortAsc, true
}

// Rows lays src out in the display order and applies the filter. Rows
// not seen by any sort yet follow in source order; rows gone from src are
// dropped. src is not modified.
func (v *View[T]) Rows(src []T) []T {
	return Filter(v.arrange(src), v.fields, v.filter)
}

func (v *View[T]) arrange(src []T) []T {
	if v.order == nil {
		return slices.Clone(src)
	}
	pos := make(map[int64]int, len(v.order))
	for i, id := range v.order {
		pos[id] = i
	}
	placed := make([]T, len(v.order))
	present := make([]bool, len(v.order))
	var fresh []T
	for _, o := range src {
		if i, ok := pos[o.RowID()]; ok {
			placed[i] = o
			present[i] = true
			continue
		}
		fresh = append(fresh, o)
	}
	out := make([]T, 0, len(src))
	for i, o := range placed {
		if present[i] {
			out = append(out, o)
		}
	}
	return append(out, fresh...)
}
