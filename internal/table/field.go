package table

import (
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/cardkeeper/internal/keypath"
)

// Field is one table column.
type Field struct {
	Label string
	// Key resolves the displayed value.
	Key keypath.Path
	// SortKey resolves the value compared when sorting by this column.
	SortKey keypath.Path
	// Filterable columns take part in substring filtering.
	Filterable bool
	// Indicator columns render a boolean as a mark instead of text.
	Indicator bool
}

type FieldOption func(*Field)

// SortBy sorts the column by a path other than its display key.
func SortBy(path string) FieldOption {
	return func(f *Field) { f.SortKey = keypath.MustCompile(path) }
}

// AsIndicator renders the column as a boolean mark and excludes it from
// filtering.
func AsIndicator() FieldOption {
	return func(f *Field) {
		f.Indicator = true
		f.Filterable = false
	}
}

// NotFilterable excludes the column from filtering.
func NotFilterable() FieldOption {
	return func(f *Field) { f.Filterable = false }
}

// NewField declares a filterable column displaying and sorting by key.
// It panics on a malformed key; fields are declared statically.
func NewField(label, key string, opts ...FieldOption) Field {
	p := keypath.MustCompile(key)
	f := Field{Label: label, Key: p, SortKey: p, Filterable: true}
	for _, o := range opts {
		o(&f)
	}
	return f
}

// IndicatorMark is printed for true indicator cells.
const IndicatorMark = "✓"

// Cell renders the column value of obj. Missing fields render empty.
func (f Field) Cell(obj keypath.Object) string {
	v, err := f.Key.Resolve(obj)
	if err != nil {
		return ""
	}
	if f.Indicator {
		if b, ok := v.(bool); ok && b {
			return IndicatorMark
		}
		return ""
	}
	return Stringify(v)
}

// Stringify formats a resolved value for display and filtering.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
