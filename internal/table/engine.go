package table

import (
	"cmp"
	"slices"
	"strings"

	"github.com/dmitrijs2005/cardkeeper/internal/keypath"
)

// Filter returns the objects for which at least one filterable field holds
// a string or number containing text, compared case-insensitively. Other
// value kinds never match. Empty text keeps everything.
func Filter[T keypath.Object](objs []T, fields []Field, text string) []T {
	out := make([]T, 0, len(objs))
	if text == "" {
		return append(out, objs...)
	}
	needle := strings.ToLower(text)
	for _, o := range objs {
		if matches(o, fields, needle) {
			out = append(out, o)
		}
	}
	return out
}

func matches(obj keypath.Object, fields []Field, needle string) bool {
	for _, f := range fields {
		if !f.Filterable {
			continue
		}
		v, err := f.Key.Resolve(obj)
		if err != nil {
			continue
		}
		switch v.(type) {
		case string, int, int64, float64:
		default:
			continue
		}
		if strings.Contains(strings.ToLower(Stringify(v)), needle) {
			return true
		}
	}
	return false
}

// Sort returns a copy of objs ordered by the value at key. Equal keys keep
// their relative order. Resolution failures abort the sort.
func Sort[T keypath.Object](objs []T, key keypath.Path, asc bool) ([]T, error) {
	type keyed struct {
		obj T
		key any
	}
	tmp := make([]keyed, len(objs))
	for i, o := range objs {
		k, err := key.Resolve(o)
		if err != nil {
			return nil, err
		}
		tmp[i] = keyed{obj: o, key: k}
	}
	slices.SortStableFunc(tmp, func(a, b keyed) int {
		c := Compare(a.key, b.key)
		if !asc {
			c = -c
		}
		return c
	})
	out := make([]T, len(tmp))
	for i, k := range tmp {
		out[i] = k.obj
	}
	return out, nil
}

// Compare orders two resolved values. Strings compare case-folded, numbers
// and booleans by natural order. Values of different kinds order by kind.
func Compare(a, b any) int {
	ka, kb := kind(a), kind(b)
	if ka != kb {
		return cmp.Compare(ka, kb)
	}
	switch ka {
	case kindBool:
		return cmp.Compare(boolInt(a.(bool)), boolInt(b.(bool)))
	case kindNumber:
		return cmp.Compare(number(a), number(b))
	case kindString:
		return cmp.Compare(strings.ToLower(a.(string)), strings.ToLower(b.(string)))
	case kindOther:
		return cmp.Compare(strings.ToLower(Stringify(a)), strings.ToLower(Stringify(b)))
	}
	return 0
}

const (
	kindNil = iota
	kindBool
	kindNumber
	kindString
	kindOther
)

func kind(v any) int {
	switch v.(type) {
	case nil:
		return kindNil
	case bool:
		return kindBool
	case int, int64, float64:
		return kindNumber
	case string:
		return kindString
	default:
		return kindOther
	}
}

func number(v any) float64 {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case float64:
		return x
	}
	return 0
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
