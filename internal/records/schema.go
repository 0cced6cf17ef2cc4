package records

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyAttributeKey     = errors.New("attribute key is empty")
	ErrDuplicateAttributeKey = errors.New("duplicate attribute key")
	ErrReservedAttributeKey  = errors.New("attribute key collides with a fixed field")
	ErrUnknownAttribute      = errors.New("attribute is not declared by the schema")
)

// Attribute declares one game-specific boolean flag.
type Attribute struct {
	Label string
	Key   string
}

type attrAccess struct {
	get func(Record) bool
	set func(*Record, bool)
}

// AttributeSchema is the ordered, immutable list of extra boolean flags a
// game's records carry beyond Signed and Altered. Accessors are bound once
// when the schema is built.
type AttributeSchema struct {
	attrs  []Attribute
	access map[string]attrAccess
}

// NewAttributeSchema validates and builds a schema. Keys must be non-empty,
// unique and must not shadow a fixed record field.
func NewAttributeSchema(attrs ...Attribute) (AttributeSchema, error) {
	s := AttributeSchema{
		attrs:  make([]Attribute, 0, len(attrs)),
		access: make(map[string]attrAccess, len(attrs)),
	}
	for _, a := range attrs {
		switch {
		case a.Key == "":
			return AttributeSchema{}, ErrEmptyAttributeKey
		case IsFixedField(a.Key):
			return AttributeSchema{}, fmt.Errorf("%w: %s", ErrReservedAttributeKey, a.Key)
		}
		if _, dup := s.access[a.Key]; dup {
			return AttributeSchema{}, fmt.Errorf("%w: %s", ErrDuplicateAttributeKey, a.Key)
		}
		key := a.Key
		s.access[key] = attrAccess{
			get: func(r Record) bool { return r.Flags[key] },
			set: func(r *Record, v bool) {
				if r.Flags == nil {
					r.Flags = make(map[string]bool)
				}
				r.Flags[key] = v
			},
		}
		s.attrs = append(s.attrs, a)
	}
	return s, nil
}

// MustAttributeSchema is NewAttributeSchema for package-level declarations.
func MustAttributeSchema(attrs ...Attribute) AttributeSchema {
	s, err := NewAttributeSchema(attrs...)
	if err != nil {
		panic(err)
	}
	return s
}

// Attributes returns the declared attributes in declaration order.
func (s AttributeSchema) Attributes() []Attribute {
	out := make([]Attribute, len(s.attrs))
	copy(out, s.attrs)
	return out
}

func (s AttributeSchema) Len() int {
	return len(s.attrs)
}

// Has reports whether key is declared.
func (s AttributeSchema) Has(key string) bool {
	_, ok := s.access[key]
	return ok
}

// Value reads a declared flag from r.
func (s AttributeSchema) Value(r Record, key string) (bool, error) {
	a, ok := s.access[key]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownAttribute, key)
	}
	return a.get(r), nil
}

// SetValue writes a declared flag into r.
func (s AttributeSchema) SetValue(r *Record, key string, v bool) error {
	a, ok := s.access[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAttribute, key)
	}
	a.set(r, v)
	return nil
}

// Project returns a flag map holding exactly the declared attributes, read
// from src. Keys not declared by the schema are dropped.
func (s AttributeSchema) Project(src Record) map[string]bool {
	out := make(map[string]bool, len(s.attrs))
	for _, a := range s.attrs {
		out[a.Key] = s.access[a.Key].get(src)
	}
	return out
}
