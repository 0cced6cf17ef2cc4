// Package keypath resolves dotted field paths ("set.releaseDate") against
// records. A path is compiled once and resolved many times; the same path
// syntax serves display, sorting and filtering.
//
// Objects expose their fields through the Object interface instead of
// reflection. Only plain field names are supported: no wildcards, no
// array indexes.
package keypath

import (
	"errors"
	"fmt"
	"strings"
)

// Object is anything whose named fields can be looked up.
type Object interface {
	Lookup(name string) (any, bool)
}

// MissingFieldError reports the first segment of Path that was absent.
type MissingFieldError struct {
	Path    string
	Segment string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("key path %q: missing field %q", e.Path, e.Segment)
}

var ErrEmptyPath = errors.New("empty key path")

// Path is a compiled dotted key path.
type Path struct {
	raw      string
	segments []string
}

// Compile splits raw into segments. Empty segments are rejected.
func Compile(raw string) (Path, error) {
	if raw == "" {
		return Path{}, ErrEmptyPath
	}
	segs := strings.Split(raw, ".")
	for _, s := range segs {
		if s == "" {
			return Path{}, fmt.Errorf("key path %q: empty segment", raw)
		}
	}
	return Path{raw: raw, segments: segs}, nil
}

// MustCompile is Compile for static paths.
func MustCompile(raw string) Path {
	p, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) String() string {
	return p.raw
}

// IsZero reports whether p was never compiled.
func (p Path) IsZero() bool {
	return len(p.segments) == 0
}

// Resolve walks the path over obj. Every intermediate value must itself be
// an Object; otherwise the next segment is reported missing.
func (p Path) Resolve(obj Object) (any, error) {
	if p.IsZero() {
		return nil, ErrEmptyPath
	}
	var cur any = obj
	for _, seg := range p.segments {
		o, ok := cur.(Object)
		if !ok || o == nil {
			return nil, &MissingFieldError{Path: p.raw, Segment: seg}
		}
		v, ok := o.Lookup(seg)
		if !ok {
			return nil, &MissingFieldError{Path: p.raw, Segment: seg}
		}
		cur = v
	}
	return cur, nil
}

// Resolve compiles raw and resolves it over obj in one step.
func Resolve(obj Object, raw string) (any, error) {
	p, err := Compile(raw)
	if err != nil {
		return nil, err
	}
	return p.Resolve(obj)
}

// ResolveOr resolves p and returns def when resolution fails. Display paths
// use it to degrade missing fields to "no value".
func (p Path) ResolveOr(obj Object, def any) any {
	v, err := p.Resolve(obj)
	if err != nil {
		return def
	}
	return v
}
