package records

import (
	"maps"
	"slices"
)

// Names of the fixed record fields as seen by key paths.
const (
	FieldID        = "id"
	FieldName      = "name"
	FieldSet       = "set"
	FieldSetNo     = "setNo"
	FieldLanguage  = "language"
	FieldCondition = "condition"
	FieldAmount    = "amount"
	FieldNote      = "note"
	FieldSigned    = "signed"
	FieldAltered   = "altered"
	FieldImages    = "images"

	SetFieldID          = "id"
	SetFieldName        = "name"
	SetFieldReleaseDate = "releaseDate"
)

var fixedFields = []string{
	FieldID, FieldName, FieldSet, FieldSetNo, FieldLanguage, FieldCondition,
	FieldAmount, FieldNote, FieldSigned, FieldAltered, FieldImages,
}

// IsFixedField reports whether name is one of the fields every record carries.
func IsFixedField(name string) bool {
	return slices.Contains(fixedFields, name)
}

// SetRef is a card set as published by the game's set catalogue.
type SetRef struct {
	// ID is the canonical set code, used for grouping and image lookups.
	ID   string `json:"id"`
	Name string `json:"name"`
	// ReleaseDate is formatted YYYY/MM/DD so it sorts lexically.
	ReleaseDate string `json:"releaseDate"`
}

// Lookup exposes the set fields to key paths.
func (s SetRef) Lookup(name string) (any, bool) {
	switch name {
	case SetFieldID:
		return s.ID, true
	case SetFieldName:
		return s.Name, true
	case SetFieldReleaseDate:
		return s.ReleaseDate, true
	}
	return nil, false
}

// Record is one catalogued card entry of a game.
type Record struct {
	// ID is assigned by the backend; 0 means the record was never persisted.
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Set       SetRef `json:"set"`
	SetNo     string `json:"setNo"`
	Language  string `json:"language"`
	Condition string `json:"condition"`
	Amount    int    `json:"amount"`
	Note      string `json:"note"`
	Signed    bool   `json:"signed"`
	Altered   bool   `json:"altered"`

	// Flags holds the game-specific boolean attributes declared by the
	// game's AttributeSchema, keyed by attribute key.
	Flags map[string]bool `json:"flags,omitempty"`

	// Images lists image identifiers in display order.
	Images []string `json:"images"`
}

// IsNew reports whether the record has not been persisted yet.
func (r Record) IsNew() bool {
	return r.ID == 0
}

// RowID identifies the record in a table's display order.
func (r Record) RowID() int64 {
	return r.ID
}

// Flag returns the value of a game-specific flag; absent flags are false.
func (r Record) Flag(key string) bool {
	return r.Flags[key]
}

// Clone returns a deep copy so the result shares no slices or maps with r.
func (r Record) Clone() Record {
	c := r
	c.Images = slices.Clone(r.Images)
	if c.Images == nil {
		c.Images = []string{}
	}
	if r.Flags != nil {
		c.Flags = maps.Clone(r.Flags)
	}
	return c
}

// Lookup exposes record fields to key paths. Game-specific flags resolve
// only when the record carries them.
func (r Record) Lookup(name string) (any, bool) {
	switch name {
	case FieldID:
		return r.ID, true
	case FieldName:
		return r.Name, true
	case FieldSet:
		return r.Set, true
	case FieldSetNo:
		return r.SetNo, true
	case FieldLanguage:
		return r.Language, true
	case FieldCondition:
		return r.Condition, true
	case FieldAmount:
		return r.Amount, true
	case FieldNote:
		return r.Note, true
	case FieldSigned:
		return r.Signed, true
	case FieldAltered:
		return r.Altered, true
	case FieldImages:
		return r.Images, true
	}
	v, ok := r.Flags[name]
	return v, ok
}
