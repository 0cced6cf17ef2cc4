package records

import "github.com/sahilm/fuzzy"

type setNames []SetRef

func (s setNames) String(i int) string { return s[i].Name }
func (s setNames) Len() int            { return len(s) }

// FindSets ranks sets whose name or id fuzzily matches pattern, best match
// first. An exact id match always comes first.
func FindSets(sets []SetRef, pattern string) []SetRef {
	if pattern == "" {
		return nil
	}
	var out []SetRef
	for _, s := range sets {
		if s.ID == pattern {
			out = append(out, s)
		}
	}
	for _, m := range fuzzy.FindFrom(pattern, setNames(sets)) {
		if sets[m.Index].ID == pattern {
			continue
		}
		out = append(out, sets[m.Index])
	}
	return out
}

// SetByID returns the set with the given id.
func SetByID(sets []SetRef, id string) (SetRef, bool) {
	for _, s := range sets {
		if s.ID == id {
			return s, true
		}
	}
	return SetRef{}, false
}
