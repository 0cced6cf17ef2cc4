package games

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/dmitrijs2005/cardkeeper/internal/records"
)

// legacyDecoder converts one card of a previous collection.json.
type legacyDecoder func(raw json.RawMessage) (records.Record, error)

type legacySet struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ReleaseDate string `json:"releaseDate"`
}

func (s legacySet) ref() records.SetRef {
	return records.SetRef{ID: s.ID, Name: s.Name, ReleaseDate: s.ReleaseDate}
}

// legacyCard holds the fields both games stored.
type legacyCard struct {
	ID        int64     `json:"id"`
	Amount    int       `json:"amount"`
	Name      string    `json:"name"`
	Set       legacySet `json:"set"`
	Note      string    `json:"note"`
	Images    []string  `json:"images"`
	Language  string    `json:"language"`
	Condition string    `json:"condition"`
	Signed    bool      `json:"signed"`
	Altered   bool      `json:"altered"`
}

func (c legacyCard) record() records.Record {
	images := c.Images
	if images == nil {
		images = []string{}
	}
	return records.Record{
		Name:      c.Name,
		Set:       c.Set.ref(),
		Language:  c.Language,
		Condition: c.Condition,
		Amount:    c.Amount,
		Note:      c.Note,
		Signed:    c.Signed,
		Altered:   c.Altered,
		Images:    images,
	}
}

// MagicCard is a card as stored by the previous Magic collection file.
type MagicCard struct {
	legacyCard
	Foil bool `json:"foil"`
}

// PokemonCard is a card as stored by the previous Pokemon collection file.
type PokemonCard struct {
	legacyCard
	SetNo        string `json:"setNo"`
	Holo         bool   `json:"holo"`
	FirstEdition bool   `json:"firstEdition"`
}

func decodeLegacyMagic(raw json.RawMessage) (records.Record, error) {
	var c MagicCard
	if err := json.Unmarshal(raw, &c); err != nil {
		return records.Record{}, err
	}
	r := c.record()
	r.Flags = map[string]bool{FlagFoil: c.Foil}
	return r, nil
}

func decodeLegacyPokemon(raw json.RawMessage) (records.Record, error) {
	var c PokemonCard
	if err := json.Unmarshal(raw, &c); err != nil {
		return records.Record{}, err
	}
	r := c.record()
	r.SetNo = c.SetNo
	r.Flags = map[string]bool{FlagHolo: c.Holo, FlagFirstEdition: c.FirstEdition}
	return r, nil
}

// DecodeLegacy reads a previous collection.json, a map from id to card,
// and returns unsaved records ordered by their old id.
func (b Binding) DecodeLegacy(r io.Reader) ([]records.Record, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode %s collection: %w", b.Game, err)
	}

	type entry struct {
		id  int64
		rec records.Record
	}
	entries := make([]entry, 0, len(raw))
	for key, card := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid card id %q: %w", key, err)
		}
		rec, err := b.legacy(card)
		if err != nil {
			return nil, fmt.Errorf("failed to decode card %d: %w", id, err)
		}
		entries = append(entries, entry{id: id, rec: rec})
	}
	slices.SortFunc(entries, func(a, b entry) int { return cmp.Compare(a.id, b.id) })

	out := make([]records.Record, len(entries))
	for i, e := range entries {
		out[i] = e.rec
	}
	return out, nil
}
