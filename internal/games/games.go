// Package games binds the generic record engine to each supported card
// game: the game's flag schema, its table columns, the placeholder image
// and the external preview lookup.
package games

import (
	"fmt"

	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/records"
	"github.com/dmitrijs2005/cardkeeper/internal/table"
)

// Binding is the configuration of one game.
type Binding struct {
	Game            records.Game
	Schema          records.AttributeSchema
	DefaultImageURL string
	Fields          []table.Field

	preview previewAPI
	legacy  legacyDecoder
}

const (
	MagicDefaultImageURL   = "https://gamepedia.cursecdn.com/mtgsalvation_gamepedia/f/f8/Magic_card_back.jpg"
	PokemonDefaultImageURL = "https://archives.bulbagarden.net/media/upload/1/17/Cardback.jpg"
)

// Flag keys.
const (
	FlagFoil         = "foil"
	FlagHolo         = "holo"
	FlagFirstEdition = "firstEdition"
)

func leadingFields() []table.Field {
	return []table.Field{
		table.NewField("Name", records.FieldName),
		table.NewField("Set", "set.name", table.SortBy("set.releaseDate")),
		table.NewField("Language", records.FieldLanguage),
		table.NewField("Condition", records.FieldCondition),
		table.NewField("#", records.FieldAmount),
	}
}

func trailingFields() []table.Field {
	return []table.Field{
		table.NewField("Signed", records.FieldSigned, table.AsIndicator()),
		table.NewField("Altered", records.FieldAltered, table.AsIndicator()),
		table.NewField("Note", records.FieldNote),
	}
}

func assemble(schema records.AttributeSchema) []table.Field {
	fields := leadingFields()
	for _, a := range schema.Attributes() {
		fields = append(fields, table.NewField(a.Label, a.Key, table.AsIndicator()))
	}
	return append(fields, trailingFields()...)
}

// Magic returns the Magic: The Gathering binding.
func Magic() Binding {
	schema := records.MustAttributeSchema(
		records.Attribute{Label: "Foil", Key: FlagFoil},
	)
	return Binding{
		Game:            records.GameMagic,
		Schema:          schema,
		DefaultImageURL: MagicDefaultImageURL,
		Fields:          assemble(schema),
		preview:         scryfallPreview,
		legacy:          decodeLegacyMagic,
	}
}

// Pokemon returns the Pokemon TCG binding.
func Pokemon() Binding {
	schema := records.MustAttributeSchema(
		records.Attribute{Label: "Holo", Key: FlagHolo},
		records.Attribute{Label: "FirstEdition", Key: FlagFirstEdition},
	)
	return Binding{
		Game:            records.GamePokemon,
		Schema:          schema,
		DefaultImageURL: PokemonDefaultImageURL,
		Fields:          assemble(schema),
		preview:         pokemonPreview,
		legacy:          decodeLegacyPokemon,
	}
}

// For returns the binding of game.
func For(game records.Game) (Binding, error) {
	switch game {
	case records.GameMagic:
		return Magic(), nil
	case records.GamePokemon:
		return Pokemon(), nil
	}
	return Binding{}, fmt.Errorf("%w: %q", common.ErrInvalidGame, game)
}

// Normalize returns copies of rs carrying exactly the flags of the schema,
// so every flag column resolves on every record.
func (b Binding) Normalize(rs []records.Record) []records.Record {
	out := make([]records.Record, len(rs))
	for i, r := range rs {
		c := r.Clone()
		c.Flags = b.Schema.Project(r)
		out[i] = c
	}
	return out
}
