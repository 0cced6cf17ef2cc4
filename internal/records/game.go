package records

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cardkeeper/internal/common"
)

// Game identifies a card game whose collection is kept separately.
type Game string

const (
	GameMagic   Game = "magic"
	GamePokemon Game = "pokemon"
)

// Games lists every supported game in menu order.
func Games() []Game {
	return []Game{GameMagic, GamePokemon}
}

// ParseGame accepts a game name in any letter case ("Magic", "pokemon").
func ParseGame(s string) (Game, error) {
	g := Game(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Games() {
		if g == known {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: %q", common.ErrInvalidGame, s)
}

// Title returns the display name of the game.
func (g Game) Title() string {
	switch g {
	case GameMagic:
		return "Magic"
	case GamePokemon:
		return "Pokemon"
	default:
		return string(g)
	}
}
