// Package setsource downloads set catalogues from the public card APIs:
// scryfall for Magic and pokemontcg.io for Pokemon.
package setsource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/records"
)

const (
	ScryfallSetsURL   = "https://api.scryfall.com/sets"
	PokemonTCGSetsURL = "https://api.pokemontcg.io/v2/sets"
)

// Source fetches the complete set catalogue of one game.
type Source interface {
	Fetch(ctx context.Context) ([]records.SetRef, error)
}

// ForGame returns the remote source of game.
func ForGame(game records.Game, client *http.Client) (Source, error) {
	switch game {
	case records.GameMagic:
		return &Scryfall{client: client, url: ScryfallSetsURL}, nil
	case records.GamePokemon:
		return &PokemonTCG{client: client, url: PokemonTCGSetsURL}, nil
	}
	return nil, fmt.Errorf("%w: %q", common.ErrInvalidGame, game)
}

func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch %s: unexpected status %s", url, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", url, err)
	}
	return nil
}

// Scryfall lists paper Magic sets ordered by release date.
type Scryfall struct {
	client *http.Client
	url    string
}

type scryfallSet struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	ReleasedAt string `json:"released_at"`
	Digital    bool   `json:"digital"`
}

func (s *Scryfall) Fetch(ctx context.Context) ([]records.SetRef, error) {
	var resp struct {
		Data []scryfallSet `json:"data"`
	}
	if err := getJSON(ctx, s.client, s.url, &resp); err != nil {
		return nil, err
	}

	out := make([]records.SetRef, 0, len(resp.Data))
	for _, set := range resp.Data {
		if set.Digital {
			continue
		}
		out = append(out, records.SetRef{
			ID:          set.Code,
			Name:        set.Name,
			ReleaseDate: strings.ReplaceAll(set.ReleasedAt, "-", "/"),
		})
	}
	slices.SortStableFunc(out, func(a, b records.SetRef) int {
		return strings.Compare(a.ReleaseDate, b.ReleaseDate)
	})
	return out, nil
}

// PokemonTCG lists Pokemon sets in the order the API publishes them.
type PokemonTCG struct {
	client *http.Client
	url    string
}

func (p *PokemonTCG) Fetch(ctx context.Context) ([]records.SetRef, error) {
	var resp struct {
		Data []records.SetRef `json:"data"`
	}
	if err := getJSON(ctx, p.client, p.url, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		resp.Data = []records.SetRef{}
	}
	return resp.Data, nil
}
