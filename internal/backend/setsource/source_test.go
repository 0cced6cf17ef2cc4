package setsource

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/records"
)

func newMockedClient() (*http.Client, *httpmock.MockTransport) {
	mt := httpmock.NewMockTransport()
	return &http.Client{Transport: mt}, mt
}

func TestScryfall_DropsDigitalAndSortsByDate(t *testing.T) {
	client, mt := newMockedClient()
	mt.RegisterResponder(http.MethodGet, ScryfallSetsURL,
		httpmock.NewStringResponder(http.StatusOK, `{"data":[
			{"code":"leb","name":"Limited Edition Beta","released_at":"1993-10-04","digital":false},
			{"code":"prm","name":"Magic Online Promos","released_at":"2002-06-24","digital":true},
			{"code":"lea","name":"Limited Edition Alpha","released_at":"1993-08-05","digital":false}
		]}`))

	src, err := ForGame(records.GameMagic, client)
	require.NoError(t, err)

	sets, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []records.SetRef{
		{ID: "lea", Name: "Limited Edition Alpha", ReleaseDate: "1993/08/05"},
		{ID: "leb", Name: "Limited Edition Beta", ReleaseDate: "1993/10/04"},
	}, sets)
	assert.Equal(t, 1, mt.GetTotalCallCount())
}

func TestPokemonTCG_ParsesData(t *testing.T) {
	client, mt := newMockedClient()
	mt.RegisterResponder(http.MethodGet, PokemonTCGSetsURL,
		httpmock.NewStringResponder(http.StatusOK, `{"data":[
			{"id":"base1","name":"Base","series":"Base","releaseDate":"1999/01/09"},
			{"id":"base2","name":"Jungle","series":"Base","releaseDate":"1999/06/16"}
		]}`))

	src, err := ForGame(records.GamePokemon, client)
	require.NoError(t, err)

	sets, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, records.SetRef{ID: "base2", Name: "Jungle", ReleaseDate: "1999/06/16"}, sets[1])
}

func TestFetch_HTTPErrors(t *testing.T) {
	client, mt := newMockedClient()
	mt.RegisterResponder(http.MethodGet, PokemonTCGSetsURL,
		httpmock.NewStringResponder(http.StatusServiceUnavailable, `busy`))
	mt.RegisterResponder(http.MethodGet, ScryfallSetsURL,
		httpmock.NewStringResponder(http.StatusOK, `{not json`))

	p, _ := ForGame(records.GamePokemon, client)
	_, err := p.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")

	m, _ := ForGame(records.GameMagic, client)
	_, err = m.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode")
}

func TestForGame_Unknown(t *testing.T) {
	_, err := ForGame(records.Game("yugioh"), http.DefaultClient)
	assert.ErrorIs(t, err, common.ErrInvalidGame)
}
