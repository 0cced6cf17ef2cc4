package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunREPL_HelpUnknownAndExit(t *testing.T) {
	fb := newFakeBackend()
	_, out := runScript(t, fb, "magic", "help", "frobnicate", "exit", "list")

	assert.Contains(t, out, "sort <column>")
	assert.Contains(t, out, "Unknown command: frobnicate")
	assert.Contains(t, out, "Bye!")
	assert.NotContains(t, out, "of 3 records", "commands after exit are not run")
}

func TestRunREPL_ErrorsAreReportedAndLoopContinues(t *testing.T) {
	fb := newFakeBackend()
	_, out := runScript(t, fb, "magic", "select 99", "select x", "show", "list")

	assert.Contains(t, out, "Error: record 99: not found")
	assert.Contains(t, out, "Error: invalid")
	assert.Contains(t, out, "3 of 3 records")
}

func TestRunREPL_PromptShowsGameAndForm(t *testing.T) {
	fb := newFakeBackend()
	_, out := runScript(t, fb, "pokemon", "add")

	assert.True(t, strings.HasPrefix(out, "cardkeeper"))
	assert.Contains(t, out, "cardkeeper (Pokemon)> ")
	assert.Contains(t, out, "cardkeeper (Pokemon) [create]> ")
}

func TestSplitArgs(t *testing.T) {
	cases := []struct {
		line string
		want []string
	}{
		{"set name Shivan Dragon", []string{"set", "name", "Shivan", "Dragon"}},
		{`attach "my scans/front.png" back.png`, []string{"attach", "my scans/front.png", "back.png"}},
		{`set note "keep  both  spaces"`, []string{"set", "note", "keep  both  spaces"}},
		{"set name Lim-Dûl's Vault", []string{"set", "name", "Lim-Dûl's", "Vault"}},
		{"sort #", []string{"sort", "#"}},
		{`set note ""`, []string{"set", "note", ""}},
		{"   \n", nil},
	}
	for _, c := range cases {
		got, err := splitArgs(c.line)
		require.NoError(t, err, c.line)
		assert.Equal(t, c.want, got, c.line)
	}

	_, err := splitArgs(`set name "unterminated`)
	assert.ErrorIs(t, err, errUnterminatedQuote)
}
