package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewTextLogger(&buf, "warn")
	require.NoError(t, err)
	ctx := context.Background()

	log.Debug(ctx, "dbg")
	log.Info(ctx, "inf")
	log.Warn(ctx, "wrn", "game", "magic")
	log.Error(ctx, "err", "id", 7)

	out := buf.String()
	assert.NotContains(t, out, "msg=dbg")
	assert.NotContains(t, out, "msg=inf")
	assert.Contains(t, out, "level=WARN msg=wrn game=magic")
	assert.Contains(t, out, "level=ERROR msg=err id=7")
}

func TestWith_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewTextLogger(&buf, "debug")
	require.NoError(t, err)

	log.With("component", "form").Debug(context.Background(), "opened", "mode", "edit")

	out := buf.String()
	for _, s := range []string{"level=DEBUG", "msg=opened", "component=form", "mode=edit"} {
		assert.True(t, strings.Contains(out, s), "expected %q in %s", s, out)
	}
}

func TestScoped(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewTextLogger(&buf, "info")
	require.NoError(t, err)
	ctx := context.Background()

	Scoped(log, "form", "pokemon").Info(ctx, "entry saved", "id", 4)
	Scoped(log, "backend", "").Info(ctx, "set catalogue updated")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "msg=\"entry saved\" component=form game=pokemon id=4")
	assert.Contains(t, lines[1], "component=backend")
	assert.NotContains(t, lines[1], "game=")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)

	lvl, err = ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestNop_DoesNotPanic(t *testing.T) {
	log := Nop().With("k", "v")
	log.Info(context.TODO(), "quiet")
	log.Error(context.TODO(), "quiet")
}
