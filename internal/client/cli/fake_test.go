package cli

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cardkeeper/internal/backend"
	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/config"
	"github.com/dmitrijs2005/cardkeeper/internal/games"
	"github.com/dmitrijs2005/cardkeeper/internal/records"
)

// fakeBackend keeps collections and images in memory.
type fakeBackend struct {
	mu sync.Mutex

	collections map[records.Game][]records.Record
	sets        map[records.Game][]records.SetRef
	images      map[string][]byte

	created []records.Record
	updated []records.Record
	removed []int64
	deleted []string
	updates int
}

func newFakeBackend() *fakeBackend {
	lea := records.SetRef{ID: "lea", Name: "Limited Edition Alpha", ReleaseDate: "1993/08/05"}
	leb := records.SetRef{ID: "leb", Name: "Limited Edition Beta", ReleaseDate: "1993/10/04"}
	base := records.SetRef{ID: "base1", Name: "Base", ReleaseDate: "1999/01/09"}
	return &fakeBackend{
		collections: map[records.Game][]records.Record{
			records.GameMagic: {
				{ID: 1, Name: "Shivan Dragon", Set: leb, Language: "English", Condition: "Good", Amount: 1,
					Flags: map[string]bool{games.FlagFoil: false}, Images: []string{"1+front.png", "1+back.png"}},
				{ID: 2, Name: "Black Lotus", Set: lea, Language: "German", Condition: "Mint", Amount: 1,
					Flags: map[string]bool{games.FlagFoil: true}, Images: []string{}},
				{ID: 3, Name: "Island", Set: lea, Language: "English", Condition: "Played", Amount: 20, Images: []string{}},
			},
			records.GamePokemon: {
				{ID: 1, Name: "Pikachu", Set: base, Language: "English", Condition: "Mint", Amount: 1, Images: []string{}},
			},
		},
		sets: map[records.Game][]records.SetRef{
			records.GameMagic:   {lea, leb},
			records.GamePokemon: {base},
		},
		images: map[string][]byte{
			"1+front.png": []byte("\x89PNG\r\n\x1a\nfront"),
			"1+back.png":  []byte("\x89PNG\r\n\x1a\nback"),
		},
	}
}

func (f *fakeBackend) FetchCollection(_ context.Context, game records.Game) ([]records.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]records.Record, len(f.collections[game]))
	for i, r := range f.collections[game] {
		out[i] = r.Clone()
	}
	return out, nil
}

func (f *fakeBackend) CreateRecord(_ context.Context, game records.Game, p records.Record) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var id int64
	for _, r := range f.collections[game] {
		id = max(id, r.ID)
	}
	p.ID = id + 1
	f.collections[game] = append(f.collections[game], p)
	f.created = append(f.created, p)
	return p.ID, nil
}

func (f *fakeBackend) UpdateRecord(_ context.Context, game records.Game, p records.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := slices.IndexFunc(f.collections[game], func(r records.Record) bool { return r.ID == p.ID })
	if i < 0 {
		return common.ErrNotFound
	}
	f.collections[game][i] = p
	f.updated = append(f.updated, p)
	return nil
}

func (f *fakeBackend) DeleteRecord(_ context.Context, game records.Game, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collections[game] = slices.DeleteFunc(f.collections[game], func(r records.Record) bool { return r.ID == id })
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeBackend) CopyImage(_ context.Context, _ records.Game, p records.Record, src string, isNew bool) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := fmt.Sprint(p.ID)
	if isNew {
		prefix = "new"
	}
	id := fmt.Sprintf("%s+%s+%d.%s", prefix, p.Name, len(p.Images), strings.TrimPrefix(filepath.Ext(src), "."))
	f.images[id] = []byte("copy of " + src)
	return id, nil
}

func (f *fakeBackend) DeleteImage(_ context.Context, _ records.Game, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.images, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBackend) FetchImageBytes(_ context.Context, _ records.Game, id string) (backend.ImageData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.images[id]
	if !ok {
		return backend.ImageData{}, common.ErrNotFound
	}
	return backend.ImageData{ID: id, MIME: "image/png", Bytes: data}, nil
}

func (f *fakeBackend) ListLanguages(context.Context) ([]string, error) {
	return []string{"English", "German"}, nil
}

func (f *fakeBackend) ListConditions(context.Context) ([]string, error) {
	return []string{"Mint", "Good", "Played"}, nil
}

func (f *fakeBackend) ListSets(_ context.Context, game records.Game) ([]records.SetRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.sets[game]), nil
}

func (f *fakeBackend) UpdateSets(ctx context.Context, game records.Game) ([]records.SetRef, error) {
	f.mu.Lock()
	f.updates++
	f.mu.Unlock()
	return f.ListSets(ctx, game)
}

type fakePreviews struct{}

func (fakePreviews) Lookup(context.Context, games.Binding, records.Record) (string, error) {
	return "", nil
}

// runScript runs a session on the given input lines and returns the app
// and its output.
func runScript(t *testing.T, fb *fakeBackend, game records.Game, lines ...string) (*App, string) {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DefaultGame = game

	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	a := NewApp(cfg, fb, fakePreviews{},
		WithIO(in, &out),
		WithSettingsFile(filepath.Join(t.TempDir(), "settings.json")))
	require.NoError(t, a.Run(context.Background()))
	return a, out.String()
}
