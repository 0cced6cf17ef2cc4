package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/records"
)

// fakeBackend records every call and hands out sequential image ids.
type fakeBackend struct {
	mu sync.Mutex

	nextID    int64
	createErr error
	updateErr error
	copyErr   map[string]error
	deleteErr map[string]error
	listErr   error

	creates  []records.Record
	updates  []records.Record
	copies   []copyCall
	deletes  []string
	copyGate chan struct{}
	copying  chan struct{}
}

type copyCall struct {
	payload records.Record
	source  string
	isNew   bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{nextID: 41, copyErr: map[string]error{}, deleteErr: map[string]error{}}
}

func (f *fakeBackend) CreateRecord(_ context.Context, _ records.Game, p records.Record) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, p)
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	return f.nextID, nil
}

func (f *fakeBackend) UpdateRecord(_ context.Context, _ records.Game, p records.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, p)
	return f.updateErr
}

func (f *fakeBackend) CopyImage(_ context.Context, _ records.Game, p records.Record, src string, isNew bool) (string, error) {
	if f.copying != nil {
		f.copying <- struct{}{}
	}
	if f.copyGate != nil {
		<-f.copyGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.copies = append(f.copies, copyCall{payload: p, source: src, isNew: isNew})
	if err := f.copyErr[src]; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s#%d", src, len(p.Images)), nil
}

func (f *fakeBackend) DeleteImage(_ context.Context, _ records.Game, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return f.deleteErr[id]
}

func (f *fakeBackend) ListLanguages(context.Context) ([]string, error) {
	return []string{"English", "German"}, f.listErr
}

func (f *fakeBackend) ListConditions(context.Context) ([]string, error) {
	return []string{"Mint", "NearMint"}, nil
}

func (f *fakeBackend) ListSets(context.Context, records.Game) ([]records.SetRef, error) {
	return []records.SetRef{
		{ID: "base1", Name: "Base", ReleaseDate: "1999/01/09"},
		{ID: "base2", Name: "Jungle", ReleaseDate: "1999/06/16"},
	}, nil
}

var pokemonSchema = records.MustAttributeSchema(
	records.Attribute{Label: "Holo", Key: "holo"},
	records.Attribute{Label: "1st Edition", Key: "firstEdition"},
)

func newController(b *fakeBackend, coll *records.Collection) *Controller {
	return NewController(b, coll, records.GamePokemon, pokemonSchema)
}

func TestOpenCreate_Defaults(t *testing.T) {
	c := newController(newFakeBackend(), records.NewCollection(nil))
	require.NoError(t, c.OpenCreate(context.Background()))

	assert.Equal(t, StateActive, c.State())
	assert.Equal(t, ModeCreate, c.Mode())
	d := c.Draft()
	assert.Equal(t, int64(0), d.ID)
	assert.Equal(t, 1, d.Amount)
	assert.Equal(t, map[string]bool{"holo": false, "firstEdition": false}, d.Flags)
	assert.Empty(t, d.Images)
	assert.Equal(t, "English", d.Language)
	assert.Equal(t, "Mint", d.Condition)
	assert.Equal(t, "base1", d.Set.ID)

	assert.ErrorIs(t, c.OpenCreate(context.Background()), common.ErrFormOpen)
}

func TestOpen_ChoicesFailureKeepsFormClosed(t *testing.T) {
	b := newFakeBackend()
	b.listErr = errors.New("backend down")
	c := newController(b, records.NewCollection(nil))

	require.Error(t, c.OpenCreate(context.Background()))
	assert.Equal(t, StateClosed, c.State())
}

func TestOpenEdit_CopiesSelectedRecord(t *testing.T) {
	sel := records.Record{
		ID: 7, Name: "Charizard", Amount: 2, Signed: true,
		Set:    records.SetRef{ID: "base1", Name: "Base"},
		Flags:  map[string]bool{"holo": true, "stale": true},
		Images: []string{"A"},
	}
	coll := records.NewCollection([]records.Record{sel})
	c := newController(newFakeBackend(), coll)

	assert.ErrorIs(t, c.OpenEdit(context.Background()), common.ErrNoSelection)

	require.True(t, coll.Select(7))
	require.NoError(t, c.OpenEdit(context.Background()))

	d := c.Draft()
	assert.Equal(t, int64(7), d.ID)
	assert.Equal(t, "Charizard", d.Name)
	assert.True(t, d.Signed)
	assert.Equal(t, map[string]bool{"holo": true, "firstEdition": false}, d.Flags)
	assert.Equal(t, []string{"A"}, c.Staged())

	p, err := c.Payload()
	require.NoError(t, err)
	assert.NotContains(t, p.Flags, "stale")
}

func TestSetters_ValidateAgainstChoicesAndSchema(t *testing.T) {
	c := newController(newFakeBackend(), records.NewCollection(nil))
	assert.ErrorIs(t, c.SetName("x"), common.ErrFormClosed)

	require.NoError(t, c.OpenCreate(context.Background()))
	require.NoError(t, c.SetSet("base2"))
	require.NoError(t, c.SetLanguage("German"))
	require.NoError(t, c.SetCondition("NearMint"))
	require.NoError(t, c.SetFlag("firstEdition", true))
	require.NoError(t, c.SetSetNo("4"))
	require.NoError(t, c.SetNote("psa 9"))
	require.NoError(t, c.SetAltered(true))
	require.NoError(t, c.SetSigned(true))

	var ve *ValidationError
	require.ErrorAs(t, c.SetSet("xy1"), &ve)
	assert.Equal(t, records.FieldSet, ve.Field)
	assert.ErrorAs(t, c.SetLanguage("Klingon"), &ve)
	assert.ErrorAs(t, c.SetCondition("Mangled"), &ve)
	assert.ErrorIs(t, c.SetFlag("foil", true), records.ErrUnknownAttribute)

	d := c.Draft()
	assert.Equal(t, "Jungle", d.Set.Name)
	assert.Equal(t, "German", d.Language)
	assert.True(t, d.Flags["firstEdition"])
	assert.Equal(t, "4", d.SetNo)
}

func TestPayload_Validation(t *testing.T) {
	b := newFakeBackend()
	c := newController(b, records.NewCollection(nil))
	require.NoError(t, c.OpenCreate(context.Background()))

	var ve *ValidationError
	_, err := c.Submit(context.Background())
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, records.FieldName, ve.Field)

	require.NoError(t, c.SetName("Pikachu"))
	require.NoError(t, c.SetAmount(0))
	_, err = c.Submit(context.Background())
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, records.FieldAmount, ve.Field)

	assert.Empty(t, b.creates, "validation errors never reach the backend")
	assert.Equal(t, StateActive, c.State())
}

func TestAttachImages_RequiresName(t *testing.T) {
	b := newFakeBackend()
	c := newController(b, records.NewCollection(nil))
	require.NoError(t, c.OpenCreate(context.Background()))

	_, err := c.AttachImages(context.Background(), []string{"front.png"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, records.FieldName, ve.Field)
	assert.Empty(t, b.copies)
}

func TestAttachImages_SequentialInSelectionOrder(t *testing.T) {
	b := newFakeBackend()
	c := newController(b, records.NewCollection(nil))
	require.NoError(t, c.OpenCreate(context.Background()))
	require.NoError(t, c.SetName("Pikachu"))

	got, err := c.AttachImages(context.Background(), []string{"front.png", "back.png"})
	require.NoError(t, err)
	assert.Equal(t, []string{"front.png#0", "back.png#1"}, got)
	assert.Equal(t, got, c.Staged())

	require.Len(t, b.copies, 2)
	assert.True(t, b.copies[0].isNew)
	assert.Equal(t, []string{"front.png#0"}, b.copies[1].payload.Images)
}

func TestAttachImages_StopsAtFirstFailure(t *testing.T) {
	b := newFakeBackend()
	b.copyErr["bad.png"] = errors.New("unsupported")
	c := newController(b, records.NewCollection(nil))
	require.NoError(t, c.OpenCreate(context.Background()))
	require.NoError(t, c.SetName("Pikachu"))

	got, err := c.AttachImages(context.Background(), []string{"a.png", "bad.png", "c.png"})
	require.Error(t, err)
	assert.Equal(t, []string{"a.png#0"}, got)
	assert.Equal(t, []string{"a.png#0"}, c.Staged())
	assert.Len(t, b.copies, 2)
}

func TestDetachImage(t *testing.T) {
	b := newFakeBackend()
	c := newController(b, records.NewCollection(nil))
	require.NoError(t, c.OpenCreate(context.Background()))
	require.NoError(t, c.SetName("Pikachu"))
	_, err := c.AttachImages(context.Background(), []string{"a.png", "b.png"})
	require.NoError(t, err)

	b.deleteErr["a.png#0"] = errors.New("locked")
	require.Error(t, c.DetachImage(context.Background(), "a.png#0"))
	assert.Equal(t, []string{"a.png#0", "b.png#1"}, c.Staged())

	delete(b.deleteErr, "a.png#0")
	require.NoError(t, c.DetachImage(context.Background(), "a.png#0"))
	assert.Equal(t, []string{"b.png#1"}, c.Staged())
	assert.Equal(t, []string{"a.png#0", "a.png#0"}, b.deletes)

	assert.ErrorIs(t, c.DetachImage(context.Background(), "zzz"), ErrNotStaged)
}

func TestAbortCreate_DeletesEveryStagedImage(t *testing.T) {
	b := newFakeBackend()
	c := newController(b, records.NewCollection(nil))
	require.NoError(t, c.OpenCreate(context.Background()))
	require.NoError(t, c.SetName("Pikachu"))
	staged, err := c.AttachImages(context.Background(), []string{"A", "B"})
	require.NoError(t, err)

	require.NoError(t, c.RequestClose())
	assert.Equal(t, StateConfirmingAbort, c.State())
	require.NoError(t, c.ConfirmClose(context.Background(), true))

	assert.Equal(t, staged, b.deletes)
	assert.Empty(t, b.creates)
	assert.Empty(t, b.updates)
	assert.Equal(t, StateClosed, c.State())
}

func TestAbortEdit_DeletesOnlyImagesAddedInSession(t *testing.T) {
	b := newFakeBackend()
	coll := records.NewCollection([]records.Record{{ID: 7, Name: "Mew", Amount: 1, Images: []string{"A"}}})
	require.True(t, coll.Select(7))
	c := newController(b, coll)
	require.NoError(t, c.OpenEdit(context.Background()))

	added, err := c.AttachImages(context.Background(), []string{"B"})
	require.NoError(t, err)
	require.Equal(t, []string{"A", added[0]}, c.Staged())

	require.NoError(t, c.RequestClose())
	require.NoError(t, c.ConfirmClose(context.Background(), true))

	assert.Equal(t, added, b.deletes)
	assert.Empty(t, b.updates)
}

func TestConfirmClose_DeclineReturnsToUnchangedForm(t *testing.T) {
	b := newFakeBackend()
	c := newController(b, records.NewCollection(nil))
	require.NoError(t, c.OpenCreate(context.Background()))
	require.NoError(t, c.SetName("Eevee"))
	_, err := c.AttachImages(context.Background(), []string{"A"})
	require.NoError(t, err)
	before := c.Draft()

	require.NoError(t, c.RequestClose())
	assert.ErrorIs(t, c.SetName("other"), ErrNotActive)
	_, err = c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotActive)

	require.NoError(t, c.ConfirmClose(context.Background(), false))
	assert.Equal(t, StateActive, c.State())
	assert.Equal(t, before, c.Draft())
	assert.Empty(t, b.deletes)

	assert.ErrorIs(t, c.ConfirmClose(context.Background(), true), ErrNotConfirming)
}

func TestConfirmClose_ReportsFailedDeletesAndStillCloses(t *testing.T) {
	b := newFakeBackend()
	c := newController(b, records.NewCollection(nil))
	require.NoError(t, c.OpenCreate(context.Background()))
	require.NoError(t, c.SetName("Eevee"))
	staged, err := c.AttachImages(context.Background(), []string{"A", "B"})
	require.NoError(t, err)
	boom := errors.New("permission denied")
	b.deleteErr[staged[0]] = boom

	require.NoError(t, c.RequestClose())
	err = c.ConfirmClose(context.Background(), true)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateClosed, c.State())
	assert.Len(t, b.deletes, 2)
}

func TestSubmitCreate_AppendsWithReturnedID(t *testing.T) {
	b := newFakeBackend()
	coll := records.NewCollection([]records.Record{{ID: 1, Name: "Bulbasaur", Amount: 1}})
	before := coll.Records()
	c := newController(b, coll)
	require.NoError(t, c.OpenCreate(context.Background()))
	require.NoError(t, c.SetName("Pikachu"))
	require.NoError(t, c.SetFlag("holo", true))

	saved, err := c.Submit(context.Background())
	require.NoError(t, err)

	require.Len(t, b.creates, 1)
	assert.Equal(t, int64(0), b.creates[0].ID)
	assert.Empty(t, b.updates)
	assert.Equal(t, int64(42), saved.ID)

	after := coll.Records()
	require.Len(t, after, 2)
	assert.Len(t, before, 1, "previous sequence untouched")
	assert.Equal(t, int64(42), after[1].ID)
	assert.True(t, after[1].Flags["holo"])
	assert.Equal(t, uint64(1), coll.Version())
	assert.Equal(t, StateClosed, c.State())
}

func TestSubmitCreate_FailureKeepsDraftOpen(t *testing.T) {
	b := newFakeBackend()
	b.createErr = errors.New("disk full")
	coll := records.NewCollection(nil)
	c := newController(b, coll)
	require.NoError(t, c.OpenCreate(context.Background()))
	require.NoError(t, c.SetName("Pikachu"))

	_, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateActive, c.State())
	assert.Equal(t, "Pikachu", c.Draft().Name)
	assert.Equal(t, uint64(0), coll.Version())
	assert.Empty(t, coll.Records())
}

func TestSubmitEdit_ReplacesByIDAndReselects(t *testing.T) {
	b := newFakeBackend()
	coll := records.NewCollection([]records.Record{
		{ID: 3, Name: "Squirtle", Amount: 1},
		{ID: 7, Name: "Mew", Amount: 1, Images: []string{"A"}},
		{ID: 9, Name: "Onix", Amount: 1},
	})
	require.True(t, coll.Select(7))
	before := coll.Records()
	c := newController(b, coll)
	require.NoError(t, c.OpenEdit(context.Background()))
	require.NoError(t, c.SetAmount(3))

	_, err := c.Submit(context.Background())
	require.NoError(t, err)

	require.Len(t, b.updates, 1)
	assert.Equal(t, int64(7), b.updates[0].ID)
	assert.Empty(t, b.creates)

	after := coll.Records()
	assert.Equal(t, 3, after[1].Amount)
	assert.Equal(t, before[0], after[0])
	assert.Equal(t, before[2], after[2])
	assert.Equal(t, 1, before[1].Amount, "previous sequence untouched")

	sel, ok := coll.Selected()
	require.True(t, ok)
	assert.Equal(t, 3, sel.Amount)
}

func TestSubmitEdit_RecordGoneFromCollectionIsAppended(t *testing.T) {
	b := newFakeBackend()
	coll := records.NewCollection([]records.Record{
		{ID: 3, Name: "Squirtle", Amount: 1},
		{ID: 7, Name: "Mew", Amount: 1},
	})
	require.True(t, coll.Select(7))
	c := newController(b, coll)
	require.NoError(t, c.OpenEdit(context.Background()))
	require.NoError(t, c.SetAmount(2))
	require.True(t, coll.RemoveByID(7))

	_, err := c.Submit(context.Background())
	require.NoError(t, err)

	after := coll.Records()
	require.Len(t, after, 2)
	assert.Equal(t, int64(7), after[1].ID)
	assert.Equal(t, 2, after[1].Amount)
	sel, ok := coll.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(7), sel.ID)
}

func TestSubmitEdit_FailureKeepsDraftOpen(t *testing.T) {
	b := newFakeBackend()
	b.updateErr = errors.New("conflict")
	coll := records.NewCollection([]records.Record{{ID: 7, Name: "Mew", Amount: 1}})
	require.True(t, coll.Select(7))
	c := newController(b, coll)
	require.NoError(t, c.OpenEdit(context.Background()))

	_, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateActive, c.State())
	assert.Equal(t, uint64(0), coll.Version())
}

func TestAttachImages_CopyOutlivingSessionIsDeleted(t *testing.T) {
	b := newFakeBackend()
	b.copyGate = make(chan struct{})
	b.copying = make(chan struct{}, 1)
	c := newController(b, records.NewCollection(nil))
	require.NoError(t, c.OpenCreate(context.Background()))
	require.NoError(t, c.SetName("Mewtwo"))

	done := make(chan error, 1)
	go func() {
		_, err := c.AttachImages(context.Background(), []string{"late.png"})
		done <- err
	}()

	select {
	case <-b.copying:
	case <-time.After(time.Second):
		t.Fatal("copy did not start")
	}
	require.NoError(t, c.RequestClose())
	require.NoError(t, c.ConfirmClose(context.Background(), true))
	close(b.copyGate)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, common.ErrFormClosed)
	case <-time.After(time.Second):
		t.Fatal("attach did not return")
	}
	assert.Equal(t, []string{"late.png#0"}, b.deletes)
	assert.Equal(t, StateClosed, c.State())
}
