package form

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/logging"
	"github.com/dmitrijs2005/cardkeeper/internal/records"
)

// Backend is the part of the catalogue service the form uses.
type Backend interface {
	CreateRecord(ctx context.Context, game records.Game, payload records.Record) (int64, error)
	UpdateRecord(ctx context.Context, game records.Game, payload records.Record) error
	CopyImage(ctx context.Context, game records.Game, payload records.Record, sourcePath string, isNew bool) (string, error)
	DeleteImage(ctx context.Context, game records.Game, imageID string) error
	ListLanguages(ctx context.Context) ([]string, error)
	ListConditions(ctx context.Context) ([]string, error)
	ListSets(ctx context.Context, game records.Game) ([]records.SetRef, error)
}

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

type State int

const (
	StateClosed State = iota
	StateActive
	StateConfirmingAbort
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateConfirmingAbort:
		return "confirming abort"
	default:
		return "closed"
	}
}

var (
	ErrNotActive     = errors.New("form is waiting for abort confirmation")
	ErrNotConfirming = errors.New("no abort is awaiting confirmation")
	ErrNotStaged     = errors.New("image is not attached to the draft")
)

// Choices are the selectable values loaded when the form opens.
type Choices struct {
	Languages  []string
	Conditions []string
	Sets       []records.SetRef
}

type Controller struct {
	backend    Backend
	collection *records.Collection
	game       records.Game
	schema     records.AttributeSchema
	log        logging.Logger

	mu       sync.Mutex
	state    State
	mode     Mode
	draft    records.Record
	original []string
	choices  Choices
	// session changes whenever the form closes, so results of calls that
	// outlive their session can be recognised.
	session uint64
}

type Option func(*Controller)

func WithLogger(l logging.Logger) Option {
	return func(c *Controller) { c.log = l }
}

func NewController(b Backend, coll *records.Collection, game records.Game, schema records.AttributeSchema, opts ...Option) *Controller {
	c := &Controller{
		backend:    b,
		collection: coll,
		game:       game,
		schema:     schema,
		log:        logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	c.log = logging.Scoped(c.log, "form", string(game))
	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Controller) Game() records.Game {
	return c.game
}

func (c *Controller) Schema() records.AttributeSchema {
	return c.schema
}

// Draft returns a copy of the record being edited.
func (c *Controller) Draft() records.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// Staged returns the staged image identifiers in display order.
func (c *Controller) Staged() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.draft.Images)
}

func (c *Controller) Choices() Choices {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.choices
}

func (c *Controller) loadChoices(ctx context.Context) (Choices, error) {
	langs, err := c.backend.ListLanguages(ctx)
	if err != nil {
		return Choices{}, err
	}
	conds, err := c.backend.ListConditions(ctx)
	if err != nil {
		return Choices{}, err
	}
	sets, err := c.backend.ListSets(ctx, c.game)
	if err != nil {
		return Choices{}, err
	}
	return Choices{Languages: langs, Conditions: conds, Sets: sets}, nil
}

// OpenCreate opens an empty draft: amount 1, every flag false, no images,
// and the first language, condition and set preselected.
func (c *Controller) OpenCreate(ctx context.Context) error {
	if c.State() != StateClosed {
		return common.ErrFormOpen
	}
	choices, err := c.loadChoices(ctx)
	if err != nil {
		return err
	}

	draft := records.Record{Amount: 1, Images: []string{}}
	draft.Flags = c.schema.Project(draft)
	if len(choices.Languages) > 0 {
		draft.Language = choices.Languages[0]
	}
	if len(choices.Conditions) > 0 {
		draft.Condition = choices.Conditions[0]
	}
	if len(choices.Sets) > 0 {
		draft.Set = choices.Sets[0]
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateClosed {
		return common.ErrFormOpen
	}
	c.open(ModeCreate, draft, nil, choices)
	c.log.Debug(ctx, "form opened", "mode", ModeCreate)
	return nil
}

// OpenEdit opens a draft copied from the selected record, including every
// flag the schema declares.
func (c *Controller) OpenEdit(ctx context.Context) error {
	if c.State() != StateClosed {
		return common.ErrFormOpen
	}
	sel, ok := c.collection.Selected()
	if !ok {
		return common.ErrNoSelection
	}
	choices, err := c.loadChoices(ctx)
	if err != nil {
		return err
	}

	draft := sel.Clone()
	draft.Flags = c.schema.Project(sel)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateClosed {
		return common.ErrFormOpen
	}
	c.open(ModeEdit, draft, slices.Clone(sel.Images), choices)
	c.log.Debug(ctx, "form opened", "mode", ModeEdit, "id", sel.ID)
	return nil
}

func (c *Controller) open(mode Mode, draft records.Record, original []string, choices Choices) {
	c.state = StateActive
	c.mode = mode
	c.draft = draft
	c.original = original
	c.choices = choices
}

// closeLocked ends the session. Callers hold mu.
func (c *Controller) closeLocked() {
	c.state = StateClosed
	c.draft = records.Record{}
	c.original = nil
	c.choices = Choices{}
	c.session++
}

// edit applies fn to the draft while the form is active.
func (c *Controller) edit(fn func(d *records.Record) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateClosed:
		return common.ErrFormClosed
	case StateConfirmingAbort:
		return ErrNotActive
	}
	return fn(&c.draft)
}

func (c *Controller) SetName(name string) error {
	return c.edit(func(d *records.Record) error { d.Name = name; return nil })
}

func (c *Controller) SetSetNo(no string) error {
	return c.edit(func(d *records.Record) error { d.SetNo = no; return nil })
}

func (c *Controller) SetNote(note string) error {
	return c.edit(func(d *records.Record) error { d.Note = note; return nil })
}

func (c *Controller) SetAmount(n int) error {
	return c.edit(func(d *records.Record) error { d.Amount = n; return nil })
}

func (c *Controller) SetSigned(v bool) error {
	return c.edit(func(d *records.Record) error { d.Signed = v; return nil })
}

func (c *Controller) SetAltered(v bool) error {
	return c.edit(func(d *records.Record) error { d.Altered = v; return nil })
}

// SetSet selects a set of the loaded catalogue by id.
func (c *Controller) SetSet(id string) error {
	return c.edit(func(d *records.Record) error {
		s, ok := records.SetByID(c.choices.Sets, id)
		if !ok {
			return &ValidationError{Field: records.FieldSet, Reason: fmt.Sprintf("unknown set %q", id)}
		}
		d.Set = s
		return nil
	})
}

func (c *Controller) SetLanguage(lang string) error {
	return c.edit(func(d *records.Record) error {
		if !slices.Contains(c.choices.Languages, lang) {
			return &ValidationError{Field: records.FieldLanguage, Reason: fmt.Sprintf("unknown language %q", lang)}
		}
		d.Language = lang
		return nil
	})
}

func (c *Controller) SetCondition(cond string) error {
	return c.edit(func(d *records.Record) error {
		if !slices.Contains(c.choices.Conditions, cond) {
			return &ValidationError{Field: records.FieldCondition, Reason: fmt.Sprintf("unknown condition %q", cond)}
		}
		d.Condition = cond
		return nil
	})
}

// SetFlag sets a flag declared by the game's schema.
func (c *Controller) SetFlag(key string, v bool) error {
	return c.edit(func(d *records.Record) error {
		return c.schema.SetValue(d, key, v)
	})
}

// Payload validates the draft and assembles the record to submit: the fixed
// fields plus exactly the flags the schema declares.
func (c *Controller) Payload() (records.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosed {
		return records.Record{}, common.ErrFormClosed
	}
	return c.payloadLocked()
}

func (c *Controller) payloadLocked() (records.Record, error) {
	d := c.draft
	if d.Name == "" {
		return records.Record{}, &ValidationError{Field: records.FieldName, Reason: "must not be empty"}
	}
	if d.Amount <= 0 {
		return records.Record{}, &ValidationError{Field: records.FieldAmount, Reason: "must be positive"}
	}
	p := d.Clone()
	p.Flags = c.schema.Project(d)
	return p, nil
}

// AttachImages copies the source images one after another, in the given
// order, and stages each returned identifier. The draft needs a name first.
// On failure the images copied so far stay staged.
//
// The form lock is released while a copy runs. A copy that returns after
// its session was closed is deleted again and ErrFormClosed is returned.
func (c *Controller) AttachImages(ctx context.Context, paths []string) ([]string, error) {
	c.mu.Lock()
	if err := c.activeLocked(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if c.draft.Name == "" {
		c.mu.Unlock()
		return nil, &ValidationError{Field: records.FieldName, Reason: "required before attaching images"}
	}
	session := c.session
	c.mu.Unlock()

	var attached []string
	for _, p := range paths {
		c.mu.Lock()
		if c.session != session {
			c.mu.Unlock()
			return attached, common.ErrFormClosed
		}
		payload := c.draft.Clone()
		isNew := c.mode == ModeCreate
		c.mu.Unlock()

		id, err := c.backend.CopyImage(ctx, c.game, payload, p, isNew)
		if err != nil {
			c.log.Warn(ctx, "image copy failed", "source", p, "err", err)
			return attached, err
		}

		c.mu.Lock()
		if c.session != session {
			c.mu.Unlock()
			c.log.Info(ctx, "form closed during image copy, removing copy", "image", id)
			if derr := c.backend.DeleteImage(ctx, c.game, id); derr != nil {
				c.log.Error(ctx, "failed to remove superseded image", "image", id, "err", derr)
				return attached, errors.Join(common.ErrFormClosed, derr)
			}
			return attached, common.ErrFormClosed
		}
		c.draft.Images = append(c.draft.Images, id)
		c.mu.Unlock()
		attached = append(attached, id)
	}
	return attached, nil
}

func (c *Controller) activeLocked() error {
	switch c.state {
	case StateClosed:
		return common.ErrFormClosed
	case StateConfirmingAbort:
		return ErrNotActive
	}
	return nil
}

// DetachImage deletes a staged image from storage and then unstages it.
// A failed delete leaves it staged.
func (c *Controller) DetachImage(ctx context.Context, imageID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.activeLocked(); err != nil {
		return err
	}
	i := slices.Index(c.draft.Images, imageID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotStaged, imageID)
	}
	if err := c.backend.DeleteImage(ctx, c.game, imageID); err != nil {
		return err
	}
	c.draft.Images = slices.Delete(slices.Clone(c.draft.Images), i, i+1)
	return nil
}

// Submit persists the draft. A create appends the new record to the
// collection; an edit replaces the record with the same id and reselects it.
// On any failure the form stays open with the draft untouched.
func (c *Controller) Submit(ctx context.Context) (records.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.activeLocked(); err != nil {
		return records.Record{}, err
	}
	payload, err := c.payloadLocked()
	if err != nil {
		return records.Record{}, err
	}

	switch c.mode {
	case ModeCreate:
		payload.ID = 0
		id, err := c.backend.CreateRecord(ctx, c.game, payload)
		if err != nil {
			c.log.Warn(ctx, "create failed", "err", err)
			return records.Record{}, err
		}
		payload.ID = id
		c.collection.Append(payload)
	case ModeEdit:
		if err := c.backend.UpdateRecord(ctx, c.game, payload); err != nil {
			c.log.Warn(ctx, "update failed", "id", payload.ID, "err", err)
			return records.Record{}, err
		}
		if !c.collection.ReplaceByID(payload) {
			// The record left the collection while the form was open.
			c.log.Warn(ctx, "edited record not in collection, appending", "id", payload.ID)
			c.collection.Append(payload)
		}
		c.collection.SetSelected(payload)
	}

	c.log.Info(ctx, "entry saved", "mode", c.mode, "id", payload.ID)
	c.closeLocked()
	return payload, nil
}

// RequestClose asks to abort the form; ConfirmClose settles the request.
func (c *Controller) RequestClose() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.activeLocked(); err != nil {
		return err
	}
	c.state = StateConfirmingAbort
	return nil
}

// ConfirmClose either returns to the unchanged form or aborts it. Aborting
// a create deletes every staged image; aborting an edit deletes the staged
// images the record did not have when the form opened. The form closes even
// if some deletions fail; their errors are returned joined.
func (c *Controller) ConfirmClose(ctx context.Context, confirmed bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateConfirmingAbort {
		return ErrNotConfirming
	}
	if !confirmed {
		c.state = StateActive
		return nil
	}

	var orphans []string
	for _, img := range c.draft.Images {
		if c.mode == ModeEdit && slices.Contains(c.original, img) {
			continue
		}
		orphans = append(orphans, img)
	}

	var errs []error
	for _, img := range orphans {
		if err := c.backend.DeleteImage(ctx, c.game, img); err != nil {
			c.log.Error(ctx, "failed to delete staged image", "image", img, "err", err)
			errs = append(errs, err)
		}
	}
	c.log.Info(ctx, "form aborted", "mode", c.mode, "deleted", len(orphans)-len(errs))
	c.closeLocked()
	return errors.Join(errs...)
}
