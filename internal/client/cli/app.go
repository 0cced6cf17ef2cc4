package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/cardkeeper/internal/backend"
	"github.com/dmitrijs2005/cardkeeper/internal/config"
	"github.com/dmitrijs2005/cardkeeper/internal/form"
	"github.com/dmitrijs2005/cardkeeper/internal/games"
	"github.com/dmitrijs2005/cardkeeper/internal/imagecache"
	"github.com/dmitrijs2005/cardkeeper/internal/logging"
	"github.com/dmitrijs2005/cardkeeper/internal/panel"
	"github.com/dmitrijs2005/cardkeeper/internal/records"
	"github.com/dmitrijs2005/cardkeeper/internal/table"
)

// Backend is the catalogue service as seen by the client.
type Backend interface {
	form.Backend
	FetchCollection(ctx context.Context, game records.Game) ([]records.Record, error)
	DeleteRecord(ctx context.Context, game records.Game, id int64) error
	FetchImageBytes(ctx context.Context, game records.Game, imageID string) (backend.ImageData, error)
	UpdateSets(ctx context.Context, game records.Game) ([]records.SetRef, error)
}

const discardTimeout = 10 * time.Second

type App struct {
	cfg      *config.Config
	cfgPath  string
	backend  Backend
	previews panel.PreviewLookup
	log      logging.Logger

	in    *bufio.Reader
	out   io.Writer
	width int

	binding    games.Binding
	collection *records.Collection
	view       *table.View[records.Record]
	form       *form.Controller
	panel      *panel.Panel

	images *imagecache.Cache[backend.ImageData]
	viewer *panel.Viewer[backend.ImageData]
}

type Option func(*App)

func WithLogger(l logging.Logger) Option {
	return func(a *App) { a.log = l }
}

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *App) {
		a.in = bufio.NewReader(in)
		a.out = out
	}
}

// WithSettingsFile names the file the settings command saves to.
func WithSettingsFile(path string) Option {
	return func(a *App) { a.cfgPath = path }
}

func NewApp(cfg *config.Config, b Backend, previews panel.PreviewLookup, opts ...Option) *App {
	a := &App{
		cfg:      cfg,
		backend:  b,
		previews: previews,
		log:      logging.Nop(),
	}
	WithIO(stdin, stdout)(a)
	for _, o := range opts {
		o(a)
	}
	a.width = terminalWidth(a.out)
	a.images = imagecache.New(b.FetchImageBytes, imagecache.WithLogger(a.log))
	a.viewer = panel.NewViewer(a.images)
	return a
}

// SwitchGame makes game the active one: the selection is cleared, the
// collection is fetched again and the table starts unsorted and unfiltered.
// An open form is discarded without touching its staged images, so callers
// close it first.
func (a *App) SwitchGame(ctx context.Context, game records.Game) error {
	b, err := games.For(game)
	if err != nil {
		return err
	}
	rs, err := a.backend.FetchCollection(ctx, game)
	if err != nil {
		return err
	}

	a.binding = b
	a.collection = records.NewCollection(b.Normalize(rs))
	a.view = table.NewView[records.Record](b.Fields)
	a.form = form.NewController(a.backend, a.collection, game, b.Schema, form.WithLogger(a.log))
	a.panel = panel.New(b, a.previews, panel.WithLogger(a.log))
	a.viewer.Close()

	a.log.Info(ctx, "game selected", "game", game, "records", a.collection.Len())
	return nil
}

// reload fetches the collection of the active game again, keeping the
// table state.
func (a *App) reload(ctx context.Context) error {
	rs, err := a.backend.FetchCollection(ctx, a.binding.Game)
	if err != nil {
		return err
	}
	a.collection.ClearSelection()
	a.collection.Replace(a.binding.Normalize(rs))
	return nil
}

func (a *App) Game() records.Game {
	return a.binding.Game
}

// Run switches to the configured game and serves commands until the input
// ends, the user exits or ctx is cancelled. A form still open at that point
// is aborted with the usual image cleanup.
func (a *App) Run(ctx context.Context) error {
	defer a.images.Close()

	if err := a.SwitchGame(ctx, a.cfg.DefaultGame); err != nil {
		return fmt.Errorf("failed to load %s collection: %w", a.cfg.DefaultGame, err)
	}
	a.println("cardkeeper (type 'help' for commands)")
	runREPL(ctx, a)
	return a.discardForm(ctx)
}

// discardForm aborts an open form without asking. It runs on a context
// detached from ctx so cleanup still happens after an interrupt.
func (a *App) discardForm(ctx context.Context) error {
	if a.form == nil || a.form.State() == form.StateClosed {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), discardTimeout)
	defer cancel()

	if a.form.State() == form.StateActive {
		if err := a.form.RequestClose(); err != nil {
			return fmt.Errorf("failed to discard the open form: %w", err)
		}
	}
	if err := a.form.ConfirmClose(ctx, true); err != nil {
		return fmt.Errorf("failed to delete the images of the open form: %w", err)
	}
	a.println("Open form discarded")
	return nil
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// notify reports a failed command to the user.
func (a *App) notify(ctx context.Context, cmd string, err error) {
	a.log.Warn(ctx, "command failed", "command", cmd, "err", err)
	a.println("Error:", err)
}

func (a *App) prompt() string {
	p := "cardkeeper (" + a.binding.Game.Title() + ")"
	if a.form != nil && a.form.State() != form.StateClosed {
		p += " [" + a.form.Mode().String() + "]"
	}
	return p + "> "
}
