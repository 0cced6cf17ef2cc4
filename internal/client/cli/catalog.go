package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/records"
)

const maxSetMatches = 10

func (a *App) cmdSets(ctx context.Context, args []string) error {
	var (
		sets []records.SetRef
		err  error
	)
	switch {
	case len(args) == 0:
		sets, err = a.backend.ListSets(ctx, a.binding.Game)
	case len(args) == 1 && args[0] == "update":
		sets, err = a.backend.UpdateSets(ctx, a.binding.Game)
		if err == nil {
			a.printf("%d %s sets downloaded\n", len(sets), a.binding.Game.Title())
			return nil
		}
	default:
		return errUsage
	}
	if err != nil {
		return err
	}
	a.printSets(sets)
	return nil
}

func (a *App) printSets(sets []records.SetRef) {
	for _, s := range sets {
		a.printf("  %-8s %-10s %s\n", s.ID, s.ReleaseDate, s.Name)
	}
}

func (a *App) cmdSetFind(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	sets, err := a.backend.ListSets(ctx, a.binding.Game)
	if err != nil {
		return err
	}
	found := records.FindSets(sets, strings.Join(args, " "))
	if len(found) == 0 {
		a.println("No matching sets")
		return nil
	}
	if len(found) > maxSetMatches {
		found = found[:maxSetMatches]
	}
	a.printSets(found)
	return nil
}

func (a *App) cmdSettings(_ context.Context, args []string) error {
	if len(args) == 0 {
		a.printf("Data directory: %s\n", a.cfg.DataDir)
		a.printf("Default game:   %s\n", a.cfg.DefaultGame)
		a.printf("Image store:    %s\n", a.cfg.ImageStore)
		if a.cfgPath != "" {
			a.printf("Settings file:  %s\n", a.cfgPath)
		}
		return nil
	}
	if len(args) < 2 {
		return errUsage
	}

	next := *a.cfg
	switch args[0] {
	case "datadir":
		next.DataDir = strings.Join(args[1:], " ")
	case "game":
		next.DefaultGame = records.Game(args[1])
	default:
		return fmt.Errorf("unknown setting %q", args[0])
	}
	if err := next.Validate(); err != nil {
		return err
	}
	if a.cfgPath == "" {
		return errors.New("no settings file configured")
	}
	if err := next.Save(a.cfgPath); err != nil {
		return err
	}
	*a.cfg = next
	a.println("Settings saved, restart to apply the data directory")
	return nil
}

// cmdImport creates a record for every card of a previous collection file
// and reloads the collection. Images are expected in the current image
// store under their old names.
func (a *App) cmdImport(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if a.formOpen() {
		return fmt.Errorf("close the form first: %w", common.ErrFormOpen)
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	recs, err := a.binding.DecodeLegacy(f)
	if err != nil {
		return err
	}

	var created int
	var importErr error
	for _, r := range recs {
		if _, err := a.backend.CreateRecord(ctx, a.binding.Game, r); err != nil {
			importErr = fmt.Errorf("import stopped at %q: %w", r.Name, err)
			break
		}
		created++
	}
	a.printf("Imported %d of %d records\n", created, len(recs))
	if err := a.reload(ctx); err != nil {
		return errors.Join(importErr, err)
	}
	return importErr
}
