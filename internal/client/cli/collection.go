package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/form"
	"github.com/dmitrijs2005/cardkeeper/internal/records"
)

var errUsage = errors.New("wrong arguments, see help")

func (a *App) formOpen() bool {
	return a.form.State() != form.StateClosed
}

func (a *App) cmdGame(ctx context.Context, args []string) error {
	if len(args) == 0 {
		names := make([]string, 0, len(records.Games()))
		for _, g := range records.Games() {
			names = append(names, string(g))
		}
		a.printf("Active game: %s (available: %s)\n", a.binding.Game.Title(), strings.Join(names, ", "))
		return nil
	}
	g, err := records.ParseGame(args[0])
	if err != nil {
		return err
	}
	if a.formOpen() {
		return fmt.Errorf("close the form first: %w", common.ErrFormOpen)
	}
	if err := a.SwitchGame(ctx, g); err != nil {
		return err
	}
	a.printf("Switched to %s, %d records\n", g.Title(), a.collection.Len())
	return nil
}

func (a *App) cmdList(context.Context, []string) error {
	all := a.collection.Records()
	rows := a.view.Rows(all)
	sel, hasSel := a.collection.Selected()
	if err := renderTable(a.out, a.view.Fields(), rows, sel.ID, hasSel, a.width); err != nil {
		return err
	}
	a.printf("%d of %d records\n", len(rows), len(all))
	return nil
}

func (a *App) cmdFilter(ctx context.Context, args []string) error {
	a.view.SetFilter(strings.Join(args, " "))
	return a.cmdList(ctx, nil)
}

func (a *App) cmdSort(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	label := strings.Join(args, " ")
	asc, err := a.view.SortBy(label, a.collection.Records())
	if err != nil {
		return err
	}
	dir := "descending"
	if asc {
		dir = "ascending"
	}
	a.printf("Sorted by %s, %s\n", label, dir)
	return a.cmdList(ctx, nil)
}

func (a *App) cmdSelect(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s", common.ErrInvalidID, args[0])
	}
	if !a.collection.Select(id) {
		return fmt.Errorf("record %d: %w", id, common.ErrNotFound)
	}
	a.viewer.Close()
	return a.cmdShow(ctx, nil)
}

func (a *App) cmdShow(ctx context.Context, _ []string) error {
	sel, ok := a.collection.Selected()
	if !ok {
		return common.ErrNoSelection
	}
	renderPanel(a.out, a.panel.Render(ctx, sel, true))
	return nil
}

func (a *App) cmdDelete(ctx context.Context, _ []string) error {
	sel, ok := a.collection.Selected()
	if !ok {
		return common.ErrNoSelection
	}
	if a.formOpen() {
		return fmt.Errorf("close the form first: %w", common.ErrFormOpen)
	}
	yes, err := Confirm(a.in, fmt.Sprintf("Delete %q and its %d images?", sel.Name, len(sel.Images)), a.out)
	if err != nil || !yes {
		return err
	}
	if err := a.backend.DeleteRecord(ctx, a.binding.Game, sel.ID); err != nil {
		return err
	}
	a.collection.RemoveByID(sel.ID)
	a.viewer.Close()
	a.printf("Deleted %q\n", sel.Name)
	return nil
}
