package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/cardkeeper/internal/common"
)

func (a *App) showDraft() {
	renderDraft(a.out, a.form.Schema(), a.form.Draft(), a.form.Staged())
}

func (a *App) cmdAdd(ctx context.Context, _ []string) error {
	if err := a.form.OpenCreate(ctx); err != nil {
		return err
	}
	a.showDraft()
	return nil
}

func (a *App) cmdEdit(ctx context.Context, _ []string) error {
	if err := a.form.OpenEdit(ctx); err != nil {
		return err
	}
	a.showDraft()
	return nil
}

func (a *App) cmdDraft(context.Context, []string) error {
	if !a.formOpen() {
		return common.ErrFormClosed
	}
	a.showDraft()
	return nil
}

func (a *App) cmdChoices(context.Context, []string) error {
	if !a.formOpen() {
		return common.ErrFormClosed
	}
	c := a.form.Choices()
	a.println("Languages: ", strings.Join(c.Languages, ", "))
	a.println("Conditions:", strings.Join(c.Conditions, ", "))
	a.printf("Sets: %d, use setfind to search\n", len(c.Sets))
	return nil
}

func (a *App) cmdSet(_ context.Context, args []string) error {
	if len(args) < 1 {
		return errUsage
	}
	field, value := strings.ToLower(args[0]), strings.Join(args[1:], " ")

	switch field {
	case "name":
		return a.form.SetName(value)
	case "setno":
		return a.form.SetSetNo(value)
	case "note":
		return a.form.SetNote(value)
	case "set":
		return a.form.SetSet(value)
	case "language":
		return a.form.SetLanguage(value)
	case "condition":
		return a.form.SetCondition(value)
	case "amount":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("amount: %q is not a number", value)
		}
		return a.form.SetAmount(n)
	case "signed", "altered":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %q is not true or false", field, value)
		}
		if field == "signed" {
			return a.form.SetSigned(v)
		}
		return a.form.SetAltered(v)
	}
	return fmt.Errorf("unknown field %q", field)
}

func (a *App) cmdFlag(_ context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	v, err := strconv.ParseBool(args[1])
	if err != nil {
		return fmt.Errorf("%s: %q is not true or false", args[0], args[1])
	}
	return a.form.SetFlag(args[0], v)
}

func (a *App) cmdAttach(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	ids, err := a.form.AttachImages(ctx, args)
	for _, id := range ids {
		a.println("Attached", id)
	}
	return err
}

func (a *App) cmdDetach(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	id := args[0]
	if n, err := strconv.Atoi(id); err == nil {
		staged := a.form.Staged()
		if n < 1 || n > len(staged) {
			return fmt.Errorf("no image %d", n)
		}
		id = staged[n-1]
	}
	if err := a.form.DetachImage(ctx, id); err != nil {
		return err
	}
	a.println("Deleted", id)
	return nil
}

func (a *App) cmdSubmit(ctx context.Context, _ []string) error {
	rec, err := a.form.Submit(ctx)
	if err != nil {
		return err
	}
	a.viewer.Close()
	a.printf("Saved %q as #%d\n", rec.Name, rec.ID)
	return nil
}

func (a *App) cmdClose(ctx context.Context, _ []string) error {
	if err := a.form.RequestClose(); err != nil {
		return err
	}
	yes, err := Confirm(a.in, "Discard changes? Attached images will be deleted.", a.out)
	if err != nil {
		yes = false
	}
	if err := a.form.ConfirmClose(ctx, yes); err != nil {
		return err
	}
	if yes {
		a.viewer.Close()
		a.println("Form closed")
	} else {
		a.println("Back to the form")
	}
	return nil
}
