package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/dmitrijs2005/cardkeeper/internal/backend"
	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/imagecache"
)

const imageReadTimeout = 30 * time.Second

// imageList returns the images the viewer opens: the form's while it is
// open, the selected record's otherwise.
func (a *App) imageList() ([]string, error) {
	if a.formOpen() {
		return a.form.Staged(), nil
	}
	sel, ok := a.collection.Selected()
	if !ok {
		return nil, common.ErrNoSelection
	}
	return sel.Images, nil
}

func (a *App) cmdImage(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return errUsage
	}
	list, err := a.imageList()
	if err != nil {
		return err
	}
	res, err := a.viewer.Open(a.binding.Game, list, n-1)
	if err != nil {
		return err
	}
	return a.showImage(ctx, res)
}

func (a *App) cmdNext(ctx context.Context, _ []string) error {
	res, ok := a.viewer.Next()
	if !ok {
		a.println("No next image")
		return nil
	}
	return a.showImage(ctx, res)
}

func (a *App) cmdPrev(ctx context.Context, _ []string) error {
	res, ok := a.viewer.Prev()
	if !ok {
		a.println("No previous image")
		return nil
	}
	return a.showImage(ctx, res)
}

func (a *App) showImage(ctx context.Context, res *imagecache.Resource[backend.ImageData]) error {
	idx, total := a.viewer.Index()
	if res.State() == imagecache.StatePending {
		a.printf("Loading image %d/%d...\n", idx+1, total)
	}

	ctx, cancel := context.WithTimeout(ctx, imageReadTimeout)
	defer cancel()
	img, err := res.Read(ctx)
	if err != nil {
		return err
	}
	a.printf("Image %d/%d: %s (%s, %d bytes)\n", idx+1, total, img.ID, img.MIME, len(img.Bytes))
	a.println(truncate(img.DataURL(), a.width))
	return nil
}

