package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"slices"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/cardkeeper/internal/backend/images"
	recrepo "github.com/dmitrijs2005/cardkeeper/internal/backend/repositories/records"
	setrepo "github.com/dmitrijs2005/cardkeeper/internal/backend/repositories/sets"
	"github.com/dmitrijs2005/cardkeeper/internal/backend/setsource"
	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/filex"
	"github.com/dmitrijs2005/cardkeeper/internal/logging"
	"github.com/dmitrijs2005/cardkeeper/internal/records"
)

// SourceFunc resolves the remote set catalogue of a game.
type SourceFunc func(game records.Game) (setsource.Source, error)

type Service struct {
	records recrepo.Repository
	sets    setrepo.Repository
	images  images.Store
	sources SourceFunc
	log     logging.Logger

	refresh singleflight.Group

	// readFile is replaced in tests.
	readFile func(name string) ([]byte, error)
}

type Option func(*Service)

func WithLogger(l logging.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithSetSources(f SourceFunc) Option {
	return func(s *Service) { s.sources = f }
}

// WithHTTPClient makes the default set sources use client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.sources = func(game records.Game) (setsource.Source, error) {
			return setsource.ForGame(game, client)
		}
	}
}

func NewService(recs recrepo.Repository, sets setrepo.Repository, store images.Store, opts ...Option) *Service {
	s := &Service{
		records:  recs,
		sets:     sets,
		images:   store,
		log:      logging.Nop(),
		readFile: os.ReadFile,
	}
	WithHTTPClient(http.DefaultClient)(s)
	for _, o := range opts {
		o(s)
	}
	return s
}

func checkGame(game records.Game) error {
	_, err := records.ParseGame(string(game))
	return err
}

// FetchCollection returns every record of the game ordered by id.
func (s *Service) FetchCollection(ctx context.Context, game records.Game) ([]records.Record, error) {
	const op = "fetch collection"
	if err := checkGame(game); err != nil {
		return nil, opError(op, game, err)
	}
	rs, err := s.records.List(ctx, game)
	if err != nil {
		return nil, opError(op, game, err)
	}
	s.log.Debug(ctx, "collection fetched", "game", game, "records", len(rs))
	return rs, nil
}

// CreateRecord stores payload under a new id and returns the id.
func (s *Service) CreateRecord(ctx context.Context, game records.Game, payload records.Record) (int64, error) {
	const op = "create record"
	if err := checkGame(game); err != nil {
		return 0, opError(op, game, err)
	}
	id, err := s.records.Insert(ctx, game, payload)
	if err != nil {
		return 0, opError(op, game, err)
	}
	s.log.Debug(ctx, "record created", "game", game, "id", id)
	return id, nil
}

// UpdateRecord overwrites the stored record with payload.ID.
func (s *Service) UpdateRecord(ctx context.Context, game records.Game, payload records.Record) error {
	const op = "update record"
	if err := checkGame(game); err != nil {
		return opError(op, game, err)
	}
	if payload.IsNew() {
		return opError(op, game, common.ErrInvalidID)
	}
	if err := s.records.Update(ctx, game, payload); err != nil {
		return opError(op, game, err)
	}
	s.log.Debug(ctx, "record updated", "game", game, "id", payload.ID)
	return nil
}

// DeleteRecord removes the record and then every image it references.
// Image cleanup failures are logged; the record stays deleted.
func (s *Service) DeleteRecord(ctx context.Context, game records.Game, id int64) error {
	const op = "delete record"
	if err := checkGame(game); err != nil {
		return opError(op, game, err)
	}
	rec, err := s.records.Get(ctx, game, id)
	if err != nil {
		return opError(op, game, err)
	}
	if err := s.records.Delete(ctx, game, id); err != nil {
		return opError(op, game, err)
	}
	for _, img := range rec.Images {
		if err := s.images.Delete(ctx, game, img); err != nil {
			s.log.Warn(ctx, "failed to delete image of deleted record", "game", game, "id", id, "image", img, "err", err)
		}
	}
	s.log.Debug(ctx, "record deleted", "game", game, "id", id, "images", len(rec.Images))
	return nil
}

// CopyImage copies the image at sourcePath into the game's image store and
// returns the generated identifier. The name is derived from the payload;
// new entries are prefixed with the id the next create will assign.
func (s *Service) CopyImage(ctx context.Context, game records.Game, payload records.Record, sourcePath string, isNew bool) (string, error) {
	const op = "copy image"
	if err := checkGame(game); err != nil {
		return "", opError(op, game, err)
	}
	ext := filex.Ext(sourcePath)
	if _, ok := allowedImageExt[ext]; !ok {
		return "", opError(op, game, fmt.Errorf("%w: %q", common.ErrUnsupportedImage, sourcePath))
	}

	id := payload.ID
	if isNew {
		next, err := s.records.NextID(ctx, game)
		if err != nil {
			return "", opError(op, game, err)
		}
		id = next
	}

	data, err := s.readFile(sourcePath)
	if err != nil {
		return "", opError(op, game, err)
	}

	index := nextImageIndex(payload.Images)
	name := imageName(id, payload.Set.Name, payload.Name, "", index, ext)
	exists, err := s.images.Exists(ctx, game, name)
	if err != nil {
		return "", opError(op, game, err)
	}
	if exists {
		name = imageName(id, payload.Set.Name, payload.Name, uniqueFragment(), index, ext)
	}

	if err := s.images.Put(ctx, game, name, data); err != nil {
		return "", opError(op, game, err)
	}
	s.log.Debug(ctx, "image copied", "game", game, "image", name, "source", sourcePath)
	return name, nil
}

// DeleteImage removes one image from the game's image store.
func (s *Service) DeleteImage(ctx context.Context, game records.Game, imageID string) error {
	const op = "delete image"
	if err := checkGame(game); err != nil {
		return opError(op, game, err)
	}
	if err := s.images.Delete(ctx, game, imageID); err != nil {
		return opError(op, game, err)
	}
	s.log.Debug(ctx, "image deleted", "game", game, "image", imageID)
	return nil
}

// FetchImageBytes reads an image for display.
func (s *Service) FetchImageBytes(ctx context.Context, game records.Game, imageID string) (ImageData, error) {
	const op = "fetch image"
	if err := checkGame(game); err != nil {
		return ImageData{}, opError(op, game, err)
	}
	data, err := s.images.Get(ctx, game, imageID)
	if err != nil {
		return ImageData{}, opError(op, game, err)
	}
	return ImageData{ID: imageID, MIME: sniffMIME(data, filex.Ext(imageID)), Bytes: data}, nil
}

// ListSets returns the stored set catalogue, downloading it on first use.
func (s *Service) ListSets(ctx context.Context, game records.Game) ([]records.SetRef, error) {
	const op = "list sets"
	if err := checkGame(game); err != nil {
		return nil, opError(op, game, err)
	}
	sets, err := s.sets.List(ctx, game)
	if err != nil {
		return nil, opError(op, game, err)
	}
	if len(sets) > 0 {
		return sets, nil
	}
	return s.UpdateSets(ctx, game)
}

// UpdateSets downloads the set catalogue and replaces the stored one.
// Concurrent refreshes of the same game share one download.
func (s *Service) UpdateSets(ctx context.Context, game records.Game) ([]records.SetRef, error) {
	const op = "update sets"
	if err := checkGame(game); err != nil {
		return nil, opError(op, game, err)
	}
	v, err, shared := s.refresh.Do(string(game), func() (any, error) {
		src, err := s.sources(game)
		if err != nil {
			return nil, err
		}
		sets, err := src.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		if len(sets) == 0 {
			return nil, errors.New("remote catalogue is empty")
		}
		if err := s.sets.Replace(ctx, game, sets); err != nil {
			return nil, err
		}
		return sets, nil
	})
	if err != nil {
		return nil, opError(op, game, err)
	}
	sets := slices.Clone(v.([]records.SetRef))
	s.log.Info(ctx, "set catalogue updated", "game", game, "sets", len(sets), "shared", shared)
	return sets, nil
}
