package service

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"escapedia/internal/events"
	localerrors "escapedia/internal/locales/errors"
	"escapedia/internal/locales/validator"
	"escapedia/internal/session"
	"escapedia/pkg/client"
	"escapedia/pkg/logger"
	"escapedia/pkg/model"
	"escapedia/pkg/sanitizer"

	"golang.org/x/sync/errgroup"
)

type LocalAPI interface {
	List(ctx context.Context) ([]model.Local, error)
	Mine(ctx context.Context) ([]model.Local, error)
	Public(ctx context.Context) ([]model.Local, error)
	PublicByID(ctx context.Context, id string) (*model.Local, error)
	PublicRooms(ctx context.Context, id string) ([]model.Room, error)
	Create(ctx context.Context, in model.LocalInput) (*model.Local, error)
	Update(ctx context.Context, id string, in model.LocalInput) (*model.Local, error)
	Delete(ctx context.Context, id string) error
	UploadCover(ctx context.Context, id, filename string, content io.Reader) (*model.Local, error)
	DeleteCover(ctx context.Context, id string) error
}

type OwnerDirectory interface {
	Owners(ctx context.Context) ([]model.User, error)
}

type Upload struct {
	Filename string
	Content  io.Reader
}

// Directory is the public locales list narrowed to one city.
type Directory struct {
	City    string
	Cities  []string
	Locales []model.Local
}

type PublicLocal struct {
	Local *model.Local
	Rooms []model.Room
}

// Management is what the locales admin screen shows to the caller.
type Management struct {
	Locales       []model.Local
	Owners        []model.User
	OwnersWarning string
	AllLocales    bool
}

// OwnerName resolves an owner id for display.
func (m *Management) OwnerName(id string) string {
	for _, o := range m.Owners {
		if o.ID == id {
			return o.Name
		}
	}
	return ""
}

type LocalService struct {
	locales   LocalAPI
	owners    OwnerDirectory
	validator *validator.LocalValidator
	events    events.Publisher
	log       *logger.Logger
}

func NewLocalService(locales LocalAPI, owners OwnerDirectory, v *validator.LocalValidator, pub events.Publisher, log *logger.Logger) *LocalService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &LocalService{
		locales:   locales,
		owners:    owners,
		validator: v,
		events:    pub,
		log:       log,
	}
}

// Directory lists the public locales. The city match ignores case and accents.
func (s *LocalService) Directory(ctx context.Context, city string) (*Directory, error) {
	all, err := s.locales.Public(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(all))
	for _, l := range all {
		names = append(names, l.City)
	}

	d := &Directory{City: sanitizer.NormalizeCity(city), Cities: sanitizer.UniqueCities(names)}
	if d.City == "" {
		d.Locales = all
		if d.Locales == nil {
			d.Locales = []model.Local{}
		}
		return d, nil
	}

	d.Locales = make([]model.Local, 0, len(all))
	for _, l := range all {
		if sanitizer.SameCity(l.City, d.City) {
			d.Locales = append(d.Locales, l)
		}
	}
	return d, nil
}

// Public fetches a local and its rooms concurrently; either failure fails the page.
func (s *LocalService) Public(ctx context.Context, id string) (*PublicLocal, error) {
	if id == "" {
		return nil, localerrors.ErrMissingID
	}

	g, gctx := errgroup.WithContext(ctx)
	var out PublicLocal

	g.Go(func() error {
		local, err := s.locales.PublicByID(gctx, id)
		if err != nil {
			return err
		}
		out.Local = local
		return nil
	})
	g.Go(func() error {
		rooms, err := s.locales.PublicRooms(gctx, id)
		if err != nil {
			return err
		}
		out.Rooms = rooms
		return nil
	})

	if err := g.Wait(); err != nil {
		if client.IsStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("%w: %w", localerrors.ErrNotFound, err)
		}
		return nil, err
	}
	if out.Rooms == nil {
		out.Rooms = []model.Room{}
	}
	return &out, nil
}

// Manage loads the caller's locales. Admins see every local and the owners they
// can assign; a failed owners list only produces a warning.
func (s *LocalService) Manage(ctx context.Context, state session.State) (*Management, error) {
	if state.Role() != model.RoleAdmin {
		locales, err := s.locales.Mine(ctx)
		if err != nil {
			return nil, err
		}
		return &Management{Locales: nonNil(locales), Owners: []model.User{}}, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	m := &Management{AllLocales: true, Owners: []model.User{}}

	g.Go(func() error {
		locales, err := s.locales.List(gctx)
		if err != nil {
			return err
		}
		m.Locales = nonNil(locales)
		return nil
	})
	g.Go(func() error {
		owners, err := s.owners.Owners(gctx)
		if err != nil {
			s.log.Warn("Owners list unavailable", "error", err)
			m.OwnersWarning = "No se pudo cargar la lista de propietarios."
			return nil
		}
		if owners != nil {
			m.Owners = owners
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

// Save creates (empty id) or updates a local with one request, then uploads the
// optional cover. A failed cover upload keeps the saved local and returns a warning.
func (s *LocalService) Save(ctx context.Context, state session.State, id string, in model.LocalInput, cover *Upload) (*model.Local, string, error) {
	s.validator.Normalize(&in)
	if state.Role() != model.RoleAdmin {
		in.OwnerID = ""
	}
	if err := s.validator.Validate(&in); err != nil {
		return nil, "", err
	}

	var local *model.Local
	var err error
	if id == "" {
		local, err = s.locales.Create(ctx, in)
	} else {
		local, err = s.locales.Update(ctx, id, in)
	}
	if err != nil {
		return nil, "", err
	}
	if local == nil {
		local = &model.Local{ID: id}
	}

	if id == "" {
		s.events.Publish(ctx, events.Activity{
			Type:     events.TypeLocalCreated,
			EntityID: local.ID,
			ActorID:  actorID(state),
		})
	}

	if cover == nil {
		return local, "", nil
	}
	return local, s.UploadCover(ctx, local, cover), nil
}

// UploadCover attaches cover to local and returns a warning when it could not.
func (s *LocalService) UploadCover(ctx context.Context, local *model.Local, cover *Upload) string {
	if local.ID == "" {
		return "El local se ha guardado, pero no se pudo subir la portada."
	}
	updated, err := s.locales.UploadCover(ctx, local.ID, cover.Filename, cover.Content)
	if err != nil {
		s.log.Warn("Local cover upload failed", "local_id", local.ID, "error", err)
		return "El local se ha guardado, pero no se pudo subir la portada."
	}
	if updated != nil {
		local.CoverImageURL = updated.CoverImageURL
	}
	return ""
}

func (s *LocalService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return localerrors.ErrMissingID
	}
	return s.locales.Delete(ctx, id)
}

func (s *LocalService) DeleteCover(ctx context.Context, id string) error {
	if id == "" {
		return localerrors.ErrMissingID
	}
	return s.locales.DeleteCover(ctx, id)
}

func nonNil(locales []model.Local) []model.Local {
	if locales == nil {
		return []model.Local{}
	}
	return locales
}

func actorID(state session.State) string {
	if state.User == nil {
		return ""
	}
	return state.User.ID
}
