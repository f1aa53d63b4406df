package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"escapedia/internal/events"
	roomerrors "escapedia/internal/rooms/errors"
	"escapedia/internal/rooms/validator"
	"escapedia/internal/session"
	"escapedia/pkg/client"
	"escapedia/pkg/logger"
	"escapedia/pkg/model"
	"escapedia/pkg/sanitizer"

	"golang.org/x/sync/errgroup"
)

const ownerListLimit = 50

type RoomAPI interface {
	List(ctx context.Context, query url.Values) (*model.RoomPage, error)
	Get(ctx context.Context, id string) (*model.Room, error)
	Create(ctx context.Context, in model.RoomInput) (*model.Room, error)
	Update(ctx context.Context, id string, body any) (*model.Room, error)
	Delete(ctx context.Context, id string) error
}

type ReviewAPI interface {
	ByRoom(ctx context.Context, roomID string) ([]model.Review, error)
}

type LocalAPI interface {
	List(ctx context.Context) ([]model.Local, error)
	Mine(ctx context.Context) ([]model.Local, error)
	Public(ctx context.Context) ([]model.Local, error)
}

type Uploader interface {
	Configured() bool
	Image(ctx context.Context, filename string, content io.Reader) (string, error)
}

// Upload is an image chosen in a form.
type Upload struct {
	Filename string
	Content  io.Reader
}

type Catalog struct {
	Filters Filters
	Page    *model.RoomPage
	Cities  []string
}

// Detail is the room page. Panel holds the booking sidebar built by the caller.
type Detail struct {
	Room    *model.Room
	Reviews []model.Review
	Panel   any
}

type RoomService struct {
	rooms     RoomAPI
	reviews   ReviewAPI
	locales   LocalAPI
	uploader  Uploader
	validator *validator.RoomValidator
	events    events.Publisher
	pageSize  int
	log       *logger.Logger
}

func NewRoomService(rooms RoomAPI, reviews ReviewAPI, locales LocalAPI, uploader Uploader, v *validator.RoomValidator, pub events.Publisher, pageSize int, log *logger.Logger) *RoomService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &RoomService{
		rooms:     rooms,
		reviews:   reviews,
		locales:   locales,
		uploader:  uploader,
		validator: v,
		events:    pub,
		pageSize:  pageSize,
		log:       log,
	}
}

func (s *RoomService) PageSize() int {
	return s.pageSize
}

// Catalog loads one filtered page. The city options come from the public locales
// and fall back to none without surfacing an error.
func (s *RoomService) Catalog(ctx context.Context, f Filters) (*Catalog, error) {
	g, gctx := errgroup.WithContext(ctx)

	var page *model.RoomPage
	g.Go(func() error {
		var err error
		page, err = s.rooms.List(gctx, f.Query(s.pageSize))
		return err
	})

	var cities []string
	g.Go(func() error {
		locales, err := s.locales.Public(gctx)
		if err != nil {
			s.log.Debug("City options unavailable", "error", err)
			return nil
		}
		names := make([]string, 0, len(locales))
		for _, l := range locales {
			names = append(names, l.City)
		}
		cities = sanitizer.UniqueCities(names)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if cities == nil {
		cities = []string{}
	}
	return &Catalog{Filters: f, Page: page, Cities: cities}, nil
}

// Detail fetches a room and its reviews concurrently; either failure fails the page.
func (s *RoomService) Detail(ctx context.Context, id string) (*Detail, error) {
	if id == "" {
		return nil, roomerrors.ErrMissingID
	}

	g, gctx := errgroup.WithContext(ctx)
	var d Detail

	g.Go(func() error {
		room, err := s.rooms.Get(gctx, id)
		if err != nil {
			return err
		}
		d.Room = room
		return nil
	})
	g.Go(func() error {
		reviews, err := s.reviews.ByRoom(gctx, id)
		if err != nil {
			return err
		}
		d.Reviews = reviews
		return nil
	})

	if err := g.Wait(); err != nil {
		if client.IsStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("%w: %w", roomerrors.ErrNotFound, err)
		}
		return nil, err
	}
	return &d, nil
}

func (s *RoomService) Get(ctx context.Context, id string) (*model.Room, error) {
	room, err := s.rooms.Get(ctx, id)
	if err != nil {
		if client.IsStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("%w: %w", roomerrors.ErrNotFound, err)
		}
		return nil, err
	}
	return room, nil
}

// OwnerList returns the rooms the caller may manage. The API scopes by token.
func (s *RoomService) OwnerList(ctx context.Context) ([]model.Room, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(ownerListLimit))
	page, err := s.rooms.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return page.Rooms, nil
}

// LocalsFor lists the locales a room can be attached to: all of them for admins.
func (s *RoomService) LocalsFor(ctx context.Context, state session.State) ([]model.Local, error) {
	if state.Role() == model.RoleAdmin {
		return s.locales.List(ctx)
	}
	return s.locales.Mine(ctx)
}

// Save creates (empty id) or updates a room, then uploads the optional cover.
// A failed cover upload keeps the saved room and comes back as a warning.
func (s *RoomService) Save(ctx context.Context, state session.State, id string, in model.RoomInput, cover *Upload) (*model.Room, string, error) {
	s.validator.Normalize(&in)
	if err := s.validator.Validate(&in); err != nil {
		return nil, "", err
	}

	var room *model.Room
	var err error
	if id == "" {
		room, err = s.rooms.Create(ctx, in)
	} else {
		room, err = s.rooms.Update(ctx, id, in)
	}
	if err != nil {
		return nil, "", err
	}
	if room == nil {
		room = &model.Room{ID: id}
	}

	s.events.Publish(ctx, events.Activity{
		Type:     events.TypeRoomSaved,
		EntityID: room.ID,
		ActorID:  actorID(state),
	})

	if cover == nil {
		return room, "", nil
	}

	warning := s.uploadCover(ctx, room, cover)
	return room, warning, nil
}

func (s *RoomService) uploadCover(ctx context.Context, room *model.Room, cover *Upload) string {
	if !s.uploader.Configured() {
		return "La sala se ha guardado, pero la subida de imágenes no está configurada."
	}

	imageURL, err := s.uploader.Image(ctx, cover.Filename, cover.Content)
	if err != nil {
		s.log.Warn("Cover upload failed", "room_id", room.ID, "error", err)
		return "La sala se ha guardado, pero no se pudo subir la portada."
	}

	updated, err := s.rooms.Update(ctx, room.ID, model.RoomImages{CoverImageURL: imageURL})
	if err != nil {
		s.log.Warn("Cover attach failed", "room_id", room.ID, "error", err)
		return "La sala se ha guardado, pero no se pudo asociar la portada."
	}
	if updated != nil {
		*room = *updated
	} else {
		room.CoverImageURL = imageURL
	}
	return ""
}

func (s *RoomService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return roomerrors.ErrMissingID
	}
	return s.rooms.Delete(ctx, id)
}

func actorID(state session.State) string {
	if state.User == nil {
		return ""
	}
	return state.User.ID
}
