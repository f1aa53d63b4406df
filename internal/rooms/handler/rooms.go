package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"escapedia/internal/guard"
	roomerrors "escapedia/internal/rooms/errors"
	"escapedia/internal/rooms/service"
	"escapedia/internal/rooms/validator"
	"escapedia/internal/session"
	"escapedia/internal/web"
	apperrors "escapedia/pkg/errors"
	httputil "escapedia/pkg/http"
	"escapedia/pkg/logger"
	"escapedia/pkg/model"
	"escapedia/pkg/sanitizer"
	"escapedia/pkg/validation"

	"github.com/julienschmidt/httprouter"
)

const maxFormMemory = 8 << 20

// BookingPanel builds the booking sidebar of the room page.
type BookingPanel interface {
	Panel(ctx context.Context, room *model.Room, date string) any
}

type RoomHandler struct {
	service  *service.RoomService
	renderer *web.Renderer
	sessions *session.Manager
	guard    *guard.Guard
	panel    BookingPanel
	log      *logger.Logger
}

func NewRoomHandler(s *service.RoomService, renderer *web.Renderer, sessions *session.Manager, g *guard.Guard, panel BookingPanel, log *logger.Logger) *RoomHandler {
	return &RoomHandler{
		service:  s,
		renderer: renderer,
		sessions: sessions,
		guard:    g,
		panel:    panel,
		log:      log,
	}
}

type catalogData struct {
	*service.Catalog
	SortOptions []service.SortOption
}

type formData struct {
	ID      string
	Input   model.RoomInput
	Locales []model.Local
	Errors  validation.ValidationErrors
}

func (h *RoomHandler) Catalog(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filters := service.FiltersFromQuery(r.URL.Query())

	catalog, err := h.service.Catalog(r.Context(), filters)
	if err != nil {
		h.log.Error("failed to load catalog", "handler", "Catalog", "operation", "Catalog", "error", err)
		h.sessions.DiscardOnUnauthorized(w, err)
		h.renderer.Render(w, r, http.StatusOK, "home", web.View{
			Title: "Salas de escape",
			Error: "No se pudieron cargar las salas. Inténtalo de nuevo.",
			Data:  catalogData{Catalog: &service.Catalog{Filters: filters, Page: &model.RoomPage{}, Cities: []string{}}, SortOptions: service.SortOptions()},
		})
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "home", web.View{
		Title: "Salas de escape",
		Data:  catalogData{Catalog: catalog, SortOptions: service.SortOptions()},
	})
}

func (h *RoomHandler) Detail(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	detail, err := h.service.Detail(r.Context(), ps.ByName("id"))
	if err != nil {
		if errors.Is(err, roomerrors.ErrNotFound) {
			h.renderer.NotFound(w, r, "Esta sala no existe o ya no está disponible.")
			return
		}
		h.log.Error("failed to load room", "handler", "Detail", "operation", "Detail", "room_id", ps.ByName("id"), "error", err)
		h.sessions.DiscardOnUnauthorized(w, err)
		h.renderer.Error(w, r, err)
		return
	}

	if h.panel != nil {
		detail.Panel = h.panel.Panel(r.Context(), detail.Room, r.URL.Query().Get("date"))
	}

	h.renderer.Render(w, r, http.StatusOK, "room", web.View{Title: detail.Room.Title, Data: detail})
}

func (h *RoomHandler) OwnerList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rooms, err := h.service.OwnerList(r.Context())
	view := web.View{Title: "Mis salas"}
	if err != nil {
		h.log.Error("failed to list rooms", "handler", "OwnerList", "operation", "OwnerList", "error", err)
		h.sessions.DiscardOnUnauthorized(w, err)
		view.Error = "No se pudieron cargar tus salas."
		rooms = []model.Room{}
	}
	view.Data = rooms
	h.renderer.Render(w, r, http.StatusOK, "owner_rooms", view)
}

func (h *RoomHandler) New(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.renderForm(w, r, http.StatusOK, formData{Input: validator.NewRoomInput()}, "")
}

func (h *RoomHandler) Edit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	room, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, roomerrors.ErrNotFound) {
			h.renderer.NotFound(w, r, "Esta sala no existe.")
			return
		}
		h.log.Error("failed to load room", "handler", "Edit", "operation", "Get", "room_id", id, "error", err)
		h.sessions.DiscardOnUnauthorized(w, err)
		h.renderer.Error(w, r, err)
		return
	}
	h.renderForm(w, r, http.StatusOK, formData{ID: id, Input: validator.InputFromRoom(room)}, "")
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.save(w, r, "")
}

func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.save(w, r, ps.ByName("id"))
}

func (h *RoomHandler) save(w http.ResponseWriter, r *http.Request, id string) {
	in, cover, err := parseRoomForm(r)
	if err != nil {
		h.renderForm(w, r, http.StatusBadRequest, formData{ID: id, Input: in}, "No se pudo leer el formulario.")
		return
	}
	if cover != nil {
		defer cover.close()
	}

	var upload *service.Upload
	if cover != nil {
		upload = &cover.Upload
	}

	state := session.FromContext(r.Context())
	room, warning, err := h.service.Save(r.Context(), state, id, in, upload)
	if err != nil {
		if verrs, ok := validation.As(err); ok {
			h.renderForm(w, r, http.StatusUnprocessableEntity, formData{ID: id, Input: in, Errors: verrs}, verrs.First())
			return
		}
		h.log.Error("failed to save room", "handler", "Save", "operation", "Save", "room_id", id, "error", err)
		if h.sessions.DiscardOnUnauthorized(w, err) {
			httputil.SeeOther(w, r, "/login")
			return
		}
		h.renderForm(w, r, http.StatusOK, formData{ID: id, Input: in}, apperrors.UserMessage(err))
		return
	}

	if warning != "" {
		web.SetFlash(w, "warning", warning)
	} else {
		web.SetFlash(w, "notice", "Sala guardada.")
	}
	httputil.SeeOther(w, r, "/salas/"+room.ID)
}

func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.log.Error("failed to delete room", "handler", "Delete", "operation", "Delete", "room_id", id, "error", err)
		h.sessions.DiscardOnUnauthorized(w, err)
		web.SetFlash(w, "warning", "No se pudo eliminar la sala: "+apperrors.UserMessage(err))
	} else {
		web.SetFlash(w, "notice", "Sala eliminada.")
	}
	httputil.SeeOther(w, r, "/owner/salas")
}

func (h *RoomHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, data formData, errMsg string) {
	locales, err := h.service.LocalsFor(r.Context(), session.FromContext(r.Context()))
	view := web.View{Title: "Nueva sala", Error: errMsg}
	if data.ID != "" {
		view.Title = "Editar sala"
	}
	if err != nil {
		h.log.Warn("failed to load locales for room form", "handler", "RoomForm", "operation", "LocalsFor", "error", err)
		view.Warning = "No se pudieron cargar tus locales."
		locales = []model.Local{}
	}
	data.Locales = locales
	view.Data = data
	h.renderer.Render(w, r, status, "room_form", view)
}

type coverFile struct {
	service.Upload
	close func() error
}

// parseRoomForm reads the room form. The cover is nil when no file was chosen.
func parseRoomForm(r *http.Request) (model.RoomInput, *coverFile, error) {
	var in model.RoomInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return in, nil, err
		}
	} else if err := r.ParseForm(); err != nil {
		return in, nil, err
	}

	in = model.RoomInput{
		LocalID:          r.FormValue("localId"),
		Title:            r.FormValue("title"),
		Description:      r.FormValue("description"),
		City:             r.FormValue("city"),
		Themes:           sanitizer.SplitList(r.FormValue("themes")),
		Difficulty:       model.Difficulty(r.FormValue("difficulty")),
		DurationMin:      httputil.FormInt(r, "durationMin", 0),
		PlayersMin:       httputil.FormInt(r, "playersMin", 0),
		PlayersMax:       httputil.FormInt(r, "playersMax", 0),
		PriceFrom:        httputil.FormFloat(r, "priceFrom", 0),
		SlotDurationMin:  httputil.FormInt(r, "slotDurationMin", 0),
		WeekSlots:        sanitizer.SplitList(r.FormValue("weekSlots")),
		WeekendSlots:     sanitizer.SplitList(r.FormValue("weekendSlots")),
		CoverImageURL:    strings.TrimSpace(r.FormValue("coverImageUrl")),
		GalleryImageURLs: sanitizer.SplitList(r.FormValue("galleryImageUrls")),
	}

	if r.MultipartForm == nil {
		return in, nil, nil
	}
	file, header, err := r.FormFile("cover")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return in, nil, nil
		}
		return in, nil, err
	}
	if header.Size == 0 || header.Filename == "" {
		_ = file.Close()
		return in, nil, nil
	}
	return in, &coverFile{Upload: service.Upload{Filename: header.Filename, Content: file}, close: file.Close}, nil
}

func (h *RoomHandler) RegisterRoutes(router *httprouter.Router) {
	manage := guard.RolesFor(guard.ManageRooms)

	router.GET("/", h.Catalog)
	router.GET("/salas/:id", h.Detail)
	router.GET("/owner/salas", h.guard.Require(h.OwnerList, manage...))
	router.GET("/owner/salas/nueva", h.guard.Require(h.New, manage...))
	router.POST("/owner/salas/nueva", h.guard.Require(h.Create, manage...))
	router.GET("/owner/salas/editar/:id", h.guard.Require(h.Edit, manage...))
	router.POST("/owner/salas/editar/:id", h.guard.Require(h.Update, manage...))
	router.POST("/owner/salas/eliminar/:id", h.guard.Require(h.Delete, manage...))
}
