package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	bookingerrors "escapedia/internal/bookings/errors"
	"escapedia/internal/bookings/service"
	"escapedia/internal/guard"
	roomerrors "escapedia/internal/rooms/errors"
	roomservice "escapedia/internal/rooms/service"
	"escapedia/internal/session"
	"escapedia/internal/web"
	apperrors "escapedia/pkg/errors"
	httputil "escapedia/pkg/http"
	"escapedia/pkg/logger"
	"escapedia/pkg/model"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

// RoomLoader loads the room page the booking sidebar lives on.
type RoomLoader interface {
	Detail(ctx context.Context, id string) (*roomservice.Detail, error)
}

type BookingHandler struct {
	bookings *service.BookingService
	owner    *service.OwnerService
	rooms    RoomLoader
	renderer *web.Renderer
	sessions *session.Manager
	guard    *guard.Guard
	log      *logger.Logger
}

func NewBookingHandler(bookings *service.BookingService, owner *service.OwnerService, rooms RoomLoader, renderer *web.Renderer, sessions *session.Manager, g *guard.Guard, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		owner:    owner,
		rooms:    rooms,
		renderer: renderer,
		sessions: sessions,
		guard:    g,
		log:      log,
	}
}

// Panel builds the booking sidebar for room on date (today when empty or invalid).
func (h *BookingHandler) Panel(ctx context.Context, room *model.Room, date string) any {
	wf := h.bookings.NewWorkflow(room)
	if err := wf.ChangeDate(ctx, h.bookings.Date(date)); err != nil {
		h.log.Warn("failed to load availability", "handler", "Panel", "operation", "ChangeDate", "room_id", room.ID, "error", err)
	}
	return h.snapshot(ctx, wf)
}

func (h *BookingHandler) snapshot(ctx context.Context, wf *service.Workflow) service.Panel {
	p := wf.Snapshot()
	p.MinDate = h.bookings.Today()
	p.Authenticated = session.FromContext(ctx).Authenticated()
	p.IdempotencyKey = uuid.NewString()
	return p
}

// Reserve re-reads the availability of the posted date and books the posted slot.
func (h *BookingHandler) Reserve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	ctx := r.Context()

	state := session.FromContext(ctx)
	if !state.Authenticated() {
		httputil.SeeOther(w, r, "/login?next="+url.QueryEscape("/salas/"+id))
		return
	}

	detail, err := h.rooms.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, roomerrors.ErrNotFound) {
			h.renderer.NotFound(w, r, "Esta sala no existe o ya no está disponible.")
			return
		}
		h.log.Error("failed to load room", "handler", "Reserve", "operation", "Detail", "room_id", id, "error", err)
		h.sessions.DiscardOnUnauthorized(w, err)
		h.renderer.Error(w, r, err)
		return
	}

	wf := h.bookings.NewWorkflow(detail.Room)
	players := httputil.FormInt(r, "players", detail.Room.PlayersMin)
	wf.SetPlayers(players)
	if err := wf.ChangeDate(ctx, h.bookings.Date(r.FormValue("date"))); err != nil {
		h.log.Warn("failed to load availability", "handler", "Reserve", "operation", "ChangeDate", "room_id", id, "error", err)
		if h.sessions.DiscardOnUnauthorized(w, err) {
			httputil.SeeOther(w, r, "/login?next="+url.QueryEscape("/salas/"+id))
			return
		}
		detail.Panel = h.snapshot(ctx, wf)
		h.renderer.Render(w, r, apperrors.FromAPI(err).StatusCode(), "room", web.View{Title: detail.Room.Title, Data: detail})
		return
	}
	_ = wf.Select(r.FormValue("slot"))

	status := http.StatusOK
	booking, err := wf.Submit(ctx, state, players)
	switch {
	case err == nil:
		h.log.Info("booking requested", "room_id", id, "booking_id", booking.ID)
	case errors.Is(err, bookingerrors.ErrNoSlot), errors.Is(err, bookingerrors.ErrPlayersOutOfRange):
		status = http.StatusUnprocessableEntity
	default:
		h.log.Error("failed to create booking", "handler", "Reserve", "operation", "Submit", "room_id", id, "error", err)
		if h.sessions.DiscardOnUnauthorized(w, err) {
			httputil.SeeOther(w, r, "/login?next="+url.QueryEscape("/salas/"+id))
			return
		}
		status = apperrors.FromAPI(err).StatusCode()
	}

	detail.Panel = h.snapshot(ctx, wf)
	h.renderer.Render(w, r, status, "room", web.View{Title: detail.Room.Title, Data: detail})
}

type slotJSON struct {
	StartsAt     string `json:"startsAt"`
	Time         string `json:"time"`
	Available    bool   `json:"available"`
	CallRequired bool   `json:"callRequired"`
	Selectable   bool   `json:"selectable"`
	Label        string `json:"label,omitempty"`
}

type availabilityJSON struct {
	Date  string     `json:"date"`
	Slots []slotJSON `json:"slots"`
}

func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	date := h.bookings.Date(r.URL.Query().Get("date"))

	avail, err := h.bookings.Availability(r.Context(), id, date)
	if err != nil {
		h.sessions.DiscardOnUnauthorized(w, err)
		if writeErr := apperrors.WriteError(w, apperrors.FromAPI(err)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Availability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	out := availabilityJSON{Date: date, Slots: make([]slotJSON, 0, len(avail.Slots))}
	for _, s := range avail.Slots {
		out.Slots = append(out.Slots, slotJSON{
			StartsAt:     s.Key(),
			Time:         s.Time,
			Available:    s.Available,
			CallRequired: s.CallRequired,
			Selectable:   s.Selectable(),
			Label:        service.SlotLabel(s),
		})
	}

	if err := httputil.WriteJSON(w, http.StatusOK, out); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Availability", "operation", "WriteJSON", "error", err)
	}
}

type myBookingsData struct {
	Status   model.BookingStatus
	Bookings []model.Booking
}

func (h *BookingHandler) MyBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	status := statusFilter(r.URL.Query().Get("status"), "")
	view := web.View{Title: "Mis reservas"}

	bookings, err := h.bookings.Mine(r.Context(), status)
	if err != nil {
		h.log.Error("failed to list bookings", "handler", "MyBookings", "operation", "Mine", "error", err)
		h.sessions.DiscardOnUnauthorized(w, err)
		view.Error = apperrors.UserMessage(err)
		bookings = []model.Booking{}
	}

	view.Data = myBookingsData{Status: status, Bookings: bookings}
	h.renderer.Render(w, r, http.StatusOK, "my_bookings", view)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if err := h.bookings.Cancel(r.Context(), id); err != nil {
		h.log.Error("failed to cancel booking", "handler", "Cancel", "operation", "Cancel", "booking_id", id, "error", err)
		h.sessions.DiscardOnUnauthorized(w, err)
		web.SetFlash(w, "warning", "No se pudo cancelar la reserva: "+apperrors.UserMessage(err))
	} else {
		web.SetFlash(w, "notice", "Reserva cancelada.")
	}
	httputil.SeeOther(w, r, "/mis-reservas")
}

type ownerRow struct {
	model.Booking
	Next []model.BookingStatus
}

type ownerBoardData struct {
	*service.Board
	Filter string
	Rows   []ownerRow
}

const allStatuses = "todas"

func (h *BookingHandler) OwnerBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	raw := r.URL.Query().Get("status")
	status := statusFilter(raw, model.BookingPending)
	filter := string(status)
	if raw == allStatuses {
		filter = allStatuses
	}

	view := web.View{Title: "Reservas recibidas"}
	board, err := h.owner.Board(r.Context(), status)
	if err != nil {
		h.log.Error("failed to list owner bookings", "handler", "OwnerBookings", "operation", "Board", "error", err)
		h.sessions.DiscardOnUnauthorized(w, err)
		view.Error = apperrors.UserMessage(err)
		board = &service.Board{Status: status, Bookings: []model.Booking{}, Counts: map[model.BookingStatus]int{}}
	}

	rows := make([]ownerRow, 0, len(board.Bookings))
	for _, b := range board.Bookings {
		rows = append(rows, ownerRow{Booking: b, Next: service.NextStatuses(b.Status)})
	}
	view.Data = ownerBoardData{Board: board, Filter: filter, Rows: rows}
	h.renderer.Render(w, r, http.StatusOK, "owner_bookings", view)
}

func (h *BookingHandler) ChangeStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking := model.Booking{ID: ps.ByName("id"), Status: model.BookingStatus(r.FormValue("from"))}
	target := model.BookingStatus(r.FormValue("to"))
	back := "/owner/reservas"
	if f := r.FormValue("filter"); f != "" {
		back += "?status=" + url.QueryEscape(f)
	}

	state := session.FromContext(r.Context())
	result, err := h.owner.ChangeStatus(r.Context(), booking, target, state.Role())
	switch {
	case err == nil:
		web.SetFlash(w, "notice", "Reserva marcada como "+result.Status.Label()+".")
	case errors.Is(err, bookingerrors.ErrIllegalTransition):
		web.SetFlash(w, "warning", "Ese cambio de estado no está permitido.")
	default:
		h.log.Error("failed to change booking status", "handler", "ChangeStatus", "operation", "ChangeStatus", "booking_id", booking.ID, "error", err)
		h.sessions.DiscardOnUnauthorized(w, err)
		web.SetFlash(w, "warning", "No se pudo cambiar el estado: "+apperrors.UserMessage(err))
	}
	httputil.SeeOther(w, r, back)
}

// statusFilter reads a status query value. "todas" selects every status.
func statusFilter(raw string, fallback model.BookingStatus) model.BookingStatus {
	if raw == allStatuses {
		return ""
	}
	if s := model.BookingStatus(raw); s.Valid() {
		return s
	}
	return fallback
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	manage := guard.RolesFor(guard.ManageRooms)

	router.POST("/salas/:id/reservar", h.Reserve)
	router.GET("/salas/:id/disponibilidad", h.Availability)
	router.GET("/mis-reservas", h.guard.Require(h.MyBookings))
	router.POST("/mis-reservas/:id/cancelar", h.guard.Require(h.Cancel))
	router.GET("/owner/reservas", h.guard.Require(h.OwnerBookings, manage...))
	router.POST("/owner/reservas/:id/estado", h.guard.Require(h.ChangeStatus, manage...))
}
