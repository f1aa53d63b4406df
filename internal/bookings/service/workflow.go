package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	bookingerrors "escapedia/internal/bookings/errors"
	"escapedia/internal/session"
	apperrors "escapedia/pkg/errors"
	"escapedia/pkg/model"
)

type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

type AvailabilityAPI interface {
	Availability(ctx context.Context, roomID, date string) (*model.Availability, error)
}

type Creator interface {
	Create(ctx context.Context, req model.BookingRequest) (*model.Booking, error)
}

// Workflow is the booking sidebar of one room: pick a date, pick a slot, send.
// Availability results that resolve after a newer ChangeDate are discarded.
type Workflow struct {
	mu sync.Mutex

	availability AvailabilityAPI
	creator      Creator
	room         *model.Room

	date       string
	slots      []model.Slot
	selected   string
	players    int
	status     Status
	loading    bool
	err        string
	loadFailed bool
	booking    *model.Booking
	generation uint64
}

func NewWorkflow(availability AvailabilityAPI, creator Creator, room *model.Room, today string) *Workflow {
	players := room.PlayersMin
	if players < 1 {
		players = 1
	}
	return &Workflow{
		availability: availability,
		creator:      creator,
		room:         room,
		date:         today,
		slots:        []model.Slot{},
		players:      players,
		status:       StatusIdle,
	}
}

// ChangeDate clears the selection and loads the slots of date with exactly one request.
func (w *Workflow) ChangeDate(ctx context.Context, date string) error {
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", bookingerrors.ErrInvalidDate, date)
	}

	w.mu.Lock()
	w.generation++
	gen := w.generation
	w.date = date
	w.selected = ""
	w.slots = []model.Slot{}
	w.loading = true
	w.loadFailed = false
	w.err = ""
	w.mu.Unlock()

	avail, err := w.availability.Availability(ctx, w.room.ID, date)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation {
		return nil
	}
	w.loading = false
	if err != nil {
		w.err = "No se pudo cargar la disponibilidad. Inténtalo de nuevo."
		w.loadFailed = true
		return err
	}
	if avail != nil && avail.Slots != nil {
		w.slots = avail.Slots
	}
	return nil
}

// Select accepts only a slot of the current list that can be booked online.
func (w *Workflow) Select(key string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.loading {
		return bookingerrors.ErrSlotUnavailable
	}
	for _, s := range w.slots {
		if s.Key() != key {
			continue
		}
		if !s.Selectable() {
			return bookingerrors.ErrSlotUnavailable
		}
		w.selected = key
		return nil
	}
	return bookingerrors.ErrSlotUnavailable
}

// SetPlayers keeps the requested party size for display; Submit validates it.
func (w *Workflow) SetPlayers(n int) {
	w.mu.Lock()
	w.players = n
	w.mu.Unlock()
}

// Submit books the selected slot. Without a session the API is never called.
func (w *Workflow) Submit(ctx context.Context, state session.State, players int) (*model.Booking, error) {
	if !state.Authenticated() {
		return nil, bookingerrors.ErrLoginRequired
	}

	w.mu.Lock()
	switch w.status {
	case StatusSubmitting:
		w.mu.Unlock()
		return nil, bookingerrors.ErrSubmitting
	case StatusDone:
		w.mu.Unlock()
		return nil, bookingerrors.ErrAlreadyBooked
	}
	w.players = players

	if w.loadFailed {
		w.mu.Unlock()
		return nil, bookingerrors.ErrAvailabilityUnavailable
	}
	slot, ok := w.selectedSlot()
	if !ok {
		w.err = "Selecciona una hora disponible."
		w.mu.Unlock()
		return nil, bookingerrors.ErrNoSlot
	}
	if !w.room.AcceptsPlayers(players) {
		w.err = fmt.Sprintf("El número de jugadores debe estar entre %d y %d.", w.room.PlayersMin, w.room.PlayersMax)
		w.mu.Unlock()
		return nil, bookingerrors.ErrPlayersOutOfRange
	}

	w.status = StatusSubmitting
	w.err = ""
	w.mu.Unlock()

	booking, err := w.creator.Create(ctx, model.BookingRequest{
		RoomID:      w.room.ID,
		ScheduledAt: slot.StartsAt,
		Players:     players,
	})

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.status = StatusError
		w.err = apperrors.UserMessage(err)
		return nil, err
	}
	w.status = StatusDone
	w.booking = booking
	return booking, nil
}

func (w *Workflow) selectedSlot() (model.Slot, bool) {
	if w.selected == "" {
		return model.Slot{}, false
	}
	for _, s := range w.slots {
		if s.Key() == w.selected && s.Selectable() {
			return s, true
		}
	}
	return model.Slot{}, false
}

// SlotLabel names why a slot cannot be picked, or "" when it can.
func SlotLabel(s model.Slot) string {
	switch {
	case !s.Available:
		return "ocupado"
	case s.CallRequired:
		return "requiere llamada"
	default:
		return ""
	}
}

type SlotView struct {
	model.Slot
	Key      string
	Label    string
	Selected bool
}

// Panel is a snapshot of the workflow for rendering.
type Panel struct {
	RoomID         string
	Date           string
	MinDate        string
	Slots          []SlotView
	Selected       string
	Players        int
	PlayersMin     int
	PlayersMax     int
	PriceFrom      float64
	Status         Status
	Loading        bool
	Retryable      bool
	Error          string
	Booking        *model.Booking
	Authenticated  bool
	IdempotencyKey string
}

func (p Panel) Done() bool {
	return p.Status == StatusDone
}

func (w *Workflow) Snapshot() Panel {
	w.mu.Lock()
	defer w.mu.Unlock()

	slots := make([]SlotView, 0, len(w.slots))
	for _, s := range w.slots {
		key := s.Key()
		slots = append(slots, SlotView{Slot: s, Key: key, Label: SlotLabel(s), Selected: key == w.selected})
	}
	return Panel{
		RoomID:     w.room.ID,
		Date:       w.date,
		Slots:      slots,
		Selected:   w.selected,
		Players:    w.players,
		PlayersMin: w.room.PlayersMin,
		PlayersMax: w.room.PlayersMax,
		PriceFrom:  w.room.PriceFrom,
		Status:     w.status,
		Loading:    w.loading,
		Retryable:  w.loadFailed,
		Error:      w.err,
		Booking:    w.booking,
	}
}
