package service

import (
	"context"
	"time"

	bookingerrors "escapedia/internal/bookings/errors"
	"escapedia/internal/events"
	"escapedia/internal/session"
	"escapedia/pkg/logger"
	"escapedia/pkg/model"
)

type BookingAPI interface {
	Create(ctx context.Context, req model.BookingRequest) (*model.Booking, error)
	Mine(ctx context.Context) ([]model.Booking, error)
	Cancel(ctx context.Context, id string) (*model.Booking, error)
}

// BookingService is the player side: reserving, listing and cancelling.
type BookingService struct {
	availability AvailabilityAPI
	bookings     BookingAPI
	events       events.Publisher
	location     *time.Location
	now          func() time.Time
	log          *logger.Logger
}

func NewBookingService(availability AvailabilityAPI, bookings BookingAPI, pub events.Publisher, location *time.Location, log *logger.Logger) *BookingService {
	if pub == nil {
		pub = events.Nop{}
	}
	if location == nil {
		location = time.Local
	}
	return &BookingService{
		availability: availability,
		bookings:     bookings,
		events:       pub,
		location:     location,
		now:          time.Now,
		log:          log,
	}
}

// Today is the calendar date in the configured time zone.
func (s *BookingService) Today() string {
	return s.now().In(s.location).Format(model.DateLayout)
}

// Date keeps raw when it is a valid date from today on; otherwise it gives today.
func (s *BookingService) Date(raw string) string {
	today := s.Today()
	if _, err := time.Parse(model.DateLayout, raw); err != nil || raw < today {
		return today
	}
	return raw
}

func (s *BookingService) NewWorkflow(room *model.Room) *Workflow {
	return NewWorkflow(s.availability, s, room, s.Today())
}

func (s *BookingService) Availability(ctx context.Context, roomID, date string) (*model.Availability, error) {
	return s.availability.Availability(ctx, roomID, s.Date(date))
}

// Create sends the booking request and records it.
func (s *BookingService) Create(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
	booking, err := s.bookings.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		booking = &model.Booking{Status: model.BookingPending, ScheduledAt: req.ScheduledAt, Players: req.Players}
	}
	s.events.Publish(ctx, events.Activity{
		Type:     events.TypeBookingRequested,
		EntityID: booking.ID,
		ActorID:  actorID(session.FromContext(ctx)),
		Status:   string(booking.Status),
	})
	return booking, nil
}

// Mine lists the caller's bookings, keeping only status when it is set.
func (s *BookingService) Mine(ctx context.Context, status model.BookingStatus) ([]model.Booking, error) {
	all, err := s.bookings.Mine(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByStatus(all, status), nil
}

func (s *BookingService) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return bookingerrors.ErrMissingID
	}
	if _, err := s.bookings.Cancel(ctx, id); err != nil {
		return err
	}
	s.events.Publish(ctx, events.Activity{
		Type:     events.TypeBookingCancelled,
		EntityID: id,
		ActorID:  actorID(session.FromContext(ctx)),
		Status:   string(model.BookingCancelled),
	})
	return nil
}

// FilterByStatus returns the bookings in status, or all of them when status is empty.
func FilterByStatus(bookings []model.Booking, status model.BookingStatus) []model.Booking {
	if status == "" {
		if bookings == nil {
			return []model.Booking{}
		}
		return bookings
	}
	out := make([]model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out
}

func actorID(state session.State) string {
	if state.User == nil {
		return ""
	}
	return state.User.ID
}
