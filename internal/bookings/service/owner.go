package service

import (
	"context"
	"fmt"

	bookingerrors "escapedia/internal/bookings/errors"
	"escapedia/internal/events"
	"escapedia/internal/session"
	"escapedia/pkg/logger"
	"escapedia/pkg/model"
)

type OwnerAPI interface {
	OwnerList(ctx context.Context, status model.BookingStatus) ([]model.Booking, error)
	OwnerConfirm(ctx context.Context, id string) (*model.Booking, error)
	OwnerComplete(ctx context.Context, id string) (*model.Booking, error)
	OwnerCancel(ctx context.Context, id string) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error)
}

// Board is the owner's booking list with the count of every status.
type Board struct {
	Status   model.BookingStatus
	Bookings []model.Booking
	Counts   map[model.BookingStatus]int
	Total    int
}

type OwnerService struct {
	api    OwnerAPI
	events events.Publisher
	log    *logger.Logger
}

func NewOwnerService(api OwnerAPI, pub events.Publisher, log *logger.Logger) *OwnerService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &OwnerService{api: api, events: pub, log: log}
}

// Board loads every booking once and filters locally so the counts stay complete.
func (s *OwnerService) Board(ctx context.Context, status model.BookingStatus) (*Board, error) {
	all, err := s.api.OwnerList(ctx, "")
	if err != nil {
		return nil, err
	}

	counts := make(map[model.BookingStatus]int, len(model.AllBookingStatuses))
	for _, st := range model.AllBookingStatuses {
		counts[st] = 0
	}
	for _, b := range all {
		counts[b.Status]++
	}

	return &Board{
		Status:   status,
		Bookings: FilterByStatus(all, status),
		Counts:   counts,
		Total:    len(all),
	}, nil
}

// ChangeStatus moves booking to target with one request. Owners use the owner
// actions and admins the generic status endpoint. On any failure the returned
// booking keeps the last known server status.
func (s *OwnerService) ChangeStatus(ctx context.Context, booking model.Booking, target model.BookingStatus, role model.Role) (model.Booking, error) {
	if booking.ID == "" {
		return booking, bookingerrors.ErrMissingID
	}
	if !CanTransition(booking.Status, target) {
		return booking, fmt.Errorf("%w: %s -> %s", bookingerrors.ErrIllegalTransition, booking.Status, target)
	}

	var updated *model.Booking
	var err error
	if role == model.RoleAdmin {
		updated, err = s.api.UpdateStatus(ctx, booking.ID, target)
	} else {
		switch target {
		case model.BookingConfirmed:
			updated, err = s.api.OwnerConfirm(ctx, booking.ID)
		case model.BookingCompleted:
			updated, err = s.api.OwnerComplete(ctx, booking.ID)
		case model.BookingCancelled:
			updated, err = s.api.OwnerCancel(ctx, booking.ID)
		}
	}
	if err != nil {
		s.log.Warn("Booking status change rejected",
			"booking_id", booking.ID,
			"from", booking.Status,
			"to", target,
			"error", err,
		)
		return booking, err
	}

	result := booking
	result.Status = target
	if updated != nil && updated.Status != "" {
		result.Status = updated.Status
	}

	s.events.Publish(ctx, events.Activity{
		Type:     events.TypeBookingStatusChanged,
		EntityID: booking.ID,
		ActorID:  actorID(session.FromContext(ctx)),
		Status:   string(result.Status),
	})
	return result, nil
}
