package service

import (
	"context"

	"escapedia/internal/events"
	reviewerrors "escapedia/internal/reviews/errors"
	"escapedia/internal/reviews/validator"
	"escapedia/internal/session"
	"escapedia/pkg/logger"
	"escapedia/pkg/model"
)

type ReviewAPI interface {
	Create(ctx context.Context, in model.ReviewInput) (*model.Review, error)
}

type RoomAPI interface {
	Get(ctx context.Context, id string) (*model.Room, error)
}

type ReviewService struct {
	reviews   ReviewAPI
	rooms     RoomAPI
	validator *validator.ReviewValidator
	events    events.Publisher
	log       *logger.Logger
}

func NewReviewService(reviews ReviewAPI, rooms RoomAPI, v *validator.ReviewValidator, pub events.Publisher, log *logger.Logger) *ReviewService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &ReviewService{
		reviews:   reviews,
		rooms:     rooms,
		validator: v,
		events:    pub,
		log:       log,
	}
}

// Room returns the reviewed room for the form heading, or nil when it cannot be loaded.
func (s *ReviewService) Room(ctx context.Context, id string) *model.Room {
	room, err := s.rooms.Get(ctx, id)
	if err != nil {
		s.log.Warn("Room unavailable for review form", "room_id", id, "error", err)
		return nil
	}
	return room
}

// Create publishes a review for one of the caller's bookings. Invalid input is never sent.
func (s *ReviewService) Create(ctx context.Context, state session.State, in model.ReviewInput) (*model.Review, error) {
	if in.BookingID == "" || in.RoomID == "" {
		return nil, reviewerrors.ErrMissingReference
	}
	if err := s.validator.Validate(&in); err != nil {
		return nil, err
	}

	review, err := s.reviews.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	if review == nil {
		review = &model.Review{BookingID: in.BookingID, RoomID: in.RoomID, Rating: in.Rating, Comment: in.Comment}
	}

	var actor string
	if state.User != nil {
		actor = state.User.ID
	}
	s.events.Publish(ctx, events.Activity{
		Type:     events.TypeReviewPublished,
		EntityID: review.ID,
		ActorID:  actor,
	})
	return review, nil
}
