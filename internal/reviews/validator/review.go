package validator

import (
	"strings"

	"escapedia/pkg/logger"
	"escapedia/pkg/model"
	"escapedia/pkg/sanitizer"
	"escapedia/pkg/validation"
)

var reviewLabels = map[string]string{
	"bookingId": "La reserva",
	"roomId":    "La sala",
	"rating":    "La puntuación",
	"comment":   "El comentario",
}

type ReviewValidator struct {
	v *validation.Validator
}

func NewReviewValidator(log *logger.Logger) *ReviewValidator {
	return &ReviewValidator{v: validation.New(log, reviewLabels)}
}

// Validate trims the comment before checking it, so padding never counts towards the minimum.
func (rv *ReviewValidator) Validate(in *model.ReviewInput) error {
	in.BookingID = sanitizer.TrimAndNormalize(in.BookingID)
	in.RoomID = sanitizer.TrimAndNormalize(in.RoomID)
	in.Comment = strings.TrimSpace(in.Comment)
	return rv.v.Struct(in)
}
