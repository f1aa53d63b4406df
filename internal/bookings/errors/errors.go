package errors

import "errors"

var (
	ErrLoginRequired     = errors.New("login required to book")
	ErrNoSlot            = errors.New("no slot selected")
	ErrSlotUnavailable   = errors.New("slot is not bookable online")
	ErrPlayersOutOfRange = errors.New("players outside the room range")
	ErrSubmitting        = errors.New("booking already being submitted")
	ErrAlreadyBooked     = errors.New("booking already completed")
	ErrIllegalTransition = errors.New("illegal booking status transition")
	ErrMissingID         = errors.New("booking id is required")
	ErrInvalidDate       = errors.New("invalid date")

	ErrAvailabilityUnavailable = errors.New("availability could not be loaded")
)
