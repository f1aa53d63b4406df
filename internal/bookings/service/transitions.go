package service

import "escapedia/pkg/model"

var transitions = map[model.BookingStatus][]model.BookingStatus{
	model.BookingPending:   {model.BookingConfirmed, model.BookingCancelled},
	model.BookingConfirmed: {model.BookingCompleted, model.BookingCancelled},
	model.BookingCompleted: {},
	model.BookingCancelled: {},
}

// NextStatuses lists the states a booking in from may move to. Terminal and
// unknown states have none.
func NextStatuses(from model.BookingStatus) []model.BookingStatus {
	next := transitions[from]
	out := make([]model.BookingStatus, len(next))
	copy(out, next)
	return out
}

func CanTransition(from, to model.BookingStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
