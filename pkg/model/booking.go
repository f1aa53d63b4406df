package model

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

var AllBookingStatuses = []BookingStatus{
	BookingPending,
	BookingConfirmed,
	BookingCompleted,
	BookingCancelled,
}

var bookingStatusLabels = map[BookingStatus]string{
	BookingPending:   "Pendiente",
	BookingConfirmed: "Confirmada",
	BookingCompleted: "Completada",
	BookingCancelled: "Cancelada",
}

func (s BookingStatus) Label() string {
	if l, ok := bookingStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s BookingStatus) Valid() bool {
	_, ok := bookingStatusLabels[s]
	return ok
}

// BookingRoom is the room summary the API embeds in booking listings.
type BookingRoom struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
	City  string `json:"city,omitempty"`
}

// BookingUser is the user summary the API embeds in owner booking listings.
type BookingUser struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type Booking struct {
	ID          string        `json:"_id"`
	Room        BookingRoom   `json:"roomId"`
	User        BookingUser   `json:"userId"`
	ScheduledAt time.Time     `json:"scheduledAt"`
	Players     int           `json:"players"`
	Status      BookingStatus `json:"status"`
	ReviewID    string        `json:"review,omitempty"`
}

// Reviewable reports whether the booking can still receive its single review.
func (b *Booking) Reviewable() bool {
	return b.Status == BookingCompleted && b.ReviewID == ""
}

type BookingRequest struct {
	RoomID      string    `json:"roomId" validate:"required"`
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
	Players     int       `json:"players" validate:"required,min=1"`
}

type StatusUpdate struct {
	Status BookingStatus `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}
