package model

import "time"

const DateLayout = "2006-01-02"

// Slot is one server-computed entry of a room's availability for a date.
type Slot struct {
	StartsAt     time.Time `json:"startsAt"`
	Time         string    `json:"time"`
	Available    bool      `json:"available"`
	CallRequired bool      `json:"callRequired"`
}

// Selectable reports whether the slot may be booked online.
func (s Slot) Selectable() bool {
	return s.Available && !s.CallRequired
}

// Key identifies the slot inside forms.
func (s Slot) Key() string {
	return s.StartsAt.UTC().Format(time.RFC3339)
}

type Availability struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}
