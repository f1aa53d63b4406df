package model

import "time"

type ReviewAuthor struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type Review struct {
	ID        string       `json:"_id"`
	BookingID string       `json:"bookingId"`
	RoomID    string       `json:"roomId"`
	User      ReviewAuthor `json:"userId"`
	Rating    int          `json:"rating"`
	Comment   string       `json:"comment"`
	CreatedAt time.Time    `json:"createdAt"`
}

type ReviewInput struct {
	BookingID string `json:"bookingId" validate:"required"`
	RoomID    string `json:"roomId" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"required,min=10,max=2000"`
}

// Stars renders a rating as five filled/empty stars.
func Stars(rating float64) string {
	full := int(rating + 0.5)
	if full < 0 {
		full = 0
	}
	if full > 5 {
		full = 5
	}
	out := make([]rune, 0, 5)
	for i := 0; i < 5; i++ {
		if i < full {
			out = append(out, '★')
		} else {
			out = append(out, '☆')
		}
	}
	return string(out)
}
