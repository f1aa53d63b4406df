package model

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var difficultyLabels = map[Difficulty]string{
	DifficultyEasy:   "Fácil",
	DifficultyMedium: "Media",
	DifficultyHard:   "Difícil",
}

func (d Difficulty) Label() string {
	if l, ok := difficultyLabels[d]; ok {
		return l
	}
	return string(d)
}

func (d Difficulty) Valid() bool {
	_, ok := difficultyLabels[d]
	return ok
}

type Room struct {
	ID               string     `json:"_id"`
	LocalID          string     `json:"localId"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	City             string     `json:"city"`
	Themes           []string   `json:"themes"`
	Difficulty       Difficulty `json:"difficulty"`
	DurationMin      int        `json:"durationMin"`
	PlayersMin       int        `json:"playersMin"`
	PlayersMax       int        `json:"playersMax"`
	PriceFrom        float64    `json:"priceFrom"`
	CoverImageURL    string     `json:"coverImageUrl,omitempty"`
	GalleryImageURLs []string   `json:"galleryImageUrls,omitempty"`
	SlotDurationMin  int        `json:"slotDurationMin"`
	WeekSlots        []string   `json:"weekSlots"`
	WeekendSlots     []string   `json:"weekendSlots"`
	RatingAvg        float64    `json:"ratingAvg"`
	RatingCount      int        `json:"ratingCount"`
}

// AcceptsPlayers reports whether n is inside the room's player range.
func (r *Room) AcceptsPlayers(n int) bool {
	return n >= r.PlayersMin && n <= r.PlayersMax
}

// RoomInput is the body of create and update requests.
type RoomInput struct {
	LocalID          string     `json:"localId" validate:"required"`
	Title            string     `json:"title" validate:"required,min=2,max=120"`
	Description      string     `json:"description" validate:"max=4000"`
	City             string     `json:"city" validate:"required"`
	Themes           []string   `json:"themes" validate:"max=10,dive,required"`
	Difficulty       Difficulty `json:"difficulty" validate:"required,oneof=easy medium hard"`
	DurationMin      int        `json:"durationMin" validate:"required,min=10,max=600"`
	PlayersMin       int        `json:"playersMin" validate:"required,min=1"`
	PlayersMax       int        `json:"playersMax" validate:"required,gtefield=PlayersMin"`
	PriceFrom        float64    `json:"priceFrom" validate:"gte=0"`
	SlotDurationMin  int        `json:"slotDurationMin" validate:"required,min=10,max=600"`
	WeekSlots        []string   `json:"weekSlots" validate:"required,min=1,dive,hhmm"`
	WeekendSlots     []string   `json:"weekendSlots" validate:"required,min=1,dive,hhmm"`
	CoverImageURL    string     `json:"coverImageUrl,omitempty" validate:"omitempty,url"`
	GalleryImageURLs []string   `json:"galleryImageUrls,omitempty" validate:"omitempty,dive,url"`
}

// RoomImages is the partial update sent after a CDN upload.
type RoomImages struct {
	CoverImageURL    string   `json:"coverImageUrl,omitempty"`
	GalleryImageURLs []string `json:"galleryImageUrls,omitempty"`
}

type RoomPage struct {
	Rooms      []Room `json:"rooms"`
	Page       int    `json:"page"`
	TotalPages int    `json:"totalPages"`
	Total      int    `json:"total"`
}
