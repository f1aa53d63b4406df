package validator

import (
	"escapedia/pkg/logger"
	"escapedia/pkg/model"
	"escapedia/pkg/sanitizer"
	"escapedia/pkg/validation"
)

var roomLabels = map[string]string{
	"localId":          "El local",
	"title":            "El título",
	"description":      "La descripción",
	"city":             "La ciudad",
	"themes":           "Las temáticas",
	"difficulty":       "La dificultad",
	"durationMin":      "La duración",
	"playersMin":       "El mínimo de jugadores",
	"playersMax":       "El máximo de jugadores",
	"priceFrom":        "El precio",
	"slotDurationMin":  "La duración del turno",
	"weekSlots":        "Los horarios de lunes a viernes",
	"weekendSlots":     "Los horarios de fin de semana",
	"coverImageUrl":    "La portada",
	"galleryImageUrls": "La galería",
}

// Form defaults for a new room.
const (
	DefaultDifficulty      = model.DifficultyEasy
	DefaultDurationMin     = 60
	DefaultPlayersMin      = 2
	DefaultPlayersMax      = 6
	DefaultPriceFrom       = 60
	DefaultSlotDurationMin = 60
)

type RoomValidator struct {
	v *validation.Validator
}

func NewRoomValidator(log *logger.Logger) *RoomValidator {
	return &RoomValidator{v: validation.New(log, roomLabels)}
}

// Normalize cleans the form values in place; slots end up deduplicated and sorted.
func (rv *RoomValidator) Normalize(in *model.RoomInput) {
	in.LocalID = sanitizer.TrimAndNormalize(in.LocalID)
	in.Title = sanitizer.NormalizeName(in.Title)
	in.City = sanitizer.NormalizeCity(in.City)
	in.Description = sanitizer.TrimAndNormalize(in.Description)
	in.Themes = sanitizer.NormalizeThemes(in.Themes)
	in.WeekSlots = sanitizer.NormalizeSlots(in.WeekSlots)
	in.WeekendSlots = sanitizer.NormalizeSlots(in.WeekendSlots)
	if in.Difficulty == "" {
		in.Difficulty = DefaultDifficulty
	}
}

func (rv *RoomValidator) Validate(in *model.RoomInput) error {
	return rv.v.Struct(in)
}

// NewRoomInput returns the defaults of the creation form.
func NewRoomInput() model.RoomInput {
	return model.RoomInput{
		Difficulty:      DefaultDifficulty,
		DurationMin:     DefaultDurationMin,
		PlayersMin:      DefaultPlayersMin,
		PlayersMax:      DefaultPlayersMax,
		PriceFrom:       DefaultPriceFrom,
		SlotDurationMin: DefaultSlotDurationMin,
	}
}

// InputFromRoom prefills the edit form.
func InputFromRoom(r *model.Room) model.RoomInput {
	return model.RoomInput{
		LocalID:          r.LocalID,
		Title:            r.Title,
		Description:      r.Description,
		City:             r.City,
		Themes:           r.Themes,
		Difficulty:       r.Difficulty,
		DurationMin:      r.DurationMin,
		PlayersMin:       r.PlayersMin,
		PlayersMax:       r.PlayersMax,
		PriceFrom:        r.PriceFrom,
		SlotDurationMin:  r.SlotDurationMin,
		WeekSlots:        r.WeekSlots,
		WeekendSlots:     r.WeekendSlots,
		CoverImageURL:    r.CoverImageURL,
		GalleryImageURLs: r.GalleryImageURLs,
	}
}
