package validator

import (
	"escapedia/pkg/logger"
	"escapedia/pkg/model"
	"escapedia/pkg/sanitizer"
	"escapedia/pkg/validation"
)

var localLabels = map[string]string{
	"name":    "El nombre",
	"city":    "La ciudad",
	"address": "La dirección",
	"phone":   "El teléfono",
	"email":   "El email",
	"ownerId": "El propietario",
}

type LocalValidator struct {
	v *validation.Validator
}

func NewLocalValidator(log *logger.Logger) *LocalValidator {
	return &LocalValidator{v: validation.New(log, localLabels)}
}

// Normalize cleans the form in place. Phones become E.164 when they parse as Spanish numbers.
func (lv *LocalValidator) Normalize(in *model.LocalInput) {
	in.Name = sanitizer.NormalizeName(in.Name)
	in.City = sanitizer.NormalizeCity(in.City)
	in.Address = sanitizer.TrimAndNormalize(in.Address)
	in.Phone = sanitizer.NormalizePhone(in.Phone)
	in.Email = sanitizer.NormalizeEmail(in.Email)
	in.OwnerID = sanitizer.TrimAndNormalize(in.OwnerID)
}

func (lv *LocalValidator) Validate(in *model.LocalInput) error {
	return lv.v.Struct(in)
}

// InputFromLocal prefills the inline edit form.
func InputFromLocal(l *model.Local) model.LocalInput {
	return model.LocalInput{
		Name:    l.Name,
		City:    l.City,
		Address: l.Address,
		Phone:   l.Phone,
		Email:   l.Email,
		OwnerID: l.OwnerID,
	}
}
