package validator

import (
	"escapedia/pkg/logger"
	"escapedia/pkg/model"
	"escapedia/pkg/sanitizer"
	"escapedia/pkg/validation"
)

var authLabels = map[string]string{
	"name":        "El nombre",
	"email":       "El email",
	"password":    "La contraseña",
	"newPassword": "La nueva contraseña",
	"Confirm":     "La confirmación",
}

// Forgot is the forgot-password form.
type Forgot struct {
	Email string `json:"email" validate:"required,email"`
}

type AuthValidator struct {
	v *validation.Validator
}

func NewAuthValidator(log *logger.Logger) *AuthValidator {
	return &AuthValidator{v: validation.New(log, authLabels)}
}

func (av *AuthValidator) Credentials(c *model.Credentials) error {
	c.Email = sanitizer.NormalizeEmail(c.Email)
	return av.v.Struct(c)
}

func (av *AuthValidator) Registration(r *model.Registration) error {
	r.Name = sanitizer.NormalizeName(r.Name)
	r.Email = sanitizer.NormalizeEmail(r.Email)
	return av.v.Struct(r)
}

func (av *AuthValidator) Forgot(f *Forgot) error {
	f.Email = sanitizer.NormalizeEmail(f.Email)
	return av.v.Struct(f)
}

// Reset checks length and that both passwords match. The token is checked by the caller.
func (av *AuthValidator) Reset(r *model.PasswordReset) error {
	return av.v.Struct(r)
}
