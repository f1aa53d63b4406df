package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"escapedia/pkg/logger"

	"github.com/go-playground/validator/v10"
)

var hhmmRegex = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// For returns the first message for field, or "".
func (v ValidationErrors) For(field string) string {
	for _, e := range v {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

// First returns the first message, used as the form-level error.
func (v ValidationErrors) First() string {
	if len(v) == 0 {
		return ""
	}
	return v[0].Message
}

// As extracts ValidationErrors from err.
func As(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// Validator wraps validator/v10 with the project tags and Spanish messages.
type Validator struct {
	validate *validator.Validate
	labels   map[string]string
	logger   *logger.Logger
}

// New registers the shared tags. labels maps json field names to visitor-facing names.
func New(log *logger.Logger, labels map[string]string) *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("hhmm", validateHHMM); err != nil {
		log.Fatal("Failed to register 'hhmm' validator", "error", err)
	}

	return &Validator{
		validate: v,
		labels:   labels,
		logger:   log,
	}
}

func validateHHMM(fl validator.FieldLevel) bool {
	return IsHHMM(fl.Field().String())
}

// IsHHMM reports whether s is a 24-hour HH:mm time.
func IsHHMM(s string) bool {
	return hhmmRegex.MatchString(s)
}

// Struct validates s and returns ValidationErrors on failure.
func (v *Validator) Struct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *Validator) label(field string) string {
	if l, ok := v.labels[field]; ok {
		return l
	}
	return field
}

func (v *Validator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		field := err.Field()
		label := v.label(field)
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s es obligatorio", label)
		case "email":
			message = "Introduce un email válido"
		case "url":
			message = fmt.Sprintf("%s debe ser una URL válida", label)
		case "min":
			if err.Kind() == reflect.String {
				message = fmt.Sprintf("%s debe tener al menos %s caracteres", label, err.Param())
			} else if err.Kind() == reflect.Slice {
				message = fmt.Sprintf("%s necesita al menos %s elemento(s)", label, err.Param())
			} else {
				message = fmt.Sprintf("%s debe ser como mínimo %s", label, err.Param())
			}
		case "max":
			if err.Kind() == reflect.String {
				message = fmt.Sprintf("%s admite como máximo %s caracteres", label, err.Param())
			} else {
				message = fmt.Sprintf("%s debe ser como máximo %s", label, err.Param())
			}
		case "gte":
			message = fmt.Sprintf("%s no puede ser negativo", label)
		case "gtefield":
			message = fmt.Sprintf("%s debe ser mayor o igual que %s", label, v.label(lowerFirst(err.Param())))
		case "eqfield":
			message = "Las contraseñas no coinciden"
		case "oneof":
			message = fmt.Sprintf("%s no es un valor permitido", label)
		case "hhmm":
			message = fmt.Sprintf("%s: usa el formato HH:mm", label)
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   rootField(err.Namespace(), field),
			Message: message,
		})
	}

	return validationErrors
}

// rootField maps "RoomInput.weekSlots[2]" to "weekSlots" so forms can attach the message.
func rootField(namespace, field string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) < 2 {
		return field
	}
	name, _, _ := strings.Cut(parts[1], "[")
	return name
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
