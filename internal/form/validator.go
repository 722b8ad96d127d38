package form

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrMissingFields indicates a required field is absent or blank.
	ErrMissingFields = errors.New("required fields missing")
	// ErrInvalidEmail indicates the email address failed validation.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrInvalidPhone indicates the phone number failed validation.
	ErrInvalidPhone = errors.New("invalid phone number")
)

// spanishPhone matches nine digits starting with 6-9, the national
// mobile/landline numbering plan.
var spanishPhone = regexp.MustCompile(`^[6-9]\d{8}$`)

// Validator checks presence and format of submission fields and produces
// the sanitized Submission.
type Validator struct {
	validate *validator.Validate
	required []string
}

// NewValidator constructs a Validator requiring the given fields. An empty
// list falls back to the standard required set.
func NewValidator(required []string) *Validator {
	if len(required) == 0 {
		required = []string{FieldNombre, FieldEmail, FieldTelefono, FieldMotivo, FieldMensaje}
	}

	v := validator.New()
	// Errors only occur for invalid registrations, caught at startup.
	if err := v.RegisterValidation("phone_es", func(fl validator.FieldLevel) bool {
		return spanishPhone.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	return &Validator{validate: v, required: required}
}

// MissingRequired reports whether any required field is absent or blank
// after trimming. Presence is all-or-nothing: one missing field rejects
// the whole submission.
func (v *Validator) MissingRequired(raw Raw) bool {
	fields := map[string]string{
		FieldNombre:      raw.Nombre,
		FieldEmail:       raw.Email,
		FieldTelefono:    raw.Telefono,
		FieldMascota:     raw.Mascota,
		FieldTipoMascota: raw.TipoMascota,
		FieldMotivo:      raw.Motivo,
		FieldMensaje:     raw.Mensaje,
	}

	for _, name := range v.required {
		if strings.TrimSpace(fields[name]) == "" {
			return true
		}
	}
	return false
}

// Validate sanitizes the raw fields and checks formats. Text fields are
// transformed, never rejected; email and phone reject on failure. Optional
// fields default to the NotSpecified marker.
func (v *Validator) Validate(raw Raw) (Submission, error) {
	email := sanitizeEmail(raw.Email)
	if err := v.validate.Var(email, "required,email"); err != nil {
		return Submission{}, ErrInvalidEmail
	}
	// The library accepts dotless domains; real-world addresses have one.
	if at := strings.LastIndexByte(email, '@'); at < 0 || !strings.Contains(email[at+1:], ".") {
		return Submission{}, ErrInvalidEmail
	}

	phone := digitsOnly(raw.Telefono)
	if err := v.validate.Var(phone, "required,phone_es"); err != nil {
		return Submission{}, ErrInvalidPhone
	}

	sub := Submission{
		Nombre:      sanitizeText(raw.Nombre),
		Email:       email,
		Telefono:    phone,
		Mascota:     optionalText(raw.Mascota),
		TipoMascota: optionalText(raw.TipoMascota),
		Motivo:      sanitizeText(raw.Motivo),
		Mensaje:     sanitizeText(raw.Mensaje),
		Newsletter:  raw.Newsletter,
	}
	return sub, nil
}

func optionalText(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotSpecified
	}
	return sanitizeText(s)
}
