// Package form models the contact submission: the raw untrusted fields as
// posted and the sanitized Submission that downstream stages are allowed
// to see.
package form

import "net/url"

// POST field names, as rendered in the contact page.
const (
	FieldNombre      = "nombre"
	FieldEmail       = "email"
	FieldTelefono    = "telefono"
	FieldMascota     = "mascota"
	FieldTipoMascota = "tipo-mascota"
	FieldMotivo      = "motivo"
	FieldMensaje     = "mensaje"
	FieldNewsletter  = "newsletter"
	FieldHoneypot    = "website"
	FieldTimestamp   = "timestamp"
	FieldCSRFToken   = "csrf_token"
)

// NotSpecified is the marker substituted for absent optional fields.
const NotSpecified = "No especificado"

// Raw carries the submission exactly as posted. Nothing in it is trusted.
type Raw struct {
	Nombre      string
	Email       string
	Telefono    string
	Mascota     string
	TipoMascota string
	Motivo      string
	Mensaje     string
	Newsletter  bool
	Honeypot    string
	RenderedAt  string
	CSRFToken   string
}

// FromValues extracts the known fields from a parsed POST body. The
// newsletter checkbox follows presence semantics: checked means the key is
// present, whatever its value.
func FromValues(v url.Values) Raw {
	return Raw{
		Nombre:      v.Get(FieldNombre),
		Email:       v.Get(FieldEmail),
		Telefono:    v.Get(FieldTelefono),
		Mascota:     v.Get(FieldMascota),
		TipoMascota: v.Get(FieldTipoMascota),
		Motivo:      v.Get(FieldMotivo),
		Mensaje:     v.Get(FieldMensaje),
		Newsletter:  v.Has(FieldNewsletter),
		Honeypot:    v.Get(FieldHoneypot),
		RenderedAt:  v.Get(FieldTimestamp),
		CSRFToken:   v.Get(FieldCSRFToken),
	}
}

// Submission is the sanitized, validated form. It is safe to interpolate
// into the HTML email bodies.
type Submission struct {
	Nombre      string
	Email       string
	Telefono    string
	Mascota     string
	TipoMascota string
	Motivo      string
	Mensaje     string
	Newsletter  bool
}
