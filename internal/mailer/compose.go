package mailer

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/fisacferrandez/contactform/internal/form"
)

// Composer renders the notification and confirmation messages for a
// validated submission.
type Composer struct {
	recipient string
	company   string
	from      string
	now       func() time.Time
}

// NewComposer constructs a Composer for the business mailbox and sender
// identity.
func NewComposer(recipient, company, from string) *Composer {
	return &Composer{
		recipient: recipient,
		company:   company,
		from:      from,
		now:       time.Now,
	}
}

type notificationData struct {
	Nombre      template.HTML
	Email       string
	Telefono    string
	Mascota     template.HTML
	TipoMascota template.HTML
	Motivo      template.HTML
	Mensaje     template.HTML
	Newsletter  string
	FechaHora   string
	IP          string
	Empresa     string
}

type confirmationData struct {
	Nombre  template.HTML
	Motivo  template.HTML
	Mascota template.HTML
	Empresa string
}

// Notification builds the message for the business mailbox. It carries
// every submitted field plus the submission time and resolved client IP.
func (c *Composer) Notification(sub form.Submission, identity string) (Message, error) {
	newsletter := "No"
	if sub.Newsletter {
		newsletter = "Sí"
	}

	data := notificationData{
		Nombre:      safe(sub.Nombre),
		Email:       sub.Email,
		Telefono:    sub.Telefono,
		Mascota:     safe(sub.Mascota),
		TipoMascota: safe(sub.TipoMascota),
		Motivo:      safe(sub.Motivo),
		Mensaje:     multiline(sub.Mensaje),
		Newsletter:  newsletter,
		FechaHora:   c.now().Format("02/01/2006 15:04:05"),
		IP:          identity,
		Empresa:     c.company,
	}

	body, err := render(notificationTmpl, data)
	if err != nil {
		return Message{}, err
	}

	return Message{
		To:       c.recipient,
		Subject:  "[Web Contacto] " + htmlToText(sub.Motivo),
		HTMLBody: body,
		Headers: map[string]string{
			"MIME-Version": "1.0",
			"Content-Type": "text/html; charset=UTF-8",
			"From":         fmt.Sprintf("%s <%s>", c.company, c.from),
			"Reply-To":     sub.Email,
			"X-Priority":   "1",
		},
	}, nil
}

// Confirmation builds the acknowledgement sent back to the submitter.
func (c *Composer) Confirmation(sub form.Submission) (Message, error) {
	data := confirmationData{
		Nombre:  safe(sub.Nombre),
		Motivo:  safe(sub.Motivo),
		Mascota: safe(sub.Mascota),
		Empresa: c.company,
	}

	body, err := render(confirmationTmpl, data)
	if err != nil {
		return Message{}, err
	}

	return Message{
		To:       sub.Email,
		Subject:  "Confirmación de recepción - " + c.company,
		HTMLBody: body,
		Headers: map[string]string{
			"MIME-Version": "1.0",
			"Content-Type": "text/html; charset=UTF-8",
			"From":         fmt.Sprintf("%s <%s>", c.company, c.from),
		},
	}, nil
}

// WithNowFunc allows tests to override the time source.
func (c *Composer) WithNowFunc(now func() time.Time) {
	c.now = now
}

// safe marks a field as already escaped. Submission fields come out of the
// validator entity-encoded, so re-escaping would mangle them.
func safe(s string) template.HTML {
	return template.HTML(s)
}

// multiline keeps the submitter's paragraph breaks in the HTML body.
func multiline(s string) template.HTML {
	return template.HTML(strings.ReplaceAll(s, "\n", "<br>\n"))
}

// htmlToText undoes the entity encoding for use in a plain-text context
// such as the subject line.
func htmlToText(s string) string {
	r := strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&#34;", `"`,
		"&#39;", "'",
		"&amp;", "&",
	)
	return r.Replace(s)
}

func render(tmpl *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render email template: %w", err)
	}
	return b.String(), nil
}
