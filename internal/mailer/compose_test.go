package mailer

import (
	"strings"
	"testing"
	"time"

	"github.com/fisacferrandez/contactform/internal/form"
)

func testComposer() *Composer {
	c := NewComposer("info@clinicafisacferrandez.com", "Clínica Veterinaria Fisac Ferrández", "noreply@clinicafisacferrandez.com")
	c.WithNowFunc(func() time.Time {
		return time.Date(2026, 5, 2, 12, 30, 45, 0, time.UTC)
	})
	return c
}

func testSubmission() form.Submission {
	return form.Submission{
		Nombre:      "María García",
		Email:       "maria@example.com",
		Telefono:    "612345678",
		Mascota:     "Luna",
		TipoMascota: "perro",
		Motivo:      "Consulta general",
		Mensaje:     "Primera línea.\nSegunda línea.",
		Newsletter:  true,
	}
}

func TestNotificationCarriesAllFields(t *testing.T) {
	msg, err := testComposer().Notification(testSubmission(), "85.84.10.20")
	if err != nil {
		t.Fatalf("notification: %v", err)
	}

	if msg.To != "info@clinicafisacferrandez.com" {
		t.Fatalf("unexpected recipient %s", msg.To)
	}
	if msg.Subject != "[Web Contacto] Consulta general" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	if msg.Headers["Reply-To"] != "maria@example.com" {
		t.Fatalf("expected reply-to submitter, got %q", msg.Headers["Reply-To"])
	}

	for _, want := range []string{
		"María García", "maria@example.com", "612345678", "Luna", "perro",
		"Primera línea.<br>", "Sí", "02/05/2026 12:30:45", "85.84.10.20",
	} {
		if !strings.Contains(msg.HTMLBody, want) {
			t.Fatalf("body missing %q", want)
		}
	}
}

func TestNotificationDoesNotDoubleEscape(t *testing.T) {
	sub := testSubmission()
	sub.Nombre = "O&#39;Brien"

	msg, err := testComposer().Notification(sub, "85.84.10.20")
	if err != nil {
		t.Fatalf("notification: %v", err)
	}
	if strings.Contains(msg.HTMLBody, "&amp;#39;") {
		t.Fatal("sanitized entities were escaped a second time")
	}
	if !strings.Contains(msg.HTMLBody, "O&#39;Brien") {
		t.Fatal("expected sanitized name verbatim")
	}
}

func TestNotificationSubjectDecodesEntities(t *testing.T) {
	sub := testSubmission()
	sub.Motivo = "Revisión &amp; vacunas"

	msg, err := testComposer().Notification(sub, "85.84.10.20")
	if err != nil {
		t.Fatalf("notification: %v", err)
	}
	if msg.Subject != "[Web Contacto] Revisión & vacunas" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
}

func TestConfirmationAddressesSubmitter(t *testing.T) {
	msg, err := testComposer().Confirmation(testSubmission())
	if err != nil {
		t.Fatalf("confirmation: %v", err)
	}

	if msg.To != "maria@example.com" {
		t.Fatalf("unexpected recipient %s", msg.To)
	}
	if !strings.Contains(msg.Subject, "Confirmación de recepción") {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	for _, want := range []string{"María García", "Consulta general", "Luna"} {
		if !strings.Contains(msg.HTMLBody, want) {
			t.Fatalf("body missing %q", want)
		}
	}
	if _, ok := msg.Headers["Reply-To"]; ok {
		t.Fatal("confirmation should not set reply-to")
	}
}

func TestEncodeProducesCRLFMessage(t *testing.T) {
	msg := Message{
		To:      "a@b.com",
		Subject: "Hello",
		Headers: map[string]string{
			"MIME-Version": "1.0",
			"Content-Type": "text/html; charset=UTF-8",
		},
		HTMLBody: "<p>hi</p>",
	}

	payload := string(encode(msg))
	want := "To: a@b.com\r\nSubject: Hello\r\nContent-Type: text/html; charset=UTF-8\r\nMIME-Version: 1.0\r\n\r\n<p>hi</p>"
	if payload != want {
		t.Fatalf("unexpected payload:\n%q", payload)
	}
}
