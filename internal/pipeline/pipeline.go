// Package pipeline composes the submission gates into one ordered decision
// process. Every gate is an early exit: the first failing check settles the
// outcome, and only a submission passing all of them reaches email dispatch.
package pipeline

import (
	"context"
	"errors"

	"github.com/fisacferrandez/contactform/internal/form"
	"github.com/fisacferrandez/contactform/internal/logging"
	"github.com/fisacferrandez/contactform/internal/mailer"
)

// Reason identifies why a submission was rejected.
type Reason string

const (
	ReasonRateLimited   Reason = "rate-limited"
	ReasonBotDetected   Reason = "bot-detected"
	ReasonMissingFields Reason = "missing-fields"
	ReasonInvalidEmail  Reason = "invalid-email"
	ReasonInvalidPhone  Reason = "invalid-phone"
	ReasonCSRFInvalid   Reason = "csrf-invalid"
	ReasonSendFailed    Reason = "send-failed"
)

// Decision is the terminal outcome for one submission.
type Decision struct {
	Accepted   bool
	Reason     Reason
	Submission form.Submission
}

func rejected(reason Reason) Decision {
	return Decision{Reason: reason}
}

// RateLimiter gates submissions per client identity.
type RateLimiter interface {
	Allow(ctx context.Context, identity string) bool
}

// BotFilter evaluates the passive bot heuristics.
type BotFilter interface {
	Passes(identity, honeypot, renderedAt string) bool
}

// FieldValidator checks presence and formats and produces the sanitized
// submission.
type FieldValidator interface {
	MissingRequired(raw form.Raw) bool
	Validate(raw form.Raw) (form.Submission, error)
}

// TokenVerifier consumes one-shot CSRF tokens.
type TokenVerifier interface {
	Verify(ctx context.Context, sessionID, token string) bool
}

// Composer renders the two outbound messages.
type Composer interface {
	Notification(sub form.Submission, identity string) (mailer.Message, error)
	Confirmation(sub form.Submission) (mailer.Message, error)
}

// Auditor receives security events worth keeping in the audit trail.
type Auditor interface {
	Record(identity, format string, args ...any)
}

// Pipeline wires the gates together. CSRFRequired toggles the token gate;
// everything else always runs.
type Pipeline struct {
	Limiter      RateLimiter
	Bots         BotFilter
	Fields       FieldValidator
	Tokens       TokenVerifier
	Compose      Composer
	Sender       mailer.Sender
	Audit        Auditor
	CSRFRequired bool
}

// Process runs the raw submission through every gate in order and, on
// acceptance, dispatches both emails. The business notification must
// succeed for the submission to count as accepted; the confirmation to the
// submitter is best effort.
func (p *Pipeline) Process(ctx context.Context, identity, sessionID string, raw form.Raw) Decision {
	ctx, span := logging.StartSpan(ctx, "process_submission")
	defer span.End()
	logger := logging.FromContext(ctx)

	if !p.Limiter.Allow(ctx, identity) {
		return rejected(ReasonRateLimited)
	}

	if !p.Bots.Passes(identity, raw.Honeypot, raw.RenderedAt) {
		return rejected(ReasonBotDetected)
	}

	if p.Fields.MissingRequired(raw) {
		p.record(identity, "campos requeridos faltantes")
		return rejected(ReasonMissingFields)
	}

	sub, err := p.Fields.Validate(raw)
	switch {
	case err == nil:
	case errors.Is(err, form.ErrInvalidEmail):
		p.record(identity, "email inválido: %s", raw.Email)
		return rejected(ReasonInvalidEmail)
	case errors.Is(err, form.ErrInvalidPhone):
		p.record(identity, "teléfono inválido: %s", raw.Telefono)
		return rejected(ReasonInvalidPhone)
	default:
		logger.Error("field validation failed", "error", err)
		return rejected(ReasonMissingFields)
	}

	if p.CSRFRequired {
		if p.Tokens == nil || !p.Tokens.Verify(ctx, sessionID, raw.CSRFToken) {
			p.record(identity, "token CSRF inválido")
			return rejected(ReasonCSRFInvalid)
		}
	}

	notification, err := p.Compose.Notification(sub, identity)
	if err != nil {
		logger.Error("compose notification", "error", err)
		return rejected(ReasonSendFailed)
	}
	if err := p.Sender.Send(ctx, notification); err != nil {
		logger.Error("send notification", "error", err, "to", notification.To)
		p.record(identity, "error al enviar email a %s", notification.To)
		return rejected(ReasonSendFailed)
	}
	p.record(identity, "email enviado correctamente a %s", notification.To)

	confirmation, err := p.Compose.Confirmation(sub)
	if err != nil {
		logger.Error("compose confirmation", "error", err)
	} else if err := p.Sender.Send(ctx, confirmation); err != nil {
		// A bounced receipt must not fail an already-accepted submission.
		logger.Warn("send confirmation", "error", err, "to", confirmation.To)
	}

	p.record(identity, "formulario procesado correctamente - Email: %s", sub.Email)
	return Decision{Accepted: true, Submission: sub}
}

func (p *Pipeline) record(identity, format string, args ...any) {
	if p.Audit != nil {
		p.Audit.Record(identity, format, args...)
	}
}
