package handlers

import (
	"context"

	"github.com/fisacferrandez/contactform/internal/form"
	"github.com/fisacferrandez/contactform/internal/pipeline"
)

// SubmissionProcessor runs a raw submission through the gating pipeline.
type SubmissionProcessor interface {
	Process(ctx context.Context, identity, sessionID string, raw form.Raw) pipeline.Decision
}

// TokenIssuer hands out the session's live CSRF token.
type TokenIssuer interface {
	Issue(ctx context.Context, sessionID string) (string, error)
}

// Auditor receives security events worth keeping in the audit trail.
type Auditor interface {
	Record(identity, format string, args ...any)
}
