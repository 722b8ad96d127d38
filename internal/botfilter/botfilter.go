// Package botfilter implements the two passive bot checks: a honeypot
// field hidden from humans and a minimum render-to-submit time.
package botfilter

import (
	"strconv"
	"time"
)

// Auditor receives security events worth keeping in the audit trail.
type Auditor interface {
	Record(identity, format string, args ...any)
}

// Filter evaluates a submission against both bot heuristics. The checks
// are independent: either one failing marks the submission as automated.
type Filter struct {
	minElapsed time.Duration
	audit      Auditor
	now        func() time.Time
}

// New constructs a Filter requiring at least minElapsed between form render
// and submission.
func New(minElapsed time.Duration, auditor Auditor) *Filter {
	if minElapsed <= 0 {
		minElapsed = 3 * time.Second
	}
	return &Filter{
		minElapsed: minElapsed,
		audit:      auditor,
		now:        time.Now,
	}
}

// Passes reports whether the submission looks human. honeypot is the raw
// decoy field value; renderedAt is the raw unix-seconds timestamp the form
// carried, empty when the client did not send one.
func (f *Filter) Passes(identity, honeypot, renderedAt string) bool {
	if honeypot != "" {
		if f.audit != nil {
			f.audit.Record(identity, "bot detectado - honeypot: %s", honeypot)
		}
		return false
	}

	// A missing or garbled timestamp passes: old cached pages may not
	// carry the field at all.
	if renderedAt == "" {
		return true
	}
	rendered, err := strconv.ParseInt(renderedAt, 10, 64)
	if err != nil {
		return true
	}

	if f.now().Sub(time.Unix(rendered, 0)) < f.minElapsed {
		if f.audit != nil {
			f.audit.Record(identity, "envío demasiado rápido - posible bot")
		}
		return false
	}

	return true
}

// WithNowFunc allows tests to override the time source.
func (f *Filter) WithNowFunc(now func() time.Time) {
	f.now = now
}
