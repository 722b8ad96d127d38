package form

import (
	"html"
	"strings"
)

// sanitizeText normalizes a free-text field: trim, drop stray escape
// backslashes, then entity-encode quotes and angle brackets so the value
// can be embedded in an HTML email body.
func sanitizeText(s string) string {
	s = strings.TrimSpace(s)
	s = stripSlashes(s)
	return html.EscapeString(s)
}

// stripSlashes removes escaping backslashes: `\'` becomes `'`, `\\`
// becomes `\`. Legacy clients that escape their payloads keep working.
func stripSlashes(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, r := range s {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}

// emailAllowed reports whether r may appear in a mail address. Mirrors the
// character class of the classic sanitizing filter.
func emailAllowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("!#$%&'*+-/=?^_`{|}~@.[]", r)
}

// sanitizeEmail drops every character that cannot appear in an address.
func sanitizeEmail(s string) string {
	return strings.Map(func(r rune) rune {
		if emailAllowed(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(s))
}

// digitsOnly strips everything but ASCII digits.
func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
