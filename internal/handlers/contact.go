package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/fisacferrandez/contactform/internal/clientip"
	"github.com/fisacferrandez/contactform/internal/form"
	"github.com/fisacferrandez/contactform/internal/logging"
	"github.com/fisacferrandez/contactform/internal/pipeline"
)

// sessionCookie carries the anonymous session the CSRF token is bound to.
const sessionCookie = "contact_session"

// Redirect outcome codes the landing page knows how to render. The bot and
// rate-limit codes deliberately carry no detail: automated clients get a
// generic bounce, not feedback to tune against.
var reasonCodes = map[pipeline.Reason]string{
	pipeline.ReasonRateLimited:   "rate_limit",
	pipeline.ReasonBotDetected:   "bot",
	pipeline.ReasonMissingFields: "campos",
	pipeline.ReasonInvalidEmail:  "email",
	pipeline.ReasonInvalidPhone:  "telefono",
	pipeline.ReasonCSRFInvalid:   "csrf",
	pipeline.ReasonSendFailed:    "true",
}

// ContactHandler implements the contact form endpoints.
type ContactHandler struct {
	Processor  SubmissionProcessor
	Tokens     TokenIssuer
	Audit      Auditor
	LandingURL string
}

// Submit handles POST /contacto/enviar. The response is always a redirect
// back to the landing page with the outcome in the query string.
func (h ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	identity := clientip.FromRequest(r)

	if r.Method != http.MethodPost {
		if h.Audit != nil {
			h.Audit.Record(identity, "intento de acceso no autorizado - método: %s", r.Method)
		}
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Processor == nil {
		logger.Error("submission processor unavailable")
		h.redirect(w, r, "error", "true")
		return
	}

	if err := r.ParseForm(); err != nil {
		logger.Warn("invalid form payload", "error", err)
		h.redirect(w, r, "error", "campos")
		return
	}

	decision := h.Processor.Process(ctx, identity, h.sessionID(r), form.FromValues(r.PostForm))
	if decision.Accepted {
		h.redirect(w, r, "success", "true")
		return
	}

	code, ok := reasonCodes[decision.Reason]
	if !ok {
		code = "true"
	}
	logger.Info("submission rejected", "reason", string(decision.Reason), "ip", identity)
	h.redirect(w, r, "error", code)
}

// Token handles GET /contacto/token: it establishes the anonymous session
// cookie and returns the session's live CSRF token.
func (h ContactHandler) Token(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Tokens == nil {
		logger.Error("token issuer unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "token service unavailable"})
		return
	}

	sessionID := h.sessionID(r)
	if sessionID == "" {
		sessionID = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sessionID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	token, err := h.Tokens.Issue(ctx, sessionID)
	if err != nil {
		logger.Error("issue csrf token", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to issue token"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"csrfToken": token})
}

func (h ContactHandler) sessionID(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h ContactHandler) redirect(w http.ResponseWriter, r *http.Request, key, value string) {
	target := h.LandingURL
	if target == "" {
		target = "/contacto.html"
	}
	query := url.Values{key: {value}}
	http.Redirect(w, r, target+"?"+query.Encode(), http.StatusSeeOther)
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
	}
}
