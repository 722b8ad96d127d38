package handlers

import "net/http"

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	contact := ContactHandler{
		Processor:  deps.Processor,
		Tokens:     deps.Tokens,
		Audit:      deps.Audit,
		LandingURL: deps.LandingURL,
	}

	mux.HandleFunc("/healthz", health.Handle)
	mux.HandleFunc("/contacto/enviar", contact.Submit)
	mux.HandleFunc("/contacto/token", contact.Token)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Processor  SubmissionProcessor
	Tokens     TokenIssuer
	Audit      Auditor
	LandingURL string
}
