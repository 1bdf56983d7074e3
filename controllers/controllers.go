package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/blogem/crud-audit/crud"
	"github.com/blogem/crud-audit/services"
)

// errorResponse is the JSON body of every error reply
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v with the given status code
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError replies with status and the error message. Server errors are
// logged and their details hidden from the client.
func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	message := err.Error()
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		message = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: message})
}

// Controllers holds all controller instances
type Controllers struct {
	Auth  *AuthController
	Team  *TeamController
	Audit *AuditController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services, inTx crud.TxRunner) *Controllers {
	return &Controllers{
		Auth:  NewAuthController(services.Auth),
		Team:  NewTeamController(services, inTx),
		Audit: NewAuditController(services),
	}
}
