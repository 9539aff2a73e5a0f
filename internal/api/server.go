package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ikigai-ua/formrelay/internal/service"
)

// Server holds all dependencies for the HTTP handlers.
type Server struct {
	submissionSvc service.SubmissionService
	logger        *slog.Logger
}

// New creates a new API Server backed by the provided service.
func New(submissionSvc service.SubmissionService, logger *slog.Logger) *Server {
	return &Server{
		submissionSvc: submissionSvc,
		logger:        logger,
	}
}

// Mount registers all API routes under the given router.
func (s *Server) Mount(r chi.Router) {
	// Registered for every method: anything but POST is answered with 405 by the handler.
	r.HandleFunc("/submitForm", s.handleSubmitForm)
	r.Get("/version", s.handleVersion)
}

// ─── Shared helpers ───────────────────────────────────────────────────────────

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
