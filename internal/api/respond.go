package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/lgsbc-git/lgstech-backend/internal/domain"
)

// MessageResponse is the success envelope of the write endpoints.
type MessageResponse struct {
	Success string `json:"success"`
}

// ErrorResponse is the failure envelope of every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, ErrorResponse{Error: msg})
}

// respondFailure maps err to a status code and a client-safe message.
// Unclassified errors become a 500 carrying fallback.
func respondFailure(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, fallback string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	}

	msg := fallback
	if status != http.StatusInternalServerError {
		msg = domain.PublicMessage(err, fallback)
	}

	level := slog.LevelWarn
	if status == http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(r.Context(), level, "request failed",
		"request_id", middleware.GetReqID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"error", err,
	)

	respondError(w, status, msg)
}
