package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lgsbc-git/lgstech-backend/internal/domain"
)

// Contacts forwards contact-form submissions.
type Contacts interface {
	Send(ctx context.Context, msg domain.ContactMessage) error
}

type ContactHandler struct {
	contacts Contacts
	logger   *slog.Logger
}

func NewContactHandler(contacts Contacts, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{contacts: contacts, logger: logger}
}

func (h *ContactHandler) Send(w http.ResponseWriter, r *http.Request) {
	const failed = "Failed to send message. Try again later."

	var req domain.ContactMessage
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondFailure(w, r, h.logger, domain.ErrContactFieldsRequired, failed)
		return
	}

	if err := h.contacts.Send(r.Context(), req); err != nil {
		respondFailure(w, r, h.logger, err, failed)
		return
	}

	respondJSON(w, http.StatusOK, MessageResponse{Success: "Message sent successfully!"})
}
