package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lgsbc-git/lgstech-backend/internal/domain"
)

const adminKeyHeader = "X-API-Key"

// Subscriptions is the subscriber registry as seen by the HTTP layer.
type Subscriptions interface {
	Subscribe(ctx context.Context, rawEmail string) (domain.RecordID, error)
	Unsubscribe(ctx context.Context, rawEmail string) error
	ListSubscribers(ctx context.Context, credential string) ([]domain.Subscriber, error)
}

type SubscriberHandler struct {
	subs   Subscriptions
	logger *slog.Logger
}

func NewSubscriberHandler(subs Subscriptions, logger *slog.Logger) *SubscriberHandler {
	return &SubscriberHandler{subs: subs, logger: logger}
}

func (h *SubscriberHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	const failed = "Failed to subscribe. Try again later."

	var req domain.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondFailure(w, r, h.logger, domain.ErrEmailRequired, failed)
		return
	}

	if _, err := h.subs.Subscribe(r.Context(), req.Email); err != nil {
		respondFailure(w, r, h.logger, err, failed)
		return
	}

	respondJSON(w, http.StatusOK, MessageResponse{Success: "Thank you for subscribing!"})
}

func (h *SubscriberHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	const failed = "Failed to unsubscribe. Try again later."

	var req domain.UnsubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondFailure(w, r, h.logger, domain.ErrEmailRequired, failed)
		return
	}

	if err := h.subs.Unsubscribe(r.Context(), req.Email); err != nil {
		respondFailure(w, r, h.logger, err, failed)
		return
	}

	respondJSON(w, http.StatusOK, MessageResponse{Success: "You have been unsubscribed successfully."})
}

func (h *SubscriberHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.subs.ListSubscribers(r.Context(), r.Header.Get(adminKeyHeader))
	if err != nil {
		respondFailure(w, r, h.logger, err, "Failed to fetch subscribers")
		return
	}

	respondJSON(w, http.StatusOK, domain.ListSubscribersResponse{Subscribers: subs})
}
