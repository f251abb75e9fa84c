package domain

import (
	"time"
)

// Subscriber is one entry of the mailing-list registry. CreatedAt is nil for
// backends that only persist the address.
type Subscriber struct {
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// RecordID identifies a stored subscriber. Its format depends on the backend.
type RecordID string

type SubscribeRequest struct {
	Email string `json:"email"`
}

type UnsubscribeRequest struct {
	Email string `json:"email"`
}

type ListSubscribersResponse struct {
	Subscribers []Subscriber `json:"subscribers"`
}
