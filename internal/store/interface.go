package store

import (
	"context"

	"github.com/lgsbc-git/lgstech-backend/internal/domain"
)

// SubscriberStore is the only owner of the persisted subscriber registry.
// Emails passed in are already normalized. Backend faults unwrap to
// domain.ErrStorageUnavailable.
type SubscriberStore interface {
	Exists(ctx context.Context, email string) (bool, error)
	// Add fails with domain.ErrAlreadySubscribed if email is present.
	Add(ctx context.Context, email string) (domain.RecordID, error)
	// Remove reports whether a record was deleted. Absence is not an error.
	Remove(ctx context.Context, email string) (bool, error)
	// List returns all records, newest first.
	List(ctx context.Context) ([]domain.Subscriber, error)
	Close() error
}

var (
	_ SubscriberStore = (*SQLStore)(nil)
	_ SubscriberStore = (*FileStore)(nil)
)
