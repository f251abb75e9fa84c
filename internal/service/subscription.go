package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lgsbc-git/lgstech-backend/internal/domain"
	"github.com/lgsbc-git/lgstech-backend/internal/mailer"
	"github.com/lgsbc-git/lgstech-backend/internal/store"
)

// ConfirmPolicy decides what a failed confirmation email does to Subscribe.
type ConfirmPolicy int

const (
	// ConfirmBestEffort logs the failure and reports success.
	ConfirmBestEffort ConfirmPolicy = iota
	// ConfirmRequired returns the failure. The subscription is kept.
	ConfirmRequired
)

// PolicyFor maps the CONFIRMATION_REQUIRED setting to a policy.
func PolicyFor(required bool) ConfirmPolicy {
	if required {
		return ConfirmRequired
	}
	return ConfirmBestEffort
}

// SubscriptionService owns the subscribe, unsubscribe and admin listing flows.
type SubscriptionService struct {
	store     store.SubscriberStore
	sender    mailer.Sender
	templates *mailer.Templates
	adminKey  string
	policy    ConfirmPolicy
	logger    *slog.Logger
}

func NewSubscriptionService(s store.SubscriberStore, sender mailer.Sender, templates *mailer.Templates, adminKey string, policy ConfirmPolicy, logger *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		store:     s,
		sender:    sender,
		templates: templates,
		adminKey:  adminKey,
		policy:    policy,
		logger:    logger,
	}
}

// Subscribe registers rawEmail and sends the confirmation email.
func (s *SubscriptionService) Subscribe(ctx context.Context, rawEmail string) (domain.RecordID, error) {
	email, err := domain.ParseEmail(rawEmail)
	if err != nil {
		return "", err
	}

	// The client going away must not abort a write halfway.
	ctx = context.WithoutCancel(ctx)

	exists, err := s.store.Exists(ctx, email)
	if err != nil {
		return "", fmt.Errorf("checking subscriber: %w", err)
	}
	if exists {
		return "", domain.ErrAlreadySubscribed
	}

	id, err := s.store.Add(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return "", err
		}
		return "", fmt.Errorf("adding subscriber: %w", err)
	}
	s.logger.Info("subscriber added", "id", id)

	if err := s.confirm(ctx, email); err != nil {
		if s.policy == ConfirmRequired {
			return id, err
		}
		s.logger.Warn("confirmation email not sent", "id", id, "error", err)
	}
	return id, nil
}

func (s *SubscriptionService) confirm(ctx context.Context, email string) error {
	msg, err := s.templates.Confirmation(email)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNotificationFailure, err)
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		if errors.Is(err, domain.ErrNotificationFailure) {
			return err
		}
		return fmt.Errorf("sending confirmation: %w: %w", domain.ErrNotificationFailure, err)
	}
	return nil
}

// Unsubscribe removes rawEmail. Removing an unknown address succeeds.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, rawEmail string) error {
	email := domain.NormalizeEmail(rawEmail)
	if email == "" {
		return domain.ErrEmailRequired
	}

	removed, err := s.store.Remove(context.WithoutCancel(ctx), email)
	if err != nil {
		return fmt.Errorf("removing subscriber: %w", err)
	}
	s.logger.Info("unsubscribe processed", "removed", removed)
	return nil
}

// ListSubscribers returns every subscriber, newest first, when credential
// matches the configured admin key exactly.
func (s *SubscriptionService) ListSubscribers(ctx context.Context, credential string) ([]domain.Subscriber, error) {
	if !s.authorized(credential) {
		return nil, domain.ErrBadCredential
	}

	subs, err := s.store.List(context.WithoutCancel(ctx))
	if err != nil {
		return nil, fmt.Errorf("listing subscribers: %w", err)
	}
	return subs, nil
}

func (s *SubscriptionService) authorized(credential string) bool {
	if s.adminKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(credential), []byte(s.adminKey)) == 1
}
