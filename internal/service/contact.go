package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lgsbc-git/lgstech-backend/internal/domain"
	"github.com/lgsbc-git/lgstech-backend/internal/mailer"
)

// ContactService forwards contact-form submissions to the support inbox.
type ContactService struct {
	sender    mailer.Sender
	templates *mailer.Templates
	recipient string
	logger    *slog.Logger
}

func NewContactService(sender mailer.Sender, templates *mailer.Templates, recipient string, logger *slog.Logger) *ContactService {
	return &ContactService{
		sender:    sender,
		templates: templates,
		recipient: recipient,
		logger:    logger,
	}
}

// Send validates msg and emails it to the configured recipient.
func (s *ContactService) Send(ctx context.Context, msg domain.ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Message = strings.TrimSpace(msg.Message)
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		return domain.ErrContactFieldsRequired
	}

	mail, err := s.templates.Contact(msg, s.recipient)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNotificationFailure, err)
	}

	if err := s.sender.Send(context.WithoutCancel(ctx), mail); err != nil {
		if errors.Is(err, domain.ErrNotificationFailure) {
			return err
		}
		return fmt.Errorf("sending contact message: %w: %w", domain.ErrNotificationFailure, err)
	}
	s.logger.Info("contact message sent", "recipient", s.recipient)
	return nil
}
