package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"sync"

	"github.com/lgsbc-git/lgstech-backend/internal/domain"
	"github.com/lgsbc-git/lgstech-backend/internal/mailer"
)

// memStore is an in-memory SubscriberStore that counts writes.
type memStore struct {
	mu     sync.Mutex
	emails []string
	writes int
	err    error
}

func (m *memStore) Exists(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for _, e := range m.emails {
		if e == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Add(ctx context.Context, email string) (domain.RecordID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	for _, e := range m.emails {
		if e == email {
			return "", domain.ErrAlreadySubscribed
		}
	}
	m.emails = append(m.emails, email)
	m.writes++
	return domain.RecordID(strconv.Itoa(len(m.emails))), nil
}

func (m *memStore) Remove(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for i, e := range m.emails {
		if e == email {
			m.emails = append(m.emails[:i], m.emails[i+1:]...)
			m.writes++
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) List(ctx context.Context) ([]domain.Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	subs := make([]domain.Subscriber, 0, len(m.emails))
	for i := len(m.emails) - 1; i >= 0; i-- {
		subs = append(subs, domain.Subscriber{Email: m.emails[i]})
	}
	return subs, nil
}

func (m *memStore) Close() error { return nil }

type fakeSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (f *fakeSender) Send(ctx context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

var errSMTPDown = errors.New("dial tcp: connection refused")

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}
