package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/lgsbc-git/lgstech-backend/internal/api"
	"github.com/lgsbc-git/lgstech-backend/internal/config"
	"github.com/lgsbc-git/lgstech-backend/internal/mailer"
	"github.com/lgsbc-git/lgstech-backend/internal/service"
	"github.com/lgsbc-git/lgstech-backend/internal/store"
	"github.com/lgsbc-git/lgstech-backend/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transportStub struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *transportStub) Send(ctx context.Context, msg mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConfirmationSender_Sync(t *testing.T) {
	transport := &transportStub{}
	sender, pool := confirmationSender(&config.Config{MailWorkers: 2}, transport, discardLogger())

	assert.Nil(t, pool)
	assert.Same(t, transport, sender)
}

func TestConfirmationSender_Async(t *testing.T) {
	transport := &transportStub{}
	sender, pool := confirmationSender(&config.Config{MailAsync: true, MailWorkers: 2}, transport, discardLogger())
	require.NotNil(t, pool)

	_, ok := sender.(*worker.Pool)
	assert.True(t, ok)

	require.NoError(t, sender.Send(context.Background(), mailer.Message{To: "user@example.com"}))
	pool.Stop()
	assert.Equal(t, 1, transport.calls)
}

func TestAsyncMail_ContactFailureStillReported(t *testing.T) {
	transport := &transportStub{err: errors.New("535 authentication failed")}
	cfg := &config.Config{MailAsync: true, MailWorkers: 1, ContactRecipient: "support@lgsbc.com.au"}
	logger := discardLogger()

	confirmSender, pool := confirmationSender(cfg, transport, logger)
	defer pool.Stop()

	templates, err := mailer.NewTemplates("https://lgstech.ai")
	require.NoError(t, err)
	medium, err := store.NewDiskMedium(t.TempDir(), "subscribers.json")
	require.NoError(t, err)
	subStore := store.NewFileStore(medium, nil, logger)
	require.NoError(t, subStore.Init(context.Background()))

	subs := service.NewSubscriptionService(subStore, confirmSender, templates, "key", service.ConfirmBestEffort, logger)
	contacts := service.NewContactService(transport, templates, cfg.ContactRecipient, logger)
	router := api.NewRouter(subs, contacts, []string{"*"}, logger)

	req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(`{"name":"Ada","email":"ada@example.com","message":"Hi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to send message. Try again later.")
}
