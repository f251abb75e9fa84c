package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/lgsbc-git/lgstech-backend/internal/domain"
	"github.com/lgsbc-git/lgstech-backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diskOpener(t *testing.T) storeOpener {
	t.Helper()
	dir := t.TempDir()
	return func(ctx context.Context) (store.SubscriberStore, error) {
		medium, err := store.NewDiskMedium(dir, "subscribers.json")
		if err != nil {
			return nil, err
		}
		s := store.NewFileStore(medium, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
		return s, s.Init(ctx)
	}
}

func run(t *testing.T, open storeOpener, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(open)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRegistryCommands(t *testing.T) {
	open := diskOpener(t)

	out, err := run(t, open, "add", " First@Example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "added first@example.com")

	_, err = run(t, open, "add", "second@example.com")
	require.NoError(t, err)

	_, err = run(t, open, "add", "first@example.com")
	assert.ErrorIs(t, err, domain.ErrAlreadySubscribed)

	out, err = run(t, open, "list", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"subscribers":[{"email":"second@example.com"},{"email":"first@example.com"}]}`, out)

	out, err = run(t, open, "remove", "FIRST@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "removed first@example.com")

	out, err = run(t, open, "remove", "first@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "was not subscribed")

	out, err = run(t, open, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "EMAIL")
	assert.Contains(t, out, "second@example.com")
	assert.NotContains(t, out, "first@example.com")
}

func TestRegistryAdd_RejectsInvalidEmail(t *testing.T) {
	_, err := run(t, diskOpener(t), "add", "not-an-email")
	assert.ErrorIs(t, err, domain.ErrEmailFormat)
}

func TestRegistryArgs(t *testing.T) {
	_, err := run(t, diskOpener(t), "add")
	assert.Error(t, err)

	_, err = run(t, diskOpener(t), "list", "extra")
	assert.Error(t, err)
}
