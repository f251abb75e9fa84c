package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment does not
// leak into the assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "STORE_BACKEND", "DATABASE_URL", "DB_DRIVER", "DB_HOST", "DB_SERVER",
		"DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_ENCRYPT", "DATA_DIR", "SUBSCRIBERS_FILE",
		"S3_BUCKET", "S3_KEY", "AWS_REGION", "REDIS_URL", "MAIL_TRANSPORT", "SMTP_HOST", "SMTP_PORT",
		"MY_EMAIL", "MY_PASSWORD", "CONTACT_RECIPIENT", "MAIL_ASYNC", "MAIL_WORKERS",
		"CONFIRMATION_REQUIRED", "ADMIN_KEY", "CLIENT_URL", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("MY_EMAIL", "noreply@lgsbc.com.au")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, BackendFile, cfg.StoreBackend)
	assert.Equal(t, ".", cfg.DataDir)
	assert.Equal(t, "subscribers.json", cfg.SubscribersFile)
	assert.Equal(t, TransportSMTP, cfg.MailTransport)
	assert.Equal(t, "smtp.office365.com", cfg.SMTPHost)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "support@lgsbc.com.au", cfg.ContactRecipient)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.True(t, cfg.DBEncrypt)
	assert.False(t, cfg.MailAsync)
	assert.False(t, cfg.ConfirmationRequired)
}

func TestLoad_RequiresMailAccount(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	assert.ErrorContains(t, err, "MY_EMAIL")
}

func TestLoad_AsyncMailConflictsWithRequiredConfirmation(t *testing.T) {
	clearEnv(t)
	t.Setenv("MY_EMAIL", "noreply@lgsbc.com.au")
	t.Setenv("MAIL_ASYNC", "true")
	t.Setenv("CONFIRMATION_REQUIRED", "true")

	_, err := Load()
	assert.ErrorContains(t, err, "MAIL_ASYNC cannot be combined with CONFIRMATION_REQUIRED")

	t.Setenv("CONFIRMATION_REQUIRED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.MailAsync)
}

func TestLoad_SQLBackendNeedsDatabase(t *testing.T) {
	clearEnv(t)
	t.Setenv("MY_EMAIL", "noreply@lgsbc.com.au")
	t.Setenv("STORE_BACKEND", "sql")

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "lgstech")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendSQL, cfg.StoreBackend)
}

func TestLoad_RejectsUnknownValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("MY_EMAIL", "noreply@lgsbc.com.au")

	t.Setenv("STORE_BACKEND", "mongo")
	_, err := Load()
	assert.ErrorContains(t, err, "STORE_BACKEND")

	t.Setenv("STORE_BACKEND", "file")
	t.Setenv("MAIL_TRANSPORT", "pigeon")
	_, err = Load()
	assert.ErrorContains(t, err, "MAIL_TRANSPORT")
}

func TestLoad_S3BackendNeedsBucket(t *testing.T) {
	clearEnv(t)
	t.Setenv("MY_EMAIL", "noreply@lgsbc.com.au")
	t.Setenv("STORE_BACKEND", "S3")

	_, err := Load()
	assert.ErrorContains(t, err, "S3_BUCKET")
}

func TestLoad_ParsesLists(t *testing.T) {
	clearEnv(t)
	t.Setenv("MY_EMAIL", "noreply@lgsbc.com.au")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://lgstech.ai, https://www.lgstech.ai,")
	t.Setenv("CLIENT_URL", "https://lgstech.ai/")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://lgstech.ai", "https://www.lgstech.ai"}, cfg.AllowedOrigins)
	assert.Equal(t, "https://lgstech.ai", cfg.ClientURL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestConfig_DSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "explicit url wins",
			cfg:  Config{DatabaseURL: "postgres://x@y/z", DBHost: "ignored"},
			want: "postgres://x@y/z",
		},
		{
			name: "encrypted",
			cfg:  Config{DBHost: "db", DBPort: 5432, DBUser: "app", DBPassword: "p@ss", DBName: "lgstech", DBEncrypt: true},
			want: "postgres://app:p%40ss@db:5432/lgstech?sslmode=require",
		},
		{
			name: "plaintext",
			cfg:  Config{DBHost: "localhost", DBPort: 5433, DBUser: "app", DBName: "dev"},
			want: "postgres://app:@localhost:5433/dev?sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.DSN())
		})
	}
}
