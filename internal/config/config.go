package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Storage backends.
const (
	BackendSQL  = "sql"
	BackendFile = "file"
	BackendS3   = "s3"
)

// Mail transports.
const (
	TransportSMTP = "smtp"
	TransportSES  = "ses"
)

// Config holds all configuration for the application.
type Config struct {
	Port     string
	LogLevel slog.Level

	StoreBackend string

	// Relational backend.
	DatabaseURL string
	DBDriver    string
	DBHost      string
	DBPort      int
	DBUser      string
	DBPassword  string
	DBName      string
	DBEncrypt   bool

	// File backend.
	DataDir         string
	SubscribersFile string
	S3Bucket        string
	S3Key           string
	AWSRegion       string
	RedisURL        string

	// Mail.
	MailTransport        string
	SMTPHost             string
	SMTPPort             int
	MailUser             string
	MailPassword         string
	ContactRecipient     string
	MailAsync            bool
	MailWorkers          int
	ConfirmationRequired bool

	AdminKey       string
	ClientURL      string
	AllowedOrigins []string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "5000"),
		LogLevel:             getEnvLevel("LOG_LEVEL", slog.LevelInfo),
		StoreBackend:         strings.ToLower(getEnv("STORE_BACKEND", BackendFile)),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		DBDriver:             getEnv("DB_DRIVER", "pgx"),
		DBHost:               getEnv("DB_HOST", getEnv("DB_SERVER", "")),
		DBPort:               getEnvInt("DB_PORT", 5432),
		DBUser:               getEnv("DB_USER", ""),
		DBPassword:           getEnv("DB_PASSWORD", ""),
		DBName:               getEnv("DB_NAME", ""),
		DBEncrypt:            getEnvBool("DB_ENCRYPT", true),
		DataDir:              getEnv("DATA_DIR", "."),
		SubscribersFile:      getEnv("SUBSCRIBERS_FILE", "subscribers.json"),
		S3Bucket:             getEnv("S3_BUCKET", ""),
		S3Key:                getEnv("S3_KEY", "subscribers.json"),
		AWSRegion:            getEnv("AWS_REGION", "us-east-1"),
		RedisURL:             getEnv("REDIS_URL", ""),
		MailTransport:        strings.ToLower(getEnv("MAIL_TRANSPORT", TransportSMTP)),
		SMTPHost:             getEnv("SMTP_HOST", "smtp.office365.com"),
		SMTPPort:             getEnvInt("SMTP_PORT", 587),
		MailUser:             getEnv("MY_EMAIL", ""),
		MailPassword:         getEnv("MY_PASSWORD", ""),
		ContactRecipient:     getEnv("CONTACT_RECIPIENT", "support@lgsbc.com.au"),
		MailAsync:            getEnvBool("MAIL_ASYNC", false),
		MailWorkers:          getEnvInt("MAIL_WORKERS", 2),
		ConfirmationRequired: getEnvBool("CONFIRMATION_REQUIRED", false),
		AdminKey:             getEnv("ADMIN_KEY", ""),
		ClientURL:            strings.TrimRight(getEnv("CLIENT_URL", ""), "/"),
		AllowedOrigins:       getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendSQL:
		if c.DatabaseURL == "" && (c.DBHost == "" || c.DBName == "") {
			return fmt.Errorf("DATABASE_URL or DB_HOST and DB_NAME are required for the sql backend")
		}
		if c.DBDriver != "pgx" && c.DBDriver != "postgres" {
			return fmt.Errorf("DB_DRIVER must be pgx or postgres, got %q", c.DBDriver)
		}
	case BackendFile:
		if c.SubscribersFile == "" {
			return fmt.Errorf("SUBSCRIBERS_FILE must not be empty")
		}
	case BackendS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.MailTransport {
	case TransportSMTP, TransportSES:
	default:
		return fmt.Errorf("unknown MAIL_TRANSPORT %q", c.MailTransport)
	}
	if c.MailUser == "" {
		return fmt.Errorf("MY_EMAIL is required")
	}
	if c.MailAsync && c.ConfirmationRequired {
		return fmt.Errorf("MAIL_ASYNC cannot be combined with CONFIRMATION_REQUIRED")
	}
	if c.MailWorkers < 1 {
		return fmt.Errorf("MAIL_WORKERS must be at least 1")
	}
	return nil
}

// DSN returns the connection string for the relational backend.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}

	sslMode := "disable"
	if c.DBEncrypt {
		sslMode = "require"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvLevel(key string, fallback slog.Level) slog.Level {
	if val := os.Getenv(key); val != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(val)); err == nil {
			return level
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
