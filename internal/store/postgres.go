package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lgsbc-git/lgstech-backend/internal/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.up.sql
var migrationFiles embed.FS

// Migrations returns the embedded schema migrations.
func Migrations() fs.FS {
	return migrationFiles
}

const (
	maxOpenConns    = 10
	connMaxIdleTime = 30 * time.Second
	connectTimeout  = 10 * time.Second
)

// Connector opens a ready-to-use database handle.
type Connector func(ctx context.Context) (*sql.DB, error)

// OpenDB returns a Connector for the given database/sql driver ("pgx" or
// "postgres") and DSN. The handle is pinged before it is returned.
func OpenDB(driver, dsn string) Connector {
	return func(ctx context.Context) (*sql.DB, error) {
		db, err := sql.Open(driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("opening %s database: %w", driver, err)
		}

		// At most 10 connections, no idle floor, idle ones closed after 30s.
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxOpenConns)
		db.SetConnMaxIdleTime(connMaxIdleTime)

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("pinging database: %w", err)
		}
		return db, nil
	}
}

type connState int

const (
	stateUninitialized connState = iota
	stateConnected
	stateFailed
)

func (s connState) String() string {
	switch s {
	case stateConnected:
		return "connected"
	case stateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// SQLStore keeps subscribers in a relational table. The connection is opened
// on first use and reused; a failed attempt is retried on the next call.
type SQLStore struct {
	connect        Connector
	connectTimeout time.Duration
	migrations     fs.FS
	logger         *slog.Logger

	mu    sync.Mutex
	state connState
	db    *sql.DB
}

// NewSQLStore creates a store that connects lazily through connect. When
// migrations is non-nil they are applied right after the first successful
// connect.
func NewSQLStore(connect Connector, migrations fs.FS, logger *slog.Logger) *SQLStore {
	return &SQLStore{
		connect:        connect,
		connectTimeout: connectTimeout,
		migrations:     migrations,
		logger:         logger,
	}
}

// handle returns the shared database handle, connecting if needed.
func (s *SQLStore) handle(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateFailed {
		s.state = stateUninitialized
	}
	if s.state == stateConnected {
		return s.db, nil
	}

	// The lock is held while dialing, so a silent server must not stall
	// every caller for longer than connectTimeout.
	connectCtx, cancel := context.WithTimeout(ctx, s.connectTimeout)
	defer cancel()

	db, err := s.connect(connectCtx)
	if err == nil && s.migrations != nil {
		if err = RunMigrations(connectCtx, db, s.migrations); err != nil {
			db.Close()
		}
	}
	if err != nil {
		s.state = stateFailed
		s.logger.Error("database connection failed", "error", err)
		return nil, fmt.Errorf("connecting to database: %w: %w", domain.ErrStorageUnavailable, err)
	}

	s.db = db
	s.state = stateConnected
	s.logger.Info("connected to database")
	return db, nil
}

// Close releases the connection pool, if one was opened.
func (s *SQLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateConnected {
		return nil
	}
	s.state = stateUninitialized
	db := s.db
	s.db = nil
	return db.Close()
}

// RunMigrations executes all .up.sql files in fsys in lexical order, once per
// file name.
func RunMigrations(ctx context.Context, db *sql.DB, fsys fs.FS) error {
	// Create migrations tracking table
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	var migrations []string
	err = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".up.sql") {
			migrations = append(migrations, p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reading migrations: %w", err)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return path.Base(migrations[i]) < path.Base(migrations[j])
	})

	for _, p := range migrations {
		version := path.Base(p)

		var exists bool
		err := db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)",
			version,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("checking migration %s: %w", version, err)
		}
		if exists {
			continue
		}

		stmt, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", version, err)
		}

		if _, err := db.ExecContext(ctx, string(stmt)); err != nil {
			return fmt.Errorf("executing migration %s: %w", version, err)
		}

		_, err = db.ExecContext(ctx,
			"INSERT INTO schema_migrations (version) VALUES ($1)",
			version,
		)
		if err != nil {
			return fmt.Errorf("recording migration %s: %w", version, err)
		}
	}

	return nil
}
