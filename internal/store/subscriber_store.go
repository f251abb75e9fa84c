package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lgsbc-git/lgstech-backend/internal/domain"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

func (s *SQLStore) Exists(ctx context.Context, email string) (bool, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return false, err
	}

	var exists bool
	err = db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM subscribers WHERE email = $1)",
		email,
	).Scan(&exists)
	if err != nil {
		return false, unavailable("querying subscriber", err)
	}
	return exists, nil
}

func (s *SQLStore) Add(ctx context.Context, email string) (domain.RecordID, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return "", err
	}

	var id int64
	err = db.QueryRowContext(ctx, `
		INSERT INTO subscribers (email)
		VALUES ($1)
		RETURNING id
	`, email).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return "", domain.ErrAlreadySubscribed
		}
		return "", unavailable("inserting subscriber", err)
	}
	return domain.RecordID(strconv.FormatInt(id, 10)), nil
}

func (s *SQLStore) Remove(ctx context.Context, email string) (bool, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return false, err
	}

	res, err := db.ExecContext(ctx, "DELETE FROM subscribers WHERE email = $1", email)
	if err != nil {
		return false, unavailable("deleting subscriber", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, unavailable("counting deleted subscribers", err)
	}
	return n > 0, nil
}

func (s *SQLStore) List(ctx context.Context) ([]domain.Subscriber, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT email, created_at
		FROM subscribers
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, unavailable("querying subscribers", err)
	}
	defer rows.Close()

	subscribers := []domain.Subscriber{}
	for rows.Next() {
		var (
			email     string
			createdAt time.Time
		)
		if err := rows.Scan(&email, &createdAt); err != nil {
			return nil, unavailable("scanning subscriber", err)
		}
		subscribers = append(subscribers, domain.Subscriber{Email: email, CreatedAt: &createdAt})
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterating subscribers", err)
	}

	return subscribers, nil
}

// isUniqueViolation recognizes duplicate-key errors from both supported
// drivers.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
}
