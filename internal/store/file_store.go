package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/lgsbc-git/lgstech-backend/internal/domain"
)

// document is the persisted layout: {"subscribers": ["a@x.com", ...]},
// oldest first.
type document struct {
	Subscribers []string `json:"subscribers"`
}

// FileStore keeps the registry in a single JSON document that is read and
// rewritten whole on every mutation. Mutations run under the Locker; writers
// that do not share it (another process with a different lock, or a manual
// edit) can still race and lose updates.
type FileStore struct {
	medium      Medium
	locker      Locker
	lockTimeout time.Duration
	logger      *slog.Logger
}

// NewFileStore creates a store over medium. A nil locker means a process-local
// mutex.
func NewFileStore(medium Medium, locker Locker, logger *slog.Logger) *FileStore {
	if locker == nil {
		locker = NewMutexLocker()
	}
	return &FileStore{
		medium:      medium,
		locker:      locker,
		lockTimeout: 10 * time.Second,
		logger:      logger,
	}
}

// Init writes an empty document if none exists yet.
func (s *FileStore) Init(ctx context.Context) error {
	return s.withLock(ctx, func() error {
		data, err := s.medium.Read(ctx)
		if err != nil {
			return unavailable("reading subscriber document", err)
		}
		if data != nil {
			return nil
		}
		s.logger.Info("creating subscriber document", "path", s.medium.Name())
		return s.save(ctx, &document{})
	})
}

func (s *FileStore) Exists(ctx context.Context, email string) (bool, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(doc.Subscribers, email), nil
}

func (s *FileStore) Add(ctx context.Context, email string) (domain.RecordID, error) {
	err := s.withLock(ctx, func() error {
		doc, err := s.load(ctx)
		if err != nil {
			return err
		}
		if slices.Contains(doc.Subscribers, email) {
			return domain.ErrAlreadySubscribed
		}
		doc.Subscribers = append(doc.Subscribers, email)
		return s.save(ctx, doc)
	})
	if err != nil {
		return "", err
	}
	return domain.RecordID(email), nil
}

func (s *FileStore) Remove(ctx context.Context, email string) (bool, error) {
	var removed bool
	err := s.withLock(ctx, func() error {
		doc, err := s.load(ctx)
		if err != nil {
			return err
		}
		i := slices.Index(doc.Subscribers, email)
		if i < 0 {
			return nil
		}
		doc.Subscribers = slices.Delete(doc.Subscribers, i, i+1)
		removed = true
		return s.save(ctx, doc)
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// List returns the document in reverse insertion order. The document does not
// record timestamps, so CreatedAt is left nil.
func (s *FileStore) List(ctx context.Context) ([]domain.Subscriber, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	subscribers := make([]domain.Subscriber, 0, len(doc.Subscribers))
	for i := len(doc.Subscribers) - 1; i >= 0; i-- {
		subscribers = append(subscribers, domain.Subscriber{Email: doc.Subscribers[i]})
	}
	return subscribers, nil
}

// Close releases the locker if it holds resources.
func (s *FileStore) Close() error {
	if c, ok := s.locker.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *FileStore) withLock(ctx context.Context, fn func() error) error {
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	unlock, err := s.locker.Lock(lockCtx)
	if err != nil {
		return unavailable("locking subscriber document", err)
	}
	defer unlock()

	return fn()
}

func (s *FileStore) load(ctx context.Context) (*document, error) {
	data, err := s.medium.Read(ctx)
	if err != nil {
		return nil, unavailable("reading subscriber document", err)
	}

	doc := &document{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, unavailable("decoding subscriber document", fmt.Errorf("%s: %w", s.medium.Name(), err))
	}
	return doc, nil
}

func (s *FileStore) save(ctx context.Context, doc *document) error {
	if doc.Subscribers == nil {
		doc.Subscribers = []string{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return unavailable("encoding subscriber document", err)
	}
	if err := s.medium.Write(ctx, data); err != nil {
		return unavailable("writing subscriber document", err)
	}
	return nil
}
