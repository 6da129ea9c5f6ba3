package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-retry"
	"go.etcd.io/bbolt"

	"github.com/seeflow/see/engine/core"
	"github.com/seeflow/see/pkg/logger"
)

// Store is the embedded key-value database backing every durable record in
// the system. The zero value is not usable; construct with Open.
type Store struct {
	db              *bbolt.DB
	retryMaxAttempts uint64
	retryBaseDelay   time.Duration
}

// DefaultDBPath returns `<home>/.see/audit.redb`, creating the parent
// directory if it does not yet exist.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	dir := filepath.Join(home, ".see")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create store directory: %w", err)
	}
	return filepath.Join(dir, "audit.redb"), nil
}

// Open opens (creating if absent) the bbolt database at path and ensures
// every logical partition bucket exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, core.NewError(fmt.Errorf("create store directory: %w", err), core.KindStoreIO, nil)
		}
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, core.NewError(fmt.Errorf("open store at %s: %w", path, err), core.KindStoreIO, nil)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, core.NewError(fmt.Errorf("create buckets: %w", err), core.KindStoreIO, nil)
	}
	return &Store{db: db, retryMaxAttempts: 5, retryBaseDelay: 50 * time.Millisecond}, nil
}

// SetRetryPolicy overrides the commit-retry policy; maxAttempts must be >= 3
// per the store's contract for conflicting writes.
func (s *Store) SetRetryPolicy(maxAttempts int, baseDelay time.Duration) {
	if maxAttempts < 3 {
		maxAttempts = 3
	}
	s.retryMaxAttempts = uint64(maxAttempts)
	s.retryBaseDelay = baseDelay
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return core.NewError(fmt.Errorf("close store: %w", err), core.KindStoreIO, nil)
	}
	return nil
}

// update runs fn inside a writable transaction, retrying with bounded
// exponential backoff whenever the transaction returns an error: every
// error from fn or from the commit is treated as retryable.
func (s *Store) update(ctx context.Context, op string, fn func(tx *bbolt.Tx) error) error {
	backoff := retry.NewExponential(s.retryBaseDelay)
	backoff = retry.WithCappedDuration(2*time.Second, backoff)
	backoff = retry.WithJitter(10*time.Millisecond, backoff)
	backoff = retry.WithMaxRetries(s.retryMaxAttempts, backoff)

	log := logger.FromContext(ctx)
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := s.db.Update(fn)
		if err != nil {
			log.With("op", op, "error", err).Debug("store commit failed, retrying")
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return core.NewError(fmt.Errorf("%s: %w", op, err), core.KindStoreIO, nil)
	}
	return nil
}

// view runs fn inside a read-only, consistent-snapshot transaction.
func (s *Store) view(op string, fn func(tx *bbolt.Tx) error) error {
	if err := s.db.View(fn); err != nil {
		return core.NewError(fmt.Errorf("%s: %w", op, err), core.KindStoreIO, nil)
	}
	return nil
}
