package bbolt

import (
	"context"
	"encoding/binary"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/quizchain/internal/storage"
	"go.etcd.io/bbolt"
)

const (
	questionsBucket   = "questions"
	commitmentsBucket = "commitments"
	attemptsBucket    = "attempts"
	statsBucket       = "stats"
	leaderboardBucket = "leaderboard"
	countersBucket    = "counters"
	accountsBucket    = "accounts"
	auditBucket       = "audit"
)

// Store provides a BoltDB-backed store implementing all storage interfaces.
//
// Records are stored as JSON under per-concern buckets. BoltDB allows one
// writer at a time, so Atomic batches naturally serialize.
type Store struct {
	db *bbolt.DB
	tx *bbolt.Tx
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Atomic runs fn against a transaction-bound store view. BoltDB serializes
// write transactions, which gives callers a single total order of mutations.
func (s *Store) Atomic(ctx context.Context, fn func(storage.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.tx != nil {
		return fn(s)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return fn(&Store{db: s.db, tx: tx})
	})
}

// view runs fn inside the bound transaction, or a fresh read transaction.
func (s *Store) view(fn func(*bbolt.Tx) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	return s.db.View(fn)
}

// update runs fn inside the bound transaction, or a fresh write transaction.
func (s *Store) update(fn func(*bbolt.Tx) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	return s.db.Update(fn)
}

func (s *Store) ensureBuckets() error {
	buckets := []string{
		questionsBucket,
		commitmentsBucket,
		attemptsBucket,
		statsBucket,
		leaderboardBucket,
		countersBucket,
		accountsBucket,
		auditBucket,
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// u64Key encodes ids as big-endian so bucket cursors iterate in numeric order.
func u64Key(value uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, value)
	return key
}

func u64Value(raw []byte) uint64 {
	if len(raw) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(raw)
}

func pairKey(player string, questionID uint64) []byte {
	return []byte(fmt.Sprintf("%s/%d", player, questionID))
}

var _ storage.Store = (*Store)(nil)
