package bbolt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/louisbranch/quizchain/internal/storage"
	"github.com/louisbranch/quizchain/internal/trivia/commitment"
	"github.com/louisbranch/quizchain/internal/trivia/ledger"
	"go.etcd.io/bbolt"
)

// PutCommitment persists the commitment for a (player, question) pair.
func (s *Store) PutCommitment(ctx context.Context, c commitment.Commitment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(toCommitmentRecord(c))
	if err != nil {
		return fmt.Errorf("marshal commitment: %w", err)
	}
	return s.update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(commitmentsBucket)).Put(pairKey(c.Player, c.QuestionID), payload)
	})
}

// Commitment fetches the commitment for a (player, question) pair.
func (s *Store) Commitment(ctx context.Context, player string, questionID uint64) (commitment.Commitment, error) {
	if err := ctx.Err(); err != nil {
		return commitment.Commitment{}, err
	}

	var c commitment.Commitment
	err := s.view(func(tx *bbolt.Tx) error {
		payload := tx.Bucket([]byte(commitmentsBucket)).Get(pairKey(player, questionID))
		if payload == nil {
			return storage.ErrNotFound
		}
		var record commitmentRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			return fmt.Errorf("unmarshal commitment: %w", err)
		}
		decoded, err := record.toDomain()
		if err != nil {
			return fmt.Errorf("decode commitment: %w", err)
		}
		c = decoded
		return nil
	})
	if err != nil {
		return commitment.Commitment{}, err
	}
	return c, nil
}

// DeleteCommitment removes the commitment for a (player, question) pair.
// Deleting a missing commitment is not an error.
func (s *Store) DeleteCommitment(ctx context.Context, player string, questionID uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(commitmentsBucket)).Delete(pairKey(player, questionID))
	})
}

// PutAttempt persists the attempt record for a (player, question) pair.
func (s *Store) PutAttempt(ctx context.Context, a ledger.Attempt) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(toAttemptRecord(a))
	if err != nil {
		return fmt.Errorf("marshal attempt: %w", err)
	}
	return s.update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(attemptsBucket)).Put(pairKey(a.Player, a.QuestionID), payload)
	})
}

// Attempt fetches the attempt record for a (player, question) pair.
func (s *Store) Attempt(ctx context.Context, player string, questionID uint64) (ledger.Attempt, error) {
	if err := ctx.Err(); err != nil {
		return ledger.Attempt{}, err
	}

	var a ledger.Attempt
	err := s.view(func(tx *bbolt.Tx) error {
		payload := tx.Bucket([]byte(attemptsBucket)).Get(pairKey(player, questionID))
		if payload == nil {
			return storage.ErrNotFound
		}
		var record attemptRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			return fmt.Errorf("unmarshal attempt: %w", err)
		}
		a = record.toDomain()
		return nil
	})
	if err != nil {
		return ledger.Attempt{}, err
	}
	return a, nil
}
