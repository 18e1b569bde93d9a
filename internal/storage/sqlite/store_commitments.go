package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/louisbranch/quizchain/internal/storage"
	"github.com/louisbranch/quizchain/internal/trivia/commitment"
	"github.com/louisbranch/quizchain/internal/trivia/hashing"
)

// PutCommitment inserts or replaces the commitment for a (player, question)
// pair.
func (s *Store) PutCommitment(ctx context.Context, c commitment.Commitment) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO commitments (player, question_id, answer_hash, created_at_tick)
VALUES (?, ?, ?, ?)
ON CONFLICT(player, question_id) DO UPDATE SET
    answer_hash = excluded.answer_hash,
    created_at_tick = excluded.created_at_tick
`,
		c.Player,
		int64(c.QuestionID),
		c.AnswerHash.Bytes(),
		int64(c.CreatedAtTick),
	)
	if err != nil {
		return fmt.Errorf("put commitment: %w", err)
	}
	return nil
}

// Commitment loads the commitment for a (player, question) pair.
func (s *Store) Commitment(ctx context.Context, player string, questionID uint64) (commitment.Commitment, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT player, question_id, answer_hash, created_at_tick
FROM commitments
WHERE player = ? AND question_id = ?
`, player, int64(questionID))

	var c commitment.Commitment
	var qid, createdAtTick int64
	var answerHash []byte
	if err := row.Scan(&c.Player, &qid, &answerHash, &createdAtTick); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return commitment.Commitment{}, storage.ErrNotFound
		}
		return commitment.Commitment{}, fmt.Errorf("load commitment: %w", err)
	}

	digest, err := hashing.FromBytes(answerHash)
	if err != nil {
		return commitment.Commitment{}, fmt.Errorf("decode answer hash: %w", err)
	}
	c.QuestionID = uint64(qid)
	c.AnswerHash = digest
	c.CreatedAtTick = uint64(createdAtTick)
	return c, nil
}

// DeleteCommitment removes the commitment for a (player, question) pair.
// Deleting a missing commitment is not an error.
func (s *Store) DeleteCommitment(ctx context.Context, player string, questionID uint64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM commitments WHERE player = ? AND question_id = ?`,
		player, int64(questionID))
	if err != nil {
		return fmt.Errorf("delete commitment: %w", err)
	}
	return nil
}
