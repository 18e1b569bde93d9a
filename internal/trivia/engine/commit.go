package engine

import (
	"context"
	"fmt"

	apperrors "github.com/louisbranch/quizchain/internal/platform/errors"
	"github.com/louisbranch/quizchain/internal/storage"
	"github.com/louisbranch/quizchain/internal/trivia/commitment"
	"github.com/louisbranch/quizchain/internal/trivia/hashing"
)

// CommitAnswer publishes a player's answer digest for a question. A live
// prior commitment rejects the call; an expired one is silently replaced.
func (e *Engine) CommitAnswer(ctx context.Context, player string, questionID uint64, answerHash hashing.Digest) error {
	currentTick, err := e.currentTick(ctx)
	if err != nil {
		return err
	}

	return e.store.Atomic(ctx, func(tx storage.Store) error {
		q, err := tx.Question(ctx, questionID)
		if err != nil {
			if isNotFound(err) {
				return apperrors.New(apperrors.CodeQuestionNotFound, "question not found")
			}
			return fmt.Errorf("load question: %w", err)
		}
		if !q.Active {
			return apperrors.New(apperrors.CodeQuestionInactive, "question is retired")
		}

		prior, err := tx.Commitment(ctx, player, questionID)
		if err != nil && !isNotFound(err) {
			return fmt.Errorf("load commitment: %w", err)
		}
		if err == nil && prior.Live(currentTick) {
			return apperrors.New(apperrors.CodeAlreadyCommitted, "a live commitment already exists")
		}

		if err := tx.PutCommitment(ctx, commitment.Commitment{
			Player:        player,
			QuestionID:    questionID,
			AnswerHash:    answerHash,
			CreatedAtTick: currentTick,
		}); err != nil {
			return fmt.Errorf("put commitment: %w", err)
		}
		return e.appendAudit(ctx, tx, auditAnswerCommitted, player, questionID, currentTick, committedPayload{
			AnswerHash: answerHash.String(),
		})
	})
}

type committedPayload struct {
	AnswerHash string `json:"answer_hash"`
}

// GetCommitment returns the stored commitment for a (player, question) pair.
func (e *Engine) GetCommitment(ctx context.Context, player string, questionID uint64) (commitment.Commitment, error) {
	c, err := e.store.Commitment(ctx, player, questionID)
	if err != nil {
		if isNotFound(err) {
			return commitment.Commitment{}, apperrors.New(apperrors.CodeNoCommitment, "no commitment for player and question")
		}
		return commitment.Commitment{}, fmt.Errorf("load commitment: %w", err)
	}
	return c, nil
}
