package engine

import (
	"context"
	"fmt"

	apperrors "github.com/louisbranch/quizchain/internal/platform/errors"
	"github.com/louisbranch/quizchain/internal/storage"
	"github.com/louisbranch/quizchain/internal/trivia/question"
)

// AddQuestion registers a new active question and returns its sequential id.
// Only the registered owner may call it. A zero reward resolves to the
// difficulty tier default.
func (e *Engine) AddQuestion(ctx context.Context, caller string, in question.Input) (uint64, error) {
	if err := e.requireOwner(caller); err != nil {
		return 0, err
	}
	currentTick, err := e.currentTick(ctx)
	if err != nil {
		return 0, err
	}

	var id uint64
	err = e.store.Atomic(ctx, func(tx storage.Store) error {
		nextID, err := tx.NextQuestionID(ctx)
		if err != nil {
			return fmt.Errorf("next question id: %w", err)
		}

		q, err := question.New(nextID, in, currentTick)
		if err != nil {
			return err
		}
		if err := tx.PutQuestion(ctx, q); err != nil {
			return fmt.Errorf("put question: %w", err)
		}

		id = nextID
		return e.appendAudit(ctx, tx, auditQuestionAdded, caller, nextID, currentTick, questionAddedPayload{
			Category:   q.Category,
			Difficulty: uint8(q.Difficulty),
			BaseReward: q.BaseReward,
		})
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

type questionAddedPayload struct {
	Category   string `json:"category"`
	Difficulty uint8  `json:"difficulty"`
	BaseReward uint64 `json:"base_reward"`
}

// RetireQuestion flips a question to inactive. Retiring an already retired
// question succeeds without effect; the flag never reverts.
func (e *Engine) RetireQuestion(ctx context.Context, caller string, id uint64) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	currentTick, err := e.currentTick(ctx)
	if err != nil {
		return err
	}

	return e.store.Atomic(ctx, func(tx storage.Store) error {
		q, err := tx.Question(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return apperrors.New(apperrors.CodeQuestionNotFound, "question not found")
			}
			return fmt.Errorf("load question: %w", err)
		}
		if !q.Active {
			return nil
		}

		q.Active = false
		q.RetiredAtTick = currentTick
		if err := tx.PutQuestion(ctx, q); err != nil {
			return fmt.Errorf("put question: %w", err)
		}
		return e.appendAudit(ctx, tx, auditQuestionRetired, caller, id, currentTick, nil)
	})
}

// GetQuestion returns the hash-free metadata for a question.
func (e *Engine) GetQuestion(ctx context.Context, id uint64) (question.Metadata, error) {
	q, err := e.store.Question(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return question.Metadata{}, apperrors.New(apperrors.CodeQuestionNotFound, "question not found")
		}
		return question.Metadata{}, fmt.Errorf("load question: %w", err)
	}
	return q.Metadata(), nil
}

// ListQuestions returns a page of question metadata ordered by id.
func (e *Engine) ListQuestions(ctx context.Context, pageSize int, pageToken string) ([]question.Metadata, string, error) {
	page, err := e.store.ListQuestions(ctx, pageSize, pageToken)
	if err != nil {
		return nil, "", fmt.Errorf("list questions: %w", err)
	}

	metas := make([]question.Metadata, 0, len(page.Questions))
	for _, q := range page.Questions {
		metas = append(metas, q.Metadata())
	}
	return metas, page.NextPageToken, nil
}

// QuestionCount returns the number of questions ever added.
func (e *Engine) QuestionCount(ctx context.Context) (uint64, error) {
	return e.store.QuestionCount(ctx)
}
