package bbolt

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/louisbranch/quizchain/internal/storage"
	"github.com/louisbranch/quizchain/internal/trivia/question"
	"go.etcd.io/bbolt"
)

const questionIDCounter = "question_id"

// PutQuestion persists a question record.
func (s *Store) PutQuestion(ctx context.Context, q question.Question) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(toQuestionRecord(q))
	if err != nil {
		return fmt.Errorf("marshal question: %w", err)
	}
	return s.update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(questionsBucket)).Put(u64Key(q.ID), payload)
	})
}

// Question fetches a question record by id.
func (s *Store) Question(ctx context.Context, id uint64) (question.Question, error) {
	if err := ctx.Err(); err != nil {
		return question.Question{}, err
	}

	var q question.Question
	err := s.view(func(tx *bbolt.Tx) error {
		payload := tx.Bucket([]byte(questionsBucket)).Get(u64Key(id))
		if payload == nil {
			return storage.ErrNotFound
		}
		var record questionRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			return fmt.Errorf("unmarshal question: %w", err)
		}
		decoded, err := record.toDomain()
		if err != nil {
			return fmt.Errorf("decode question: %w", err)
		}
		q = decoded
		return nil
	})
	if err != nil {
		return question.Question{}, err
	}
	return q, nil
}

// ListQuestions returns a page of questions ordered by id.
func (s *Store) ListQuestions(ctx context.Context, pageSize int, pageToken string) (storage.QuestionPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.QuestionPage{}, err
	}

	var after uint64
	if pageToken != "" {
		parsed, err := strconv.ParseUint(pageToken, 10, 64)
		if err != nil {
			return storage.QuestionPage{}, fmt.Errorf("parse page token: %w", err)
		}
		after = parsed
	}

	var page storage.QuestionPage
	err := s.view(func(tx *bbolt.Tx) error {
		cursor := tx.Bucket([]byte(questionsBucket)).Cursor()
		for key, payload := cursor.Seek(u64Key(after + 1)); key != nil; key, payload = cursor.Next() {
			if pageSize > 0 && len(page.Questions) == pageSize {
				page.NextPageToken = strconv.FormatUint(page.Questions[pageSize-1].ID, 10)
				return nil
			}
			var record questionRecord
			if err := json.Unmarshal(payload, &record); err != nil {
				return fmt.Errorf("unmarshal question: %w", err)
			}
			q, err := record.toDomain()
			if err != nil {
				return fmt.Errorf("decode question: %w", err)
			}
			page.Questions = append(page.Questions, q)
		}
		return nil
	})
	if err != nil {
		return storage.QuestionPage{}, err
	}
	return page, nil
}

// NextQuestionID advances the question counter and returns the next id.
func (s *Store) NextQuestionID(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var next uint64
	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(countersBucket))
		next = u64Value(bucket.Get([]byte(questionIDCounter))) + 1
		return bucket.Put([]byte(questionIDCounter), u64Key(next))
	})
	if err != nil {
		return 0, fmt.Errorf("advance question counter: %w", err)
	}
	return next, nil
}

// QuestionCount returns the number of question ids issued so far.
func (s *Store) QuestionCount(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var count uint64
	err := s.view(func(tx *bbolt.Tx) error {
		count = u64Value(tx.Bucket([]byte(countersBucket)).Get([]byte(questionIDCounter)))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
