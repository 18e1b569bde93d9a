package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/louisbranch/quizchain/internal/storage"
	"github.com/louisbranch/quizchain/internal/trivia/hashing"
	"github.com/louisbranch/quizchain/internal/trivia/question"
)

const questionColumns = `id, text, answer_hash, category, difficulty, base_reward, active, created_at_tick, retired_at_tick`

// PutQuestion inserts or replaces a question record.
func (s *Store) PutQuestion(ctx context.Context, q question.Question) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO questions (id, text, answer_hash, category, difficulty, base_reward, active, created_at_tick, retired_at_tick)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    text = excluded.text,
    answer_hash = excluded.answer_hash,
    category = excluded.category,
    difficulty = excluded.difficulty,
    base_reward = excluded.base_reward,
    active = excluded.active,
    created_at_tick = excluded.created_at_tick,
    retired_at_tick = excluded.retired_at_tick
`,
		int64(q.ID),
		q.Text,
		q.AnswerHash.Bytes(),
		q.Category,
		int64(q.Difficulty),
		int64(q.BaseReward),
		q.Active,
		int64(q.CreatedAtTick),
		int64(q.RetiredAtTick),
	)
	if err != nil {
		return fmt.Errorf("put question: %w", err)
	}
	return nil
}

// Question loads a question by id.
func (s *Store) Question(ctx context.Context, id uint64) (question.Question, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = ?`, int64(id))
	q, err := scanQuestion(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return question.Question{}, storage.ErrNotFound
		}
		return question.Question{}, fmt.Errorf("load question: %w", err)
	}
	return q, nil
}

// ListQuestions returns a page of questions ordered by id.
func (s *Store) ListQuestions(ctx context.Context, pageSize int, pageToken string) (storage.QuestionPage, error) {
	var after uint64
	if pageToken != "" {
		parsed, err := strconv.ParseUint(pageToken, 10, 64)
		if err != nil {
			return storage.QuestionPage{}, fmt.Errorf("parse page token: %w", err)
		}
		after = parsed
	}

	limit := pageSize
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id > ? ORDER BY id ASC LIMIT ?`,
		int64(after), limit)
	if err != nil {
		return storage.QuestionPage{}, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var page storage.QuestionPage
	for rows.Next() {
		q, err := scanQuestion(rows.Scan)
		if err != nil {
			return storage.QuestionPage{}, fmt.Errorf("scan question: %w", err)
		}
		page.Questions = append(page.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return storage.QuestionPage{}, fmt.Errorf("iterate questions: %w", err)
	}

	if pageSize > 0 && len(page.Questions) == pageSize {
		last := page.Questions[len(page.Questions)-1].ID
		var more int
		row := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM questions WHERE id > ?)`, int64(last))
		if err := row.Scan(&more); err != nil {
			return storage.QuestionPage{}, fmt.Errorf("probe next page: %w", err)
		}
		if more == 1 {
			page.NextPageToken = strconv.FormatUint(last, 10)
		}
	}
	return page, nil
}

// NextQuestionID advances the question counter and returns the next id.
func (s *Store) NextQuestionID(ctx context.Context) (uint64, error) {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO counters (name, value) VALUES ('question_id', 1)
ON CONFLICT(name) DO UPDATE SET value = value + 1
`)
	if err != nil {
		return 0, fmt.Errorf("advance question counter: %w", err)
	}

	var value int64
	row := s.db.QueryRowContext(ctx, `SELECT value FROM counters WHERE name = 'question_id'`)
	if err := row.Scan(&value); err != nil {
		return 0, fmt.Errorf("read question counter: %w", err)
	}
	return uint64(value), nil
}

// QuestionCount returns the number of question ids issued so far.
func (s *Store) QuestionCount(ctx context.Context) (uint64, error) {
	var value int64
	row := s.db.QueryRowContext(ctx, `SELECT value FROM counters WHERE name = 'question_id'`)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("read question counter: %w", err)
	}
	return uint64(value), nil
}

func scanQuestion(scan func(dest ...any) error) (question.Question, error) {
	var q question.Question
	var id, difficulty, baseReward, createdAtTick, retiredAtTick int64
	var answerHash []byte
	if err := scan(
		&id,
		&q.Text,
		&answerHash,
		&q.Category,
		&difficulty,
		&baseReward,
		&q.Active,
		&createdAtTick,
		&retiredAtTick,
	); err != nil {
		return question.Question{}, err
	}

	digest, err := hashing.FromBytes(answerHash)
	if err != nil {
		return question.Question{}, fmt.Errorf("decode answer hash: %w", err)
	}

	q.ID = uint64(id)
	q.AnswerHash = digest
	q.Difficulty = question.Difficulty(difficulty)
	q.BaseReward = uint64(baseReward)
	q.CreatedAtTick = uint64(createdAtTick)
	q.RetiredAtTick = uint64(retiredAtTick)
	return q, nil
}
