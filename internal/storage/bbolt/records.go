package bbolt

import (
	"time"

	"github.com/louisbranch/quizchain/internal/storage"
	"github.com/louisbranch/quizchain/internal/trivia/commitment"
	"github.com/louisbranch/quizchain/internal/trivia/hashing"
	"github.com/louisbranch/quizchain/internal/trivia/ledger"
	"github.com/louisbranch/quizchain/internal/trivia/question"
)

// Persistence records keep their own JSON shapes so the domain types stay free
// of storage tags.

type questionRecord struct {
	ID            uint64 `json:"id"`
	Text          string `json:"text"`
	AnswerHash    []byte `json:"answer_hash"`
	Category      string `json:"category"`
	Difficulty    uint8  `json:"difficulty"`
	BaseReward    uint64 `json:"base_reward"`
	Active        bool   `json:"active"`
	CreatedAtTick uint64 `json:"created_at_tick"`
	RetiredAtTick uint64 `json:"retired_at_tick,omitempty"`
}

func toQuestionRecord(q question.Question) questionRecord {
	return questionRecord{
		ID:            q.ID,
		Text:          q.Text,
		AnswerHash:    q.AnswerHash.Bytes(),
		Category:      q.Category,
		Difficulty:    uint8(q.Difficulty),
		BaseReward:    q.BaseReward,
		Active:        q.Active,
		CreatedAtTick: q.CreatedAtTick,
		RetiredAtTick: q.RetiredAtTick,
	}
}

func (r questionRecord) toDomain() (question.Question, error) {
	digest, err := hashing.FromBytes(r.AnswerHash)
	if err != nil {
		return question.Question{}, err
	}
	return question.Question{
		ID:            r.ID,
		Text:          r.Text,
		AnswerHash:    digest,
		Category:      r.Category,
		Difficulty:    question.Difficulty(r.Difficulty),
		BaseReward:    r.BaseReward,
		Active:        r.Active,
		CreatedAtTick: r.CreatedAtTick,
		RetiredAtTick: r.RetiredAtTick,
	}, nil
}

type commitmentRecord struct {
	Player        string `json:"player"`
	QuestionID    uint64 `json:"question_id"`
	AnswerHash    []byte `json:"answer_hash"`
	CreatedAtTick uint64 `json:"created_at_tick"`
}

func toCommitmentRecord(c commitment.Commitment) commitmentRecord {
	return commitmentRecord{
		Player:        c.Player,
		QuestionID:    c.QuestionID,
		AnswerHash:    c.AnswerHash.Bytes(),
		CreatedAtTick: c.CreatedAtTick,
	}
}

func (r commitmentRecord) toDomain() (commitment.Commitment, error) {
	digest, err := hashing.FromBytes(r.AnswerHash)
	if err != nil {
		return commitment.Commitment{}, err
	}
	return commitment.Commitment{
		Player:        r.Player,
		QuestionID:    r.QuestionID,
		AnswerHash:    digest,
		CreatedAtTick: r.CreatedAtTick,
	}, nil
}

type attemptRecord struct {
	Player          string `json:"player"`
	QuestionID      uint64 `json:"question_id"`
	TotalAttempts   uint64 `json:"total_attempts"`
	EverCorrect     bool   `json:"ever_correct"`
	LastAttemptTick uint64 `json:"last_attempt_tick"`
}

func toAttemptRecord(a ledger.Attempt) attemptRecord {
	return attemptRecord(a)
}

func (r attemptRecord) toDomain() ledger.Attempt {
	return ledger.Attempt(r)
}

type statsRecord struct {
	Player        string `json:"player"`
	TotalAttempts uint64 `json:"total_attempts"`
	TotalCorrect  uint64 `json:"total_correct"`
	TotalEarned   uint64 `json:"total_earned"`
	CurrentStreak uint64 `json:"current_streak"`
}

func toStatsRecord(s ledger.PlayerStats) statsRecord {
	return statsRecord(s)
}

func (r statsRecord) toDomain() ledger.PlayerStats {
	return ledger.PlayerStats(r)
}

type leaderboardRecord struct {
	Player         string `json:"player"`
	Score          uint64 `json:"score"`
	CorrectAnswers uint64 `json:"correct_answers"`
	TotalAttempts  uint64 `json:"total_attempts"`
	CurrentStreak  uint64 `json:"current_streak"`
	BestStreak     uint64 `json:"best_streak"`
	TotalEarned    uint64 `json:"total_earned"`
}

func toLeaderboardRecord(e ledger.LeaderboardEntry) leaderboardRecord {
	return leaderboardRecord(e)
}

func (r leaderboardRecord) toDomain() ledger.LeaderboardEntry {
	return ledger.LeaderboardEntry(r)
}

type auditRecord struct {
	Seq        uint64 `json:"seq"`
	Type       string `json:"type"`
	Player     string `json:"player,omitempty"`
	QuestionID uint64 `json:"question_id,omitempty"`
	Tick       uint64 `json:"tick"`
	Payload    []byte `json:"payload,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}

func toAuditRecord(evt storage.AuditEvent) auditRecord {
	return auditRecord{
		Seq:        evt.Seq,
		Type:       evt.Type,
		Player:     evt.Player,
		QuestionID: evt.QuestionID,
		Tick:       evt.Tick,
		Payload:    evt.Payload,
		Timestamp:  evt.Timestamp.UTC().UnixMilli(),
	}
}

func (r auditRecord) toDomain() storage.AuditEvent {
	return storage.AuditEvent{
		Seq:        r.Seq,
		Type:       r.Type,
		Player:     r.Player,
		QuestionID: r.QuestionID,
		Tick:       r.Tick,
		Payload:    r.Payload,
		Timestamp:  time.UnixMilli(r.Timestamp).UTC(),
	}
}
