package storage

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/quizchain/internal/platform/errors"
	"github.com/louisbranch/quizchain/internal/trivia/commitment"
	"github.com/louisbranch/quizchain/internal/trivia/ledger"
	"github.com/louisbranch/quizchain/internal/trivia/question"
)

// ErrNotFound indicates a requested persistence record is missing.
// Callers use this to differentiate between legitimate "no such entity" states
// and transport or data corruption failures.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// QuestionStore owns question records and the sequential id counter.
type QuestionStore interface {
	PutQuestion(ctx context.Context, q question.Question) error
	Question(ctx context.Context, id uint64) (question.Question, error)
	// ListQuestions returns a page of questions ordered by id, starting
	// after the page token.
	ListQuestions(ctx context.Context, pageSize int, pageToken string) (QuestionPage, error)
	// NextQuestionID advances the question counter and returns the next
	// sequential id, starting at 1.
	NextQuestionID(ctx context.Context) (uint64, error)
	// QuestionCount returns the number of ids issued so far.
	QuestionCount(ctx context.Context) (uint64, error)
}

// QuestionPage describes a page of question records.
type QuestionPage struct {
	Questions     []question.Question
	NextPageToken string
}

// CommitmentStore owns the live commitment per (player, question) pair.
type CommitmentStore interface {
	PutCommitment(ctx context.Context, c commitment.Commitment) error
	Commitment(ctx context.Context, player string, questionID uint64) (commitment.Commitment, error)
	DeleteCommitment(ctx context.Context, player string, questionID uint64) error
}

// AttemptStore owns per-(player, question) reveal history.
type AttemptStore interface {
	PutAttempt(ctx context.Context, a ledger.Attempt) error
	Attempt(ctx context.Context, player string, questionID uint64) (ledger.Attempt, error)
}

// StatsStore owns aggregate per-player stats.
type StatsStore interface {
	PutPlayerStats(ctx context.Context, s ledger.PlayerStats) error
	PlayerStats(ctx context.Context, player string) (ledger.PlayerStats, error)
}

// LeaderboardStore owns the ranked per-player view.
type LeaderboardStore interface {
	PutLeaderboardEntry(ctx context.Context, e ledger.LeaderboardEntry) error
	LeaderboardEntry(ctx context.Context, player string) (ledger.LeaderboardEntry, error)
	// ListLeaderboard returns up to limit entries ordered by score
	// descending, ties broken by player id ascending.
	ListLeaderboard(ctx context.Context, limit int) ([]ledger.LeaderboardEntry, error)
}

// PoolStore owns the reward pool balance singleton.
type PoolStore interface {
	PoolBalance(ctx context.Context) (uint64, error)
	SetPoolBalance(ctx context.Context, balance uint64) error
}

// AccountStore owns token account balances for the built-in token ledger.
type AccountStore interface {
	// AccountBalance returns the balance for account, zero when the
	// account has never been written.
	AccountBalance(ctx context.Context, account string) (uint64, error)
	SetAccountBalance(ctx context.Context, account string, balance uint64) error
}

// AuditEvent is one entry in the append-only operation log.
type AuditEvent struct {
	Seq        uint64
	Type       string
	Player     string
	QuestionID uint64
	Tick       uint64
	Payload    []byte
	Timestamp  time.Time
}

// AuditStore owns the append-only audit log. Seq is assigned by the store and
// strictly increases in append order.
type AuditStore interface {
	AppendAuditEvent(ctx context.Context, evt AuditEvent) error
	ListAuditEvents(ctx context.Context, pageSize int, pageToken string) (AuditPage, error)
}

// AuditPage describes a page of audit events.
type AuditPage struct {
	Events        []AuditEvent
	NextPageToken string
}

// Store composes every persistence concern behind one atomic boundary.
//
// Atomic runs fn against a transaction-bound view of the store: either every
// write inside fn is committed, or none are. Implementations serialize Atomic
// calls, which is what gives engine operations their single-total-order
// semantics.
type Store interface {
	QuestionStore
	CommitmentStore
	AttemptStore
	StatsStore
	LeaderboardStore
	PoolStore
	AccountStore
	AuditStore

	Atomic(ctx context.Context, fn func(Store) error) error
	Close() error
}
