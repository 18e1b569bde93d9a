// Package ledger models per-player history: attempt records, aggregate stats,
// and leaderboard entries.
//
// All folds are pure so a reveal can be applied to the stats and leaderboard
// views independently and still agree on streak arithmetic. Counter overflow
// is reported as an error and aborts the enclosing transaction; nothing in
// this package wraps silently.
package ledger

import (
	"math"

	apperrors "github.com/louisbranch/quizchain/internal/platform/errors"
)

// Attempt records a player's reveal history for one question. EverCorrect is
// monotone: once true it never resets.
type Attempt struct {
	Player          string
	QuestionID      uint64
	TotalAttempts   uint64
	EverCorrect     bool
	LastAttemptTick uint64
}

// PlayerStats aggregates a player's reveal history across all questions.
type PlayerStats struct {
	Player        string
	TotalAttempts uint64
	TotalCorrect  uint64
	TotalEarned   uint64
	CurrentStreak uint64
}

// LeaderboardEntry mirrors PlayerStats with the score and best-streak
// high-water mark used for ranking.
type LeaderboardEntry struct {
	Player         string
	Score          uint64
	CorrectAnswers uint64
	TotalAttempts  uint64
	CurrentStreak  uint64
	BestStreak     uint64
	TotalEarned    uint64
}

// RevealOutcome carries the per-reveal deltas both folds consume.
type RevealOutcome struct {
	Correct bool
	Points  uint64
	Payout  uint64
}

// NextStreak returns the streak value after a reveal: any correct reveal
// extends the streak by one, any incorrect reveal resets it to zero.
func NextStreak(current uint64, correct bool) uint64 {
	if !correct {
		return 0
	}
	return current + 1
}

// Apply folds one reveal outcome into the player stats.
func (s PlayerStats) Apply(o RevealOutcome) (PlayerStats, error) {
	attempts, err := checkedAdd(s.TotalAttempts, 1)
	if err != nil {
		return PlayerStats{}, err
	}
	s.TotalAttempts = attempts

	if o.Correct {
		correct, err := checkedAdd(s.TotalCorrect, 1)
		if err != nil {
			return PlayerStats{}, err
		}
		s.TotalCorrect = correct
	}

	earned, err := checkedAdd(s.TotalEarned, o.Payout)
	if err != nil {
		return PlayerStats{}, err
	}
	s.TotalEarned = earned

	s.CurrentStreak = NextStreak(s.CurrentStreak, o.Correct)
	return s, nil
}

// Apply folds one reveal outcome into the leaderboard entry.
func (e LeaderboardEntry) Apply(o RevealOutcome) (LeaderboardEntry, error) {
	score, err := checkedAdd(e.Score, o.Points)
	if err != nil {
		return LeaderboardEntry{}, err
	}
	e.Score = score

	if o.Correct {
		correct, err := checkedAdd(e.CorrectAnswers, 1)
		if err != nil {
			return LeaderboardEntry{}, err
		}
		e.CorrectAnswers = correct
	}

	attempts, err := checkedAdd(e.TotalAttempts, 1)
	if err != nil {
		return LeaderboardEntry{}, err
	}
	e.TotalAttempts = attempts

	earned, err := checkedAdd(e.TotalEarned, o.Payout)
	if err != nil {
		return LeaderboardEntry{}, err
	}
	e.TotalEarned = earned

	e.CurrentStreak = NextStreak(e.CurrentStreak, o.Correct)
	if e.CurrentStreak > e.BestStreak {
		e.BestStreak = e.CurrentStreak
	}
	return e, nil
}

// Record folds one reveal into the attempt history for a (player, question)
// pair. EverCorrect stays set once true.
func (a Attempt) Record(correct bool, tick uint64) (Attempt, error) {
	attempts, err := checkedAdd(a.TotalAttempts, 1)
	if err != nil {
		return Attempt{}, err
	}
	a.TotalAttempts = attempts
	a.EverCorrect = a.EverCorrect || correct
	a.LastAttemptTick = tick
	return a, nil
}

func checkedAdd(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, apperrors.New(apperrors.CodeOverflow, "counter addition overflows")
	}
	return a + b, nil
}
