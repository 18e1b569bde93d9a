package engine

import (
	"context"

	"github.com/louisbranch/quizchain/internal/trivia/ledger"
)

// GetAttempt returns the reveal history for one (player, question) pair. A
// player who never revealed gets a zero-valued record, not an error.
func (e *Engine) GetAttempt(ctx context.Context, player string, questionID uint64) (ledger.Attempt, error) {
	a, err := e.store.Attempt(ctx, player, questionID)
	if isNotFound(err) {
		return ledger.Attempt{Player: player, QuestionID: questionID}, nil
	}
	if err != nil {
		return ledger.Attempt{}, err
	}
	return a, nil
}

// GetPlayerStats returns the aggregate stats for a player. Unknown players
// get zero-valued stats.
func (e *Engine) GetPlayerStats(ctx context.Context, player string) (ledger.PlayerStats, error) {
	s, err := e.store.PlayerStats(ctx, player)
	if isNotFound(err) {
		return ledger.PlayerStats{Player: player}, nil
	}
	if err != nil {
		return ledger.PlayerStats{}, err
	}
	return s, nil
}

// GetLeaderboardEntry returns the ranked view for a player. Unknown players
// get a zero-valued entry.
func (e *Engine) GetLeaderboardEntry(ctx context.Context, player string) (ledger.LeaderboardEntry, error) {
	entry, err := e.store.LeaderboardEntry(ctx, player)
	if isNotFound(err) {
		return ledger.LeaderboardEntry{Player: player}, nil
	}
	if err != nil {
		return ledger.LeaderboardEntry{}, err
	}
	return entry, nil
}

// ListLeaderboard returns up to limit entries ordered by score descending,
// ties broken by player id ascending.
func (e *Engine) ListLeaderboard(ctx context.Context, limit int) ([]ledger.LeaderboardEntry, error) {
	return e.store.ListLeaderboard(ctx, limit)
}

// HasAnsweredCorrectly reports whether the player has ever revealed the
// correct answer for the question.
func (e *Engine) HasAnsweredCorrectly(ctx context.Context, player string, questionID uint64) (bool, error) {
	a, err := e.store.Attempt(ctx, player, questionID)
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return a.EverCorrect, nil
}

// GetStreak returns the player's current streak, zero for unknown players.
func (e *Engine) GetStreak(ctx context.Context, player string) (uint64, error) {
	s, err := e.store.PlayerStats(ctx, player)
	if isNotFound(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return s.CurrentStreak, nil
}

// TokenBalance returns the token balance for an account.
func (e *Engine) TokenBalance(ctx context.Context, account string) (uint64, error) {
	return e.store.AccountBalance(ctx, account)
}
