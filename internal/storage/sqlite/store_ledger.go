package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/louisbranch/quizchain/internal/storage"
	"github.com/louisbranch/quizchain/internal/trivia/ledger"
)

// PutAttempt inserts or replaces the attempt record for a (player, question)
// pair.
func (s *Store) PutAttempt(ctx context.Context, a ledger.Attempt) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO attempts (player, question_id, total_attempts, ever_correct, last_attempt_tick)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(player, question_id) DO UPDATE SET
    total_attempts = excluded.total_attempts,
    ever_correct = excluded.ever_correct,
    last_attempt_tick = excluded.last_attempt_tick
`,
		a.Player,
		int64(a.QuestionID),
		int64(a.TotalAttempts),
		a.EverCorrect,
		int64(a.LastAttemptTick),
	)
	if err != nil {
		return fmt.Errorf("put attempt: %w", err)
	}
	return nil
}

// Attempt loads the attempt record for a (player, question) pair.
func (s *Store) Attempt(ctx context.Context, player string, questionID uint64) (ledger.Attempt, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT player, question_id, total_attempts, ever_correct, last_attempt_tick
FROM attempts
WHERE player = ? AND question_id = ?
`, player, int64(questionID))

	var a ledger.Attempt
	var qid, totalAttempts, lastAttemptTick int64
	if err := row.Scan(&a.Player, &qid, &totalAttempts, &a.EverCorrect, &lastAttemptTick); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Attempt{}, storage.ErrNotFound
		}
		return ledger.Attempt{}, fmt.Errorf("load attempt: %w", err)
	}
	a.QuestionID = uint64(qid)
	a.TotalAttempts = uint64(totalAttempts)
	a.LastAttemptTick = uint64(lastAttemptTick)
	return a, nil
}

// PutPlayerStats inserts or replaces the aggregate stats for a player.
func (s *Store) PutPlayerStats(ctx context.Context, stats ledger.PlayerStats) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO player_stats (player, total_attempts, total_correct, total_earned, current_streak)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(player) DO UPDATE SET
    total_attempts = excluded.total_attempts,
    total_correct = excluded.total_correct,
    total_earned = excluded.total_earned,
    current_streak = excluded.current_streak
`,
		stats.Player,
		int64(stats.TotalAttempts),
		int64(stats.TotalCorrect),
		int64(stats.TotalEarned),
		int64(stats.CurrentStreak),
	)
	if err != nil {
		return fmt.Errorf("put player stats: %w", err)
	}
	return nil
}

// PlayerStats loads the aggregate stats for a player.
func (s *Store) PlayerStats(ctx context.Context, player string) (ledger.PlayerStats, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT player, total_attempts, total_correct, total_earned, current_streak
FROM player_stats
WHERE player = ?
`, player)

	var stats ledger.PlayerStats
	var totalAttempts, totalCorrect, totalEarned, currentStreak int64
	if err := row.Scan(&stats.Player, &totalAttempts, &totalCorrect, &totalEarned, &currentStreak); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.PlayerStats{}, storage.ErrNotFound
		}
		return ledger.PlayerStats{}, fmt.Errorf("load player stats: %w", err)
	}
	stats.TotalAttempts = uint64(totalAttempts)
	stats.TotalCorrect = uint64(totalCorrect)
	stats.TotalEarned = uint64(totalEarned)
	stats.CurrentStreak = uint64(currentStreak)
	return stats, nil
}

const leaderboardColumns = `player, score, correct_answers, total_attempts, current_streak, best_streak, total_earned`

// PutLeaderboardEntry inserts or replaces the ranked entry for a player.
func (s *Store) PutLeaderboardEntry(ctx context.Context, e ledger.LeaderboardEntry) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO leaderboard (player, score, correct_answers, total_attempts, current_streak, best_streak, total_earned)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(player) DO UPDATE SET
    score = excluded.score,
    correct_answers = excluded.correct_answers,
    total_attempts = excluded.total_attempts,
    current_streak = excluded.current_streak,
    best_streak = excluded.best_streak,
    total_earned = excluded.total_earned
`,
		e.Player,
		int64(e.Score),
		int64(e.CorrectAnswers),
		int64(e.TotalAttempts),
		int64(e.CurrentStreak),
		int64(e.BestStreak),
		int64(e.TotalEarned),
	)
	if err != nil {
		return fmt.Errorf("put leaderboard entry: %w", err)
	}
	return nil
}

// LeaderboardEntry loads the ranked entry for a player.
func (s *Store) LeaderboardEntry(ctx context.Context, player string) (ledger.LeaderboardEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+leaderboardColumns+` FROM leaderboard WHERE player = ?`, player)
	e, err := scanLeaderboardEntry(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.LeaderboardEntry{}, storage.ErrNotFound
		}
		return ledger.LeaderboardEntry{}, fmt.Errorf("load leaderboard entry: %w", err)
	}
	return e, nil
}

// ListLeaderboard returns up to limit entries ordered by score descending,
// ties broken by player id ascending.
func (s *Store) ListLeaderboard(ctx context.Context, limit int) ([]ledger.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+leaderboardColumns+` FROM leaderboard ORDER BY score DESC, player ASC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []ledger.LeaderboardEntry
	for rows.Next() {
		e, err := scanLeaderboardEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", err)
	}
	return entries, nil
}

func scanLeaderboardEntry(scan func(dest ...any) error) (ledger.LeaderboardEntry, error) {
	var e ledger.LeaderboardEntry
	var score, correctAnswers, totalAttempts, currentStreak, bestStreak, totalEarned int64
	if err := scan(
		&e.Player,
		&score,
		&correctAnswers,
		&totalAttempts,
		&currentStreak,
		&bestStreak,
		&totalEarned,
	); err != nil {
		return ledger.LeaderboardEntry{}, err
	}
	e.Score = uint64(score)
	e.CorrectAnswers = uint64(correctAnswers)
	e.TotalAttempts = uint64(totalAttempts)
	e.CurrentStreak = uint64(currentStreak)
	e.BestStreak = uint64(bestStreak)
	e.TotalEarned = uint64(totalEarned)
	return e, nil
}
