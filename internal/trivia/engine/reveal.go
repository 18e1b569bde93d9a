package engine

import (
	"context"
	"fmt"

	apperrors "github.com/louisbranch/quizchain/internal/platform/errors"
	"github.com/louisbranch/quizchain/internal/storage"
	"github.com/louisbranch/quizchain/internal/trivia/hashing"
	"github.com/louisbranch/quizchain/internal/trivia/ledger"
	"github.com/louisbranch/quizchain/internal/trivia/scoring"
)

// PayoutStatus reports what happened on the reward channel of a reveal.
// Gameplay correctness and payout success are deliberately separate: a
// reveal against an empty pool still succeeds, with the payout deferred.
type PayoutStatus string

const (
	// PayoutNone means no payout was owed on this reveal.
	PayoutNone PayoutStatus = "none"
	// PayoutPaid means the reward left the pool on this reveal.
	PayoutPaid PayoutStatus = "paid"
	// PayoutDeferred means a reward was owed but the pool could not cover it.
	PayoutDeferred PayoutStatus = "deferred"
)

// RevealResult reports the outcome of a successful reveal call. Both correct
// and incorrect answers are successful calls; only precondition violations
// surface as errors.
type RevealResult struct {
	Correct       bool
	AttemptNumber uint64
	Points        uint64
	Reward        uint64
	Streak        uint64
	Payout        PayoutStatus
}

// RevealAnswer discloses the plaintext behind a prior commitment and applies
// the full scoring pipeline.
//
// The commitment is consumed only once the revealed bytes hash to the
// committed digest; expiry and mismatch failures leave it in place so the
// caller can re-commit or retry. A reward is paid only on the first reveal
// that makes (player, question) correct, and only if the pool covers it.
func (e *Engine) RevealAnswer(ctx context.Context, player string, questionID uint64, plaintext []byte) (RevealResult, error) {
	currentTick, err := e.currentTick(ctx)
	if err != nil {
		return RevealResult{}, err
	}

	var result RevealResult
	err = e.store.Atomic(ctx, func(tx storage.Store) error {
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

		c, err := tx.Commitment(ctx, player, questionID)
		if err != nil {
			if isNotFound(err) {
				return apperrors.New(apperrors.CodeNoCommitment, "no commitment for player and question")
			}
			return fmt.Errorf("load commitment: %w", err)
		}
		if c.Expired(currentTick) {
			// The commitment stays stored; the player must re-commit.
			return apperrors.New(apperrors.CodeCommitmentExpired, "commitment window has closed")
		}

		revealed := hashing.Sum(plaintext)
		if revealed != c.AnswerHash {
			// Anti-tamper: the revealed bytes must match what was
			// committed. The commitment survives this failure.
			return apperrors.New(apperrors.CodeHashMismatch, "revealed bytes do not match commitment")
		}

		// The commitment is single-use from here on, whether or not the
		// answer is game-correct.
		if err := tx.DeleteCommitment(ctx, player, questionID); err != nil {
			return fmt.Errorf("delete commitment: %w", err)
		}

		correct := revealed == q.AnswerHash

		attempt, err := tx.Attempt(ctx, player, questionID)
		if err != nil {
			if !isNotFound(err) {
				return fmt.Errorf("load attempt: %w", err)
			}
			attempt = ledger.Attempt{Player: player, QuestionID: questionID}
		}
		alreadyCorrectBefore := attempt.EverCorrect

		attempt, err = attempt.Record(correct, currentTick)
		if err != nil {
			return err
		}
		if err := tx.PutAttempt(ctx, attempt); err != nil {
			return fmt.Errorf("put attempt: %w", err)
		}

		stats, err := tx.PlayerStats(ctx, player)
		if err != nil {
			if !isNotFound(err) {
				return fmt.Errorf("load player stats: %w", err)
			}
			stats = ledger.PlayerStats{Player: player}
		}

		points := scoring.Points(q.BaseReward, attempt.TotalAttempts, correct)
		finalReward, err := scoring.FinalReward(q.BaseReward, stats.CurrentStreak, correct)
		if err != nil {
			return err
		}

		var payoutAmount uint64
		if correct && !alreadyCorrectBefore {
			payoutAmount = finalReward
		}

		outcome := ledger.RevealOutcome{Correct: correct, Points: points, Payout: payoutAmount}
		stats, err = stats.Apply(outcome)
		if err != nil {
			return err
		}
		if err := tx.PutPlayerStats(ctx, stats); err != nil {
			return fmt.Errorf("put player stats: %w", err)
		}

		entry, err := tx.LeaderboardEntry(ctx, player)
		if err != nil {
			if !isNotFound(err) {
				return fmt.Errorf("load leaderboard entry: %w", err)
			}
			entry = ledger.LeaderboardEntry{Player: player}
		}
		entry, err = entry.Apply(outcome)
		if err != nil {
			return err
		}
		if err := tx.PutLeaderboardEntry(ctx, entry); err != nil {
			return fmt.Errorf("put leaderboard entry: %w", err)
		}

		payout := PayoutNone
		if payoutAmount > 0 {
			payout, err = e.payOut(ctx, tx, payoutAmount, player)
			if err != nil {
				return err
			}
		}

		result = RevealResult{
			Correct:       correct,
			AttemptNumber: attempt.TotalAttempts,
			Points:        points,
			Reward:        payoutAmount,
			Streak:        stats.CurrentStreak,
			Payout:        payout,
		}
		return e.appendAudit(ctx, tx, auditAnswerRevealed, player, questionID, currentTick, revealedPayload{
			Correct: correct,
			Attempt: attempt.TotalAttempts,
			Points:  points,
			Reward:  payoutAmount,
			Payout:  string(payout),
		})
	})
	if err != nil {
		return RevealResult{}, err
	}
	return result, nil
}

type revealedPayload struct {
	Correct bool   `json:"correct"`
	Attempt uint64 `json:"attempt"`
	Points  uint64 `json:"points"`
	Reward  uint64 `json:"reward"`
	Payout  string `json:"payout"`
}

// payOut moves amount from the pool to the player when the balance covers it.
// An underfunded pool defers the payout; a failed transfer aborts the whole
// reveal so no partial deduction persists.
func (e *Engine) payOut(ctx context.Context, tx storage.Store, amount uint64, player string) (PayoutStatus, error) {
	balance, err := tx.PoolBalance(ctx)
	if err != nil {
		return PayoutNone, fmt.Errorf("load pool balance: %w", err)
	}
	if balance < amount {
		return PayoutDeferred, nil
	}

	if err := tx.SetPoolBalance(ctx, balance-amount); err != nil {
		return PayoutNone, fmt.Errorf("set pool balance: %w", err)
	}
	if err := e.tokens(tx).Transfer(ctx, amount, e.poolAccount, player); err != nil {
		return PayoutNone, fmt.Errorf("transfer reward: %w", err)
	}
	return PayoutPaid, nil
}
