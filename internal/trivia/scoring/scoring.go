// Package scoring holds the pure points/streak/reward arithmetic.
//
// All functions are deterministic and side-effect free so any two
// implementations replay to bit-identical results. Multipliers are expressed
// in basis points (10000 = 1.0x) and applied with integer floor division.
package scoring

import (
	"math"

	apperrors "github.com/louisbranch/quizchain/internal/platform/errors"
)

// MultiplierScale is the basis-point denominator (10000 = 1.0x).
const MultiplierScale = 10_000

// Multiplier returns the streak multiplier in basis points for the streak
// value a player held before the current reveal is applied.
func Multiplier(priorStreak uint64) uint64 {
	switch {
	case priorStreak >= 20:
		return 30_000
	case priorStreak >= 10:
		return 20_000
	case priorStreak >= 5:
		return 15_000
	case priorStreak >= 3:
		return 12_500
	default:
		return MultiplierScale
	}
}

// Points returns the leaderboard points for a reveal. First-try reveals score
// the full base reward; attempt N scores baseReward/N with integer floor.
// Incorrect reveals score zero.
func Points(baseReward, attemptNum uint64, correct bool) uint64 {
	if !correct || attemptNum == 0 {
		return 0
	}
	return baseReward / attemptNum
}

// FinalReward returns the payout amount for a correct reveal: the base reward
// scaled by the prior-streak multiplier. Overflow is an error, never a silent
// wrap.
func FinalReward(baseReward, priorStreak uint64, correct bool) (uint64, error) {
	if !correct {
		return 0, nil
	}

	mult := Multiplier(priorStreak)
	if baseReward != 0 && mult > math.MaxUint64/baseReward {
		return 0, apperrors.New(apperrors.CodeOverflow, "reward multiplication overflows")
	}
	return baseReward * mult / MultiplierScale, nil
}
