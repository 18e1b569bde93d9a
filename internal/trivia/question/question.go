// Package question models trivia question definitions and their lifecycle.
//
// Questions are created by the registered owner, carry a write-once answer
// digest, and move from active to retired exactly once. Retired questions stay
// readable so attempt history referencing them remains valid.
package question

import (
	"strconv"

	apperrors "github.com/louisbranch/quizchain/internal/platform/errors"
	"github.com/louisbranch/quizchain/internal/trivia/hashing"
)

// Difficulty is one of four question tiers.
type Difficulty uint8

const (
	DifficultyEasy   Difficulty = 1
	DifficultyMedium Difficulty = 2
	DifficultyHard   Difficulty = 3
	DifficultyExpert Difficulty = 4
)

// Valid reports whether the difficulty is one of the four known tiers.
func (d Difficulty) Valid() bool {
	return d >= DifficultyEasy && d <= DifficultyExpert
}

// DefaultReward returns the tier default base reward in micro reward units.
// It is used when a question is created with a zero reward.
func (d Difficulty) DefaultReward() uint64 {
	switch d {
	case DifficultyEasy:
		return 500_000
	case DifficultyMedium:
		return 1_000_000
	case DifficultyHard:
		return 2_500_000
	case DifficultyExpert:
		return 5_000_000
	default:
		return 0
	}
}

// Question is a stored question definition. AnswerHash is write-once at
// creation and never leaves the storage layer through read paths.
type Question struct {
	ID            uint64
	Text          string
	AnswerHash    hashing.Digest
	Category      string
	Difficulty    Difficulty
	BaseReward    uint64
	Active        bool
	CreatedAtTick uint64
	RetiredAtTick uint64
}

// Metadata is the externally visible view of a question. It deliberately
// excludes the answer hash.
type Metadata struct {
	ID            uint64
	Text          string
	Category      string
	Difficulty    Difficulty
	BaseReward    uint64
	Active        bool
	CreatedAtTick uint64
	RetiredAtTick uint64
}

// Metadata returns the hash-free view of the question.
func (q Question) Metadata() Metadata {
	return Metadata{
		ID:            q.ID,
		Text:          q.Text,
		Category:      q.Category,
		Difficulty:    q.Difficulty,
		BaseReward:    q.BaseReward,
		Active:        q.Active,
		CreatedAtTick: q.CreatedAtTick,
		RetiredAtTick: q.RetiredAtTick,
	}
}

// Input carries the caller-supplied fields for a new question.
type Input struct {
	Text       string
	AnswerHash hashing.Digest
	Category   string
	Difficulty Difficulty
	BaseReward uint64
}

// New builds an active question from caller input. A zero base reward resolves
// to the tier default; any other value is stored verbatim.
func New(id uint64, in Input, tick uint64) (Question, error) {
	if !in.Difficulty.Valid() {
		return Question{}, apperrors.WithMetadata(
			apperrors.CodeInvalidDifficulty,
			"difficulty must be between 1 and 4",
			map[string]string{"difficulty": strconv.Itoa(int(in.Difficulty))},
		)
	}

	reward := in.BaseReward
	if reward == 0 {
		reward = in.Difficulty.DefaultReward()
	}

	return Question{
		ID:            id,
		Text:          in.Text,
		AnswerHash:    in.AnswerHash,
		Category:      in.Category,
		Difficulty:    in.Difficulty,
		BaseReward:    reward,
		Active:        true,
		CreatedAtTick: tick,
	}, nil
}
