// Package commitment models the short-lived commit phase of the commit-reveal
// protocol. A commitment is valid for Window ticks after creation; an expired
// commitment may be silently replaced but never revealed.
package commitment

import "github.com/louisbranch/quizchain/internal/trivia/hashing"

// Window is the number of ticks a commitment stays live after creation.
const Window = 100

// Commitment records a player's published answer digest for one question.
// At most one commitment exists per (player, question) pair at a time.
type Commitment struct {
	Player        string
	QuestionID    uint64
	AnswerHash    hashing.Digest
	CreatedAtTick uint64
}

// Live reports whether the commitment can still be revealed at currentTick.
// The creating tick itself counts toward the window.
func (c Commitment) Live(currentTick uint64) bool {
	return !c.Expired(currentTick)
}

// Expired reports whether the reveal window has closed at currentTick.
// Ticks are monotone, so currentTick is never behind CreatedAtTick in
// practice; a stale reading is treated as still live rather than underflowing.
func (c Commitment) Expired(currentTick uint64) bool {
	if currentTick <= c.CreatedAtTick {
		return false
	}
	return currentTick-c.CreatedAtTick > Window
}
