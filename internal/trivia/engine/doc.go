// Package engine orchestrates the trivia core: question administration,
// answer commitments, reveals, scoring, and reward payouts.
//
// Every mutating operation resolves the current tick once, then runs as a
// single atomic store transaction. Precondition failures abort with no state
// change; a completed call commits every side effect together with an
// append-only audit event.
//
// The engine is the source of truth for operation ordering:
//   - commit checks question state and commitment liveness,
//   - reveal consumes the commitment only after the anti-tamper hash match,
//   - scoring reads the streak held before the reveal is applied,
//   - payout happens only on the first-ever-correct reveal per pair and is
//     deferred, not failed, when the pool cannot cover it.
package engine
