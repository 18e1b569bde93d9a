// Package storage defines the persistence interfaces for the QuizChain core.
//
// It provides a high-level abstraction for storing questions, commitments,
// attempt history, player aggregates, the reward pool, token accounts, and
// the append-only audit log. Implementations of these interfaces (SQLite and
// bbolt) live in subpackages.
//
// # Error Types
//
//   - ErrNotFound: Indicates a requested record is missing.
//
// Every mutating engine operation runs inside Store.Atomic, so an
// implementation's transaction boundary is the unit of all-or-nothing
// semantics for the whole system.
package storage
