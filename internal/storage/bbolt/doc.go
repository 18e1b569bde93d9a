// Package bbolt implements the storage interfaces over a BoltDB file.
//
// It is the embedded, zero-dependency-server alternative to the SQLite
// backend. Atomic maps onto a single BoltDB write transaction, so a reveal's
// scoring writes and its token movement commit or roll back together.
package bbolt
