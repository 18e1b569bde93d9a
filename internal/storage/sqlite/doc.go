// Package sqlite implements the storage interfaces over a single SQLite file.
//
// All tables live in one database so a reveal's scoring writes, pool
// deduction, and token transfer commit in one transaction. Migrations are
// embedded and applied on Open.
package sqlite
