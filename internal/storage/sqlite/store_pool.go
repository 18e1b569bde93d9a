package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PoolBalance returns the reward pool balance, zero before the first write.
func (s *Store) PoolBalance(ctx context.Context) (uint64, error) {
	var value int64
	row := s.db.QueryRowContext(ctx, `SELECT value FROM counters WHERE name = 'pool_balance'`)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("read pool balance: %w", err)
	}
	return uint64(value), nil
}

// SetPoolBalance stores the reward pool balance.
func (s *Store) SetPoolBalance(ctx context.Context, balance uint64) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO counters (name, value) VALUES ('pool_balance', ?)
ON CONFLICT(name) DO UPDATE SET value = excluded.value
`, int64(balance))
	if err != nil {
		return fmt.Errorf("set pool balance: %w", err)
	}
	return nil
}

// AccountBalance returns the token balance for account, zero when the account
// has never been written.
func (s *Store) AccountBalance(ctx context.Context, account string) (uint64, error) {
	var balance int64
	row := s.db.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE account = ?`, account)
	if err := row.Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("read account balance: %w", err)
	}
	return uint64(balance), nil
}

// SetAccountBalance stores the token balance for account.
func (s *Store) SetAccountBalance(ctx context.Context, account string, balance uint64) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO accounts (account, balance) VALUES (?, ?)
ON CONFLICT(account) DO UPDATE SET balance = excluded.balance
`, account, int64(balance))
	if err != nil {
		return fmt.Errorf("set account balance: %w", err)
	}
	return nil
}
