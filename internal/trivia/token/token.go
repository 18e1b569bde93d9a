// Package token defines the fungible token seam the reward pool pays through.
//
// The core treats mint and transfer as atomic, all-or-nothing operations. The
// default implementation is a balance ledger persisted in the same store as
// the game state, so a payout and its pool deduction commit or roll back
// together. Deployments with an external token system swap in their own
// Service.
package token

import (
	"context"
	"math"

	apperrors "github.com/louisbranch/quizchain/internal/platform/errors"
	"github.com/louisbranch/quizchain/internal/storage"
)

// Service performs token movements on behalf of the engine.
type Service interface {
	// Mint creates amount new tokens at account.
	Mint(ctx context.Context, amount uint64, account string) error
	// Transfer moves amount from one account to another. It fails with
	// InsufficientFunds when the source balance is too small.
	Transfer(ctx context.Context, amount uint64, from, to string) error
}

// Ledger is the built-in Service over a persisted account table.
type Ledger struct {
	accounts storage.AccountStore
}

// NewLedger creates a token ledger over the given account store.
func NewLedger(accounts storage.AccountStore) *Ledger {
	return &Ledger{accounts: accounts}
}

// Mint implements Service.
func (l *Ledger) Mint(ctx context.Context, amount uint64, account string) error {
	balance, err := l.accounts.AccountBalance(ctx, account)
	if err != nil {
		return err
	}
	if balance > math.MaxUint64-amount {
		return apperrors.New(apperrors.CodeOverflow, "mint overflows account balance")
	}
	return l.accounts.SetAccountBalance(ctx, account, balance+amount)
}

// Transfer implements Service.
func (l *Ledger) Transfer(ctx context.Context, amount uint64, from, to string) error {
	fromBalance, err := l.accounts.AccountBalance(ctx, from)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return apperrors.WithMetadata(
			apperrors.CodeInsufficientFunds,
			"account balance is too small for transfer",
			map[string]string{"account": from},
		)
	}

	toBalance, err := l.accounts.AccountBalance(ctx, to)
	if err != nil {
		return err
	}
	if toBalance > math.MaxUint64-amount {
		return apperrors.New(apperrors.CodeOverflow, "transfer overflows account balance")
	}

	if err := l.accounts.SetAccountBalance(ctx, from, fromBalance-amount); err != nil {
		return err
	}
	return l.accounts.SetAccountBalance(ctx, to, toBalance+amount)
}
