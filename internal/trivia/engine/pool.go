package engine

import (
	"context"
	"fmt"
	"math"

	apperrors "github.com/louisbranch/quizchain/internal/platform/errors"
	"github.com/louisbranch/quizchain/internal/storage"
)

// FundPool mints amount into the pool account and grows the pool balance.
// Funding is open to any caller and has no cap.
func (e *Engine) FundPool(ctx context.Context, caller string, amount uint64) (uint64, error) {
	currentTick, err := e.currentTick(ctx)
	if err != nil {
		return 0, err
	}

	var newBalance uint64
	err = e.store.Atomic(ctx, func(tx storage.Store) error {
		balance, err := tx.PoolBalance(ctx)
		if err != nil {
			return fmt.Errorf("load pool balance: %w", err)
		}
		if balance > math.MaxUint64-amount {
			return apperrors.New(apperrors.CodeOverflow, "pool funding overflows balance")
		}

		if err := e.tokens(tx).Mint(ctx, amount, e.poolAccount); err != nil {
			return fmt.Errorf("mint into pool: %w", err)
		}
		newBalance = balance + amount
		if err := tx.SetPoolBalance(ctx, newBalance); err != nil {
			return fmt.Errorf("set pool balance: %w", err)
		}
		return e.appendAudit(ctx, tx, auditPoolFunded, caller, 0, currentTick, fundedPayload{
			Amount:     amount,
			NewBalance: newBalance,
		})
	})
	if err != nil {
		return 0, err
	}
	return newBalance, nil
}

type fundedPayload struct {
	Amount     uint64 `json:"amount"`
	NewBalance uint64 `json:"new_balance"`
}

// PoolBalance returns the current reward pool balance.
func (e *Engine) PoolBalance(ctx context.Context) (uint64, error) {
	return e.store.PoolBalance(ctx)
}
