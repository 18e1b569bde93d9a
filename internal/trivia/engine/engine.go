package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	apperrors "github.com/louisbranch/quizchain/internal/platform/errors"
	"github.com/louisbranch/quizchain/internal/storage"
	"github.com/louisbranch/quizchain/internal/trivia/tick"
	"github.com/louisbranch/quizchain/internal/trivia/token"
)

// DefaultPoolAccount is the account the reward pool pays from when no other
// account is configured.
const DefaultPoolAccount = "reward-pool"

// TokenServiceFor builds a token service bound to the given store view.
// The engine calls it inside Atomic so token movements share the game
// transaction.
type TokenServiceFor func(storage.Store) token.Service

// Config carries the engine dependencies.
type Config struct {
	// Store is the persistence backend. Required.
	Store storage.Store
	// Ticks supplies the monotone counter bounding commitment windows. Required.
	Ticks tick.Source
	// Owner is the identity allowed to administer questions. Required.
	Owner string
	// PoolAccount is the token account the pool pays from.
	// Defaults to DefaultPoolAccount.
	PoolAccount string
	// Tokens builds the token service per transaction. Defaults to the
	// built-in account ledger persisted alongside the game state.
	Tokens TokenServiceFor
	// Clock stamps audit events. Defaults to time.Now.
	Clock func() time.Time
}

// Engine exposes the trivia operations over a storage backend.
type Engine struct {
	store       storage.Store
	ticks       tick.Source
	owner       string
	poolAccount string
	tokens      TokenServiceFor
	clock       func() time.Time
}

// New creates an engine from the config, filling optional seams with their
// defaults.
func New(cfg Config) (*Engine, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Ticks == nil {
		return nil, fmt.Errorf("tick source is required")
	}
	if cfg.Owner == "" {
		return nil, fmt.Errorf("owner identity is required")
	}

	poolAccount := cfg.PoolAccount
	if poolAccount == "" {
		poolAccount = DefaultPoolAccount
	}
	tokens := cfg.Tokens
	if tokens == nil {
		tokens = func(s storage.Store) token.Service {
			return token.NewLedger(s)
		}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Engine{
		store:       cfg.Store,
		ticks:       cfg.Ticks,
		owner:       cfg.Owner,
		poolAccount: poolAccount,
		tokens:      tokens,
		clock:       clock,
	}, nil
}

// PoolAccount returns the token account the pool pays from.
func (e *Engine) PoolAccount() string {
	return e.poolAccount
}

func (e *Engine) currentTick(ctx context.Context) (uint64, error) {
	t, err := e.ticks.Current(ctx)
	if err != nil {
		return 0, fmt.Errorf("read current tick: %w", err)
	}
	return t, nil
}

func (e *Engine) requireOwner(caller string) error {
	if caller != e.owner {
		return apperrors.New(apperrors.CodeNotOwner, "caller is not the registered owner")
	}
	return nil
}

// isNotFound reports whether err is the storage miss sentinel.
func isNotFound(err error) bool {
	return stderrors.Is(err, storage.ErrNotFound)
}
