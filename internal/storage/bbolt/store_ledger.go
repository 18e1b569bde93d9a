package bbolt

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/louisbranch/quizchain/internal/storage"
	"github.com/louisbranch/quizchain/internal/trivia/ledger"
	"go.etcd.io/bbolt"
)

// PutPlayerStats persists the aggregate stats for a player.
func (s *Store) PutPlayerStats(ctx context.Context, stats ledger.PlayerStats) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(toStatsRecord(stats))
	if err != nil {
		return fmt.Errorf("marshal player stats: %w", err)
	}
	return s.update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(statsBucket)).Put([]byte(stats.Player), payload)
	})
}

// PlayerStats fetches the aggregate stats for a player.
func (s *Store) PlayerStats(ctx context.Context, player string) (ledger.PlayerStats, error) {
	if err := ctx.Err(); err != nil {
		return ledger.PlayerStats{}, err
	}

	var stats ledger.PlayerStats
	err := s.view(func(tx *bbolt.Tx) error {
		payload := tx.Bucket([]byte(statsBucket)).Get([]byte(player))
		if payload == nil {
			return storage.ErrNotFound
		}
		var record statsRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			return fmt.Errorf("unmarshal player stats: %w", err)
		}
		stats = record.toDomain()
		return nil
	})
	if err != nil {
		return ledger.PlayerStats{}, err
	}
	return stats, nil
}

// PutLeaderboardEntry persists the ranked entry for a player.
func (s *Store) PutLeaderboardEntry(ctx context.Context, e ledger.LeaderboardEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(toLeaderboardRecord(e))
	if err != nil {
		return fmt.Errorf("marshal leaderboard entry: %w", err)
	}
	return s.update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(leaderboardBucket)).Put([]byte(e.Player), payload)
	})
}

// LeaderboardEntry fetches the ranked entry for a player.
func (s *Store) LeaderboardEntry(ctx context.Context, player string) (ledger.LeaderboardEntry, error) {
	if err := ctx.Err(); err != nil {
		return ledger.LeaderboardEntry{}, err
	}

	var e ledger.LeaderboardEntry
	err := s.view(func(tx *bbolt.Tx) error {
		payload := tx.Bucket([]byte(leaderboardBucket)).Get([]byte(player))
		if payload == nil {
			return storage.ErrNotFound
		}
		var record leaderboardRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			return fmt.Errorf("unmarshal leaderboard entry: %w", err)
		}
		e = record.toDomain()
		return nil
	})
	if err != nil {
		return ledger.LeaderboardEntry{}, err
	}
	return e, nil
}

// ListLeaderboard returns up to limit entries ordered by score descending,
// ties broken by player id ascending. Ranking happens in memory; the bucket
// stays keyed by player so entry upserts are O(1).
func (s *Store) ListLeaderboard(ctx context.Context, limit int) ([]ledger.LeaderboardEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entries []ledger.LeaderboardEntry
	err := s.view(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(leaderboardBucket)).ForEach(func(_, payload []byte) error {
			var record leaderboardRecord
			if err := json.Unmarshal(payload, &record); err != nil {
				return fmt.Errorf("unmarshal leaderboard entry: %w", err)
			}
			entries = append(entries, record.toDomain())
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Player < entries[j].Player
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

const poolBalanceCounter = "pool_balance"

// PoolBalance returns the reward pool balance, zero before the first write.
func (s *Store) PoolBalance(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var balance uint64
	err := s.view(func(tx *bbolt.Tx) error {
		balance = u64Value(tx.Bucket([]byte(countersBucket)).Get([]byte(poolBalanceCounter)))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// SetPoolBalance stores the reward pool balance.
func (s *Store) SetPoolBalance(ctx context.Context, balance uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(countersBucket)).Put([]byte(poolBalanceCounter), u64Key(balance))
	})
}

// AccountBalance returns the token balance for account, zero when the account
// has never been written.
func (s *Store) AccountBalance(ctx context.Context, account string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var balance uint64
	err := s.view(func(tx *bbolt.Tx) error {
		balance = u64Value(tx.Bucket([]byte(accountsBucket)).Get([]byte(account)))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// SetAccountBalance stores the token balance for account.
func (s *Store) SetAccountBalance(ctx context.Context, account string, balance uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(accountsBucket)).Put([]byte(account), u64Key(balance))
	})
}
