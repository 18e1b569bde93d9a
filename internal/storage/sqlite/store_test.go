package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/quizchain/internal/storage"
	"github.com/louisbranch/quizchain/internal/trivia/commitment"
	"github.com/louisbranch/quizchain/internal/trivia/hashing"
	"github.com/louisbranch/quizchain/internal/trivia/ledger"
	"github.com/louisbranch/quizchain/internal/trivia/question"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "quizchain.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("Open() error = nil, want path error")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quizchain.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Re-opening must not re-apply migrations destructively.
	second, err := Open(path)
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	if err := second.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

func TestQuestionRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.NextQuestionID(ctx)
	if err != nil {
		t.Fatalf("NextQuestionID() error = %v", err)
	}
	if id != 1 {
		t.Fatalf("NextQuestionID() = %d, want 1", id)
	}

	want := question.Question{
		ID:            id,
		Text:          "capital of france",
		AnswerHash:    hashing.Sum([]byte("paris")),
		Category:      "geography",
		Difficulty:    question.DifficultyMedium,
		BaseReward:    1_000_000,
		Active:        true,
		CreatedAtTick: 7,
	}
	if err := store.PutQuestion(ctx, want); err != nil {
		t.Fatalf("PutQuestion() error = %v", err)
	}

	got, err := store.Question(ctx, id)
	if err != nil {
		t.Fatalf("Question() error = %v", err)
	}
	if got != want {
		t.Fatalf("Question() = %+v, want %+v", got, want)
	}

	count, err := store.QuestionCount(ctx)
	if err != nil {
		t.Fatalf("QuestionCount() error = %v", err)
	}
	if count != 1 {
		t.Fatalf("QuestionCount() = %d, want 1", count)
	}
}

func TestQuestionNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Question(context.Background(), 42)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Question() error = %v, want ErrNotFound", err)
	}
}

func TestListQuestionsPaginates(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		id, err := store.NextQuestionID(ctx)
		if err != nil {
			t.Fatalf("NextQuestionID() error = %v", err)
		}
		q := question.Question{
			ID:         id,
			Text:       "q",
			AnswerHash: hashing.Sum([]byte{byte(i)}),
			Difficulty: question.DifficultyEasy,
			BaseReward: 500_000,
			Active:     true,
		}
		if err := store.PutQuestion(ctx, q); err != nil {
			t.Fatalf("PutQuestion() error = %v", err)
		}
	}

	page, err := store.ListQuestions(ctx, 2, "")
	if err != nil {
		t.Fatalf("ListQuestions() error = %v", err)
	}
	if len(page.Questions) != 2 || page.NextPageToken == "" {
		t.Fatalf("first page = %d questions, token %q", len(page.Questions), page.NextPageToken)
	}
	if page.Questions[0].ID != 1 || page.Questions[1].ID != 2 {
		t.Fatalf("first page ids = %d, %d, want 1, 2", page.Questions[0].ID, page.Questions[1].ID)
	}

	var seen []uint64
	token := page.NextPageToken
	for _, q := range page.Questions {
		seen = append(seen, q.ID)
	}
	for token != "" {
		page, err = store.ListQuestions(ctx, 2, token)
		if err != nil {
			t.Fatalf("ListQuestions(%q) error = %v", token, err)
		}
		for _, q := range page.Questions {
			seen = append(seen, q.ID)
		}
		token = page.NextPageToken
	}
	if len(seen) != 5 {
		t.Fatalf("paged ids = %v, want 5 ids", seen)
	}
	for i, id := range seen {
		if id != uint64(i+1) {
			t.Fatalf("paged ids = %v, want ascending from 1", seen)
		}
	}
}

func TestCommitmentRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	want := commitment.Commitment{
		Player:        "p1",
		QuestionID:    3,
		AnswerHash:    hashing.Sum([]byte("guess")),
		CreatedAtTick: 12,
	}
	if err := store.PutCommitment(ctx, want); err != nil {
		t.Fatalf("PutCommitment() error = %v", err)
	}

	got, err := store.Commitment(ctx, "p1", 3)
	if err != nil {
		t.Fatalf("Commitment() error = %v", err)
	}
	if got != want {
		t.Fatalf("Commitment() = %+v, want %+v", got, want)
	}

	// Overwrite replaces in place.
	want.AnswerHash = hashing.Sum([]byte("other"))
	want.CreatedAtTick = 200
	if err := store.PutCommitment(ctx, want); err != nil {
		t.Fatalf("PutCommitment() overwrite error = %v", err)
	}
	got, err = store.Commitment(ctx, "p1", 3)
	if err != nil {
		t.Fatalf("Commitment() after overwrite error = %v", err)
	}
	if got != want {
		t.Fatalf("Commitment() = %+v, want %+v", got, want)
	}

	if err := store.DeleteCommitment(ctx, "p1", 3); err != nil {
		t.Fatalf("DeleteCommitment() error = %v", err)
	}
	if _, err := store.Commitment(ctx, "p1", 3); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Commitment() after delete error = %v, want ErrNotFound", err)
	}

	// Deleting a missing record is a no-op.
	if err := store.DeleteCommitment(ctx, "p1", 3); err != nil {
		t.Fatalf("DeleteCommitment() repeat error = %v", err)
	}
}

func TestLedgerRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	attempt := ledger.Attempt{
		Player:          "p1",
		QuestionID:      1,
		TotalAttempts:   3,
		EverCorrect:     true,
		LastAttemptTick: 44,
	}
	if err := store.PutAttempt(ctx, attempt); err != nil {
		t.Fatalf("PutAttempt() error = %v", err)
	}
	gotAttempt, err := store.Attempt(ctx, "p1", 1)
	if err != nil {
		t.Fatalf("Attempt() error = %v", err)
	}
	if gotAttempt != attempt {
		t.Fatalf("Attempt() = %+v, want %+v", gotAttempt, attempt)
	}

	stats := ledger.PlayerStats{
		Player:        "p1",
		TotalAttempts: 3,
		TotalCorrect:  2,
		TotalEarned:   1_500_000,
		CurrentStreak: 2,
	}
	if err := store.PutPlayerStats(ctx, stats); err != nil {
		t.Fatalf("PutPlayerStats() error = %v", err)
	}
	gotStats, err := store.PlayerStats(ctx, "p1")
	if err != nil {
		t.Fatalf("PlayerStats() error = %v", err)
	}
	if gotStats != stats {
		t.Fatalf("PlayerStats() = %+v, want %+v", gotStats, stats)
	}

	if _, err := store.PlayerStats(ctx, "ghost"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("PlayerStats(ghost) error = %v, want ErrNotFound", err)
	}
}

func TestListLeaderboardOrdering(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	entries := []ledger.LeaderboardEntry{
		{Player: "p3", Score: 100},
		{Player: "p1", Score: 300},
		{Player: "p2", Score: 100},
	}
	for _, e := range entries {
		if err := store.PutLeaderboardEntry(ctx, e); err != nil {
			t.Fatalf("PutLeaderboardEntry() error = %v", err)
		}
	}

	ranked, err := store.ListLeaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("ListLeaderboard() error = %v", err)
	}
	want := []string{"p1", "p2", "p3"}
	if len(ranked) != len(want) {
		t.Fatalf("len(ranked) = %d, want %d", len(ranked), len(want))
	}
	for i, e := range ranked {
		if e.Player != want[i] {
			t.Fatalf("ranked[%d] = %s, want %s", i, e.Player, want[i])
		}
	}

	top, err := store.ListLeaderboard(ctx, 1)
	if err != nil {
		t.Fatalf("ListLeaderboard(1) error = %v", err)
	}
	if len(top) != 1 || top[0].Player != "p1" {
		t.Fatalf("ListLeaderboard(1) = %+v, want just p1", top)
	}
}

func TestPoolAndAccountBalances(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	balance, err := store.PoolBalance(ctx)
	if err != nil {
		t.Fatalf("PoolBalance() error = %v", err)
	}
	if balance != 0 {
		t.Fatalf("PoolBalance() = %d, want 0 before first write", balance)
	}

	if err := store.SetPoolBalance(ctx, 9_000_000); err != nil {
		t.Fatalf("SetPoolBalance() error = %v", err)
	}
	balance, err = store.PoolBalance(ctx)
	if err != nil {
		t.Fatalf("PoolBalance() error = %v", err)
	}
	if balance != 9_000_000 {
		t.Fatalf("PoolBalance() = %d, want 9000000", balance)
	}

	got, err := store.AccountBalance(ctx, "p1")
	if err != nil {
		t.Fatalf("AccountBalance() error = %v", err)
	}
	if got != 0 {
		t.Fatalf("AccountBalance() = %d, want 0 for unknown account", got)
	}
	if err := store.SetAccountBalance(ctx, "p1", 250_000); err != nil {
		t.Fatalf("SetAccountBalance() error = %v", err)
	}
	got, err = store.AccountBalance(ctx, "p1")
	if err != nil {
		t.Fatalf("AccountBalance() error = %v", err)
	}
	if got != 250_000 {
		t.Fatalf("AccountBalance() = %d, want 250000", got)
	}
}

func TestAuditEventsAppendOrder(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	types := []string{"question.added", "answer.committed", "answer.revealed"}
	for _, eventType := range types {
		err := store.AppendAuditEvent(ctx, storage.AuditEvent{
			Type:       eventType,
			Player:     "p1",
			QuestionID: 1,
			Tick:       5,
			Payload:    []byte(`{"k":"v"}`),
			Timestamp:  now,
		})
		if err != nil {
			t.Fatalf("AppendAuditEvent(%s) error = %v", eventType, err)
		}
	}

	page, err := store.ListAuditEvents(ctx, 2, "")
	if err != nil {
		t.Fatalf("ListAuditEvents() error = %v", err)
	}
	if len(page.Events) != 2 || page.NextPageToken == "" {
		t.Fatalf("first page = %d events, token %q", len(page.Events), page.NextPageToken)
	}
	if page.Events[0].Seq != 1 || page.Events[0].Type != types[0] {
		t.Fatalf("events[0] = %+v, want seq 1 type %s", page.Events[0], types[0])
	}
	if !page.Events[0].Timestamp.Equal(now) {
		t.Fatalf("Timestamp = %v, want %v", page.Events[0].Timestamp, now)
	}

	rest, err := store.ListAuditEvents(ctx, 2, page.NextPageToken)
	if err != nil {
		t.Fatalf("ListAuditEvents() second page error = %v", err)
	}
	if len(rest.Events) != 1 || rest.Events[0].Type != types[2] {
		t.Fatalf("second page = %+v, want just %s", rest.Events, types[2])
	}
	if rest.NextPageToken != "" {
		t.Fatalf("NextPageToken = %q, want empty on last page", rest.NextPageToken)
	}
}

func TestAtomicRollsBackOnError(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	failure := errors.New("boom")
	err := store.Atomic(ctx, func(tx storage.Store) error {
		if err := tx.SetPoolBalance(ctx, 5_000_000); err != nil {
			return err
		}
		if err := tx.SetAccountBalance(ctx, "p1", 1); err != nil {
			return err
		}
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("Atomic() error = %v, want %v", err, failure)
	}

	balance, err := store.PoolBalance(ctx)
	if err != nil {
		t.Fatalf("PoolBalance() error = %v", err)
	}
	if balance != 0 {
		t.Fatalf("PoolBalance() = %d, want 0 after rollback", balance)
	}
	account, err := store.AccountBalance(ctx, "p1")
	if err != nil {
		t.Fatalf("AccountBalance() error = %v", err)
	}
	if account != 0 {
		t.Fatalf("AccountBalance() = %d, want 0 after rollback", account)
	}
}

func TestAtomicCommits(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.Atomic(ctx, func(tx storage.Store) error {
		if err := tx.SetPoolBalance(ctx, 7); err != nil {
			return err
		}
		return tx.SetAccountBalance(ctx, "p1", 11)
	})
	if err != nil {
		t.Fatalf("Atomic() error = %v", err)
	}

	balance, err := store.PoolBalance(ctx)
	if err != nil {
		t.Fatalf("PoolBalance() error = %v", err)
	}
	if balance != 7 {
		t.Fatalf("PoolBalance() = %d, want 7", balance)
	}
}
