package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open("  "); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestRecordRecentRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC)

	rounds := []Round{
		{StartedAt: base, Duration: 4200 * time.Millisecond, BallSnapshots: 3, InputSnapshots: 5, Difficulty: "easy", Verified: true},
		{StartedAt: base.Add(time.Minute), Duration: 900 * time.Millisecond, BallSnapshots: 0, InputSnapshots: 1, Difficulty: "hard", Verified: false},
		{StartedAt: base.Add(2 * time.Minute), Duration: 12 * time.Second, BallSnapshots: 9, InputSnapshots: 14, Difficulty: "medium", Verified: true},
	}
	for _, r := range rounds {
		if err := store.RecordRound(ctx, r); err != nil {
			t.Fatalf("record round: %v", err)
		}
	}

	got, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(recent) = %d, want 2", len(got))
	}
	if !got[0].StartedAt.Equal(rounds[2].StartedAt) || got[0].Difficulty != "medium" {
		t.Errorf("recent[0] = %+v, want the newest round", got[0])
	}
	if got[1].Verified || got[1].InputSnapshots != 1 || got[1].Duration != 900*time.Millisecond {
		t.Errorf("recent[1] = %+v, want the hard round", got[1])
	}
}

func TestBest(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()

	if _, err := store.Best(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Best() on empty store err = %v, want ErrNotFound", err)
	}

	for _, d := range []time.Duration{time.Second, 5 * time.Second, 3 * time.Second} {
		if err := store.RecordRound(ctx, Round{Duration: d, Difficulty: "easy"}); err != nil {
			t.Fatalf("record round: %v", err)
		}
	}
	best, err := store.Best(ctx)
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	if best.Duration != 5*time.Second {
		t.Errorf("best duration = %v, want 5s", best.Duration)
	}
	if best.StartedAt.IsZero() {
		t.Error("zero StartedAt should default to the record time")
	}
}

func TestRecordRoundRejectsNegativeDuration(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if err := store.RecordRound(context.Background(), Round{Duration: -time.Second}); err == nil {
		t.Fatal("expected negative duration error")
	}
}

func TestCancelledContext(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.RecordRound(ctx, Round{}); !errors.Is(err, context.Canceled) {
		t.Errorf("RecordRound() err = %v, want context.Canceled", err)
	}
	if _, err := store.Recent(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Recent() err = %v, want context.Canceled", err)
	}
}

func TestReopenKeepsRounds(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.RecordRound(context.Background(), Round{Duration: time.Second, Difficulty: "easy"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Migrations must be idempotent across opens
	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()

	got, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len(recent) = %d after reopen, want 1", len(got))
	}
}

func TestUpSection(t *testing.T) {
	in := "-- +migrate Up\nCREATE TABLE a (x);\n-- +migrate Down\nDROP TABLE a;\n"
	if got := upSection(in); got != "\nCREATE TABLE a (x);\n" {
		t.Errorf("upSection() = %q", got)
	}
	if got := upSection("SELECT 1;"); got != "SELECT 1;" {
		t.Errorf("upSection() without markers = %q", got)
	}
}
