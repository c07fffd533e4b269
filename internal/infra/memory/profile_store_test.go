package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"dvg-portal/internal/domain"
)

func TestProfileStoreUpsertCreatesRow(t *testing.T) {
	store := NewProfileStore()
	ctx := context.Background()

	xp := 120
	if err := store.Upsert(ctx, "u1", domain.ProfilePatch{XP: &xp}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	stats, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stats.XP != 120 || stats.Level != 1 {
		t.Fatalf("unexpected row: xp=%d level=%d", stats.XP, stats.Level)
	}
	if stats.SubjectProgress[domain.SubjectMath] != 0 {
		t.Fatalf("new rows must carry zeroed subject counters")
	}
}

func TestProfileStorePartialPatchKeepsOtherFields(t *testing.T) {
	store := NewProfileStore()
	ctx := context.Background()

	stats := domain.NewUserStats()
	stats.XP = 600
	stats.Streak = 4
	if err := store.Upsert(ctx, "u1", domain.PatchFromStats(stats)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	streak := 0
	if err := store.Upsert(ctx, "u1", domain.ProfilePatch{Streak: &streak}); err != nil {
		t.Fatalf("patch: %v", err)
	}
	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Streak != 0 {
		t.Fatalf("streak not patched: %d", got.Streak)
	}
	if got.XP != 600 {
		t.Fatalf("xp must survive a streak-only patch, got %d", got.XP)
	}
}

func TestProfileStoreGetUnknown(t *testing.T) {
	store := NewProfileStore()
	if _, err := store.Get(context.Background(), "ghost"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestGameResultStoreNewestFirstLimited(t *testing.T) {
	store := NewGameResultStore()
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		row := domain.GameResultRow{
			ID:          string(rune('a' + i)),
			UserID:      "u1",
			GameKey:     "subject-sprint",
			Score:       i,
			CompletedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Insert(ctx, row); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	rows, err := store.List(ctx, "u1", "subject-sprint", "", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(rows))
	}
	if rows[0].Score != 11 {
		t.Fatalf("newest row must come first, got score %d", rows[0].Score)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].CompletedAt.After(rows[i-1].CompletedAt) {
			t.Fatalf("rows out of order at %d", i)
		}
	}
}
