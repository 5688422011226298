package gamification

import (
	"context"
	"errors"
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func serviceAt(store Store, date string) *Service {
	svc := NewService(store)
	svc.now = func() time.Time { return day(date).Add(15 * time.Hour) } // mid-day
	return svc
}

func TestCascadeAwardsBasePoints(t *testing.T) {
	store := NewInMemoryStore()
	svc := serviceAt(store, "2026-08-28")

	if err := svc.OnExerciseCompleted(context.Background(), "u1", 75); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, _ := store.Progress(context.Background(), "u1")
	if p.TotalPoints != BasePoints {
		t.Errorf("points = %d, want %d", p.TotalPoints, BasePoints)
	}
	unlocked, _ := store.UnlockedByUser(context.Background(), "u1")
	for _, u := range unlocked {
		if u.Type == PerfectScore {
			t.Error("perfect-score achievement unlocked at 75")
		}
	}
}

func TestCascadePerfectBonusExactlyAt100(t *testing.T) {
	tests := []struct {
		score      float64
		wantPoints int
		wantBadge  bool
	}{
		{100, BasePoints + PerfectBonus, true},
		{99.99, BasePoints, false},
		{75, BasePoints, false},
	}
	for _, tt := range tests {
		store := NewInMemoryStore()
		svc := serviceAt(store, "2026-08-28")
		ctx := context.Background()
		if err := svc.OnExerciseCompleted(ctx, "u1", tt.score); err != nil {
			t.Fatalf("score %v: unexpected error: %v", tt.score, err)
		}
		p, _ := store.Progress(ctx, "u1")
		if p.TotalPoints != tt.wantPoints {
			t.Errorf("score %v: points = %d, want %d", tt.score, p.TotalPoints, tt.wantPoints)
		}
		unlocked, _ := store.UnlockedByUser(ctx, "u1")
		hasBadge := false
		for _, u := range unlocked {
			if u.Type == PerfectScore {
				hasBadge = true
			}
		}
		if hasBadge != tt.wantBadge {
			t.Errorf("score %v: perfect badge = %v, want %v", tt.score, hasBadge, tt.wantBadge)
		}
	}
}

func TestStreakBranches(t *testing.T) {
	ctx := context.Background()

	t.Run("first activity sets streak to one", func(t *testing.T) {
		store := NewInMemoryStore()
		_ = serviceAt(store, "2026-08-28").OnExerciseCompleted(ctx, "u1", 50)
		p, _ := store.Progress(ctx, "u1")
		if p.StreakDays != 1 {
			t.Errorf("streak = %d, want 1", p.StreakDays)
		}
		if !p.LastActivity.Equal(day("2026-08-28")) {
			t.Errorf("last activity = %v, want 2026-08-28", p.LastActivity)
		}
	})

	t.Run("same-day resubmission leaves streak unchanged", func(t *testing.T) {
		store := NewInMemoryStore()
		_ = serviceAt(store, "2026-08-28").OnExerciseCompleted(ctx, "u1", 50)
		_ = serviceAt(store, "2026-08-28").OnExerciseCompleted(ctx, "u1", 50)
		p, _ := store.Progress(ctx, "u1")
		if p.StreakDays != 1 {
			t.Errorf("streak = %d, want 1", p.StreakDays)
		}
	})

	t.Run("next-day activity increments", func(t *testing.T) {
		store := NewInMemoryStore()
		_ = serviceAt(store, "2026-08-28").OnExerciseCompleted(ctx, "u1", 50)
		_ = serviceAt(store, "2026-08-29").OnExerciseCompleted(ctx, "u1", 50)
		_ = serviceAt(store, "2026-08-30").OnExerciseCompleted(ctx, "u1", 50)
		p, _ := store.Progress(ctx, "u1")
		if p.StreakDays != 3 {
			t.Errorf("streak = %d, want 3", p.StreakDays)
		}
	})

	t.Run("two-day gap resets to one", func(t *testing.T) {
		store := NewInMemoryStore()
		_ = serviceAt(store, "2026-08-28").OnExerciseCompleted(ctx, "u1", 50)
		_ = serviceAt(store, "2026-08-29").OnExerciseCompleted(ctx, "u1", 50)
		_ = serviceAt(store, "2026-08-31").OnExerciseCompleted(ctx, "u1", 50)
		p, _ := store.Progress(ctx, "u1")
		if p.StreakDays != 1 {
			t.Errorf("streak = %d, want 1", p.StreakDays)
		}
		if !p.LastActivity.Equal(day("2026-08-31")) {
			t.Errorf("last activity = %v, want 2026-08-31", p.LastActivity)
		}
	})
}

func TestStreakMilestoneUnlocks(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	for i, date := range []string{"2026-08-01", "2026-08-02", "2026-08-03"} {
		if err := serviceAt(store, date).OnExerciseCompleted(ctx, "u1", 50); err != nil {
			t.Fatalf("day %d: %v", i, err)
		}
	}
	unlocked, _ := store.UnlockedByUser(ctx, "u1")
	found := false
	for _, u := range unlocked {
		if u.Type == StreakSpark {
			found = true
		}
		if u.Type == StreakWeek || u.Type == StreakMonth {
			t.Errorf("premature unlock of %s at a 3-day streak", u.Type)
		}
	}
	if !found {
		t.Error("3-day streak did not unlock streak_spark")
	}
}

func TestPointMilestoneUnlocks(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	svc := serviceAt(store, "2026-08-28")

	// 10 completions at 10 points each crosses the 100-point milestone.
	for i := 0; i < 10; i++ {
		if err := svc.OnExerciseCompleted(ctx, "u1", 50); err != nil {
			t.Fatalf("completion %d: %v", i, err)
		}
	}
	p, _ := store.Progress(ctx, "u1")
	if p.TotalPoints != 100 {
		t.Fatalf("points = %d, want 100", p.TotalPoints)
	}
	unlocked, _ := store.UnlockedByUser(ctx, "u1")
	hasBronze := false
	for _, u := range unlocked {
		if u.Type == PointsBronze {
			hasBronze = true
		}
		if u.Type == PointsSilver || u.Type == PointsGold {
			t.Errorf("premature unlock of %s at 100 points", u.Type)
		}
	}
	if !hasBronze {
		t.Error("100 points did not unlock points_bronze")
	}
}

func TestVolumeMilestoneExactCountOnly(t *testing.T) {
	ctx := context.Background()
	for _, tt := range []struct {
		count int
		want  bool
	}{
		{49, false},
		{50, true},
		{51, false},
	} {
		store := NewInMemoryStore()
		store.SetCompletedCount("u1", tt.count)
		_ = serviceAt(store, "2026-08-28").OnExerciseCompleted(ctx, "u1", 50)
		unlocked, _ := store.UnlockedByUser(ctx, "u1")
		has := false
		for _, u := range unlocked {
			if u.Type == Marathoner {
				has = true
			}
		}
		if has != tt.want {
			t.Errorf("count %d: marathoner = %v, want %v", tt.count, has, tt.want)
		}
	}
}

func TestUnlockIdempotent(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	svc := serviceAt(store, "2026-08-28")

	if err := svc.OnExerciseCompleted(ctx, "u1", 100); err != nil {
		t.Fatalf("first: %v", err)
	}
	if err := svc.OnExerciseCompleted(ctx, "u1", 100); err != nil {
		t.Fatalf("second: %v", err)
	}
	unlocked, _ := store.UnlockedByUser(ctx, "u1")
	n := 0
	for _, u := range unlocked {
		if u.Type == PerfectScore {
			n++
		}
	}
	if n != 1 {
		t.Errorf("perfect_score rows = %d, want exactly 1", n)
	}
}

// failingPoints breaks the award step only; the rest of the cascade must
// still run.
type failingPoints struct {
	Store
}

func (f failingPoints) AddPoints(context.Context, string, int) error {
	return errors.New("points table unavailable")
}

func TestStepFailureDoesNotStopLaterSteps(t *testing.T) {
	inner := NewInMemoryStore()
	svc := NewService(failingPoints{inner})
	svc.now = func() time.Time { return day("2026-08-28") }

	err := svc.OnExerciseCompleted(context.Background(), "u1", 50)
	if err == nil {
		t.Fatal("expected joined step error")
	}
	// Streak still advanced despite the failed award.
	p, _ := inner.Progress(context.Background(), "u1")
	if p.StreakDays != 1 {
		t.Errorf("streak = %d, want 1 (later steps must run)", p.StreakDays)
	}
}
