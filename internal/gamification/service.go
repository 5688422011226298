package gamification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// Service runs the progression cascade after a graded exercise. Every step is
// independently fallible: a failure is logged, collected, and never stops the
// later steps. No step touches the already-persisted grading result.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// OnExerciseCompleted implements exercise.Progression. The returned error is
// a join of per-step failures; the submission orchestrator discards it.
func (s *Service) OnExerciseCompleted(ctx context.Context, userID string, score float64) error {
	var failures []error
	step := func(name string, fn func() error) {
		if err := fn(); err != nil {
			log.Printf("gamification: %s failed for user %s: %v", name, userID, err)
			failures = append(failures, fmt.Errorf("%s: %w", name, err))
		}
	}

	step("base award", func() error {
		return s.store.AddPoints(ctx, userID, BasePoints)
	})
	if score == 100 {
		step("perfect bonus", func() error {
			return s.store.AddPoints(ctx, userID, PerfectBonus)
		})
		step("perfect achievement", func() error {
			return s.store.Unlock(ctx, userID, PerfectScore)
		})
	}
	step("streak update", func() error {
		return s.updateStreak(ctx, userID)
	})
	step("milestone achievements", func() error {
		return s.checkMilestones(ctx, userID)
	})
	step("volume achievement", func() error {
		return s.checkVolume(ctx, userID)
	})
	return errors.Join(failures...)
}

// updateStreak compares today against the learner's last-activity date at day
// granularity: same day leaves the streak alone, exactly one day later
// increments, anything else (including first-ever activity) resets to one.
// The last-activity date is persisted on every branch.
func (s *Service) updateStreak(ctx context.Context, userID string) error {
	p, err := s.store.Progress(ctx, userID)
	if err != nil {
		return err
	}
	p.UserID = userID

	today := dateOnly(s.now())
	switch {
	case p.LastActivity.IsZero():
		p.StreakDays = 1
	case p.LastActivity.Equal(today):
		// already counted today
	case p.LastActivity.AddDate(0, 0, 1).Equal(today):
		p.StreakDays++
	default:
		p.StreakDays = 1
	}
	p.LastActivity = today
	return s.store.SaveProgress(ctx, p)
}

// checkMilestones re-evaluates point and streak thresholds against the
// learner's updated state and unlocks anything newly satisfied. Unlock is
// idempotent, so already-earned milestones are harmless no-ops.
func (s *Service) checkMilestones(ctx context.Context, userID string) error {
	p, err := s.store.Progress(ctx, userID)
	if err != nil {
		return err
	}
	var failures []error
	for _, m := range pointMilestones {
		if p.TotalPoints >= m.Threshold {
			if err := s.store.Unlock(ctx, userID, m.Type); err != nil {
				failures = append(failures, err)
			}
		}
	}
	for _, m := range streakMilestones {
		if p.StreakDays >= m.Days {
			if err := s.store.Unlock(ctx, userID, m.Type); err != nil {
				failures = append(failures, err)
			}
		}
	}
	return errors.Join(failures...)
}

// checkVolume unlocks the volume achievement when the lifetime completion
// count lands exactly on the milestone.
func (s *Service) checkVolume(ctx context.Context, userID string) error {
	n, err := s.store.CompletedExerciseCount(ctx, userID)
	if err != nil {
		return err
	}
	if n == marathonCount {
		return s.store.Unlock(ctx, userID, Marathoner)
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
