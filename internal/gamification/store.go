package gamification

import "context"

// Store persists progression state and unlocks.
type Store interface {
	// Progress returns the learner's state, zero-valued (with UserID set)
	// when no row exists yet.
	Progress(ctx context.Context, userID string) (Progress, error)
	// AddPoints increments the cumulative total atomically at the storage
	// layer, creating the row on first award.
	AddPoints(ctx context.Context, userID string, points int) error
	// SaveProgress upserts streak length and last-activity date.
	SaveProgress(ctx context.Context, p Progress) error

	// Unlock inserts an unlocked-achievement row. Idempotent: a duplicate
	// (user, type) pair is a no-op, enforced by a storage uniqueness
	// constraint rather than application locking.
	Unlock(ctx context.Context, userID string, typ AchievementType) error
	UnlockedByUser(ctx context.Context, userID string) ([]Unlocked, error)

	Achievements(ctx context.Context) ([]Achievement, error)

	// CompletedExerciseCount counts the learner's exercise results across
	// all time.
	CompletedExerciseCount(ctx context.Context, userID string) (int, error)
}
