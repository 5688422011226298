package exercise

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/lingopath/lingopath-lms/internal/assessment"
	"github.com/lingopath/lingopath-lms/internal/eventlog"
)

// Progression is the gamification cascade hook. Implementations run after the
// result is durably persisted; their errors are logged and swallowed, never
// surfaced to the learner and never used to roll back the grade.
type Progression interface {
	OnExerciseCompleted(ctx context.Context, userID string, score float64) error
}

// Service orchestrates exercise submissions: grade, persist, then fire the
// progression cascade best-effort.
type Service struct {
	store       Store
	progression Progression
	events      eventlog.Log
	now         func() time.Time
}

func NewService(store Store, progression Progression, events eventlog.Log) *Service {
	return &Service{store: store, progression: progression, events: events, now: time.Now}
}

func (s *Service) Submit(ctx context.Context, userID, exerciseID string, sub assessment.Submission) (Result, error) {
	if sub.Answers == nil {
		return Result{}, fmt.Errorf("%w: answers map required", assessment.ErrInvalidInput)
	}
	ex, err := s.store.GetExercise(ctx, exerciseID)
	if err != nil {
		return Result{}, err
	}

	tally, err := assessment.Aggregate(ex.Questions, sub)
	if err != nil {
		return Result{}, err
	}

	score := assessment.Round2(tally.Percent())
	res := Result{
		ID:             uuid.NewString(),
		UserID:         userID,
		ExerciseID:     ex.ID,
		Answers:        sub.Answers,
		Score:          score,
		PointsEarned:   tally.Score,
		TotalPoints:    tally.TotalPoints,
		CorrectCount:   tally.CorrectCount,
		TotalQuestions: tally.TotalQuestions,
		Passed:         score >= ex.PassingScore,
		TimeSpentSec:   sub.ElapsedSeconds,
		CompletedAt:    s.now().Unix(),
	}
	if err := s.store.CreateResult(ctx, res); err != nil {
		return Result{}, err
	}

	if s.events != nil {
		if err := s.events.Append(ctx, "ExerciseSubmitted", res.ID, map[string]any{
			"user_id": userID, "exercise_id": ex.ID, "score": score, "passed": res.Passed,
		}); err != nil {
			log.Printf("exercise: event log append failed: %v", err)
		}
	}

	// Gamification is a non-critical enhancement: the learner gets their
	// grade even when the cascade fails.
	if s.progression != nil {
		if err := s.progression.OnExerciseCompleted(ctx, userID, score); err != nil {
			log.Printf("exercise: progression cascade failed for user %s: %v", userID, err)
		}
	}
	return res, nil
}
