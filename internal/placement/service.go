package placement

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/lingopath/lingopath-lms/internal/assessment"
	"github.com/lingopath/lingopath-lms/internal/eventlog"
)

// Service orchestrates placement submissions: eligibility gate, grading,
// classification, persistence. Placement never triggers the gamification
// cascade.
type Service struct {
	store  Store
	events eventlog.Log
	now    func() time.Time
}

func NewService(store Store, events eventlog.Log) *Service {
	return &Service{store: store, events: events, now: time.Now}
}

// Submit grades one attempt against the active test. The eligibility check is
// a precondition: a locked learner is rejected before any grading runs.
func (s *Service) Submit(ctx context.Context, userID string, sub assessment.Submission) (Result, error) {
	if sub.Answers == nil {
		return Result{}, fmt.Errorf("%w: answers map required", assessment.ErrInvalidInput)
	}

	test, err := s.store.ActiveTest(ctx)
	if err != nil {
		return Result{}, err
	}

	// Eligibility is scoped to the active test; history against archived
	// tests never blocks a new attempt.
	prior, err := s.store.LatestResult(ctx, userID, test.ID)
	if err != nil {
		return Result{}, err
	}
	if err := CheckEligibility(prior); err != nil {
		return Result{}, err
	}

	tally, err := assessment.Aggregate(test.Questions, sub)
	if err != nil {
		return Result{}, err
	}

	// Classification reads the unrounded percentage; thresholds are
	// calibrated to it.
	pct := tally.Percent()
	res := Result{
		ID:             uuid.NewString(),
		UserID:         userID,
		TestID:         test.ID,
		Answers:        sub.Answers,
		Score:          tally.Score,
		TotalPoints:    tally.TotalPoints,
		Percentage:     pct,
		SkillBreakdown: tally.SkillBreakdown(),
		Level:          Classify(pct),
		TimeSpentSec:   sub.ElapsedSeconds,
		CanRetake:      false,
		CompletedAt:    s.now().Unix(),
	}
	if err := s.store.CreateResult(ctx, res); err != nil {
		return Result{}, err
	}

	if s.events != nil {
		if err := s.events.Append(ctx, "PlacementSubmitted", res.ID, map[string]any{
			"user_id": userID, "test_id": test.ID, "level": res.Level,
		}); err != nil {
			log.Printf("placement: event log append failed: %v", err)
		}
	}
	return res, nil
}

// AllowRetake reopens eligibility on an existing result. Authorization is the
// transport layer's concern (rbac permission placement:unlock).
func (s *Service) AllowRetake(ctx context.Context, resultID string) error {
	return s.store.AllowRetake(ctx, resultID)
}
