package placement

import (
	"fmt"

	"github.com/lingopath/lingopath-lms/internal/assessment"
)

// GateState is the retake-eligibility state derived from a learner's most
// recent result for the active test.
type GateState int

const (
	// NoPriorAttempt: the learner has never attempted this test.
	NoPriorAttempt GateState = iota
	// AttemptedLocked: a prior result exists and retake was not granted.
	AttemptedLocked
	// AttemptedUnlocked: an authorized party flipped CanRetake on the latest
	// result; exactly one further attempt is allowed, whose fresh result
	// (created with CanRetake=false) relocks the gate.
	AttemptedUnlocked
)

func (s GateState) String() string {
	switch s {
	case NoPriorAttempt:
		return "no_prior_attempt"
	case AttemptedLocked:
		return "attempted_locked"
	case AttemptedUnlocked:
		return "attempted_unlocked"
	}
	return "unknown"
}

// GateStateFor derives the state from the latest prior result (nil when the
// learner has no history against the test).
func GateStateFor(prior *Result) GateState {
	switch {
	case prior == nil:
		return NoPriorAttempt
	case prior.CanRetake:
		return AttemptedUnlocked
	default:
		return AttemptedLocked
	}
}

// CheckEligibility is the submission precondition: grading must never run for
// a locked learner.
func CheckEligibility(prior *Result) error {
	if GateStateFor(prior) == AttemptedLocked {
		return fmt.Errorf("%w: placement test already attempted; ask an instructor to unlock a retake",
			assessment.ErrPermissionDenied)
	}
	return nil
}
