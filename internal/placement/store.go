package placement

import "context"

// Store persists placement tests and results.
type Store interface {
	PutTest(ctx context.Context, t Test) error
	// GetTest returns the full test, answer keys included. Handlers serving
	// learners must call Sanitized before encoding.
	GetTest(ctx context.Context, id string) (Test, error)
	// ActiveTest returns the single currently active test, keys included.
	// assessment.ErrNotFound when no test is active.
	ActiveTest(ctx context.Context) (Test, error)
	// Activate marks one test active and deactivates every other.
	Activate(ctx context.Context, id string) error

	CreateResult(ctx context.Context, r Result) error
	// LatestResult returns the learner's most recent result for a test, or
	// nil without error when there is none.
	LatestResult(ctx context.Context, userID, testID string) (*Result, error)
	// AllowRetake flips CanRetake on an existing result.
	AllowRetake(ctx context.Context, resultID string) error
	ResultsByUser(ctx context.Context, userID string) ([]Result, error)
}
