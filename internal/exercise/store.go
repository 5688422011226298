package exercise

import "context"

// Store persists exercises and their results.
type Store interface {
	PutExercise(ctx context.Context, e Exercise) error
	// GetExercise returns the full exercise, answer keys included.
	GetExercise(ctx context.Context, id string) (Exercise, error)
	CreateResult(ctx context.Context, r Result) error
	ResultsByUser(ctx context.Context, userID string) ([]Result, error)
}
