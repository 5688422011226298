package exercise

import (
	"context"
	"fmt"
	"sync"

	"github.com/lingopath/lingopath-lms/internal/assessment"
)

type memoryStore struct {
	mu        sync.RWMutex
	exercises map[string]Exercise
	results   []Result
}

func NewInMemoryStore() Store {
	return &memoryStore{exercises: map[string]Exercise{}}
}

func (m *memoryStore) PutExercise(_ context.Context, e Exercise) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exercises[e.ID] = e
	return nil
}

func (m *memoryStore) GetExercise(_ context.Context, id string) (Exercise, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.exercises[id]
	if !ok {
		return Exercise{}, fmt.Errorf("%w: exercise %q", assessment.ErrNotFound, id)
	}
	return e, nil
}

func (m *memoryStore) CreateResult(_ context.Context, r Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return nil
}

func (m *memoryStore) ResultsByUser(_ context.Context, userID string) ([]Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Result{}
	for i := len(m.results) - 1; i >= 0; i-- {
		if m.results[i].UserID == userID {
			out = append(out, m.results[i])
		}
	}
	return out, nil
}
