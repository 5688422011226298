package placement

import (
	"context"
	"fmt"
	"sync"

	"github.com/lingopath/lingopath-lms/internal/assessment"
)

// memoryStore backs tests and offline runs. Result order is append order, so
// "latest" matches insertion like the seq column does in SQL.
type memoryStore struct {
	mu      sync.RWMutex
	tests   map[string]Test
	results []Result
}

func NewInMemoryStore() Store {
	return &memoryStore{tests: map[string]Test{}}
}

func (m *memoryStore) PutTest(_ context.Context, t Test) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tests[t.ID] = t
	return nil
}

func (m *memoryStore) GetTest(_ context.Context, id string) (Test, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tests[id]
	if !ok {
		return Test{}, fmt.Errorf("%w: placement test %q", assessment.ErrNotFound, id)
	}
	return t, nil
}

func (m *memoryStore) ActiveTest(_ context.Context) (Test, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.tests {
		if t.Active {
			return t, nil
		}
	}
	return Test{}, fmt.Errorf("%w: no active placement test", assessment.ErrNotFound)
}

func (m *memoryStore) Activate(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tests[id]; !ok {
		return fmt.Errorf("%w: placement test %q", assessment.ErrNotFound, id)
	}
	for tid, t := range m.tests {
		t.Active = tid == id
		m.tests[tid] = t
	}
	return nil
}

func (m *memoryStore) CreateResult(_ context.Context, r Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return nil
}

func (m *memoryStore) LatestResult(_ context.Context, userID, testID string) (*Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.results) - 1; i >= 0; i-- {
		if m.results[i].UserID == userID && m.results[i].TestID == testID {
			r := m.results[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) AllowRetake(_ context.Context, resultID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.results {
		if m.results[i].ID == resultID {
			m.results[i].CanRetake = true
			return nil
		}
	}
	return fmt.Errorf("%w: placement result %q", assessment.ErrNotFound, resultID)
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
