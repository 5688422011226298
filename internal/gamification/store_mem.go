package gamification

import (
	"context"
	"sync"
	"time"
)

// MemStore mirrors the SQL semantics, including idempotent unlocks and the
// completion counter living outside this package's tables (tests drive it
// directly).
type MemStore struct {
	mu       sync.RWMutex
	progress map[string]Progress
	unlocked map[string]map[AchievementType]int64 // userID -> type -> earnedAt
	counts   map[string]int                       // userID -> completed exercises
}

func NewInMemoryStore() *MemStore {
	return &MemStore{
		progress: map[string]Progress{},
		unlocked: map[string]map[AchievementType]int64{},
		counts:   map[string]int{},
	}
}

// SetCompletedCount stands in for the exercise_results table in tests.
func (m *MemStore) SetCompletedCount(userID string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[userID] = n
}

func (m *MemStore) Progress(_ context.Context, userID string) (Progress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.progress[userID]
	if !ok {
		return Progress{UserID: userID}, nil
	}
	return p, nil
}

func (m *MemStore) AddPoints(_ context.Context, userID string, points int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.progress[userID]
	p.UserID = userID
	p.TotalPoints += points
	m.progress[userID] = p
	return nil
}

func (m *MemStore) SaveProgress(_ context.Context, p Progress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Points change only through AddPoints, matching the SQL upsert.
	p.TotalPoints = m.progress[p.UserID].TotalPoints
	m.progress[p.UserID] = p
	return nil
}

func (m *MemStore) Unlock(_ context.Context, userID string, typ AchievementType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byType, ok := m.unlocked[userID]
	if !ok {
		byType = map[AchievementType]int64{}
		m.unlocked[userID] = byType
	}
	if _, exists := byType[typ]; exists {
		return nil // duplicate pair is a no-op, matching the SQL constraint
	}
	byType[typ] = time.Now().Unix()
	return nil
}

func (m *MemStore) UnlockedByUser(_ context.Context, userID string) ([]Unlocked, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Unlocked{}
	for typ, at := range m.unlocked[userID] {
		out = append(out, Unlocked{UserID: userID, Type: typ, EarnedAt: at})
	}
	return out, nil
}

func (m *MemStore) Achievements(_ context.Context) ([]Achievement, error) {
	return Catalog(), nil
}

func (m *MemStore) CompletedExerciseCount(_ context.Context, userID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counts[userID], nil
}
