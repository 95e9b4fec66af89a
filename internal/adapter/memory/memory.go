// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"weighttracker/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu      sync.Mutex
	weights []domain.WeightEntry
	goals   map[string]domain.WeightGoal

	weightIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		goals: make(map[string]domain.WeightGoal),
	}
}

// Ensure interfaces are met.
var _ domain.WeightRepository = (*DB)(nil)
var _ domain.GoalRepository = (*DB)(nil)

// Close is a no-op kept for parity with the SQL store.
func (db *DB) Close() error { return nil }

// --- WeightRepository ---

// InsertEntry adds a weight entry.
func (db *DB) InsertEntry(ctx context.Context, owner string, value domain.Measure, recordedAt time.Time) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.weightIDCounter++
	id := db.weightIDCounter

	db.weights = append(db.weights, domain.WeightEntry{
		ID:         id,
		Owner:      owner,
		Value:      value,
		RecordedAt: recordedAt.UTC(),
	})
	return id, nil
}

// ListEntries lists owner's entries, newest first.
func (db *DB) ListEntries(ctx context.Context, owner string, page domain.Page) ([]domain.WeightEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.WeightEntry, 0, len(db.weights))
	for _, w := range db.weights {
		if w.Owner == owner {
			result = append(result, w)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].RecordedAt.Equal(result[j].RecordedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].RecordedAt.After(result[j].RecordedAt)
	})

	if page.Offset >= len(result) {
		return []domain.WeightEntry{}, nil
	}
	result = result[page.Offset:]
	if len(result) > page.Limit {
		result = result[:page.Limit]
	}
	return result, nil
}

// UpdateEntry applies patch to the entry if owner holds it.
func (db *DB) UpdateEntry(ctx context.Context, owner string, id int64, patch domain.EntryPatch) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.weights {
		w := &db.weights[i]
		if w.ID != id || w.Owner != owner {
			continue
		}
		if patch.Value != nil {
			w.Value = *patch.Value
		}
		if patch.RecordedAt != nil {
			w.RecordedAt = patch.RecordedAt.UTC()
		}
		return 1, nil
	}
	return 0, nil
}

// DeleteEntry removes the entry if owner holds it.
func (db *DB) DeleteEntry(ctx context.Context, owner string, id int64) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, w := range db.weights {
		if w.ID == id && w.Owner == owner {
			db.weights = append(db.weights[:i], db.weights[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// --- GoalRepository ---

// UpsertGoal creates or replaces owner's goal.
func (db *DB) UpsertGoal(ctx context.Context, owner string, value domain.Measure, recordedAt time.Time) (domain.UpsertResult, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, exists := db.goals[owner]
	db.goals[owner] = domain.WeightGoal{Owner: owner, Value: value, RecordedAt: recordedAt.UTC()}
	return domain.UpsertResult{Created: !exists}, nil
}

// GetGoal returns owner's goal or nil.
func (db *DB) GetGoal(ctx context.Context, owner string) (*domain.WeightGoal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	g, ok := db.goals[owner]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

// DeleteGoal removes owner's goal.
func (db *DB) DeleteGoal(ctx context.Context, owner string) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.goals[owner]; !ok {
		return 0, nil
	}
	delete(db.goals, owner)
	return 1, nil
}
