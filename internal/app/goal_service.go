package app

import (
	"context"
	"time"

	"weighttracker/internal/domain"
)

// GoalService encapsulates weight-goal use cases.
type GoalService struct {
	repo domain.GoalRepository
	now  func() time.Time
}

// NewGoalService creates a GoalService backed by the given repository.
func NewGoalService(repo domain.GoalRepository) *GoalService {
	return &GoalService{repo: repo, now: time.Now}
}

// WithClock replaces the clock used for default timestamps.
func (s *GoalService) WithClock(now func() time.Time) *GoalService {
	s.now = now
	return s
}

// Set creates owner's goal or replaces it in place. Every write refreshes the
// goal timestamp, to "now" when at is nil or empty.
func (s *GoalService) Set(ctx context.Context, owner string, value domain.Measure, at *string) (domain.UpsertResult, error) {
	ts, err := resolveTime(at, s.now)
	if err != nil {
		return domain.UpsertResult{}, err
	}
	return s.repo.UpsertGoal(ctx, owner, value, ts)
}

// Get returns owner's goal, or nil when none is set.
func (s *GoalService) Get(ctx context.Context, owner string) (*domain.WeightGoal, error) {
	return s.repo.GetGoal(ctx, owner)
}

// Delete removes owner's goal and returns the number of rows removed.
func (s *GoalService) Delete(ctx context.Context, owner string) (int64, error) {
	return s.repo.DeleteGoal(ctx, owner)
}
