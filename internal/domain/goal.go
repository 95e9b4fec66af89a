package domain

import (
	"context"
	"time"
)

// WeightGoal is the single target weight a subject is working towards.
type WeightGoal struct {
	Owner      string    `json:"user_sub" db:"user_sub"`
	Value      Measure   `json:"value" db:"value"`
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

// UpsertResult tells whether an upsert created the row or replaced it.
type UpsertResult struct {
	Created bool
}

// GoalRepository is the port for goal persistence. There is at most one goal
// per owner.
type GoalRepository interface {
	UpsertGoal(ctx context.Context, owner string, value Measure, recordedAt time.Time) (UpsertResult, error)
	// GetGoal returns nil, nil when the owner has no goal.
	GetGoal(ctx context.Context, owner string) (*WeightGoal, error)
	DeleteGoal(ctx context.Context, owner string) (int64, error)
}
