package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"weighttracker/internal/domain"
)

// UpsertGoal inserts owner's goal or replaces value and timestamp in place.
func (d *DB) UpsertGoal(ctx context.Context, owner string, value domain.Measure, recordedAt time.Time) (domain.UpsertResult, error) {
	at := domain.NormalizeTime(recordedAt)

	if d.dialect == Postgres {
		var created bool
		if err := d.sql.QueryRowxContext(ctx, d.q.upsertGoal, owner, value, at).Scan(&created); err != nil {
			return domain.UpsertResult{}, errors.Wrap(err, "upsert goal")
		}
		return domain.UpsertResult{Created: created}, nil
	}

	// MySQL reports 1 for an insert, 2 for an update and 0 for an unchanged row.
	n, err := rowsAffected(d.sql.ExecContext(ctx, d.q.upsertGoal, owner, value, at))
	if err != nil {
		return domain.UpsertResult{}, errors.Wrap(err, "upsert goal")
	}
	return domain.UpsertResult{Created: n == 1}, nil
}

// GetGoal returns owner's goal or nil when none exists.
func (d *DB) GetGoal(ctx context.Context, owner string) (*domain.WeightGoal, error) {
	var g domain.WeightGoal
	err := d.sql.GetContext(ctx, &g, d.q.getGoal, owner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get goal")
	}
	g.RecordedAt = g.RecordedAt.UTC()
	return &g, nil
}

// DeleteGoal removes owner's goal.
func (d *DB) DeleteGoal(ctx context.Context, owner string) (int64, error) {
	n, err := rowsAffected(d.sql.ExecContext(ctx, d.q.deleteGoal, owner))
	if err != nil {
		return 0, errors.Wrap(err, "delete goal")
	}
	return n, nil
}
