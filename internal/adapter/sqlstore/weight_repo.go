package sqlstore

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"weighttracker/internal/domain"
)

// InsertEntry inserts a new weight entry and returns its id.
func (d *DB) InsertEntry(ctx context.Context, owner string, value domain.Measure, recordedAt time.Time) (int64, error) {
	at := domain.NormalizeTime(recordedAt)

	if d.dialect == Postgres {
		var id int64
		if err := d.sql.QueryRowxContext(ctx, d.q.insertEntry, owner, value, at).Scan(&id); err != nil {
			return 0, errors.Wrap(err, "insert entry")
		}
		return id, nil
	}

	res, err := d.sql.ExecContext(ctx, d.q.insertEntry, owner, value, at)
	if err != nil {
		return 0, errors.Wrap(err, "insert entry")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "insert entry: last insert id")
	}
	return id, nil
}

// ListEntries returns owner's entries newest first.
func (d *DB) ListEntries(ctx context.Context, owner string, page domain.Page) ([]domain.WeightEntry, error) {
	out := make([]domain.WeightEntry, 0, page.Limit)
	if err := d.sql.SelectContext(ctx, &out, d.q.listEntries, owner, page.Limit, page.Offset); err != nil {
		return nil, errors.Wrap(err, "list entries")
	}
	for i := range out {
		out[i].RecordedAt = out[i].RecordedAt.UTC()
	}
	return out, nil
}

// UpdateEntry writes the fields present in patch to the entry owned by owner.
// MySQL counts only rows whose values actually changed.
func (d *DB) UpdateEntry(ctx context.Context, owner string, id int64, patch domain.EntryPatch) (int64, error) {
	var value, at any
	if patch.Value != nil {
		value = *patch.Value
	}
	if patch.RecordedAt != nil {
		at = domain.NormalizeTime(*patch.RecordedAt)
	}

	n, err := rowsAffected(d.sql.ExecContext(ctx, d.q.updateEntry, value, at, id, owner))
	if err != nil {
		return 0, errors.Wrap(err, "update entry")
	}
	return n, nil
}

// DeleteEntry removes the entry owned by owner.
func (d *DB) DeleteEntry(ctx context.Context, owner string, id int64) (int64, error) {
	n, err := rowsAffected(d.sql.ExecContext(ctx, d.q.deleteEntry, id, owner))
	if err != nil {
		return 0, errors.Wrap(err, "delete entry")
	}
	return n, nil
}
