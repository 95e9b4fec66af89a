// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// WeightEntry represents a single weight measurement owned by one subject.
type WeightEntry struct {
	ID         int64     `json:"id" db:"id"`
	Owner      string    `json:"-" db:"user_sub"`
	Value      Measure   `json:"value" db:"value"`
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

// EntryPatch carries the fields of a partial entry update. A nil field is
// left untouched; a non-nil field is written even when it holds a zero value.
type EntryPatch struct {
	Value      *Measure
	RecordedAt *time.Time
}

// Empty reports whether the patch would change nothing.
func (p EntryPatch) Empty() bool {
	return p.Value == nil && p.RecordedAt == nil
}

// WeightRepository is the port for weight entry persistence. Every method is
// scoped by owner; rows belonging to another owner behave as if absent.
type WeightRepository interface {
	InsertEntry(ctx context.Context, owner string, value Measure, recordedAt time.Time) (int64, error)
	ListEntries(ctx context.Context, owner string, page Page) ([]WeightEntry, error)
	UpdateEntry(ctx context.Context, owner string, id int64, patch EntryPatch) (int64, error)
	DeleteEntry(ctx context.Context, owner string, id int64) (int64, error)
}
