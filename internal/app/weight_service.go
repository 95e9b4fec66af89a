// Package app holds the application services and business logic.
package app

import (
	"context"
	"time"

	"weighttracker/internal/domain"
)

// WeightService encapsulates weight-entry use cases.
type WeightService struct {
	repo domain.WeightRepository
	now  func() time.Time
}

// NewWeightService creates a WeightService backed by the given repository.
func NewWeightService(repo domain.WeightRepository) *WeightService {
	return &WeightService{repo: repo, now: time.Now}
}

// WithClock replaces the clock used for default timestamps.
func (s *WeightService) WithClock(now func() time.Time) *WeightService {
	s.now = now
	return s
}

// Record stores a new entry for owner and returns its id. A nil or empty
// recordedAt means "now".
func (s *WeightService) Record(ctx context.Context, owner string, value domain.Measure, recordedAt *string) (int64, error) {
	at, err := resolveTime(recordedAt, s.now)
	if err != nil {
		return 0, err
	}
	return s.repo.InsertEntry(ctx, owner, value, at)
}

// List returns owner's entries, newest first, within the clamped page.
func (s *WeightService) List(ctx context.Context, owner string, page domain.Page) ([]domain.WeightEntry, error) {
	items, err := s.repo.ListEntries(ctx, owner, page.Clamp())
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.WeightEntry{}
	}
	return items, nil
}

// Update applies the fields that are present and returns the number of rows
// changed. With neither field present it returns 0 without touching storage.
func (s *WeightService) Update(ctx context.Context, owner string, id int64, value *domain.Measure, recordedAt *string) (int64, error) {
	if id <= 0 {
		return 0, domain.ErrInvalidID
	}

	patch := domain.EntryPatch{Value: value}
	if recordedAt != nil {
		at, err := domain.ParseTimestamp(*recordedAt)
		if err != nil {
			return 0, err
		}
		patch.RecordedAt = &at
	}
	if patch.Empty() {
		return 0, nil
	}
	return s.repo.UpdateEntry(ctx, owner, id, patch)
}

// Delete removes one of owner's entries and returns the number of rows removed.
func (s *WeightService) Delete(ctx context.Context, owner string, id int64) (int64, error) {
	if id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return s.repo.DeleteEntry(ctx, owner, id)
}

func resolveTime(raw *string, now func() time.Time) (time.Time, error) {
	if raw == nil || *raw == "" {
		return domain.NormalizeTime(now()), nil
	}
	return domain.ParseTimestamp(*raw)
}
