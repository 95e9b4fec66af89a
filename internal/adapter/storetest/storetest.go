// Package storetest holds the behavioural suite every record store must pass.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weighttracker/internal/domain"
)

// Store is the combined repository surface under test.
type Store interface {
	domain.WeightRepository
	domain.GoalRepository
}

// Run exercises store. Owners are derived from the subtest name, so a single
// shared database can back every case.
func Run(t *testing.T, store Store) {
	t.Run("InsertThenList", func(t *testing.T) { testInsertThenList(t, store) })
	t.Run("Ordering", func(t *testing.T) { testOrdering(t, store) })
	t.Run("Paging", func(t *testing.T) { testPaging(t, store) })
	t.Run("OwnershipOnMutation", func(t *testing.T) { testOwnershipOnMutation(t, store) })
	t.Run("PartialUpdate", func(t *testing.T) { testPartialUpdate(t, store) })
	t.Run("TimestampRoundTrip", func(t *testing.T) { testTimestampRoundTrip(t, store) })
	t.Run("GoalUpsert", func(t *testing.T) { testGoalUpsert(t, store) })
	t.Run("GoalDelete", func(t *testing.T) { testGoalDelete(t, store) })
}

func owner(t *testing.T, who string) string {
	return fmt.Sprintf("%s/%s/%d", t.Name(), who, time.Now().UnixNano())
}

var allRows = domain.Page{Limit: domain.MaxPageLimit}

func testInsertThenList(t *testing.T, store Store) {
	ctx := context.Background()
	alice, bob := owner(t, "alice"), owner(t, "bob")

	id, err := store.InsertEntry(ctx, alice, 7250, time.Now())
	require.NoError(t, err)
	assert.Positive(t, id)

	items, err := store.ListEntries(ctx, alice, allRows)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
	assert.Equal(t, "72.50", items[0].Value.String())

	items, err = store.ListEntries(ctx, bob, allRows)
	require.NoError(t, err)
	assert.Empty(t, items)

	next, err := store.InsertEntry(ctx, alice, 7300, time.Now())
	require.NoError(t, err)
	assert.Greater(t, next, id)
}

func testOrdering(t *testing.T, store Store) {
	ctx := context.Background()
	alice := owner(t, "alice")
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	for _, day := range []int{3, 1, 4, 2} {
		_, err := store.InsertEntry(ctx, alice, domain.Measure(7000+day), base.AddDate(0, 0, day))
		require.NoError(t, err)
	}

	items, err := store.ListEntries(ctx, alice, allRows)
	require.NoError(t, err)
	require.Len(t, items, 4)
	for i, want := range []domain.Measure{7004, 7003, 7002, 7001} {
		assert.Equal(t, want, items[i].Value)
	}
}

func testPaging(t *testing.T, store Store) {
	ctx := context.Background()
	alice := owner(t, "alice")
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, err := store.InsertEntry(ctx, alice, domain.Measure(7000+i), base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
	}

	items, err := store.ListEntries(ctx, alice, domain.Page{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, domain.Measure(7003), items[0].Value)
	assert.Equal(t, domain.Measure(7002), items[1].Value)

	items, err = store.ListEntries(ctx, alice, domain.Page{Limit: 10, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func testOwnershipOnMutation(t *testing.T, store Store) {
	ctx := context.Background()
	alice, mallory := owner(t, "alice"), owner(t, "mallory")

	id, err := store.InsertEntry(ctx, alice, 7250, time.Now())
	require.NoError(t, err)

	v := domain.Measure(1)
	n, err := store.UpdateEntry(ctx, mallory, id, domain.EntryPatch{Value: &v})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = store.DeleteEntry(ctx, mallory, id)
	require.NoError(t, err)
	assert.Zero(t, n)

	items, err := store.ListEntries(ctx, alice, allRows)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.Measure(7250), items[0].Value)

	n, err = store.DeleteEntry(ctx, alice, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = store.DeleteEntry(ctx, alice, id)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func testPartialUpdate(t *testing.T, store Store) {
	ctx := context.Background()
	alice := owner(t, "alice")
	orig := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	id, err := store.InsertEntry(ctx, alice, 7250, orig)
	require.NoError(t, err)

	// Timestamp only: value is kept.
	moved := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	n, err := store.UpdateEntry(ctx, alice, id, domain.EntryPatch{RecordedAt: &moved})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	items, err := store.ListEntries(ctx, alice, allRows)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.Measure(7250), items[0].Value)
	assert.True(t, items[0].RecordedAt.Equal(moved), "recorded_at = %v", items[0].RecordedAt)

	// Explicit zero value is written; timestamp is kept.
	zero := domain.Measure(0)
	n, err = store.UpdateEntry(ctx, alice, id, domain.EntryPatch{Value: &zero})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	items, err = store.ListEntries(ctx, alice, allRows)
	require.NoError(t, err)
	assert.Equal(t, domain.Measure(0), items[0].Value)
	assert.True(t, items[0].RecordedAt.Equal(moved))
}

func testTimestampRoundTrip(t *testing.T, store Store) {
	ctx := context.Background()
	alice := owner(t, "alice")

	at, err := domain.ParseTimestamp("2024-01-15T10:30:00Z")
	require.NoError(t, err)
	_, err = store.InsertEntry(ctx, alice, 7250, at)
	require.NoError(t, err)

	items, err := store.ListEntries(ctx, alice, allRows)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), items[0].RecordedAt)
}

func testGoalUpsert(t *testing.T, store Store) {
	ctx := context.Background()
	alice, bob := owner(t, "alice"), owner(t, "bob")

	g, err := store.GetGoal(ctx, alice)
	require.NoError(t, err)
	assert.Nil(t, g)

	first := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	res, err := store.UpsertGoal(ctx, alice, 6500, first)
	require.NoError(t, err)
	assert.True(t, res.Created)

	second := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	res, err = store.UpsertGoal(ctx, alice, 6400, second)
	require.NoError(t, err)
	assert.False(t, res.Created)

	g, err = store.GetGoal(ctx, alice)
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, alice, g.Owner)
	assert.Equal(t, "64.00", g.Value.String())
	assert.Equal(t, second, g.RecordedAt)

	g, err = store.GetGoal(ctx, bob)
	require.NoError(t, err)
	assert.Nil(t, g)
}

func testGoalDelete(t *testing.T, store Store) {
	ctx := context.Background()
	alice, bob := owner(t, "alice"), owner(t, "bob")

	_, err := store.UpsertGoal(ctx, alice, 6500, time.Now())
	require.NoError(t, err)

	n, err := store.DeleteGoal(ctx, bob)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = store.DeleteGoal(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	g, err := store.GetGoal(ctx, alice)
	require.NoError(t, err)
	assert.Nil(t, g)
}
