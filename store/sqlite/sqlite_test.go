package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleScenario(id, name string) ScenarioRecord {
	return ScenarioRecord{
		ID:          id,
		Name:        name,
		Currency:    "USD",
		TermsJSON:   `{"homePrice":"375000","annualRate":"4.5","termYears":30}`,
		ResultsJSON: `{"regularPayment":"1520.06","totalInterest":"247220.13"}`,
	}
}

func TestStore_SaveAndGetScenario(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveScenario(ctx, sampleScenario("s1", "Baseline")))

	got, err := store.GetScenario(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Baseline", got.Name)
	assert.Equal(t, "USD", got.Currency)
	assert.Contains(t, got.TermsJSON, "375000")
	assert.False(t, got.CreatedAt.IsZero())
}

func TestStore_GetScenario_NotFound(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetScenario(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_SaveScenario_Upsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveScenario(ctx, sampleScenario("s1", "Before")))

	updated := sampleScenario("s1", "After")
	updated.TermsJSON = `{"homePrice":"400000"}`
	require.NoError(t, store.SaveScenario(ctx, updated))

	got, err := store.GetScenario(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "After", got.Name)
	assert.Contains(t, got.TermsJSON, "400000")

	all, err := store.ListScenarios(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_ListScenarios(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveScenario(ctx, sampleScenario("s1", "One")))
	require.NoError(t, store.SaveScenario(ctx, sampleScenario("s2", "Two")))

	all, err := store.ListScenarios(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStore_DeleteScenario(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveScenario(ctx, sampleScenario("s1", "Doomed")))

	deleted, err := store.DeleteScenario(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.DeleteScenario(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, deleted, "second delete should report nothing removed")
}

func TestStore_Strategies_CRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveScenario(ctx, sampleScenario("s1", "Base")))

	strategy := StrategyRecord{
		ID:           "p1",
		ScenarioID:   "s1",
		Name:         "Extra 200",
		Enabled:      true,
		StrategyJSON: `{"recurring":[{"amount":"200","frequency":"monthly"}]}`,
	}
	require.NoError(t, store.SaveStrategy(ctx, strategy))

	got, err := store.GetStrategiesByScenario(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Extra 200", got[0].Name)
	assert.True(t, got[0].Enabled)

	deleted, err := store.DeleteStrategy(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestStore_SaveStrategy_OrphanRejected(t *testing.T) {
	store := newTestStore(t)

	err := store.SaveStrategy(context.Background(), StrategyRecord{
		ID:           "p1",
		ScenarioID:   "nope",
		Name:         "Orphan",
		StrategyJSON: `{}`,
	})
	assert.Error(t, err, "strategy without a scenario should be rejected")
}

func TestStore_DeleteScenario_CascadesToStrategies(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveScenario(ctx, sampleScenario("s1", "Base")))
	require.NoError(t, store.SaveStrategy(ctx, StrategyRecord{
		ID: "p1", ScenarioID: "s1", Name: "Extra", Enabled: true, StrategyJSON: `{}`,
	}))

	_, err := store.DeleteScenario(ctx, "s1")
	require.NoError(t, err)

	got, err := store.GetStrategiesByScenario(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_Reset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveScenario(ctx, sampleScenario("s1", "Base")))
	require.NoError(t, store.Reset(ctx))

	all, err := store.ListScenarios(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
