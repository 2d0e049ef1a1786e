package record

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(DriverSQLite, ":memory:", nil)
	require.NoError(t, err)
	return store
}

func TestOpenStore_UnsupportedDriver(t *testing.T) {
	_, err := OpenStore("oracle", "dsn", nil)
	assert.ErrorContains(t, err, "unsupported record store driver")
}

func TestStore_PutGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := Record{
		EntityName:         "Acme Analytics",
		FinancialEstimates: "$50M ARR",
		Products:           []Product{{Name: "Phoenix", RevenueNote: "$12M annual"}},
		KPIs:               []string{"Customer Retention 87%"},
	}
	require.NoError(t, store.Put(ctx, rec))

	got, ok, err := store.Get(ctx, "Acme Analytics")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec, got)

	t.Run("missing entity is not an error", func(t *testing.T) {
		_, ok, err := store.Get(ctx, "NoSuchCo")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("put without entity name rejected", func(t *testing.T) {
		assert.Error(t, store.Put(ctx, Record{Notes: "anonymous"}))
	})
}

func TestStore_PutReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, Record{EntityName: "Globex", RiskCategory: RiskLow}))
	require.NoError(t, store.Put(ctx, Record{EntityName: "Globex", RiskCategory: RiskCritical}))

	got, ok, err := store.Get(ctx, "Globex")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, RiskCritical, got.RiskCategory)

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Globex"}, names, "replace must not duplicate the row")
}

func TestStore_ListAllDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, Record{EntityName: "Globex"}))
	require.NoError(t, store.Put(ctx, Record{EntityName: "Acme Analytics"}))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme Analytics", "Globex"}, names)

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Contains(t, all, "Acme Analytics")

	require.NoError(t, store.Delete(ctx, "Globex"))
	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme Analytics"}, names)

	t.Run("deleting unknown entity is a no-op", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "NoSuchCo"))
	})
}
