package record

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticSource(t *testing.T) {
	ctx := context.Background()

	src := NewStaticSource(map[string]Record{
		"Globex":         {EntityName: "Globex", RiskCategory: RiskHigh},
		"Acme Analytics": {FinancialEstimates: "$50M ARR"},
	})

	t.Run("get", func(t *testing.T) {
		rec, ok, err := src.Get(ctx, "Globex")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, RiskHigh, rec.RiskCategory)
	})

	t.Run("entity name inherited from key", func(t *testing.T) {
		rec, ok, err := src.Get(ctx, "Acme Analytics")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Acme Analytics", rec.EntityName)
	})

	t.Run("missing entity", func(t *testing.T) {
		_, ok, err := src.Get(ctx, "NoSuchCo")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("list is sorted", func(t *testing.T) {
		names, err := src.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Acme Analytics", "Globex"}, names)
	})

	t.Run("all returns a copy", func(t *testing.T) {
		all, err := src.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)

		delete(all, "Globex")
		_, ok, err := src.Get(ctx, "Globex")
		require.NoError(t, err)
		assert.True(t, ok, "mutating the returned map must not affect the source")
	})

	t.Run("put", func(t *testing.T) {
		src.Put(Record{EntityName: "Initech", Notes: "pricing pressure"})
		rec, ok, err := src.Get(ctx, "Initech")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "pricing pressure", rec.Notes)
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("valid database", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "db.json")
		data := `{
			"Acme Analytics": {
				"internal": {
					"products": [{"name": "Phoenix", "revenue_note": "$12M annual"}],
					"financial_estimates": "$50M ARR",
					"risk_category": "High"
				},
				"external": {"founded": 2010, "hq": "Lisbon"}
			},
			"Globex": {
				"internal": {"methodologies": ["signal triage"]}
			}
		}`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

		src, err := LoadFile(path)
		require.NoError(t, err)

		ctx := context.Background()
		names, err := src.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Acme Analytics", "Globex"}, names)

		rec, ok, err := src.Get(ctx, "Acme Analytics")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Acme Analytics", rec.EntityName)
		assert.Equal(t, "$50M ARR", rec.FinancialEstimates)
		require.Len(t, rec.Products, 1)
		assert.Equal(t, "Phoenix", rec.Products[0].Name)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
		assert.ErrorContains(t, err, "read record database")
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
		_, err := LoadFile(path)
		assert.ErrorContains(t, err, "parse record database")
	})
}
