package leak

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/leakguard/record"
)

func testSource() record.Source {
	return record.NewStaticSource(map[string]record.Record{
		"Acme Analytics": {
			FinancialEstimates: "$50M ARR",
			Methodologies:      []string{"signal triage"},
		},
		"Globex": {
			Products: []record.Product{{Name: "Talon"}},
		},
	})
}

func TestScanner_Scan(t *testing.T) {
	scanner := NewScanner(testSource())
	ctx := context.Background()

	t.Run("all records", func(t *testing.T) {
		report, err := scanner.Scan(ctx, "Acme Analytics ships Talon using signal triage.")
		require.NoError(t, err)
		assert.Equal(t, 3, report.TotalCount)
	})

	t.Run("restricted to one entity", func(t *testing.T) {
		report, err := scanner.Scan(ctx, "Acme Analytics ships Talon using signal triage.", "Globex")
		require.NoError(t, err)
		require.Equal(t, 1, report.TotalCount)
		assert.Equal(t, CategoryProductNames, report.Findings[0].Category)
	})

	t.Run("unknown entity contributes nothing", func(t *testing.T) {
		report, err := scanner.Scan(ctx, "Talon everywhere", "NoSuchCo")
		require.NoError(t, err)
		assert.Equal(t, 0, report.TotalCount)
	})
}

type failingSource struct{}

func (failingSource) Get(context.Context, string) (record.Record, bool, error) {
	return record.Record{}, false, errors.New("backend down")
}
func (failingSource) List(context.Context) ([]string, error) {
	return nil, errors.New("backend down")
}
func (failingSource) All(context.Context) (map[string]record.Record, error) {
	return nil, errors.New("backend down")
}

func TestScanner_SourceErrors(t *testing.T) {
	scanner := NewScanner(failingSource{})
	ctx := context.Background()

	_, err := scanner.Scan(ctx, "doc")
	assert.ErrorContains(t, err, "load records")

	_, err = scanner.Scan(ctx, "doc", "Acme")
	assert.ErrorContains(t, err, `load record "Acme"`)
}

func TestScanner_ScanAll(t *testing.T) {
	scanner := NewScanner(testSource(), WithConcurrency(2))

	documents := []string{
		"Talon launch notes",
		"nothing sensitive here",
		"signal triage and $50M ARR figures",
	}
	reports, err := scanner.ScanAll(context.Background(), documents)
	require.NoError(t, err)
	require.Len(t, reports, 3)

	assert.Equal(t, 1, reports[0].TotalCount)
	assert.Equal(t, 0, reports[1].TotalCount)
	assert.Equal(t, 3, reports[2].TotalCount)

	// Results stay index-aligned with the input.
	single, err := scanner.Scan(context.Background(), documents[2])
	require.NoError(t, err)
	assert.Equal(t, single, reports[2])
}
