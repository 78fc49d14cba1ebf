package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evalkit/ndb"
	"github.com/evalkit/ndb/util"
)

func evaluatorWithResults(t *testing.T) *ndb.Evaluator {
	t.Helper()
	ctx := context.Background()
	rng := util.NewRNG(99)

	training, err := ndb.MatrixFromRows(rng.UniformRows(400, 4, 1.0))
	require.NoError(t, err)

	model, err := ndb.FitFromSamples(ctx, training, 5, ndb.WithWhitening(), ndb.WithSeed(99))
	require.NoError(t, err)

	ev, err := ndb.NewEvaluator(model)
	require.NoError(t, err)

	for _, label := range []string{"Test", "Good"} {
		query, err := ndb.MatrixFromRows(rng.UniformRows(200, 4, 1.0))
		require.NoError(t, err)

		_, err = ev.Evaluate(ctx, query, label)
		require.NoError(t, err)
	}

	return ev
}

func TestSummary(t *testing.T) {
	ev := evaluatorWithResults(t)

	out := Summary(ev)
	assert.Contains(t, out, "Test: NDB = ")
	assert.Contains(t, out, "Good: NDB = ")
	assert.Contains(t, out, "JS = ")
}

func TestChart(t *testing.T) {
	ev := evaluatorWithResults(t)

	out := Chart(ev, 10)
	assert.NotEmpty(t, out)
	assert.Contains(t, out, "reference +/- 1 SE")
	assert.Contains(t, out, "Good (")
}

func TestChart_NoResults(t *testing.T) {
	ctx := context.Background()
	rng := util.NewRNG(1)

	training, err := ndb.MatrixFromRows(rng.UniformRows(100, 3, 1.0))
	require.NoError(t, err)

	model, err := ndb.FitFromSamples(ctx, training, 2, ndb.WithSeed(1))
	require.NoError(t, err)

	ev, err := ndb.NewEvaluator(model)
	require.NoError(t, err)

	assert.Empty(t, Chart(ev, 10))
}
