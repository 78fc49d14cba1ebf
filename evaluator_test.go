package ndb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fittedModel(t *testing.T) *BinModel {
	t.Helper()
	training := uniformMatrix(t, 11, 2000, 10, 1.0)

	model, err := FitFromSamples(context.Background(), training, 20, WithWhitening(), WithSeed(23))
	require.NoError(t, err)
	return model
}

func TestNewEvaluator_NotFitted(t *testing.T) {
	_, err := NewEvaluator(nil)
	assert.ErrorIs(t, err, ErrNotFitted)

	_, err = NewEvaluator(&BinModel{})
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestEvaluate_MatchedDistribution(t *testing.T) {
	ctx := context.Background()
	model := fittedModel(t)

	ev, err := NewEvaluator(model)
	require.NoError(t, err)

	query := uniformMatrix(t, 12, 1000, 10, 1.0)

	res, err := ev.Evaluate(ctx, query, "matched")
	require.NoError(t, err)

	assert.Equal(t, 1000, res.SampleCount)
	require.Len(t, res.Proportions, 20)
	require.Len(t, res.Assignments, 1000)
	require.Len(t, res.DifferentBins, 20)

	var sum float64
	for _, p := range res.Proportions {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	for _, bin := range res.Assignments {
		assert.GreaterOrEqual(t, bin, 0)
		assert.Less(t, bin, 20)
	}

	// Same distribution: few different bins, tiny divergence.
	assert.LessOrEqual(t, res.NDB, 5)
	assert.Less(t, res.JS, 0.05)
}

func TestEvaluate_SeverityOrdering(t *testing.T) {
	ctx := context.Background()
	model := fittedModel(t)

	ev, err := NewEvaluator(model)
	require.NoError(t, err)

	cases := []struct {
		label string
		high  float64
	}{
		{"Test", 1.0},
		{"Good", 0.75},
		{"Bad", 0.5},
	}

	results := make(map[string]*Result, len(cases))
	for i, tc := range cases {
		query := uniformMatrix(t, 100+int64(i), 1000, 10, tc.high)

		res, err := ev.Evaluate(ctx, query, tc.label)
		require.NoError(t, err)
		results[tc.label] = res
	}

	// Stronger support restriction means more different bins and larger
	// divergence.
	assert.GreaterOrEqual(t, results["Good"].NDB, results["Test"].NDB)
	assert.GreaterOrEqual(t, results["Bad"].NDB, results["Good"].NDB)
	assert.Greater(t, results["Bad"].NDB, results["Test"].NDB)

	assert.GreaterOrEqual(t, results["Good"].JS, results["Test"].JS)
	assert.GreaterOrEqual(t, results["Bad"].JS, results["Good"].JS)
	assert.Greater(t, results["Bad"].JS, results["Test"].JS)
}

func TestEvaluate_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	model := fittedModel(t)

	ev, err := NewEvaluator(model)
	require.NoError(t, err)

	query := uniformMatrix(t, 13, 10, 4, 1.0)

	_, err = ev.Evaluate(ctx, query, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEvaluate_EmptyQuery(t *testing.T) {
	model := fittedModel(t)

	ev, err := NewEvaluator(model)
	require.NoError(t, err)

	_, err = ev.Evaluate(context.Background(), nil, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEvaluate_ResultsCache(t *testing.T) {
	ctx := context.Background()
	model := fittedModel(t)

	ev, err := NewEvaluator(model)
	require.NoError(t, err)

	query := uniformMatrix(t, 14, 200, 10, 1.0)

	first, err := ev.Evaluate(ctx, query, "b")
	require.NoError(t, err)

	_, err = ev.Evaluate(ctx, query, "a")
	require.NoError(t, err)

	// Unlabelled runs are not cached.
	_, err = ev.Evaluate(ctx, query, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, ev.Labels())

	got, ok := ev.Result("b")
	require.True(t, ok)
	assert.Equal(t, first, got)

	// Re-evaluating under the same label overwrites.
	shifted := uniformMatrix(t, 15, 200, 10, 0.5)
	second, err := ev.Evaluate(ctx, shifted, "b")
	require.NoError(t, err)

	got, ok = ev.Result("b")
	require.True(t, ok)
	assert.Equal(t, second, got)

	_, ok = ev.Result("missing")
	assert.False(t, ok)
}

func TestResult_DifferentSamples(t *testing.T) {
	res := &Result{
		Assignments:   []int{0, 1, 2, 1, 0},
		DifferentBins: []bool{false, true, false},
	}

	bm := res.DifferentSamples()
	assert.Equal(t, uint64(2), bm.GetCardinality())
	assert.True(t, bm.Contains(1))
	assert.True(t, bm.Contains(3))
	assert.False(t, bm.Contains(0))
}

func TestEvaluate_CustomSignificanceLevel(t *testing.T) {
	ctx := context.Background()
	model := fittedModel(t)

	strict, err := NewEvaluator(model, WithSignificanceLevel(1e-9))
	require.NoError(t, err)

	query := uniformMatrix(t, 16, 500, 10, 1.0)

	res, err := strict.Evaluate(ctx, query, "")
	require.NoError(t, err)

	// A near-impossible alpha on matched data flags nothing.
	assert.Equal(t, 0, res.NDB)
}
