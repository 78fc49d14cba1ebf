package ndb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUniformScenario fits 100 bins on 10k uniform samples in 100
// dimensions and checks the scores for a matched and a restricted query
// distribution.
func TestUniformScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping clustering-heavy scenario in short mode")
	}

	ctx := context.Background()

	training := uniformMatrix(t, 51, 10000, 100, 1.0)

	model, err := FitFromSamples(ctx, training, 100,
		WithWhitening(),
		WithSeed(4711),
		WithMaxIterations(25),
	)
	require.NoError(t, err)

	ev, err := NewEvaluator(model)
	require.NoError(t, err)

	matched, err := ev.Evaluate(ctx, uniformMatrix(t, 52, 1000, 100, 1.0), "Test")
	require.NoError(t, err)

	assert.Less(t, matched.NDB, 10)
	assert.Less(t, matched.JS, 0.01)

	restricted, err := ev.Evaluate(ctx, uniformMatrix(t, 53, 1000, 100, 0.75), "Bad")
	require.NoError(t, err)

	assert.Greater(t, restricted.NDB, 50)
	assert.Greater(t, restricted.JS, matched.JS)
}
