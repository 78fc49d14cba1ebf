package ndb

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/evalkit/ndb/distance"
	"github.com/evalkit/ndb/stats"
)

// Result holds the outcome of one evaluation run. Immutable once produced.
type Result struct {
	// NDB is the number of statistically different bins.
	NDB int
	// JS is the Jensen-Shannon divergence between the reference and query
	// bin-occupancy distributions.
	JS float64
	// Proportions holds the empirical query bin proportions, co-indexed
	// with the model's bins. Bins with no query samples hold exactly 0.
	Proportions []float64
	// SampleCount is the number of query samples evaluated.
	SampleCount int
	// Assignments holds the bin index of each query sample.
	Assignments []int
	// DifferentBins flags the bins whose occupancy differs significantly
	// from the reference under the two-proportion z-test.
	DifferentBins []bool
}

// DifferentSamples returns the set of query-sample indices that fell into
// statistically different bins, for downstream inspection of the samples
// driving the NDB score.
func (r *Result) DifferentSamples() *roaring.Bitmap {
	bm := roaring.New()
	for i, bin := range r.Assignments {
		if r.DifferentBins[bin] {
			bm.Add(uint32(i))
		}
	}
	return bm
}

// Evaluator assigns query samples to a fitted BinModel's bins and runs the
// statistical comparison against the reference proportions. Results of
// labelled runs are retained in a cache for cross-run comparison and
// plotting.
//
// The model is read-only; the results cache is guarded by a mutex, so a
// single Evaluator is safe for concurrent use.
type Evaluator struct {
	model *BinModel
	alpha float64

	logger *Logger

	mu      sync.RWMutex
	results map[string]*Result
}

// NewEvaluator creates an Evaluator for the given fitted model.
// Fails with ErrNotFitted when the model has no bin centers.
func NewEvaluator(model *BinModel, optFns ...Option) (*Evaluator, error) {
	o := applyOptions(optFns)

	if !model.fitted() {
		return nil, ErrNotFitted
	}

	return &Evaluator{
		model:   model,
		alpha:   o.significance,
		logger:  o.logger,
		results: make(map[string]*Result),
	}, nil
}

// Evaluate whitens the query samples with the model's stored statistics,
// assigns each to its nearest bin center in L2, and compares the resulting
// bin occupancy against the reference: a per-bin two-proportion z-test
// yields NDB, the Jensen-Shannon divergence yields JS.
//
// A non-empty label stores the result in the Evaluator's cache, overwriting
// any prior entry under the same label.
func (e *Evaluator) Evaluate(ctx context.Context, query *Matrix, label string) (*Result, error) {
	if !e.model.fitted() {
		return nil, ErrNotFitted
	}

	if query == nil || query.Rows() == 0 {
		return nil, fmt.Errorf("evaluate: empty query matrix: %w", ErrInvalidInput)
	}

	if query.Dim() != e.model.dim {
		return nil, fmt.Errorf("evaluate: query dimension %d does not match model dimension %d: %w",
			query.Dim(), e.model.dim, ErrInvalidInput)
	}

	n := query.Rows()
	d := e.model.dim
	k := e.model.k

	assignments := make([]int, n)
	proportions := make([]float64, k)
	whitened := make([]float64, d)

	for i := 0; i < n; i++ {
		row := query.Row(i)
		for j, v := range row {
			whitened[j] = (v - e.model.mean[j]) / e.model.std[j]
		}

		bin := distance.Nearest(whitened, e.model.centers, d)
		assignments[i] = bin
		proportions[bin]++
	}

	for i := range proportions {
		proportions[i] /= float64(n)
	}

	different, err := stats.TwoProportionsZTest(e.model.proportions, e.model.refSampleSize, proportions, n, e.alpha)
	if err != nil {
		e.logger.LogEvaluate(ctx, label, n, 0, 0, err)
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	ndbScore := 0
	for _, flagged := range different {
		if flagged {
			ndbScore++
		}
	}

	js, err := stats.JensenShannonDivergence(e.model.proportions, proportions)
	if err != nil {
		e.logger.LogEvaluate(ctx, label, n, 0, 0, err)
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	result := &Result{
		NDB:           ndbScore,
		JS:            js,
		Proportions:   proportions,
		SampleCount:   n,
		Assignments:   assignments,
		DifferentBins: different,
	}

	if label != "" {
		e.mu.Lock()
		e.results[label] = result
		e.mu.Unlock()
	}

	e.logger.LogEvaluate(ctx, label, n, ndbScore, js, nil)

	return result, nil
}

// Result returns the cached result for the given label.
func (e *Evaluator) Result(label string) (*Result, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	r, ok := e.results[label]
	return r, ok
}

// Labels returns the labels of all cached results, sorted.
func (e *Evaluator) Labels() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	labels := make([]string, 0, len(e.results))
	for label := range e.results {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Model returns the fitted model the Evaluator runs against.
func (e *Evaluator) Model() *BinModel {
	return e.model
}
