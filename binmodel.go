package ndb

import (
	"context"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/evalkit/ndb/blobstore"
	"github.com/evalkit/ndb/internal/kmeans"
	"github.com/evalkit/ndb/snapshot"
)

// whiteningEpsilon floors the per-dimension std so the whitening transform
// never divides by zero.
const whiteningEpsilon = 1e-6

// autoSubsampleThreshold is the dimensionality above which clustering runs
// on a random subset of dimensions unless WithMaxDims is set explicitly.
const autoSubsampleThreshold = 1000

// BinModel owns the reference-distribution binning: k bin centers in the
// whitened sample space, the reference bin-occupancy proportions ordered by
// descending bin population, and the whitening statistics.
//
// A BinModel is immutable after construction and safe for concurrent
// readers.
type BinModel struct {
	k             int
	dim           int
	centers       []float64 // k * dim, row-major, co-indexed with proportions
	proportions   []float64
	refSampleSize int
	mean          []float64
	std           []float64
}

// FitFromSamples partitions the training distribution into k bins.
//
// The training samples are optionally whitened, clustered by K-means
// (possibly on a random dimension subset for very high-dimensional data),
// and each bin center is recomputed as the mean of its full-dimensional
// whitened members. Bins are ordered by descending population; ties keep
// the original label order.
func FitFromSamples(ctx context.Context, training *Matrix, k int, optFns ...Option) (*BinModel, error) {
	o := applyOptions(optFns)

	if training == nil || training.Rows() == 0 {
		return nil, fmt.Errorf("fit: empty training matrix: %w", ErrInvalidInput)
	}

	n, d := training.Rows(), training.Dim()

	if k < 1 {
		return nil, fmt.Errorf("fit: number of bins must be at least 1, got %d: %w", k, ErrInvalidInput)
	}

	if n < k {
		return nil, fmt.Errorf("fit: %d samples cannot fill %d bins: %w", n, k, ErrInvalidInput)
	}

	mean := make([]float64, d)
	std := make([]float64, d)
	if o.whiten {
		col := make([]float64, n)
		for j := 0; j < d; j++ {
			for i := 0; i < n; i++ {
				col[i] = training.at(i, j)
			}
			mean[j] = stat.Mean(col, nil)
			std[j] = stat.PopStdDev(col, nil) + whiteningEpsilon
		}
	} else {
		for j := range std {
			std[j] = 1
		}
	}

	whitened := make([]float64, n*d)
	for i := 0; i < n; i++ {
		row := training.Row(i)
		for j, v := range row {
			whitened[i*d+j] = (v - mean[j]) / std[j]
		}
	}

	dUsed := d
	switch {
	case o.maxDims > 0:
		dUsed = min(d, o.maxDims)
	case d > autoSubsampleThreshold:
		dUsed = d / 6
	}

	// Clustering runs on a one-time random subset of dimensions when
	// dUsed < d. Bin centers are recomputed over all d dimensions below.
	clusterInput := whitened
	if dUsed < d {
		dims := o.rng.Perm(d)[:dUsed]
		clusterInput = make([]float64, n*dUsed)
		for i := 0; i < n; i++ {
			for j, idx := range dims {
				clusterInput[i*dUsed+j] = whitened[i*d+idx]
			}
		}
	}

	o.logger.LogClustering(ctx, n, dUsed, d, k)

	labels, err := kmeans.Cluster(ctx, clusterInput, dUsed, k, o.maxIter, o.rng)
	if err != nil {
		o.logger.LogFit(ctx, n, d, k, err)
		return nil, fmt.Errorf("fit: clustering: %w", err)
	}

	counts := make([]int, k)
	sums := make([]float64, k*d)
	for i, label := range labels {
		counts[label]++
		base := label * d
		row := whitened[i*d : (i+1)*d]
		for j, v := range row {
			sums[base+j] += v
		}
	}

	order := orderBinsByPopulation(counts)

	centers := make([]float64, k*d)
	proportions := make([]float64, k)
	for pos, label := range order {
		proportions[pos] = float64(counts[label]) / float64(n)
		if counts[label] == 0 {
			// Degenerate data can leave a bin empty; its center stays at
			// the whitened origin.
			o.logger.WarnContext(ctx, "empty bin after clustering", "label", label)
			continue
		}

		inv := 1 / float64(counts[label])
		for j := 0; j < d; j++ {
			centers[pos*d+j] = sums[label*d+j] * inv
		}
	}

	m := &BinModel{
		k:             k,
		dim:           d,
		centers:       centers,
		proportions:   proportions,
		refSampleSize: n,
		mean:          mean,
		std:           std,
	}

	o.logger.LogFit(ctx, n, d, k, nil)

	return m, nil
}

// RestoreFromSnapshot rebuilds a fitted BinModel from a persisted snapshot,
// skipping the clustering pass. A missing snapshot fails with
// blobstore.ErrNotFound, letting the caller fall back to FitFromSamples
// explicitly.
func RestoreFromSnapshot(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (*BinModel, error) {
	o := applyOptions(optFns)

	snap, err := snapshot.Load(ctx, store, name)
	if err != nil {
		o.logger.LogSnapshot(ctx, "restore", name, err)
		return nil, err
	}

	m := &BinModel{
		k:             len(snap.Proportions),
		dim:           snap.Dim,
		centers:       snap.Centers,
		proportions:   snap.Proportions,
		refSampleSize: snap.N,
		mean:          snap.Mean,
		std:           snap.Std,
	}

	o.logger.LogSnapshot(ctx, "restore", name, nil)

	return m, nil
}

// SaveSnapshot persists the full fitted state to the store under name,
// overwriting any previous snapshot.
func (m *BinModel) SaveSnapshot(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) error {
	o := applyOptions(optFns)

	err := snapshot.Save(ctx, store, name, &snapshot.Snapshot{
		Proportions: m.proportions,
		Centers:     m.centers,
		Dim:         m.dim,
		N:           m.refSampleSize,
		Mean:        m.mean,
		Std:         m.std,
	}, o.codec)

	o.logger.LogSnapshot(ctx, "save", name, err)

	return err
}

// NumBins returns k, the number of bins.
func (m *BinModel) NumBins() int { return m.k }

// Dim returns the sample dimensionality the model was fit on.
func (m *BinModel) Dim() int { return m.dim }

// RefSampleSize returns the reference sample count the proportions were
// fit on.
func (m *BinModel) RefSampleSize() int { return m.refSampleSize }

// Proportions returns a copy of the reference bin proportions, descending
// by bin population.
func (m *BinModel) Proportions() []float64 {
	out := make([]float64, len(m.proportions))
	copy(out, m.proportions)
	return out
}

// Center returns a copy of the i-th bin center in the whitened space.
func (m *BinModel) Center(i int) []float64 {
	out := make([]float64, m.dim)
	copy(out, m.centers[i*m.dim:(i+1)*m.dim])
	return out
}

func (m *BinModel) fitted() bool {
	return m != nil && len(m.centers) > 0
}

// orderBinsByPopulation returns the cluster labels ordered by descending
// population count. Equal-population labels keep their original order.
func orderBinsByPopulation(counts []int) []int {
	order := make([]int, len(counts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return counts[order[a]] > counts[order[b]]
	})
	return order
}
