// Package stats implements the two-sample primitives behind the NDB and JS
// scores: a per-bin two-proportion z-test and the Jensen-Shannon divergence
// between discrete distributions.
//
// All functions are pure and operate on equal-length float64 slices.
package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidDistribution is returned when a divergence precondition is
// violated: a non-finite or negative proportion, or q_i == 0 where p_i > 0
// (which would make the KL divergence infinite).
var ErrInvalidDistribution = errors.New("stats: invalid distribution")

// ErrInvalidInput is returned when a test precondition is violated:
// mismatched slice lengths, a non-positive sample size, or a significance
// level outside (0,1).
var ErrInvalidInput = errors.New("stats: invalid input")

// TwoProportionsZTest runs a two-tailed two-proportion z-test independently
// per element, comparing the proportions p1 (from a sample of size n1)
// against p2 (from a sample of size n2) at significance level alpha.
// It returns true for every element where the proportions differ
// significantly.
//
// Elements with a degenerate pooled proportion (0 or 1, standard error zero)
// are never flagged.
func TwoProportionsZTest(p1 []float64, n1 int, p2 []float64, n2 int, alpha float64) ([]bool, error) {
	if len(p1) != len(p2) {
		return nil, fmt.Errorf("stats: proportion length mismatch: %d vs %d: %w", len(p1), len(p2), ErrInvalidInput)
	}

	if n1 <= 0 || n2 <= 0 {
		return nil, fmt.Errorf("stats: sample sizes must be positive, got n1=%d n2=%d: %w", n1, n2, ErrInvalidInput)
	}

	if alpha <= 0 || alpha >= 1 {
		return nil, fmt.Errorf("stats: significance level must be in (0,1), got %g: %w", alpha, ErrInvalidInput)
	}

	fn1, fn2 := float64(n1), float64(n2)
	different := make([]bool, len(p1))

	for i := range p1 {
		p := (p1[i]*fn1 + p2[i]*fn2) / (fn1 + fn2)
		se := math.Sqrt(p * (1 - p) * (1/fn1 + 1/fn2))
		if se == 0 {
			continue
		}

		z := (p1[i] - p2[i]) / se
		pValue := 2 * distuv.UnitNormal.CDF(-math.Abs(z))
		different[i] = pValue < alpha
	}

	return different, nil
}

// JensenShannonDivergence calculates the symmetric Jensen-Shannon divergence
// between the two discrete distributions p and q:
//
//	JS(p,q) = 0.5*KL(p,m) + 0.5*KL(q,m), m = 0.5*(p+q)
//
// The result is non-negative and zero iff p == q.
func JensenShannonDivergence(p, q []float64) (float64, error) {
	if len(p) != len(q) {
		return 0, fmt.Errorf("stats: distribution length mismatch: %d vs %d: %w", len(p), len(q), ErrInvalidInput)
	}

	m := make([]float64, len(p))
	floats.AddTo(m, p, q)
	floats.Scale(0.5, m)

	kp, err := KLDivergence(p, m)
	if err != nil {
		return 0, err
	}

	kq, err := KLDivergence(q, m)
	if err != nil {
		return 0, err
	}

	return 0.5*kp + 0.5*kq, nil
}

// KLDivergence calculates the Kullback-Leibler divergence sum(p_i *
// log(p_i/q_i)) over the indices where p_i > 0.
//
// Defined only if q_i != 0 wherever p_i != 0; such inputs fail with
// ErrInvalidDistribution instead of producing NaN/Inf.
func KLDivergence(p, q []float64) (float64, error) {
	if len(p) != len(q) {
		return 0, fmt.Errorf("stats: distribution length mismatch: %d vs %d: %w", len(p), len(q), ErrInvalidInput)
	}

	var sum float64
	for i := range p {
		if !isFiniteProportion(p[i]) || !isFiniteProportion(q[i]) {
			return 0, fmt.Errorf("stats: non-finite or negative proportion at index %d: %w", i, ErrInvalidDistribution)
		}

		if p[i] == 0 {
			continue
		}

		if q[i] == 0 {
			return 0, fmt.Errorf("stats: q is zero where p is positive at index %d: %w", i, ErrInvalidDistribution)
		}

		sum += p[i] * math.Log(p[i]/q[i])
	}

	return sum, nil
}

func isFiniteProportion(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1) && !math.IsNaN(v)
}
