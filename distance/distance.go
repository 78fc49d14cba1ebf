// Package distance provides the vector distance helpers used for bin
// assignment. All functions assume float64 vectors of equal length
// (caller's responsibility).
package distance

import "math"

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
func SquaredL2(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// L2 calculates the L2 (Euclidean) distance between two vectors.
func L2(a, b []float64) float64 {
	return math.Sqrt(SquaredL2(a, b))
}

// Nearest returns the index of the center closest to vec in L2.
// Centers are flattened row-major (k * dim). On ties the lowest index wins.
func Nearest(vec, centers []float64, dim int) int {
	k := len(centers) / dim

	best := 0
	minDist := math.Inf(1)

	for j := 0; j < k; j++ {
		d := SquaredL2(vec, centers[j*dim:(j+1)*dim])
		if d < minDist {
			minDist = d
			best = j
		}
	}

	return best
}
