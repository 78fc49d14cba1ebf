package ndb

import "errors"

var (
	// ErrInvalidInput is returned for malformed or mismatched sample
	// matrices: empty or ragged data, k < 1, fewer samples than bins, or a
	// query dimensionality that does not match the fitted model.
	ErrInvalidInput = errors.New("ndb: invalid input")

	// ErrNotFitted is returned when an Evaluator is built from, or runs
	// against, a model that has no bin centers.
	ErrNotFitted = errors.New("ndb: model not fitted")
)
