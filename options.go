package ndb

import (
	"math/rand"
	"time"

	"github.com/evalkit/ndb/codec"
)

const (
	// DefaultSignificanceLevel is the alpha used by the per-bin
	// two-proportion z-test when none is configured.
	DefaultSignificanceLevel = 0.05

	// DefaultMaxIterations caps the clustering iterations of a fit.
	DefaultMaxIterations = 100
)

type options struct {
	significance float64
	whiten       bool
	maxDims      int // 0 = derived from the data dimensionality
	maxIter      int
	rng          *rand.Rand
	logger       *Logger
	codec        codec.Codec
}

// Option configures fitting and evaluation behavior.
type Option func(*options)

// WithSignificanceLevel sets the statistical significance level for the
// per-bin two-proportion test. Default 0.05.
func WithSignificanceLevel(alpha float64) Option {
	return func(o *options) {
		o.significance = alpha
	}
}

// WithWhitening enables data whitening: per-dimension mean/std are computed
// from the training samples and the same transform is applied to every
// query set for the lifetime of the model.
func WithWhitening() Option {
	return func(o *options) {
		o.whiten = true
	}
}

// WithMaxDims caps the number of dimensions used by the clustering pass.
// The cap only affects clustering cost; bin centers always keep the full
// dimensionality. When unset, samples with more than 1000 dimensions are
// clustered on a random sixth of their dimensions.
func WithMaxDims(maxDims int) Option {
	return func(o *options) {
		o.maxDims = maxDims
	}
}

// WithMaxIterations caps the clustering iterations. Default 100.
func WithMaxIterations(maxIter int) Option {
	return func(o *options) {
		if maxIter > 0 {
			o.maxIter = maxIter
		}
	}
}

// WithRand sets the randomness source used for dimension subsampling and
// centroid initialization. Fix the seed for reproducible fits.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		if rng != nil {
			o.rng = rng
		}
	}
}

// WithSeed is a convenience wrapper for WithRand(rand.New(rand.NewSource(seed))).
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed))) //nolint:gosec
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCodec configures the codec used for snapshot payloads.
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		significance: DefaultSignificanceLevel,
		maxIter:      DefaultMaxIterations,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec
		logger:       NoopLogger(),
		codec:        codec.Default,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
