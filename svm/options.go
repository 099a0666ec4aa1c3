package svm

import (
	"github.com/flockml/flock/core/group"
	"github.com/flockml/flock/igd"
	"github.com/flockml/flock/pkg/log"
)

// config collects everything an estimator needs before Fit: the
// hyperparameter bundle, the optional per-row grouping and the logger.
type config struct {
	params igd.Params
	groups []group.Key
	logger log.Logger
}

func defaultConfig(task igd.Task) config {
	return config{
		params: igd.DefaultParams(task),
		logger: log.GetLogger(),
	}
}

// Option configures a LinearSVC or LinearSVR.
type Option func(*config)

// WithStepSize sets the initial step size (default 0.01).
func WithStepSize(eta float64) Option {
	return func(c *config) {
		c.params.InitStepSize = eta
	}
}

// WithDecayFactor sets the step-size decay factor (default 0.9).
// A value of 0 selects the harmonic schedule.
func WithDecayFactor(decay float64) Option {
	return func(c *config) {
		c.params.DecayFactor = decay
	}
}

// WithMaxIter sets the maximum number of rounds (default 100).
func WithMaxIter(maxIter int) Option {
	return func(c *config) {
		c.params.MaxIter = maxIter
	}
}

// WithTolerance sets the convergence tolerance (default 1e-10).
func WithTolerance(tol float64) Option {
	return func(c *config) {
		c.params.Tolerance = tol
	}
}

// WithLambda sets the regularization weight (default 1.0).
func WithLambda(lambda float64) Option {
	return func(c *config) {
		c.params.Lambda = []float64{lambda}
	}
}

// WithLambdas sets several regularization weights. More than one value is
// reserved for cross-validation and is rejected at Fit time.
func WithLambdas(lambdas []float64) Option {
	return func(c *config) {
		c.params.Lambda = lambdas
	}
}

// WithNorm selects L1 or L2 regularization (default L2).
func WithNorm(norm igd.Norm) Option {
	return func(c *config) {
		c.params.Norm = norm
	}
}

// WithNFolds sets the cross-validation fold count. Values above 1 are
// rejected at Fit time as unimplemented.
func WithNFolds(n int) Option {
	return func(c *config) {
		c.params.NFolds = n
	}
}

// WithEpsilon sets the scalar insensitivity margin for regression
// (default 0.01).
func WithEpsilon(eps float64) Option {
	return func(c *config) {
		c.params.Epsilon = eps
	}
}

// WithEpsilonTable supplies per-group margins for grouped regression.
// Groups absent from the table fall back to the scalar epsilon.
func WithEpsilonTable(table map[group.Key]float64) Option {
	return func(c *config) {
		c.params.EpsilonTable = table
	}
}

// WithGroups assigns one group key per training row. Rows sharing a key
// train one model; without this option all rows train a single model.
func WithGroups(keys []group.Key) Option {
	return func(c *config) {
		c.groups = keys
	}
}

// WithTrainLogger sets the logger passed to the iteration driver.
func WithTrainLogger(l log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
