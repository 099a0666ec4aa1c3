package igd

import (
	"strings"

	"github.com/flockml/flock/core/group"
	"github.com/flockml/flock/pkg/errors"
)

// Norm selects the regularization penalty applied by the update kernel.
type Norm int

const (
	// L2 is ridge-style regularization (the default).
	L2 Norm = iota
	// L1 is lasso-style regularization.
	L1
)

// String returns the canonical spelling of the norm.
func (n Norm) String() string {
	switch n {
	case L1:
		return "L1"
	case L2:
		return "L2"
	default:
		return "unknown"
	}
}

// ParseNorm parses a norm name case-insensitively.
func ParseNorm(s string) (Norm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l1":
		return L1, nil
	case "l2":
		return L2, nil
	default:
		return L2, errors.NewValidationError("norm", "must be one of 'L1', 'L2'", s)
	}
}

// Task distinguishes binary classification from regression. It controls the
// loss the kernel applies and whether labels are encoded to ±1.
type Task int

const (
	// Classification trains with hinge loss on binary-encoded labels.
	Classification Task = iota
	// Regression trains with epsilon-insensitive loss on numeric targets.
	Regression
)

// String returns the task name.
func (t Task) String() string {
	switch t {
	case Classification:
		return "classification"
	case Regression:
		return "regression"
	default:
		return "unknown"
	}
}

// Params is the validated hyperparameter bundle for one training run.
// It is constructed once and treated as immutable by the driver; only the
// evolving step size lives outside it, owned by the run loop.
type Params struct {
	// InitStepSize is the step size of the first round. Must be > 0.
	InitStepSize float64 `json:"init_step_size"`

	// DecayFactor controls the step-size schedule. > 0 selects geometric
	// decay (next = previous * decay); exactly 0 or negative selects the
	// harmonic schedule (next = initial / (iteration + 1)). Must be <= 1.
	DecayFactor float64 `json:"decay_factor"`

	// MaxIter caps the number of rounds. Must be > 0.
	MaxIter int `json:"max_iter"`

	// Tolerance is the state-distance threshold of the convergence test.
	// Must be >= 0.
	Tolerance float64 `json:"tolerance"`

	// Lambda is the regularization weight. A single value is required;
	// multiple values are reserved for cross-validation, which is not
	// implemented, and are rejected rather than silently truncated.
	Lambda []float64 `json:"lambda"`

	// Norm selects L1 or L2 regularization.
	Norm Norm `json:"norm"`

	// NFolds is the cross-validation fold count. Only 0 and 1 are
	// supported; larger values are rejected as unimplemented.
	NFolds int `json:"n_folds"`

	// Epsilon is the insensitivity margin for regression. Must be >= 0.
	Epsilon float64 `json:"epsilon"`

	// EpsilonTable optionally maps group keys to per-group margins.
	// Only consulted in grouped regression runs; groups absent from the
	// table fall back to Epsilon.
	EpsilonTable map[group.Key]float64 `json:"epsilon_table,omitempty"`

	// Task selects classification or regression.
	Task Task `json:"task"`
}

// DefaultParams returns the recognized options with their default values.
func DefaultParams(task Task) Params {
	return Params{
		InitStepSize: 0.01,
		DecayFactor:  0.9,
		MaxIter:      100,
		Tolerance:    1e-10,
		Lambda:       []float64{1.0},
		Norm:         L2,
		NFolds:       0,
		Epsilon:      0.01,
		Task:         task,
	}
}

// LambdaValue returns the single regularization weight. Call only after
// Validate has accepted the bundle.
func (p Params) LambdaValue() float64 {
	if len(p.Lambda) == 0 {
		return 1.0
	}
	return p.Lambda[0]
}

// Validate checks every recognized option, failing fast with a descriptive
// error on the first violation. Nothing is mutated and no run state is
// created; a run never starts on an invalid bundle.
func (p *Params) Validate() error {
	if len(p.Lambda) > 1 {
		return errors.Mark(errors.NewValidationError("lambda",
			"multiple values are reserved for cross-validation, which is not implemented", p.Lambda),
			errors.ErrNotImplemented)
	}
	for _, l := range p.Lambda {
		if l < 0 {
			return errors.NewValidationError("lambda", "must be >= 0", l)
		}
	}
	if p.Norm != L1 && p.Norm != L2 {
		return errors.NewValidationError("norm", "must be one of 'L1', 'L2'", p.Norm)
	}
	if p.InitStepSize <= 0 {
		return errors.NewValidationError("init_step_size", "must be > 0", p.InitStepSize)
	}
	if p.DecayFactor > 1 {
		return errors.NewValidationError("decay_factor", "must be <= 1", p.DecayFactor)
	}
	if p.MaxIter <= 0 {
		return errors.NewValidationError("max_iter", "must be > 0", p.MaxIter)
	}
	if p.Tolerance < 0 {
		return errors.NewValidationError("tolerance", "must be >= 0", p.Tolerance)
	}
	if p.Epsilon < 0 {
		return errors.NewValidationError("epsilon", "must be >= 0", p.Epsilon)
	}
	if p.NFolds < 0 {
		return errors.NewValidationError("n_folds", "must not be negative", p.NFolds)
	}
	if p.NFolds > 1 {
		return errors.Mark(errors.NewValidationError("n_folds",
			"cross-validation is not implemented; only 0 or 1 is supported", p.NFolds),
			errors.ErrNotImplemented)
	}
	return nil
}
