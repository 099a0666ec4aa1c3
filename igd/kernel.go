package igd

import (
	"context"

	"github.com/flockml/flock/dataset"
)

// RoundParams carries the per-round arguments of one update-kernel
// invocation. The step size and margin are resolved by the driver; the rest
// comes from the validated hyperparameter bundle.
type RoundParams struct {
	NFeatures int
	StepSize  float64
	Lambda    float64
	Norm      Norm
	TotalRows int
	Epsilon   float64
	Task      Task
	Iteration int
}

// Result is what the extraction kernel reports for one group once the run
// has stopped.
type Result struct {
	Coefficients  []float64
	Loss          float64
	GradientNorm  float64
	RowsProcessed int
}

// Kernel is the numeric boundary of the iteration driver. The driver never
// inspects group state except through these operations; state contents are
// entirely the kernel's business.
//
// Update performs one pass over a single group's rows and returns the
// next-generation state. It must not mutate prev: the previous generation
// stays live for the convergence test. Distance must be non-negative and
// defined for any pair of states the kernel can produce, including the
// initial state; symmetry is not required.
type Kernel[S any] interface {
	Initial(nFeatures int) S
	Update(ctx context.Context, prev S, batch dataset.Batch, p RoundParams) (S, error)
	Distance(a, b S) float64
	Extract(s S) Result
}
