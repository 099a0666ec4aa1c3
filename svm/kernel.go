// Package svm provides a linear support vector machine trained by
// incremental gradient descent, plus scikit-learn-style estimators wrapping
// the grouped iteration driver. The numeric update kernel lives here; the
// control loop lives in package igd.
package svm

import (
	"context"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/flockml/flock/core/parallel"
	"github.com/flockml/flock/dataset"
	"github.com/flockml/flock/igd"
	"github.com/flockml/flock/pkg/errors"
)

// Sequential processing below this many rows; the per-goroutine bookkeeping
// is not worth it for small groups.
const lossParallelThreshold = 2048

// State is the per-group model state evolved once per round. The intercept
// is folded into Coef as the last element, so the whole parameter vector
// moves through the driver as one opaque value.
type State struct {
	Coef     []float64
	Loss     float64
	GradNorm float64
	Rows     int
}

// IGD is the linear-SVM update kernel: hinge loss for classification,
// epsilon-insensitive loss for regression, L1 or L2 regularization.
// It implements igd.Kernel[State].
type IGD struct{}

// NewIGD creates the kernel. It is stateless and safe to share across runs.
func NewIGD() *IGD { return &IGD{} }

// Initial returns the identity state: a zero parameter vector.
func (k *IGD) Initial(nFeatures int) State {
	return State{Coef: make([]float64, nFeatures+1)}
}

// Update performs one incremental-gradient pass over a single group's rows
// and returns the next-generation state. prev is never mutated.
func (k *IGD) Update(ctx context.Context, prev State, batch dataset.Batch, p igd.RoundParams) (State, error) {
	if err := ctx.Err(); err != nil {
		return State{}, err
	}

	rows := batch.Rows()
	n := p.NFeatures

	w := make([]float64, len(prev.Coef))
	copy(w, prev.Coef)

	// The regularization gradient is spread across the rows of the pass so
	// one pass applies lambda once regardless of group size.
	regScale := p.Lambda / float64(p.TotalRows)

	xi := make([]float64, n)
	for i := 0; i < rows; i++ {
		mat.Row(xi, i, batch.X)
		yi := batch.Y[i]

		score := floats.Dot(w[:n], xi) + w[n]
		dloss := lossGradient(score, yi, p)

		for j := 0; j < n; j++ {
			grad := dloss * xi[j]
			switch p.Norm {
			case igd.L1:
				grad += regScale * sign(w[j])
			default:
				grad += regScale * w[j]
			}
			w[j] -= p.StepSize * grad
		}
		// No penalty on the intercept.
		w[n] -= p.StepSize * dloss
	}

	if err := errors.CheckNumericalStability("gradient_update", w, p.Iteration); err != nil {
		return State{}, err
	}

	loss := k.batchLoss(w, batch, p)
	if err := errors.CheckScalar("loss_calculation", loss, p.Iteration); err != nil {
		return State{}, err
	}

	return State{
		Coef:     w,
		Loss:     loss,
		GradNorm: k.batchGradientNorm(w, batch, p),
		Rows:     prev.Rows + rows,
	}, nil
}

// Distance is the Euclidean norm of the parameter difference. It is defined
// for any pair of states the kernel produces, including the initial zero
// state.
func (k *IGD) Distance(a, b State) float64 {
	if len(a.Coef) != len(b.Coef) {
		return floats.Norm(b.Coef, 2) + floats.Norm(a.Coef, 2)
	}
	return floats.Distance(a.Coef, b.Coef, 2)
}

// Extract reports the final per-group diagnostics. Coefficients include the
// intercept as the last element.
func (k *IGD) Extract(s State) igd.Result {
	coef := make([]float64, len(s.Coef))
	copy(coef, s.Coef)
	return igd.Result{
		Coefficients:  coef,
		Loss:          s.Loss,
		GradientNorm:  s.GradNorm,
		RowsProcessed: s.Rows,
	}
}

// lossGradient returns the derivative of the data loss with respect to the
// decision value for one row.
func lossGradient(score, y float64, p igd.RoundParams) float64 {
	if p.Task == igd.Classification {
		// Hinge: active while the margin is violated.
		if y*score < 1 {
			return -y
		}
		return 0
	}
	// Epsilon-insensitive: no gradient inside the margin tube.
	r := score - y
	switch {
	case r > p.Epsilon:
		return 1
	case r < -p.Epsilon:
		return -1
	default:
		return 0
	}
}

// batchLoss computes the mean data loss at w over the batch plus the
// regularization penalty, parallelized for large groups.
func (k *IGD) batchLoss(w []float64, batch dataset.Batch, p igd.RoundParams) float64 {
	rows := batch.Rows()
	n := p.NFeatures

	total := parallel.SumChunks(rows, lossParallelThreshold, func(start, end int) float64 {
		xi := make([]float64, n)
		var sum float64
		for i := start; i < end; i++ {
			mat.Row(xi, i, batch.X)
			score := floats.Dot(w[:n], xi) + w[n]
			sum += rowLoss(score, batch.Y[i], p)
		}
		return sum
	})

	var penalty float64
	if p.Norm == igd.L1 {
		for _, wj := range w[:n] {
			if wj < 0 {
				penalty -= wj
			} else {
				penalty += wj
			}
		}
	} else {
		penalty = 0.5 * floats.Dot(w[:n], w[:n])
	}

	return total/float64(rows) + p.Lambda*penalty/float64(p.TotalRows)
}

// rowLoss is the data loss of one row at the current parameters.
func rowLoss(score, y float64, p igd.RoundParams) float64 {
	if p.Task == igd.Classification {
		if m := 1 - y*score; m > 0 {
			return m
		}
		return 0
	}
	r := score - y
	if r < 0 {
		r = -r
	}
	if r > p.Epsilon {
		return r - p.Epsilon
	}
	return 0
}

// batchGradientNorm computes the L2 norm of the full-batch gradient at w,
// reported as a convergence diagnostic.
func (k *IGD) batchGradientNorm(w []float64, batch dataset.Batch, p igd.RoundParams) float64 {
	rows := batch.Rows()
	n := p.NFeatures

	grad := make([]float64, n+1)
	xi := make([]float64, n)
	for i := 0; i < rows; i++ {
		mat.Row(xi, i, batch.X)
		score := floats.Dot(w[:n], xi) + w[n]
		dloss := lossGradient(score, batch.Y[i], p)
		if dloss == 0 {
			continue
		}
		for j := 0; j < n; j++ {
			grad[j] += dloss * xi[j]
		}
		grad[n] += dloss
	}

	scale := 1 / float64(rows)
	regScale := p.Lambda / float64(p.TotalRows)
	for j := 0; j < n; j++ {
		grad[j] *= scale
		if p.Norm == igd.L1 {
			grad[j] += regScale * sign(w[j])
		} else {
			grad[j] += regScale * w[j]
		}
	}
	grad[n] *= scale

	return floats.Norm(grad, 2)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
