// Package igd implements the grouped iteration driver for models trained by
// incremental gradient descent. The driver owns the control loop only: it
// repeatedly hands every group's rows to an external update kernel, tracks
// double-buffered per-group state, decides when to stop and extracts final
// per-group results. All numeric work lives behind the Kernel interface.
package igd

import (
	"context"
	"fmt"
	"math"

	"github.com/flockml/flock/core/group"
	"github.com/flockml/flock/dataset"
	"github.com/flockml/flock/pkg/errors"
	"github.com/flockml/flock/pkg/log"
)

// StopReason reports why a run ended.
type StopReason int

const (
	// StopNone means the run has not stopped.
	StopNone StopReason = iota
	// Converged means the aggregate state distance fell below the tolerance.
	Converged
	// MaxIterReached means the iteration cap stopped the run first.
	MaxIterReached
)

// String returns the stop reason as a log-friendly token.
func (r StopReason) String() string {
	switch r {
	case Converged:
		return log.StopConverged
	case MaxIterReached:
		return log.StopMaxIterReached
	default:
		return "none"
	}
}

// RunResult is the outcome of a completed run: the final value of the global
// iteration counter, why the loop stopped, the extracted per-group results,
// and the per-group loss recorded after every round.
type RunResult struct {
	Iterations  int
	Reason      StopReason
	Results     map[group.Key]Result
	LossHistory map[group.Key][]float64

	// Labels is the binary encoding used for classification, nil for
	// regression. Prediction must invert it.
	Labels *BinaryLabels
}

// Driver runs the bulk-synchronous training loop. A Driver is cheap and
// stateless between runs; all run state (store, counter, step size) is local
// to Run, so a single Driver value may serve several sequential runs.
type Driver[S any] struct {
	kernel Kernel[S]
	params Params
	logger log.Logger
}

// DriverOption configures a Driver.
type DriverOption[S any] func(*Driver[S])

// WithLogger sets the logger used for per-round telemetry.
func WithLogger[S any](l log.Logger) DriverOption[S] {
	return func(d *Driver[S]) {
		d.logger = l
	}
}

// NewDriver creates a Driver for the given kernel and hyperparameters.
// Validation happens in Run so that an invalid bundle is reported exactly
// where the run would have started.
func NewDriver[S any](kernel Kernel[S], params Params, opts ...DriverOption[S]) *Driver[S] {
	d := &Driver[S]{
		kernel: kernel,
		params: params,
		logger: log.GetLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run executes the full training loop over the dataset and returns the
// extracted per-group results.
//
// The loop is bulk-synchronous: each round performs one dataset pass (one
// kernel invocation per group), commits all next-generation states at once,
// increments the shared iteration counter and evaluates the stopping
// predicate. A kernel failure for any group aborts the whole round with no
// partial state committed; numeric failure is terminal, never retried.
func (d *Driver[S]) Run(ctx context.Context, ds dataset.Dataset) (*RunResult, error) {
	if err := d.params.Validate(); err != nil {
		return nil, err
	}
	if ds == nil || ds.NRows() == 0 {
		return nil, errors.Mark(
			errors.NewValueError("igd.Run", "empty dataset"),
			errors.ErrEmptyData)
	}

	groups := ds.Groups()

	var labels *BinaryLabels
	if d.params.Task == Classification {
		var err error
		labels, err = ScanLabels(ds)
		if err != nil {
			return nil, err
		}
	}

	eps := ResolveEpsilon(d.params, groups)

	logger := d.logger.With(
		log.ComponentKey, "igd",
		log.TaskKey, d.params.Task.String(),
		log.GroupsKey, len(groups),
	)
	logger.Info("training run starting",
		log.SamplesKey, ds.NRows(),
		log.FeaturesKey, ds.NFeatures(),
		log.ToleranceKey, d.params.Tolerance,
	)

	store := group.NewStore[S]()
	for _, g := range groups {
		store.SetCurrent(g, d.kernel.Initial(ds.NFeatures()))
	}

	stepSize := d.params.InitStepSize
	iteration := 0
	history := make(map[group.Key][]float64, len(groups))

	for {
		// A round is atomic; cancellation is only honored between rounds.
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "training run cancelled")
		}

		next, err := d.runRound(ctx, ds, store, groups, labels, eps, stepSize, iteration)
		if err != nil {
			return nil, err
		}

		// Current of round k becomes previous of round k+1. Commit keeps
		// the promotion and the new generation under one lock so the
		// convergence test never observes a half-advanced store.
		store.Commit(next)
		iteration++

		for _, g := range groups {
			curr, _ := store.Current(g)
			history[g] = append(history[g], d.kernel.Extract(curr).Loss)
		}

		// The iteration cap is checked before the distance so the first
		// round can stop without requiring a distance against the initial
		// state to be meaningful.
		distance := math.NaN()
		reason := StopNone
		if iteration >= d.params.MaxIter {
			reason = MaxIterReached
		} else if distance = d.aggregateDistance(store, groups); distance < d.params.Tolerance {
			reason = Converged
		}

		logger.Debug("training round finished",
			log.IterationKey, iteration,
			log.StepSizeKey, stepSize,
			log.DistanceKey, distance,
		)

		if reason != StopNone {
			results := make(map[group.Key]Result, len(groups))
			for _, g := range groups {
				curr, _ := store.Current(g)
				results[g] = d.kernel.Extract(curr)
			}
			logger.Info("training run finished",
				log.IterationKey, iteration,
				log.StopReasonKey, reason.String(),
			)
			return &RunResult{
				Iterations:  iteration,
				Reason:      reason,
				Results:     results,
				LossHistory: history,
				Labels:      labels,
			}, nil
		}

		stepSize = NextStepSize(stepSize, iteration, d.params.InitStepSize, d.params.DecayFactor)
	}
}

// runRound performs one full dataset pass and returns the next generation of
// every group's state. Nothing is committed here: on any kernel error the
// caller drops the whole map, so a failed round leaves the store untouched.
func (d *Driver[S]) runRound(
	ctx context.Context,
	ds dataset.Dataset,
	store *group.Store[S],
	groups []group.Key,
	labels *BinaryLabels,
	eps EpsilonSource,
	stepSize float64,
	iteration int,
) (map[group.Key]S, error) {
	next := make(map[group.Key]S, len(groups))

	for _, g := range groups {
		prev, _ := store.Current(g)

		batch, ok := ds.Batch(g)
		if !ok || batch.Rows() == 0 {
			// A group with no matching rows keeps its state for the round.
			next[g] = prev
			continue
		}
		if labels != nil {
			batch = encodeBatch(batch, labels)
		}

		rp := RoundParams{
			NFeatures: ds.NFeatures(),
			StepSize:  stepSize,
			Lambda:    d.params.LambdaValue(),
			Norm:      d.params.Norm,
			TotalRows: batch.Rows(),
			Epsilon:   eps.ForGroup(g),
			Task:      d.params.Task,
			Iteration: iteration,
		}

		var updated S
		err := errors.SafeExecute("update kernel", func() error {
			var uerr error
			updated, uerr = d.kernel.Update(ctx, prev, batch, rp)
			return uerr
		})
		if err != nil {
			d.logger.Error("update kernel failed",
				log.GroupKey, string(g),
				log.IterationKey, iteration,
				log.ErrorTypeKey, fmt.Sprintf("%T", err),
			)
			return nil, errors.NewKernelError(string(g), iteration, err)
		}
		next[g] = updated
	}

	return next, nil
}

// aggregateDistance reduces the per-group state distances to the single
// value tested against the tolerance. The maximum is used so one
// slow-converging group keeps every group iterating.
func (d *Driver[S]) aggregateDistance(store *group.Store[S], groups []group.Key) float64 {
	maxDist := 0.0
	for _, g := range groups {
		curr, _ := store.Current(g)
		prev, ok := store.Previous(g)
		if !ok {
			return math.Inf(1)
		}
		if dist := d.kernel.Distance(prev, curr); dist > maxDist {
			maxDist = dist
		}
	}
	return maxDist
}

// encodeBatch substitutes ±1 encoded labels for the batch's raw targets.
func encodeBatch(b dataset.Batch, labels *BinaryLabels) dataset.Batch {
	encoded := make([]float64, len(b.Y))
	for i, v := range b.Y {
		encoded[i] = labels.Encode(v)
	}
	return dataset.Batch{X: b.X, Y: encoded}
}
