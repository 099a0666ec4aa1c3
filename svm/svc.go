package svm

import (
	"context"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/flockml/flock/core/group"
	"github.com/flockml/flock/core/model"
	"github.com/flockml/flock/dataset"
	"github.com/flockml/flock/igd"
	"github.com/flockml/flock/metrics"
	"github.com/flockml/flock/pkg/errors"
)

// LinearSVC is a linear support vector classifier trained by incremental
// gradient descent. With the WithGroups option it trains one independent
// model per group key while sharing a single synchronized iteration counter.
type LinearSVC struct {
	state *model.StateManager
	cfg   config

	// Learned per group after Fit.
	results map[group.Key]igd.Result
	labels  *igd.BinaryLabels
	history map[group.Key][]float64
	nIter   int
	reason  igd.StopReason
	grouped bool
}

// NewLinearSVC creates a classifier with the given options.
func NewLinearSVC(opts ...Option) *LinearSVC {
	cfg := defaultConfig(igd.Classification)
	for _, opt := range opts {
		opt(&cfg)
	}
	return &LinearSVC{
		state: model.NewStateManager(),
		cfg:   cfg,
	}
}

// Fit trains the model. y must be a column vector holding exactly two
// distinct label values; the encoding to ±1 is handled internally and
// inverted again by Predict.
func (m *LinearSVC) Fit(X, y mat.Matrix) error {
	return m.FitContext(context.Background(), X, y)
}

// FitContext is Fit with an explicit context. Cancellation is honored at
// round boundaries only; a round is never interrupted halfway.
func (m *LinearSVC) FitContext(ctx context.Context, X, y mat.Matrix) error {
	p := m.cfg.params
	p.Task = igd.Classification

	ds, err := dataset.FromMatrix(X, y, m.cfg.groups)
	if err != nil {
		return err
	}

	driver := igd.NewDriver(NewIGD(), p, igd.WithLogger[State](m.cfg.logger))
	res, err := driver.Run(ctx, ds)
	if err != nil {
		return err
	}

	if res.Reason == igd.MaxIterReached {
		errors.Warn(errors.NewConvergenceWarning("LinearSVC", res.Iterations, ""))
	}

	m.results = res.Results
	m.labels = res.Labels
	m.history = res.LossHistory
	m.nIter = res.Iterations
	m.reason = res.Reason
	m.grouped = m.cfg.groups != nil

	r, c := X.Dims()
	m.state.SetDimensions(c, r)
	m.state.SetFitted()
	return nil
}

// Predict returns the predicted label for every row, in the original label
// values. On a grouped model use PredictGroups so each row is scored by its
// own group's coefficients.
func (m *LinearSVC) Predict(X mat.Matrix) (mat.Matrix, error) {
	if m.grouped {
		return nil, errors.NewValueError("LinearSVC.Predict",
			"model was trained with grouping; use PredictGroups")
	}
	return m.predict(X, nil, "Predict")
}

// PredictGroups predicts with one group key per row, selecting that group's
// model. A key that was never seen during training is an error.
func (m *LinearSVC) PredictGroups(X mat.Matrix, keys []group.Key) (mat.Matrix, error) {
	r, _ := X.Dims()
	if len(keys) != r {
		return nil, errors.NewDimensionError("LinearSVC.PredictGroups", r, len(keys), 0)
	}
	return m.predict(X, keys, "PredictGroups")
}

func (m *LinearSVC) predict(X mat.Matrix, keys []group.Key, method string) (mat.Matrix, error) {
	scores, err := m.decision(X, keys, method)
	if err != nil {
		return nil, err
	}
	r, _ := scores.Dims()
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		out.Set(i, 0, m.labels.Decode(scores.At(i, 0)))
	}
	return out, nil
}

// DecisionFunction returns the raw decision values w·x + b.
func (m *LinearSVC) DecisionFunction(X mat.Matrix) (mat.Matrix, error) {
	if m.grouped {
		return nil, errors.NewValueError("LinearSVC.DecisionFunction",
			"model was trained with grouping; use PredictGroups")
	}
	return m.decision(X, nil, "DecisionFunction")
}

func (m *LinearSVC) decision(X mat.Matrix, keys []group.Key, method string) (mat.Matrix, error) {
	if !m.state.IsFitted() {
		return nil, errors.NewNotFittedError("LinearSVC", method)
	}

	nFeatures, _ := m.state.GetDimensions()
	r, c := X.Dims()
	if c != nFeatures {
		return nil, errors.NewDimensionError("LinearSVC."+method, nFeatures, c, 1)
	}

	out := mat.NewDense(r, 1, nil)
	xi := make([]float64, c)
	for i := 0; i < r; i++ {
		k := group.Implicit
		if keys != nil {
			k = keys[i]
		}
		res, ok := m.results[k]
		if !ok {
			return nil, errors.Newf("flock: LinearSVC.%s: unknown group %q", method, string(k))
		}
		mat.Row(xi, i, X)
		out.Set(i, 0, floats.Dot(res.Coefficients[:c], xi)+res.Coefficients[c])
	}
	return out, nil
}

// Coef returns the learned weight vector of one group (without the
// intercept). Use group.Implicit for an ungrouped model.
func (m *LinearSVC) Coef(k group.Key) []float64 {
	res, ok := m.results[k]
	if !ok {
		return nil
	}
	n := len(res.Coefficients) - 1
	coef := make([]float64, n)
	copy(coef, res.Coefficients[:n])
	return coef
}

// Intercept returns the learned intercept of one group.
func (m *LinearSVC) Intercept(k group.Key) float64 {
	res, ok := m.results[k]
	if !ok {
		return 0
	}
	return res.Coefficients[len(res.Coefficients)-1]
}

// Result exposes the full extraction-kernel output for one group.
func (m *LinearSVC) Result(k group.Key) (igd.Result, bool) {
	res, ok := m.results[k]
	return res, ok
}

// Labels returns the binary label encoding chosen during Fit.
func (m *LinearSVC) Labels() *igd.BinaryLabels {
	return m.labels
}

// NIterations returns the number of rounds the run performed.
func (m *LinearSVC) NIterations() int {
	return m.nIter
}

// StopReason reports whether the run converged or hit the iteration cap.
func (m *LinearSVC) StopReason() igd.StopReason {
	return m.reason
}

// LossHistory returns the per-group training loss recorded after each round.
func (m *LinearSVC) LossHistory() map[group.Key][]float64 {
	return m.history
}

// Score returns the mean accuracy on the given test data and labels.
func (m *LinearSVC) Score(X, y mat.Matrix) (float64, error) {
	pred, err := m.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.Accuracy(y, pred)
}
