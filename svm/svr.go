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

// LinearSVR is a linear support vector regressor with epsilon-insensitive
// loss. The margin is a global scalar or, in grouped runs, a per-group value
// supplied through WithEpsilonTable.
type LinearSVR struct {
	state *model.StateManager
	cfg   config

	results map[group.Key]igd.Result
	history map[group.Key][]float64
	nIter   int
	reason  igd.StopReason
	grouped bool
}

// NewLinearSVR creates a regressor with the given options.
func NewLinearSVR(opts ...Option) *LinearSVR {
	cfg := defaultConfig(igd.Regression)
	for _, opt := range opts {
		opt(&cfg)
	}
	return &LinearSVR{
		state: model.NewStateManager(),
		cfg:   cfg,
	}
}

// Fit trains the model on numeric targets.
func (m *LinearSVR) Fit(X, y mat.Matrix) error {
	return m.FitContext(context.Background(), X, y)
}

// FitContext is Fit with an explicit context, honored at round boundaries.
func (m *LinearSVR) FitContext(ctx context.Context, X, y mat.Matrix) error {
	p := m.cfg.params
	p.Task = igd.Regression

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
		errors.Warn(errors.NewConvergenceWarning("LinearSVR", res.Iterations, ""))
	}

	m.results = res.Results
	m.history = res.LossHistory
	m.nIter = res.Iterations
	m.reason = res.Reason
	m.grouped = m.cfg.groups != nil

	r, c := X.Dims()
	m.state.SetDimensions(c, r)
	m.state.SetFitted()
	return nil
}

// Predict returns the predicted value for every row. On a grouped model use
// PredictGroups so each row is scored by its own group's coefficients.
func (m *LinearSVR) Predict(X mat.Matrix) (mat.Matrix, error) {
	if m.grouped {
		return nil, errors.NewValueError("LinearSVR.Predict",
			"model was trained with grouping; use PredictGroups")
	}
	return m.predict(X, nil, "Predict")
}

// PredictGroups predicts with one group key per row.
func (m *LinearSVR) PredictGroups(X mat.Matrix, keys []group.Key) (mat.Matrix, error) {
	r, _ := X.Dims()
	if len(keys) != r {
		return nil, errors.NewDimensionError("LinearSVR.PredictGroups", r, len(keys), 0)
	}
	return m.predict(X, keys, "PredictGroups")
}

func (m *LinearSVR) predict(X mat.Matrix, keys []group.Key, method string) (mat.Matrix, error) {
	if !m.state.IsFitted() {
		return nil, errors.NewNotFittedError("LinearSVR", method)
	}

	nFeatures, _ := m.state.GetDimensions()
	r, c := X.Dims()
	if c != nFeatures {
		return nil, errors.NewDimensionError("LinearSVR."+method, nFeatures, c, 1)
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
			return nil, errors.Newf("flock: LinearSVR.%s: unknown group %q", method, string(k))
		}
		mat.Row(xi, i, X)
		out.Set(i, 0, floats.Dot(res.Coefficients[:c], xi)+res.Coefficients[c])
	}
	return out, nil
}

// Coef returns the learned weight vector of one group (without the
// intercept). Use group.Implicit for an ungrouped model.
func (m *LinearSVR) Coef(k group.Key) []float64 {
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
func (m *LinearSVR) Intercept(k group.Key) float64 {
	res, ok := m.results[k]
	if !ok {
		return 0
	}
	return res.Coefficients[len(res.Coefficients)-1]
}

// Result exposes the full extraction-kernel output for one group.
func (m *LinearSVR) Result(k group.Key) (igd.Result, bool) {
	res, ok := m.results[k]
	return res, ok
}

// NIterations returns the number of rounds the run performed.
func (m *LinearSVR) NIterations() int {
	return m.nIter
}

// StopReason reports whether the run converged or hit the iteration cap.
func (m *LinearSVR) StopReason() igd.StopReason {
	return m.reason
}

// LossHistory returns the per-group training loss recorded after each round.
func (m *LinearSVR) LossHistory() map[group.Key][]float64 {
	return m.history
}

// Score returns the coefficient of determination R² of the prediction.
func (m *LinearSVR) Score(X, y mat.Matrix) (float64, error) {
	pred, err := m.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(y, pred)
}
