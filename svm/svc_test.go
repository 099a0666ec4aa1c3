package svm

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/flockml/flock/core/group"
	"github.com/flockml/flock/igd"
	"github.com/flockml/flock/pkg/errors"
)

// separable two-class data on one feature, labeled 0/1.
func separableData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(6, 1, []float64{-3, -2, -1, 1, 2, 3})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})
	return X, y
}

func silenceWarnings(t *testing.T) {
	t.Helper()
	errors.SetWarningHandler(func(error) {})
	t.Cleanup(func() { errors.SetWarningHandler(nil) })
}

func TestLinearSVCFitPredict(t *testing.T) {
	silenceWarnings(t)
	X, y := separableData()

	clf := NewLinearSVC(
		WithStepSize(0.1),
		WithMaxIter(200),
		WithLambda(0.01),
	)
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	pred, err := clf.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	// Predictions come back in the original label values, not ±1.
	for i := 0; i < 6; i++ {
		if pred.At(i, 0) != y.At(i, 0) {
			t.Errorf("pred[%d] = %v, want %v", i, pred.At(i, 0), y.At(i, 0))
		}
	}

	labels := clf.Labels()
	if labels == nil || labels.Negative != 0 || labels.Positive != 1 {
		t.Errorf("Labels() = %+v, want {0, 1}", labels)
	}

	if clf.NIterations() < 1 {
		t.Error("NIterations() must report at least one round")
	}
	if clf.StopReason() == igd.StopNone {
		t.Error("StopReason() must be set after Fit")
	}
	if len(clf.Coef(group.Implicit)) != 1 {
		t.Errorf("Coef() = %v, want one weight", clf.Coef(group.Implicit))
	}
	if len(clf.LossHistory()[group.Implicit]) != clf.NIterations() {
		t.Error("loss history length must match the iteration count")
	}
}

func TestLinearSVCScore(t *testing.T) {
	silenceWarnings(t)
	X, y := separableData()

	clf := NewLinearSVC(WithStepSize(0.1), WithMaxIter(200), WithLambda(0.01))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	acc, err := clf.Score(X, y)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if acc != 1.0 {
		t.Errorf("Score() = %v, want 1.0 on separable training data", acc)
	}
}

func TestLinearSVCNotFitted(t *testing.T) {
	clf := NewLinearSVC()
	X := mat.NewDense(1, 1, []float64{1})

	if _, err := clf.Predict(X); err == nil {
		t.Error("Predict() before Fit must fail")
	}
	if _, err := clf.DecisionFunction(X); err == nil {
		t.Error("DecisionFunction() before Fit must fail")
	}
}

func TestLinearSVCErrorsNameTheCallingMethod(t *testing.T) {
	clf := NewLinearSVC()
	X := mat.NewDense(1, 1, []float64{1})

	_, err := clf.PredictGroups(X, []group.Key{"a"})
	if err == nil {
		t.Fatal("PredictGroups() before Fit must fail")
	}

	var notFitted *errors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Fatalf("error type = %T, want *NotFittedError", err)
	}
	if notFitted.Method != "PredictGroups" {
		t.Errorf("Method = %q, want PredictGroups", notFitted.Method)
	}

	_, err = clf.Predict(X)
	if !errors.As(err, &notFitted) {
		t.Fatalf("error type = %T, want *NotFittedError", err)
	}
	if notFitted.Method != "Predict" {
		t.Errorf("Method = %q, want Predict", notFitted.Method)
	}
}

func TestLinearSVCDimensionMismatch(t *testing.T) {
	silenceWarnings(t)
	X, y := separableData()

	clf := NewLinearSVC(WithMaxIter(5))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	bad := mat.NewDense(2, 3, nil)
	if _, err := clf.Predict(bad); err == nil {
		t.Error("Predict() with the wrong feature count must fail")
	}
}

func TestLinearSVCGrouped(t *testing.T) {
	silenceWarnings(t)

	// Two groups with opposite decision boundaries.
	X := mat.NewDense(8, 1, []float64{-2, -1, 1, 2, -2, -1, 1, 2})
	y := mat.NewDense(8, 1, []float64{0, 0, 1, 1, 1, 1, 0, 0})
	keys := []group.Key{"up", "up", "up", "up", "down", "down", "down", "down"}

	clf := NewLinearSVC(
		WithStepSize(0.1),
		WithMaxIter(200),
		WithLambda(0.01),
		WithGroups(keys),
	)
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	// A grouped model refuses key-less prediction.
	if _, err := clf.Predict(X); err == nil {
		t.Error("Predict() on a grouped model must fail")
	}

	pred, err := clf.PredictGroups(X, keys)
	if err != nil {
		t.Fatalf("PredictGroups() error = %v", err)
	}
	for i := 0; i < 8; i++ {
		if pred.At(i, 0) != y.At(i, 0) {
			t.Errorf("pred[%d] = %v, want %v", i, pred.At(i, 0), y.At(i, 0))
		}
	}

	// The two models learned opposite slopes.
	up, down := clf.Coef("up"), clf.Coef("down")
	if up[0] <= 0 || down[0] >= 0 {
		t.Errorf("coefs = %v / %v, want opposite signs", up, down)
	}
}

func TestLinearSVCUnknownGroup(t *testing.T) {
	silenceWarnings(t)
	X, y := separableData()
	keys := []group.Key{"a", "a", "a", "a", "a", "a"}

	clf := NewLinearSVC(WithMaxIter(5), WithGroups(keys))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	probe := mat.NewDense(1, 1, []float64{1})
	if _, err := clf.PredictGroups(probe, []group.Key{"zzz"}); err == nil {
		t.Error("PredictGroups() with an unseen key must fail")
	}
	if _, err := clf.PredictGroups(probe, []group.Key{"a", "a"}); err == nil {
		t.Error("PredictGroups() with a key-count mismatch must fail")
	}
}

func TestLinearSVCInvalidOptions(t *testing.T) {
	X, y := separableData()

	tests := []struct {
		name string
		opts []Option
	}{
		{"multiple lambdas", []Option{WithLambdas([]float64{0.1, 0.2})}},
		{"negative lambda", []Option{WithLambda(-1)}},
		{"n_folds above one", []Option{WithNFolds(2)}},
		{"zero step size", []Option{WithStepSize(0)}},
		{"decay above one", []Option{WithDecayFactor(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clf := NewLinearSVC(tt.opts...)
			if err := clf.Fit(X, y); err == nil {
				t.Error("Fit() expected validation error, got nil")
			}
		})
	}
}

func TestLinearSVCConvergenceWarning(t *testing.T) {
	var warned []error
	errors.SetWarningHandler(func(w error) { warned = append(warned, w) })
	t.Cleanup(func() { errors.SetWarningHandler(nil) })

	X, y := separableData()
	clf := NewLinearSVC(WithMaxIter(1), WithTolerance(0))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if clf.StopReason() != igd.MaxIterReached {
		t.Fatalf("StopReason() = %v, want MaxIterReached", clf.StopReason())
	}
	found := false
	for _, w := range warned {
		var cw *errors.ConvergenceWarning
		if errors.As(w, &cw) {
			found = true
		}
	}
	if !found {
		t.Error("expected a ConvergenceWarning when the iteration cap stops the run")
	}
}
