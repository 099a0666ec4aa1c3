package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestStandardScalerFitTransform(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		0, 10,
		2, 10,
		4, 10,
		6, 10,
	})

	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	if math.Abs(scaler.Mean[0]-3) > 1e-12 {
		t.Errorf("Mean[0] = %v, want 3", scaler.Mean[0])
	}

	// 変換後の各列は平均0
	r, c := scaled.Dims()
	for j := 0; j < c; j++ {
		var sum float64
		for i := 0; i < r; i++ {
			sum += scaled.At(i, j)
		}
		if math.Abs(sum/float64(r)) > 1e-12 {
			t.Errorf("column %d mean = %v, want 0", j, sum/float64(r))
		}
	}

	// 分散0の列はゼロ除算せずに通す
	for i := 0; i < r; i++ {
		if scaled.At(i, 1) != 0 {
			t.Errorf("constant column row %d = %v, want 0", i, scaled.At(i, 1))
		}
	}
}

func TestStandardScalerInverseTransform(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 5, 9})

	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	back, err := scaler.InverseTransform(scaled)
	if err != nil {
		t.Fatalf("InverseTransform() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if math.Abs(back.At(i, 0)-X.At(i, 0)) > 1e-10 {
			t.Errorf("row %d = %v, want %v", i, back.At(i, 0), X.At(i, 0))
		}
	}
}

func TestStandardScalerNotFitted(t *testing.T) {
	scaler := NewStandardScalerDefault()
	if _, err := scaler.Transform(mat.NewDense(1, 1, []float64{1})); err == nil {
		t.Error("Transform() before Fit must fail")
	}
}

func TestStandardScalerDimensionMismatch(t *testing.T) {
	scaler := NewStandardScalerDefault()
	if err := scaler.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if _, err := scaler.Transform(mat.NewDense(1, 3, nil)); err == nil {
		t.Error("Transform() with the wrong feature count must fail")
	}
}
