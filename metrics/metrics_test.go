package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func col(values ...float64) *mat.Dense {
	return mat.NewDense(len(values), 1, values)
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   *mat.Dense
		yPred   *mat.Dense
		want    float64
		wantErr bool
	}{
		{
			name:  "perfect prediction",
			yTrue: col(1, -1, 1, -1),
			yPred: col(1, -1, 1, -1),
			want:  1.0,
		},
		{
			name:  "half correct",
			yTrue: col(1, 1, -1, -1),
			yPred: col(1, -1, -1, 1),
			want:  0.5,
		},
		{
			name:  "all wrong",
			yTrue: col(1, 1),
			yPred: col(-1, -1),
			want:  0.0,
		},
		{
			name:    "dimension mismatch",
			yTrue:   col(1, 1, 1),
			yPred:   col(1, 1),
			wantErr: true,
		},
		{
			name:    "not a column vector",
			yTrue:   mat.NewDense(2, 2, []float64{1, 1, 1, 1}),
			yPred:   col(1, 1),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Accuracy(tt.yTrue, tt.yPred)

			if (err != nil) != tt.wantErr {
				t.Errorf("Accuracy() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Accuracy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMSE(t *testing.T) {
	tests := []struct {
		name      string
		yTrue     *mat.Dense
		yPred     *mat.Dense
		want      float64
		tolerance float64
		wantErr   bool
	}{
		{
			name:      "perfect prediction",
			yTrue:     col(1, 2, 3, 4, 5),
			yPred:     col(1, 2, 3, 4, 5),
			want:      0.0,
			tolerance: 1e-10,
		},
		{
			name:      "simple case",
			yTrue:     col(1.0, 2.0, 3.0, 4.0),
			yPred:     col(1.5, 2.5, 2.5, 3.5),
			want:      0.25, // ((0.5)^2 + (0.5)^2 + (-0.5)^2 + (-0.5)^2) / 4
			tolerance: 1e-10,
		},
		{
			name:    "dimension mismatch",
			yTrue:   col(1, 2, 3),
			yPred:   col(1, 2),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(tt.yTrue, tt.yPred)

			if (err != nil) != tt.wantErr {
				t.Errorf("MSE() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("MSE() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRMSE(t *testing.T) {
	yTrue := col(0, 0, 0, 0)
	yPred := col(2, 2, 2, 2)

	got, err := RMSE(yTrue, yPred)
	if err != nil {
		t.Fatalf("RMSE() error = %v", err)
	}
	if math.Abs(got-2.0) > 1e-10 {
		t.Errorf("RMSE() = %v, want 2.0", got)
	}
}

func TestMAE(t *testing.T) {
	yTrue := col(1, 2, 3)
	yPred := col(2, 2, 1)

	got, err := MAE(yTrue, yPred)
	if err != nil {
		t.Fatalf("MAE() error = %v", err)
	}
	if math.Abs(got-1.0) > 1e-10 {
		t.Errorf("MAE() = %v, want 1.0", got)
	}
}

func TestR2Score(t *testing.T) {
	tests := []struct {
		name      string
		yTrue     *mat.Dense
		yPred     *mat.Dense
		want      float64
		tolerance float64
		wantErr   bool
	}{
		{
			name:      "perfect prediction",
			yTrue:     col(1, 2, 3, 4),
			yPred:     col(1, 2, 3, 4),
			want:      1.0,
			tolerance: 1e-10,
		},
		{
			name:      "mean prediction scores zero",
			yTrue:     col(1, 2, 3),
			yPred:     col(2, 2, 2),
			want:      0.0,
			tolerance: 1e-10,
		},
		{
			name:    "no variance in yTrue",
			yTrue:   col(5, 5, 5),
			yPred:   col(4, 5, 6),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := R2Score(tt.yTrue, tt.yPred)

			if (err != nil) != tt.wantErr {
				t.Errorf("R2Score() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("R2Score() = %v, want %v", got, tt.want)
			}
		})
	}
}
