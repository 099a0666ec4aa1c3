package dataset

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/flockml/flock/core/group"
	"github.com/flockml/flock/pkg/errors"
)

func TestFromMatrixUngrouped(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
	})
	y := mat.NewDense(3, 1, []float64{1, -1, 1})

	ds, err := FromMatrix(X, y, nil)
	if err != nil {
		t.Fatalf("FromMatrix() error = %v", err)
	}

	if ds.NRows() != 3 || ds.NFeatures() != 2 {
		t.Errorf("dims = (%d, %d), want (3, 2)", ds.NRows(), ds.NFeatures())
	}

	groups := ds.Groups()
	if len(groups) != 1 || groups[0] != group.Implicit {
		t.Fatalf("Groups() = %v, want the single implicit group", groups)
	}

	b, ok := ds.Batch(group.Implicit)
	if !ok {
		t.Fatal("Batch(Implicit) missing")
	}
	if b.Rows() != 3 {
		t.Errorf("batch rows = %d, want 3", b.Rows())
	}
	if b.Y[1] != -1 {
		t.Errorf("batch y[1] = %v, want -1", b.Y[1])
	}
}

func TestFromMatrixGrouped(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{10, 20, 30, 40})
	y := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	keys := []group.Key{"b", "a", "b", "a"}

	ds, err := FromMatrix(X, y, keys)
	if err != nil {
		t.Fatalf("FromMatrix() error = %v", err)
	}

	groups := ds.Groups()
	if len(groups) != 2 || groups[0] != "a" || groups[1] != "b" {
		t.Fatalf("Groups() = %v, want [a b]", groups)
	}

	// Partitioning must keep row/target alignment and the original row order
	// within each group.
	ba, _ := ds.Batch("a")
	if ba.Rows() != 2 {
		t.Fatalf("group a rows = %d, want 2", ba.Rows())
	}
	if ba.X.At(0, 0) != 20 || ba.Y[0] != 2 {
		t.Errorf("group a row 0 = (%v, %v), want (20, 2)", ba.X.At(0, 0), ba.Y[0])
	}
	if ba.X.At(1, 0) != 40 || ba.Y[1] != 4 {
		t.Errorf("group a row 1 = (%v, %v), want (40, 4)", ba.X.At(1, 0), ba.Y[1])
	}

	bb, _ := ds.Batch("b")
	if bb.X.At(0, 0) != 10 || bb.Y[0] != 1 {
		t.Errorf("group b row 0 = (%v, %v), want (10, 1)", bb.X.At(0, 0), bb.Y[0])
	}
}

func TestFromMatrixValidation(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	tests := []struct {
		name string
		y    *mat.Dense
		keys []group.Key
	}{
		{
			name: "y row mismatch",
			y:    mat.NewDense(3, 1, []float64{1, 2, 3}),
		},
		{
			name: "y not a column vector",
			y:    mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
		},
		{
			name: "group keys length mismatch",
			y:    mat.NewDense(2, 1, []float64{1, 2}),
			keys: []group.Key{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromMatrix(X, tt.y, tt.keys); err == nil {
				t.Error("FromMatrix() expected error, got nil")
			}
		})
	}
}

func TestFromMatrixEmptyMatrix(t *testing.T) {
	y := mat.NewDense(1, 1, []float64{1})
	_, err := FromMatrix(&mat.Dense{}, y, nil)
	if !errors.Is(err, errors.ErrEmptyData) {
		t.Errorf("empty-matrix rejection should carry ErrEmptyData, got %v", err)
	}
}

func TestFromMatrixCopiesData(t *testing.T) {
	X := mat.NewDense(1, 1, []float64{7})
	y := mat.NewDense(1, 1, []float64{1})

	ds, err := FromMatrix(X, y, nil)
	if err != nil {
		t.Fatalf("FromMatrix() error = %v", err)
	}

	X.Set(0, 0, 99)
	b, _ := ds.Batch(group.Implicit)
	if b.X.At(0, 0) == 99 {
		t.Error("dataset should not alias the caller's matrix")
	}
}

func TestKeyOf(t *testing.T) {
	if got := KeyOf("east"); got != "east" {
		t.Errorf("KeyOf(east) = %q", got)
	}
	if got := KeyOf("east", "retail"); got != "east,retail" {
		t.Errorf("KeyOf(east, retail) = %q", got)
	}
}
