// Package dataset provides the in-memory, group-partitioned dataset consumed
// by the iteration driver. The driver only sees the Dataset interface; how
// rows are stored and partitioned is this package's concern.
package dataset

import (
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/flockml/flock/core/group"
	"github.com/flockml/flock/pkg/errors"
)

// Batch carries one group's rows for a single dataset pass: a feature matrix
// and the matching dependent-variable values. For classification the driver
// substitutes encoded labels before handing the batch to the kernel.
type Batch struct {
	X mat.Matrix
	Y []float64
}

// Rows returns the number of rows in the batch.
func (b Batch) Rows() int {
	if b.X == nil {
		return 0
	}
	r, _ := b.X.Dims()
	return r
}

// Dataset is the data-access boundary of the iteration driver. The set of
// group keys is discovered from the data; an ungrouped dataset exposes the
// single implicit group.
type Dataset interface {
	NRows() int
	NFeatures() int
	Groups() []group.Key
	Batch(k group.Key) (Batch, bool)
}

// KeyOf derives a group key from the values of the grouping columns for one
// row. A single column maps to its value unchanged.
func KeyOf(values ...string) group.Key {
	if len(values) == 1 {
		return group.Key(values[0])
	}
	return group.Key(strings.Join(values, ","))
}

// Table is an in-memory Dataset over a dense feature matrix. Rows are
// partitioned by group key at construction time so that per-round batch
// lookups are O(1).
type Table struct {
	x       *mat.Dense
	y       []float64
	nRows   int
	nCols   int
	keys    []group.Key
	batches map[group.Key]Batch
}

// FromMatrix builds a Table from a feature matrix, a target column vector
// and optional per-row group keys. groupKeys may be nil for an ungrouped
// dataset; otherwise it must have one entry per row.
func FromMatrix(X mat.Matrix, y mat.Matrix, groupKeys []group.Key) (*Table, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.Mark(
			errors.NewValueError("dataset.FromMatrix", "empty feature matrix"),
			errors.ErrEmptyData)
	}

	yr, yc := y.Dims()
	if yr != r {
		return nil, errors.NewDimensionError("dataset.FromMatrix", r, yr, 0)
	}
	if yc != 1 {
		return nil, errors.NewValueError("dataset.FromMatrix", "y must be a column vector")
	}
	if groupKeys != nil && len(groupKeys) != r {
		return nil, errors.NewDimensionError("dataset.FromMatrix", r, len(groupKeys), 0)
	}

	xd := mat.DenseCopyOf(X)
	yv := make([]float64, r)
	for i := 0; i < r; i++ {
		yv[i] = y.At(i, 0)
	}

	t := &Table{
		x:     xd,
		y:     yv,
		nRows: r,
		nCols: c,
	}
	t.partition(groupKeys)
	return t, nil
}

// partition splits the rows into per-group batches. With no grouping every
// row lands in the implicit group.
func (t *Table) partition(groupKeys []group.Key) {
	rowsByGroup := make(map[group.Key][]int)
	if groupKeys == nil {
		idx := make([]int, t.nRows)
		for i := range idx {
			idx[i] = i
		}
		rowsByGroup[group.Implicit] = idx
	} else {
		for i, k := range groupKeys {
			rowsByGroup[k] = append(rowsByGroup[k], i)
		}
	}

	t.batches = make(map[group.Key]Batch, len(rowsByGroup))
	t.keys = make([]group.Key, 0, len(rowsByGroup))
	for k, idx := range rowsByGroup {
		gx := mat.NewDense(len(idx), t.nCols, nil)
		gy := make([]float64, len(idx))
		for bi, ri := range idx {
			for j := 0; j < t.nCols; j++ {
				gx.Set(bi, j, t.x.At(ri, j))
			}
			gy[bi] = t.y[ri]
		}
		t.batches[k] = Batch{X: gx, Y: gy}
		t.keys = append(t.keys, k)
	}
	sortKeys(t.keys)
}

func sortKeys(keys []group.Key) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
}

// NRows returns the total row count.
func (t *Table) NRows() int { return t.nRows }

// NFeatures returns the feature dimension.
func (t *Table) NFeatures() int { return t.nCols }

// Groups returns the sorted distinct group keys discovered in the data.
func (t *Table) Groups() []group.Key {
	keys := make([]group.Key, len(t.keys))
	copy(keys, t.keys)
	return keys
}

// Batch returns the rows of one group.
func (t *Table) Batch(k group.Key) (Batch, bool) {
	b, ok := t.batches[k]
	return b, ok
}
