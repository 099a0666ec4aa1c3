package igd

import (
	"math"

	"github.com/flockml/flock/dataset"
	"github.com/flockml/flock/pkg/errors"
)

// BinaryLabels records the binary label encoding of a classification run.
// The smaller of the two distinct dependent-variable values becomes the
// negative label (encoded -1.0), the other the positive label (+1.0).
// Prediction inverts the encoding through Decode.
type BinaryLabels struct {
	Negative float64
	Positive float64
}

// ScanLabels scans the distinct non-null dependent-variable values of the
// dataset. Exactly two distinct values are required for classification;
// anything else is a configuration error detected before any round runs.
// NaN targets count as null and are skipped.
func ScanLabels(ds dataset.Dataset) (*BinaryLabels, error) {
	distinct := make([]float64, 0, 2)
	for _, g := range ds.Groups() {
		b, ok := ds.Batch(g)
		if !ok {
			continue
		}
		for _, v := range b.Y {
			if math.IsNaN(v) {
				continue
			}
			seen := false
			for _, d := range distinct {
				if d == v {
					seen = true
					break
				}
			}
			if !seen {
				distinct = append(distinct, v)
				if len(distinct) > 2 {
					return nil, errors.NewValidationError("dependent variable",
						"classification requires exactly two distinct label values, found more", distinct)
				}
			}
		}
	}

	if len(distinct) != 2 {
		return nil, errors.NewValidationError("dependent variable",
			"classification requires exactly two distinct label values", distinct)
	}

	// Stable order: the smaller value is the negative label.
	if distinct[0] > distinct[1] {
		distinct[0], distinct[1] = distinct[1], distinct[0]
	}
	return &BinaryLabels{Negative: distinct[0], Positive: distinct[1]}, nil
}

// Encode maps an original label to its ±1.0 encoding.
func (b *BinaryLabels) Encode(v float64) float64 {
	if v == b.Positive {
		return 1.0
	}
	return -1.0
}

// Decode maps the sign of a decision value back to the original label.
func (b *BinaryLabels) Decode(score float64) float64 {
	if score >= 0 {
		return b.Positive
	}
	return b.Negative
}
