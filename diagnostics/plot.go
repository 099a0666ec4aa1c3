// Package diagnostics renders training diagnostics such as per-group loss
// curves to image files.
package diagnostics

import (
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/flockml/flock/core/group"
	"github.com/flockml/flock/pkg/errors"
)

// PlotLossCurves writes a PNG with one line per group showing training loss
// against the iteration number. The history map is the LossHistory returned
// by a fitted estimator.
func PlotLossCurves(history map[group.Key][]float64, path string) error {
	if len(history) == 0 {
		return errors.NewValueError("PlotLossCurves", "empty loss history")
	}

	p := plot.New()
	p.Title.Text = "Training loss"
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "loss"

	keys := make([]group.Key, 0, len(history))
	for k := range history {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for idx, k := range keys {
		losses := history[k]
		pts := make(plotter.XYs, len(losses))
		for i, l := range losses {
			pts[i].X = float64(i + 1)
			pts[i].Y = l
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return errors.Wrapf(err, "flock: PlotLossCurves: group %q", string(k))
		}
		line.Color = plotutil.Color(idx)
		line.Dashes = plotutil.Dashes(idx)
		p.Add(line)

		name := string(k)
		if k == group.Implicit {
			name = "all rows"
		}
		p.Legend.Add(name, line)
	}
	p.Legend.Top = true

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "flock: PlotLossCurves: save %s", path)
	}
	return nil
}
