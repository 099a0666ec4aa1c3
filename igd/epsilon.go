package igd

import (
	"math"

	"github.com/flockml/flock/core/group"
	"github.com/flockml/flock/pkg/errors"
)

// EpsilonSource yields the insensitivity margin the update kernel applies to
// one group during a dataset pass. It is resolved once, before the loop.
type EpsilonSource interface {
	ForGroup(k group.Key) float64
}

// scalarEpsilon applies one margin to every group.
type scalarEpsilon float64

func (e scalarEpsilon) ForGroup(group.Key) float64 { return float64(e) }

// tableEpsilon holds a fully resolved group-to-margin lookup. Every dataset
// group has an entry; fallbacks were applied at resolution time.
type tableEpsilon map[group.Key]float64

func (e tableEpsilon) ForGroup(k group.Key) float64 { return e[k] }

// ResolveEpsilon produces the margin source for a run.
//
// A per-group table only applies to grouped regression runs. In
// classification mode, in ungrouped runs, or when no table was supplied the
// scalar margin is used for every group; a table supplied anyway raises a
// non-fatal warning and is ignored. Otherwise the dataset's group keys are
// left-joined against the table: groups absent from the table, or mapped to
// NaN, fall back to the scalar margin.
func ResolveEpsilon(p Params, groups []group.Key) EpsilonSource {
	grouped := len(groups) > 1 || (len(groups) == 1 && groups[0] != group.Implicit)

	if p.EpsilonTable == nil {
		return scalarEpsilon(p.Epsilon)
	}
	if p.Task == Classification {
		errors.Warn(errors.NewIgnoredOptionWarning("epsilon_table",
			"margins only apply to regression; the scalar epsilon is used"))
		return scalarEpsilon(p.Epsilon)
	}
	if !grouped {
		errors.Warn(errors.NewIgnoredOptionWarning("epsilon_table",
			"no grouping columns were configured; the scalar epsilon is used"))
		return scalarEpsilon(p.Epsilon)
	}

	resolved := make(tableEpsilon, len(groups))
	for _, g := range groups {
		v, ok := p.EpsilonTable[g]
		if !ok || math.IsNaN(v) {
			v = p.Epsilon
		}
		resolved[g] = v
	}
	return resolved
}
