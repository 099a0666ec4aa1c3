package igd

import (
	"math"
	"testing"

	"github.com/flockml/flock/core/group"
	"github.com/flockml/flock/pkg/errors"
)

// captureWarnings routes the global warning handler into a slice for the
// duration of one test.
func captureWarnings(t *testing.T) *[]error {
	t.Helper()
	var warnings []error
	errors.SetWarningHandler(func(w error) {
		warnings = append(warnings, w)
	})
	t.Cleanup(func() { errors.SetWarningHandler(nil) })
	return &warnings
}

func TestResolveEpsilonScalar(t *testing.T) {
	warnings := captureWarnings(t)

	p := DefaultParams(Regression)
	p.Epsilon = 0.5

	src := ResolveEpsilon(p, []group.Key{"a", "b"})
	if got := src.ForGroup("a"); got != 0.5 {
		t.Errorf("ForGroup(a) = %v, want 0.5", got)
	}
	if len(*warnings) != 0 {
		t.Errorf("unexpected warnings: %v", *warnings)
	}
}

func TestResolveEpsilonTableWithFallback(t *testing.T) {
	warnings := captureWarnings(t)

	p := DefaultParams(Regression)
	p.Epsilon = 0.1
	p.EpsilonTable = map[group.Key]float64{
		"a": 0.3,
		"c": math.NaN(),
	}

	src := ResolveEpsilon(p, []group.Key{"a", "b", "c"})

	if got := src.ForGroup("a"); got != 0.3 {
		t.Errorf("ForGroup(a) = %v, want 0.3", got)
	}
	// Absent from the table: scalar fallback.
	if got := src.ForGroup("b"); got != 0.1 {
		t.Errorf("ForGroup(b) = %v, want 0.1", got)
	}
	// NaN in the table counts as absent.
	if got := src.ForGroup("c"); got != 0.1 {
		t.Errorf("ForGroup(c) = %v, want 0.1", got)
	}
	if len(*warnings) != 0 {
		t.Errorf("unexpected warnings: %v", *warnings)
	}
}

func TestResolveEpsilonTableIgnoredForClassification(t *testing.T) {
	warnings := captureWarnings(t)

	p := DefaultParams(Classification)
	p.Epsilon = 0.1
	p.EpsilonTable = map[group.Key]float64{"a": 0.9}

	src := ResolveEpsilon(p, []group.Key{"a"})
	if got := src.ForGroup("a"); got != 0.1 {
		t.Errorf("ForGroup(a) = %v, want the scalar 0.1", got)
	}

	if len(*warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", *warnings)
	}
	var ignored *errors.IgnoredOptionWarning
	if !errors.As((*warnings)[0], &ignored) {
		t.Errorf("warning type = %T, want *IgnoredOptionWarning", (*warnings)[0])
	}
}

func TestResolveEpsilonTableIgnoredWhenUngrouped(t *testing.T) {
	warnings := captureWarnings(t)

	p := DefaultParams(Regression)
	p.Epsilon = 0.2
	p.EpsilonTable = map[group.Key]float64{"a": 0.9}

	src := ResolveEpsilon(p, []group.Key{group.Implicit})
	if got := src.ForGroup(group.Implicit); got != 0.2 {
		t.Errorf("ForGroup(Implicit) = %v, want the scalar 0.2", got)
	}
	if len(*warnings) != 1 {
		t.Errorf("warnings = %v, want exactly one", *warnings)
	}
}
