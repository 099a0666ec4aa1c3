package igd

// NextStepSize computes the step size for the next round from the previous
// one. iteration is the number of completed rounds.
//
// A positive decay factor selects geometric decay; a zero or negative decay
// factor selects the harmonic schedule, which ignores the previous value.
// A decay factor of exactly 1 yields a constant step size.
//
// Pure and deterministic; the driver applies it once after each round, and
// its timing relative to the convergence test does not matter because the
// result only affects the next round.
func NextStepSize(previous float64, iteration int, initial, decay float64) float64 {
	if decay > 0 {
		return previous * decay
	}
	return initial / float64(iteration+1)
}
