package ai

// Random is the source of every stochastic decision. *rand.Rand satisfies it;
// tests substitute scripted sources.
type Random interface {
	Float64() float64
	Intn(n int) int
}

// chance rolls against p. Certain and impossible outcomes consume no draw.
func chance(rng Random, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	if rng == nil {
		return false
	}
	return rng.Float64() < p
}
