package synth

const (
	attackEnd  = 0.05
	decayEnd   = 0.20
	sustainEnd = 0.80

	// SustainLevel is the envelope gain held between decay and release.
	SustainLevel = 0.7
)

// ADSR returns the envelope gain for sample i of a note n samples long.
//
// The envelope ramps 0→1 over the first 5%, decays to 0.7 by 20%, holds until
// 80% and then releases linearly toward 0.
func ADSR(i, n int) float64 {
	if n <= 0 {
		return 0
	}
	p := float64(i) / float64(n)
	switch {
	case p < attackEnd:
		return p / attackEnd
	case p < decayEnd:
		return 1 - (1-SustainLevel)*(p-attackEnd)/(decayEnd-attackEnd)
	case p < sustainEnd:
		return SustainLevel
	default:
		return SustainLevel * (1 - (p-sustainEnd)/(1-sustainEnd))
	}
}
