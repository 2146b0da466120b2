// Package water holds the sine-wave tables that displace surfaces in the
// vertex shader.
package water

// Waves is a sum-of-sines table. The three slices have equal length.
type Waves struct {
	Amplitude []float32
	Frequency []float32
	Phase     []float32
}

// Len returns the number of sine terms.
func (w Waves) Len() int {
	return len(w.Amplitude)
}

// Ripple is the subtle three-term displacement applied to ordinary surfaces.
var Ripple = Waves{
	Amplitude: []float32{0.01, 0.02, 0.05},
	Frequency: []float32{500, 0.2, 0.1},
	Phase:     []float32{0, 1, 2},
}

// Ocean is the six-term table for water surfaces.
var Ocean = Waves{
	Amplitude: []float32{0.1, 0.08, 0.3, 0.2, 0.04, 0.12},
	Frequency: []float32{17, 20, 5, 6, 16, 4.9},
	Phase:     []float32{0, 3, 7, 0.5, 2.5, 1.3},
}

// For returns Ocean for water surfaces and Ripple otherwise.
func For(isWater bool) Waves {
	if isWater {
		return Ocean
	}
	return Ripple
}
