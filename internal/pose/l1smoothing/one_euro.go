package l1smoothing

import "math"

// OneEuroFilter is a first-order low-pass filter whose cutoff frequency
// rises with the estimated speed of the signal. Slow signals are smoothed
// hard to remove jitter; fast signals get a higher cutoff to limit lag.
type OneEuroFilter struct {
	frequency float64 // Hz, used when a sample carries no usable dt
	minCutoff float64 // Hz
	beta      float64 // cutoff gain per unit of speed
	dCutoff   float64 // Hz, cutoff for the derivative estimate

	initialized bool
	lastTime    float64
	value       float64 // filtered value
	deriv       float64 // filtered derivative
}

// NewOneEuroFilter creates a filter with the given parameters.
func NewOneEuroFilter(frequency, minCutoff, beta, dCutoff float64) *OneEuroFilter {
	return &OneEuroFilter{
		frequency: frequency,
		minCutoff: minCutoff,
		beta:      beta,
		dCutoff:   dCutoff,
	}
}

// smoothingFactor returns the exponential smoothing weight for a cutoff
// frequency (Hz) at sample period dt (seconds).
func smoothingFactor(cutoff, dt float64) float64 {
	tau := 1.0 / (2 * math.Pi * cutoff)
	return 1.0 / (1.0 + tau/dt)
}

// Filter consumes one sample at time t (seconds) and returns the filtered
// value. The first sample after creation or Reset is returned unchanged.
func (f *OneEuroFilter) Filter(x, t float64) float64 {
	if !f.initialized {
		f.initialized = true
		f.lastTime = t
		f.value = x
		f.deriv = 0
		return x
	}

	dt := t - f.lastTime
	if dt <= 0 {
		dt = 1.0 / f.frequency
	}
	f.lastTime = t

	rawDeriv := (x - f.value) / dt
	ad := smoothingFactor(f.dCutoff, dt)
	f.deriv += ad * (rawDeriv - f.deriv)

	cutoff := f.minCutoff + f.beta*math.Abs(f.deriv)
	a := smoothingFactor(cutoff, dt)
	f.value += a * (x - f.value)
	return f.value
}

// Value returns the current filtered value.
func (f *OneEuroFilter) Value() float64 {
	return f.value
}

// Reset clears the filter state so the next sample re-initializes it.
func (f *OneEuroFilter) Reset() {
	f.initialized = false
	f.lastTime = 0
	f.value = 0
	f.deriv = 0
}
