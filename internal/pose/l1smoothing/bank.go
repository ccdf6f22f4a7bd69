package l1smoothing

import (
	"github.com/banshee-data/posture.report/internal/pose"
	"github.com/banshee-data/posture.report/internal/timeutil"
)

// Filter constants tuned for 30 fps human-pose tracking on normalized
// coordinates. They are not per-call configuration.
const (
	Frequency        = 30.0 // Hz, expected detector frame rate
	MinCutoff        = 1.0  // Hz, lower means smoother with more lag
	Beta             = 0.5  // cutoff increase per unit/s of coordinate speed
	DerivativeCutoff = 1.0  // Hz, for the speed estimate

	axesPerLandmark = 3
)

// FilterBank holds one OneEuroFilter per landmark axis (x, y, z).
// Visibility is a confidence signal and is never filtered.
//
// A FilterBank is owned by a single tracking session and is not safe for
// concurrent use.
type FilterBank struct {
	filters []*OneEuroFilter
	watch   *timeutil.Stopwatch
}

// NewFilterBank allocates NumLandmarks×3 filters timed by the real
// monotonic clock.
func NewFilterBank() *FilterBank {
	return NewFilterBankWithClock(timeutil.RealClock{})
}

// NewFilterBankWithClock allocates a bank whose implicit timestamps come
// from clock.
func NewFilterBankWithClock(clock timeutil.Clock) *FilterBank {
	filters := make([]*OneEuroFilter, pose.NumLandmarks*axesPerLandmark)
	for i := range filters {
		filters[i] = NewOneEuroFilter(Frequency, MinCutoff, Beta, DerivativeCutoff)
	}
	return &FilterBank{
		filters: filters,
		watch:   timeutil.NewStopwatch(clock),
	}
}

// Size returns the number of landmarks the bank can filter.
func (b *FilterBank) Size() int {
	return len(b.filters) / axesPerLandmark
}

// Apply filters landmarks using the elapsed time on the bank's clock.
func (b *FilterBank) Apply(landmarks []pose.Landmark) []pose.Landmark {
	return b.ApplyAt(landmarks, b.watch.Seconds())
}

// ApplyAt filters landmarks as a sample taken at t seconds. t must be
// non-decreasing across calls. The input slice is not modified; landmarks
// beyond the bank's size are passed through unfiltered.
func (b *FilterBank) ApplyAt(landmarks []pose.Landmark, t float64) []pose.Landmark {
	out := make([]pose.Landmark, len(landmarks))
	size := b.Size()
	for i, lm := range landmarks {
		if i >= size {
			out[i] = lm
			continue
		}
		base := i * axesPerLandmark
		out[i] = pose.Landmark{
			X:          b.filters[base].Filter(lm.X, t),
			Y:          b.filters[base+1].Filter(lm.Y, t),
			Z:          b.filters[base+2].Filter(lm.Z, t),
			Visibility: lm.Visibility,
		}
	}
	return out
}

// Reset clears every filter and restarts the implicit time base. Call it
// when tracking is lost or a new subject enters the frame.
func (b *FilterBank) Reset() {
	for _, f := range b.filters {
		f.Reset()
	}
	b.watch.Restart()
}
