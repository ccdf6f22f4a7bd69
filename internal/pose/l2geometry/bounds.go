package l2geometry

import (
	"math"

	"github.com/banshee-data/posture.report/internal/pose"
)

// VisibilityThreshold is the confidence above which a landmark counts as
// present for framing decisions.
const VisibilityThreshold = 0.6

// Box is an axis-aligned bounding box in normalized frame coordinates.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent of the box.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// MaxDim returns the larger of width and height.
func (b Box) MaxDim() float64 { return math.Max(b.Width(), b.Height()) }

// Summary aggregates the visible part of a landmark set.
type Summary struct {
	Box          Box  // union of visible landmarks; zero when none visible
	VisibleCount int  // landmarks above the threshold
	AnyVisible   bool // at least one landmark above the threshold
	HeadVisible  bool // any of pose.HeadIndices
	HipsVisible  bool // any of pose.HipIndices
	KneesVisible bool // any of pose.KneeIndices
}

// Visible reports whether lms has a landmark at idx whose visibility
// exceeds threshold.
func Visible(lms []pose.Landmark, idx int, threshold float64) bool {
	return idx >= 0 && idx < len(lms) && lms[idx].Visibility > threshold
}

// AnyVisible reports whether any index in group is visible.
func AnyVisible(lms []pose.Landmark, group []int, threshold float64) bool {
	for _, idx := range group {
		if Visible(lms, idx, threshold) {
			return true
		}
	}
	return false
}

// Summarize computes the bounding box and group flags over landmarks whose
// visibility exceeds threshold.
func Summarize(lms []pose.Landmark, threshold float64) Summary {
	var s Summary
	box := Box{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, lm := range lms {
		if lm.Visibility <= threshold {
			continue
		}
		s.VisibleCount++
		box.MinX = math.Min(box.MinX, lm.X)
		box.MinY = math.Min(box.MinY, lm.Y)
		box.MaxX = math.Max(box.MaxX, lm.X)
		box.MaxY = math.Max(box.MaxY, lm.Y)
	}
	if s.VisibleCount == 0 {
		return s
	}
	s.Box = box
	s.AnyVisible = true
	s.HeadVisible = AnyVisible(lms, pose.HeadIndices, threshold)
	s.HipsVisible = AnyVisible(lms, pose.HipIndices, threshold)
	s.KneesVisible = AnyVisible(lms, pose.KneeIndices, threshold)
	return s
}
