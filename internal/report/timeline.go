// Package report renders a session's controlling angle over time, with the
// phase thresholds and credited reps, as an interactive HTML chart
// (go-echarts) or a static PNG (gonum/plot).
package report

import (
	"time"

	"github.com/banshee-data/posture.report/internal/pose/l3phases"
	"github.com/banshee-data/posture.report/internal/pose/pipeline"
)

// nominalFrameRate times untimestamped frames.
const nominalFrameRate = 30.0

// Point is one analyzed frame on the timeline.
type Point struct {
	Seconds   float64
	Angle     float64
	Phase     l3phases.Phase
	FormScore int
	Rep       bool
	Degraded  bool
}

// Timeline accumulates frame results for one session.
type Timeline struct {
	Title      string
	Thresholds l3phases.Thresholds
	Points     []Point

	origin time.Time
}

// NewTimeline returns an empty timeline for a session analyzed with th.
func NewTimeline(title string, th l3phases.Thresholds) *Timeline {
	return &Timeline{Title: title, Thresholds: th}
}

// Add appends one frame result.
func (tl *Timeline) Add(r pipeline.FrameResult) {
	secs := float64(len(tl.Points)) / nominalFrameRate
	if !r.Timestamp.IsZero() {
		if tl.origin.IsZero() {
			tl.origin = r.Timestamp
		}
		secs = r.Timestamp.Sub(tl.origin).Seconds()
	}
	a := r.Analysis
	tl.Points = append(tl.Points, Point{
		Seconds:   secs,
		Angle:     a.Angle,
		Phase:     a.Phase,
		FormScore: a.FormScore,
		Rep:       a.RepIncremented,
		Degraded:  a.Degraded,
	})
}

// Reps returns the number of credited reps on the timeline.
func (tl *Timeline) Reps() int {
	n := 0
	for _, p := range tl.Points {
		if p.Rep {
			n++
		}
	}
	return n
}
