package main

import (
	"fmt"
	"io"
	"time"

	"github.com/banshee-data/posture.report/internal/pose/l3phases"
	"github.com/banshee-data/posture.report/internal/pose/l4framing"
	"github.com/banshee-data/posture.report/internal/pose/pipeline"
	"github.com/banshee-data/posture.report/internal/units"
)

// printer writes human-readable session events, suppressing repeats.
type printer struct {
	w     io.Writer
	tz    string
	units string
	quiet bool

	frame     int
	phase     l3phases.Phase
	lastFrame *l4framing.CameraFeedback
}

func (p *printer) stamp(r pipeline.FrameResult) string {
	if r.Timestamp.IsZero() {
		return fmt.Sprintf("#%d", p.frame)
	}
	t, err := units.ConvertTime(r.Timestamp, p.tz)
	if err != nil {
		t = r.Timestamp
	}
	return t.Format(time.TimeOnly + ".000")
}

func (p *printer) print(r pipeline.FrameResult) {
	defer func() { p.frame++ }()
	if p.quiet {
		return
	}
	at := p.stamp(r)
	a := r.Analysis

	if r.BankReset {
		fmt.Fprintf(p.w, "%s tracking lost, filters reset\n", at)
	}
	if a.Phase != p.phase {
		if !a.Degraded {
			fmt.Fprintf(p.w, "%s phase %s (%.1f %s)\n", at, a.Phase, units.ConvertAngle(a.Angle, p.units), p.units)
		}
		p.phase = a.Phase
	}
	// Form errors repeat on every frame of a bad posture; report the ones
	// standing at the moment a rep is credited.
	if a.RepIncremented {
		fmt.Fprintf(p.w, "%s rep %d score %d\n", at, a.RepCount, a.FormScore)
		for _, e := range a.Errors {
			fmt.Fprintf(p.w, "%s   %s: %s\n", at, e.Severity, e.Message)
		}
	}
	if fb := r.Feedback; fb != nil && (p.lastFrame == nil || *p.lastFrame != *fb) {
		fmt.Fprintf(p.w, "%s camera %s: %s\n", at, fb.Type, fb.Message)
	}
	p.lastFrame = r.Feedback
}
