package l3phases

import (
	"fmt"

	"github.com/banshee-data/posture.report/internal/config"
	"github.com/banshee-data/posture.report/internal/pose"
)

// Analyzer classifies frames for one movement with thresholds resolved
// once at session start.
type Analyzer struct {
	movement   Movement
	def        movementDef
	thresholds Thresholds
}

// NewAnalyzer returns an analyzer for m with tuning overlaid on the
// movement defaults. tuning may be nil.
func NewAnalyzer(m Movement, tuning *config.MovementTuning) (*Analyzer, error) {
	return NewAnalyzerWithThresholds(m, ThresholdsFromTuning(m, tuning))
}

// NewAnalyzerWithThresholds returns an analyzer for m using th as given.
func NewAnalyzerWithThresholds(m Movement, th Thresholds) (*Analyzer, error) {
	def, ok := definitions[m]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMovement, m)
	}
	return &Analyzer{movement: m, def: def, thresholds: th}, nil
}

// Movement returns the analyzed movement.
func (a *Analyzer) Movement() Movement { return a.movement }

// Thresholds returns the resolved thresholds.
func (a *Analyzer) Thresholds() Thresholds { return a.thresholds }

// Analyze classifies one smoothed frame against the caller's session
// state. state is read, never written; a nil state is a fresh session.
func Analyze(m Movement, frame pose.Frame, tuning *config.MovementTuning, state *SessionState) (AnalysisResult, error) {
	a, err := NewAnalyzer(m, tuning)
	if err != nil {
		return AnalysisResult{}, err
	}
	return a.Analyze(frame, state), nil
}

// Analyze classifies one smoothed frame against the caller's session
// state. state is read, never written; a nil state is a fresh session.
func (a *Analyzer) Analyze(frame pose.Frame, state *SessionState) AnalysisResult {
	st := NewSessionState()
	if state != nil {
		st = *state
	}
	last := a.normalize(st.LastPhase)

	m, ok := a.def.measure(frame.Landmarks, a.thresholds)
	if !ok {
		// Pose dropouts are routine: hold the previous phase and skip
		// rep and form evaluation for this frame.
		return AnalysisResult{
			Phase:        last,
			RepCount:     st.RepCount,
			Errors:       []FormError{},
			RepPhase:     st.LastRepPhase,
			ExtendedSide: st.LastExtendedSide,
			PendingSide:  st.PendingSide,
			Degraded:     true,
		}
	}

	phase, repPhase, credited := a.transition(last, st.LastRepPhase, m.angle)

	res := AnalysisResult{
		Phase:          phase,
		RepIncremented: credited,
		RepCount:       st.RepCount,
		RepPhase:       repPhase,
		ExtendedSide:   st.LastExtendedSide,
		Errors:         []FormError{},
		Angle:          m.angle,
	}
	if credited {
		res.RepCount++
	}

	for _, rule := range a.def.rules {
		if fe, violated := rule(frame.Landmarks, a.thresholds); violated {
			fe.Timestamp = frame.Timestamp
			res.Errors = append(res.Errors, fe)
		}
	}
	res.IsCorrect = len(res.Errors) == 0
	res.FormScore = max(0, 100-a.thresholds.ScorePenalty*len(res.Errors))

	if a.def.sided {
		side := a.bendSide(last, m.side, st.PendingSide)
		if phase == a.def.active {
			res.PendingSide = side
		}
		if credited && side != pose.SideNone {
			// Appended after scoring: a sequencing warning is not a posture fault.
			if a.thresholds.RequireAlternation && side == st.LastExtendedSide {
				res.Errors = append(res.Errors, FormError{
					Type:      ErrorSameSideRepeated,
					Message:   "Alternate sides: bend to the other side next",
					Severity:  SeverityWarning,
					Timestamp: frame.Timestamp,
				})
			}
			res.ExtendedSide = side
		}
	}
	return res
}

// bendSide returns the side of the current bend. The last side observed
// while active is carried forward, so a return frame too shallow to show a
// side still credits the bend it ends.
func (a *Analyzer) bendSide(last Phase, observed, pending pose.Side) pose.Side {
	if observed != pose.SideNone {
		return observed
	}
	if last == a.def.active {
		return pending
	}
	return pose.SideNone
}

// normalize maps phases foreign to this movement (including the empty
// phase) to neutral.
func (a *Analyzer) normalize(p Phase) Phase {
	switch p {
	case a.def.active, PhaseReturn:
		return p
	}
	return PhaseNeutral
}

// transition applies the three-phase hysteresis. The return phase is the
// latch: every active→return transition credits exactly once, and a new
// credit needs the subject back in active first. The rep phase is
// bookkeeping for callers and never gates a credit.
func (a *Analyzer) transition(last, lastRep Phase, angle float64) (phase, repPhase Phase, credited bool) {
	active := a.def.active
	th := a.thresholds

	switch last {
	case active:
		if angle < th.ActiveAngle {
			return active, lastRep, false
		}
		return PhaseReturn, PhaseReturn, true

	case PhaseReturn:
		switch {
		case angle < th.ActiveAngle:
			return active, active, false
		case angle >= th.NeutralAngle:
			return PhaseNeutral, PhaseNeutral, false
		}
		return PhaseReturn, lastRep, false

	default:
		if angle < th.ActiveAngle {
			return active, active, false
		}
		return PhaseNeutral, lastRep, false
	}
}
