package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/posture.report/internal/config"
	"github.com/banshee-data/posture.report/internal/monitoring"
	"github.com/banshee-data/posture.report/internal/pose"
	"github.com/banshee-data/posture.report/internal/pose/l1smoothing"
	"github.com/banshee-data/posture.report/internal/pose/l2geometry"
	"github.com/banshee-data/posture.report/internal/pose/l3phases"
	"github.com/banshee-data/posture.report/internal/pose/l4framing"
	"github.com/banshee-data/posture.report/internal/timeutil"
)

// ErrOutOfOrder is returned by Process for a frame timestamped before the
// previous one.
var ErrOutOfOrder = errors.New("frame out of order")

// FrameResult is everything a Session derives from one frame.
type FrameResult struct {
	SessionID string                    `json:"session_id"`
	Timestamp time.Time                 `json:"timestamp"`
	Analysis  l3phases.AnalysisResult   `json:"analysis"`
	Feedback  *l4framing.CameraFeedback `json:"feedback"`

	// Lost is set when no landmark was visible. Lost frames bypass the
	// filter bank.
	Lost bool `json:"lost,omitempty"`
	// BankReset is set on the frame that triggered a filter bank reset.
	BankReset bool `json:"bank_reset,omitempty"`

	Smoothed []pose.Landmark `json:"-"`
}

// Session processes the frames of one exercise set.
type Session struct {
	id       string
	analyzer *l3phases.Analyzer
	bank     *l1smoothing.FilterBank
	state    l3phases.SessionState
	logf     func(format string, v ...any)

	lostLimit      int
	recoveryNotice bool

	origin     time.Time // first timestamped frame since the last reset
	last       time.Time
	lostFrames int
	warned     bool

	stats stats
}

// NewSession starts a session for m. cfg may be nil to use defaults.
func NewSession(m l3phases.Movement, cfg *config.TuningConfig) (*Session, error) {
	return NewSessionWithClock(m, cfg, timeutil.RealClock{})
}

// NewSessionWithClock is NewSession with the clock used to time frames
// that carry no timestamp.
func NewSessionWithClock(m l3phases.Movement, cfg *config.TuningConfig, clock timeutil.Clock) (*Session, error) {
	a, err := l3phases.NewAnalyzer(m, cfg.Movement(m.String()))
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	s := &Session{
		id:             id,
		analyzer:       a,
		bank:           l1smoothing.NewFilterBankWithClock(clock),
		state:          l3phases.NewSessionState(),
		logf:           monitoring.Prefixed(fmt.Sprintf("[session %s] ", id[:8])),
		lostLimit:      cfg.GetLostFramesBeforeReset(),
		recoveryNotice: cfg.GetFramingRecoveryNotice(),
	}
	s.logf("started %s", m)
	return s, nil
}

// ID returns the session's UUID.
func (s *Session) ID() string { return s.id }

// Movement returns the analyzed movement.
func (s *Session) Movement() l3phases.Movement { return s.analyzer.Movement() }

// State returns a copy of the current session state.
func (s *Session) State() l3phases.SessionState { return s.state }

// Process runs one frame through the pipeline and folds the analysis
// back into the session state.
func (s *Session) Process(frame pose.Frame) (FrameResult, error) {
	if !frame.Timestamp.IsZero() {
		if !s.last.IsZero() && frame.Timestamp.Before(s.last) {
			return FrameResult{}, fmt.Errorf("%w: %s before %s", ErrOutOfOrder,
				frame.Timestamp.Format(time.RFC3339Nano), s.last.Format(time.RFC3339Nano))
		}
		s.last = frame.Timestamp
	}

	res := FrameResult{SessionID: s.id, Timestamp: frame.Timestamp}

	if !l2geometry.Summarize(frame.Landmarks, l2geometry.VisibilityThreshold).AnyVisible {
		res.Lost = true
		s.lostFrames++
		if s.lostFrames == s.lostLimit {
			s.resetBank()
			res.BankReset = true
			s.logf("tracking lost for %d frames, filter bank reset", s.lostFrames)
		}
		res.Smoothed = frame.Landmarks
	} else {
		s.lostFrames = 0
		res.Smoothed = s.smooth(frame)
	}

	smoothed := pose.Frame{Timestamp: frame.Timestamp, Landmarks: res.Smoothed}
	res.Analysis = s.analyzer.Analyze(smoothed, &s.state)
	s.state.Apply(res.Analysis)
	if res.Analysis.RepIncremented {
		s.logf("rep %d credited (score %d)", res.Analysis.RepCount, res.Analysis.FormScore)
	}

	res.Feedback = s.framing(res.Smoothed)
	s.stats.add(res)
	return res, nil
}

func (s *Session) smooth(frame pose.Frame) []pose.Landmark {
	if frame.Timestamp.IsZero() {
		return s.bank.Apply(frame.Landmarks)
	}
	if s.origin.IsZero() {
		s.origin = frame.Timestamp
	}
	return s.bank.ApplyAt(frame.Landmarks, frame.Timestamp.Sub(s.origin).Seconds())
}

// framing evaluates the smoothed frame and swaps the first acceptable
// frame after a warning for a one-shot success notice.
func (s *Session) framing(lms []pose.Landmark) *l4framing.CameraFeedback {
	fb := l4framing.Evaluate(lms)
	switch {
	case fb != nil:
		if fb.Type == l4framing.FeedbackWarning {
			s.warned = true
		}
	case s.warned:
		s.warned = false
		if s.recoveryNotice {
			return l4framing.Recovered()
		}
	}
	return fb
}

func (s *Session) resetBank() {
	s.bank.Reset()
	s.origin = time.Time{}
	s.stats.resets++
}

// Reset restarts the session for a new set: filters, phase state and
// framing history are cleared. Summary statistics are kept.
func (s *Session) Reset() {
	s.resetBank()
	s.state = l3phases.NewSessionState()
	s.lostFrames = 0
	s.warned = false
	s.last = time.Time{}
	s.logf("reset")
}

// Summary returns aggregate statistics for every frame processed so far.
func (s *Session) Summary() Summary {
	return s.stats.summary(s.id, s.analyzer.Movement(), s.state.RepCount)
}
