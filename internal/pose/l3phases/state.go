package l3phases

import "github.com/banshee-data/posture.report/internal/pose"

// SessionState is the caller-owned record threaded through every analysis
// call of one exercise session. The engine only reads it; the caller
// persists each result back with Apply before the next call.
//
// SessionState is not safe for concurrent use: one session, one owner.
type SessionState struct {
	LastPhase        Phase     `json:"last_phase"`
	LastRepPhase     Phase     `json:"last_rep_phase,omitempty"`
	LastExtendedSide pose.Side `json:"last_extended_side,omitempty"`
	PendingSide      pose.Side `json:"pending_side,omitempty"`
	RepCount         int       `json:"rep_count"`
}

// NewSessionState returns the state for a freshly started exercise.
func NewSessionState() SessionState {
	return SessionState{LastPhase: PhaseNeutral}
}

// Apply folds an analysis result into the state.
func (s *SessionState) Apply(r AnalysisResult) {
	s.LastPhase = r.Phase
	s.LastRepPhase = r.RepPhase
	s.LastExtendedSide = r.ExtendedSide
	s.PendingSide = r.PendingSide
	s.RepCount = r.RepCount
}
