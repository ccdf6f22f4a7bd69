package l3phases

import (
	"time"

	"github.com/banshee-data/posture.report/internal/pose"
)

// Severity grades a form error.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	return s == SeverityWarning || s == SeverityError
}

// Stable form error types.
const (
	ErrorHipDrop          = "hip_drop"
	ErrorKneeBend         = "knee_bend"
	ErrorTrunkRotation    = "trunk_rotation"
	ErrorSameSideRepeated = "same_side_repeated"
)

// FormError is one violated form rule for an analyzed frame.
type FormError struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}

// AnalysisResult is the output of one analysis call.
type AnalysisResult struct {
	Phase          Phase       `json:"phase"`
	RepIncremented bool        `json:"rep_incremented"`
	IsCorrect      bool        `json:"is_correct"`
	RepCount       int         `json:"rep_count"`  // caller's total including this call
	FormScore      int         `json:"form_score"` // 0-100
	Errors         []FormError `json:"errors"`

	// Angle is the controlling angle in degrees; zero when degraded.
	Angle float64 `json:"angle_deg,omitempty"`

	// Bookkeeping for SessionState.Apply.
	RepPhase     Phase     `json:"rep_phase,omitempty"`
	ExtendedSide pose.Side `json:"extended_side,omitempty"`
	PendingSide  pose.Side `json:"pending_side,omitempty"` // side of the bend in progress

	// Degraded is set when required landmarks were not visible enough and
	// the frame was skipped.
	Degraded bool `json:"degraded,omitempty"`
}
