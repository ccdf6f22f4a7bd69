package l4framing

import (
	"github.com/banshee-data/posture.report/internal/pose"
	"github.com/banshee-data/posture.report/internal/pose/l2geometry"
)

// FeedbackType is the display class of a framing message.
type FeedbackType string

const (
	FeedbackWarning FeedbackType = "warning"
	FeedbackInfo    FeedbackType = "info"
	FeedbackSuccess FeedbackType = "success"
)

// Valid reports whether t is a known feedback type.
func (t FeedbackType) Valid() bool {
	switch t {
	case FeedbackWarning, FeedbackInfo, FeedbackSuccess:
		return true
	}
	return false
}

// CameraFeedback is one framing message. A nil *CameraFeedback means no
// message should be shown.
type CameraFeedback struct {
	Message string       `json:"message"`
	Type    FeedbackType `json:"type"`
}

// Framing messages.
const (
	MsgNoPerson        = "No person detected"
	MsgMoveBackForBody = "Move back to show body"
	MsgCannotSeeBody   = "Cannot see body"
	MsgCannotSeeHead   = "Cannot see head"
	MsgTooFar          = "Too far, move closer"
	MsgTooCloseTop     = "Too close to top"
	MsgTooCloseBottom  = "Too close to bottom"
	MsgTooCloseEdge    = "Too close to edge"
	MsgCannotSeeKnees  = "Cannot see knees"
	MsgTooClose        = "Too close, move back"
	MsgFramingGood     = "Great, you're in frame"
)

// Cascade limits, as fractions of the frame.
const (
	MinSubjectSize   = 0.4  // max box dimension below this is too far
	EdgeMargin       = 0.02 // points closer than this to an edge are cropped
	MaxSubjectHeight = 0.9  // box height above this is too close
	KneeCheckHeight  = 0.6  // knees are expected once the box is this tall
)

func warn(msg string) *CameraFeedback {
	return &CameraFeedback{Message: msg, Type: FeedbackWarning}
}

// Evaluate returns the most urgent framing problem for lms, or nil when
// framing is acceptable.
func Evaluate(lms []pose.Landmark) *CameraFeedback {
	const thr = l2geometry.VisibilityThreshold
	s := l2geometry.Summarize(lms, thr)

	switch {
	case !s.AnyVisible:
		return warn(MsgNoPerson)
	case s.HeadVisible && !s.HipsVisible:
		return warn(MsgMoveBackForBody)
	case !s.HipsVisible:
		return warn(MsgCannotSeeBody)
	case !s.HeadVisible:
		return warn(MsgCannotSeeHead)
	case s.Box.MaxDim() < MinSubjectSize:
		return warn(MsgTooFar)
	}

	if fb := edgeFeedback(lms, s, thr); fb != nil {
		return fb
	}

	h := s.Box.Height()
	switch {
	case h > MaxSubjectHeight:
		return warn(MsgTooClose)
	case !s.KneesVisible && h > KneeCheckHeight:
		return warn(MsgCannotSeeKnees)
	}
	return nil
}

// edgeFeedback reports a crop at the top, bottom, or sides, in that order.
// Only the ankles mark a bottom crop; heels, toes and hands near the bottom
// edge do not. A bottom crop reads as missing knees when no knee is visible.
func edgeFeedback(lms []pose.Landmark, s l2geometry.Summary, thr float64) *CameraFeedback {
	if l2geometry.Visible(lms, pose.Nose, thr) && lms[pose.Nose].Y < EdgeMargin {
		return warn(MsgTooCloseTop)
	}

	var bottom bool
	for _, idx := range pose.AnkleIndices {
		if l2geometry.Visible(lms, idx, thr) && lms[idx].Y > 1-EdgeMargin {
			bottom = true
		}
	}
	if bottom {
		if !s.KneesVisible {
			return warn(MsgCannotSeeKnees)
		}
		return warn(MsgTooCloseBottom)
	}

	if s.Box.MinX < EdgeMargin || s.Box.MaxX > 1-EdgeMargin {
		return warn(MsgTooCloseEdge)
	}
	return nil
}

// Recovered returns the one-shot success message shown when framing
// becomes acceptable after a warning.
func Recovered() *CameraFeedback {
	return &CameraFeedback{Message: MsgFramingGood, Type: FeedbackSuccess}
}

// IsCameraFeedback reports whether v is a fully shaped camera feedback: a
// CameraFeedback value or a JSON object with a string message and a known
// type. nil is not a feedback.
func IsCameraFeedback(v any) bool {
	switch fb := v.(type) {
	case CameraFeedback:
		return fb.Message != "" && fb.Type.Valid()
	case *CameraFeedback:
		return fb != nil && IsCameraFeedback(*fb)
	case map[string]any:
		msg, ok := fb["message"].(string)
		if !ok || msg == "" {
			return false
		}
		typ, ok := fb["type"].(string)
		return ok && FeedbackType(typ).Valid()
	}
	return false
}
