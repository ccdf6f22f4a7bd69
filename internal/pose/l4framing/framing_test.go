package l4framing

import (
	"encoding/json"
	"testing"

	"github.com/banshee-data/posture.report/internal/pose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// standing returns a well framed, camera-facing subject: nose at y 0.18,
// feet at 0.93, x between 0.4 and 0.6.
func standing() []pose.Landmark {
	lms := make([]pose.Landmark, pose.NumLandmarks)
	set := func(idx int, x, y float64) {
		lms[idx] = pose.Landmark{X: x, Y: y, Visibility: 0.9}
	}
	for _, idx := range pose.HeadIndices {
		set(idx, 0.5, 0.2)
	}
	set(pose.Nose, 0.5, 0.18)
	for _, side := range []struct {
		x                                                   float64
		shoulder, elbow, wrist, hip, knee, ankle, heel, toe int
	}{
		{0.6, pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist, pose.LeftHip, pose.LeftKnee, pose.LeftAnkle, pose.LeftHeel, pose.LeftFootIndex},
		{0.4, pose.RightShoulder, pose.RightElbow, pose.RightWrist, pose.RightHip, pose.RightKnee, pose.RightAnkle, pose.RightHeel, pose.RightFootIndex},
	} {
		set(side.shoulder, side.x, 0.3)
		set(side.elbow, side.x, 0.42)
		set(side.wrist, side.x, 0.52)
		set(side.hip, side.x, 0.55)
		set(side.knee, side.x, 0.72)
		set(side.ankle, side.x, 0.9)
		set(side.heel, side.x, 0.92)
		set(side.toe, side.x, 0.93)
	}
	for _, idx := range []int{pose.LeftPinky, pose.LeftIndex, pose.LeftThumb} {
		set(idx, 0.6, 0.54)
	}
	for _, idx := range []int{pose.RightPinky, pose.RightIndex, pose.RightThumb} {
		set(idx, 0.4, 0.54)
	}
	return lms
}

func transform(lms []pose.Landmark, f func(x, y float64) (float64, float64)) []pose.Landmark {
	out := make([]pose.Landmark, len(lms))
	for i, lm := range lms {
		lm.X, lm.Y = f(lm.X, lm.Y)
		out[i] = lm
	}
	return out
}

func hide(lms []pose.Landmark, group ...int) []pose.Landmark {
	for _, idx := range group {
		lms[idx].Visibility = 0.1
	}
	return lms
}

func TestEvaluate_Cascade(t *testing.T) {
	head := pose.HeadIndices
	hips := pose.HipIndices
	knees := pose.KneeIndices

	tests := []struct {
		name string
		lms  []pose.Landmark
		want string // empty means no feedback
	}{
		{"acceptable", standing(), ""},
		{"empty", nil, MsgNoPerson},
		{"nothing visible", hide(standing(), allIndices()...), MsgNoPerson},
		{"head without hips", hide(standing(), hips...), MsgMoveBackForBody},
		{"neither head nor hips", hide(hide(standing(), head...), hips...), MsgCannotSeeBody},
		{"no head", hide(standing(), head...), MsgCannotSeeHead},
		{"too far", transform(standing(), scaleAbout(0.5, 0.55, 0.4)), MsgTooFar},
		{"nose at top", func() []pose.Landmark {
			lms := standing()
			lms[pose.Nose].Y = 0.01
			return lms
		}(), MsgTooCloseTop},
		{"ankles at bottom", transform(standing(), shift(0, 0.085)), MsgTooCloseBottom},
		{"bottom crop without knees", hide(transform(standing(), shift(0, 0.085)), knees...), MsgCannotSeeKnees},
		{"heel near bottom, ankles clear", func() []pose.Landmark {
			lms := standing()
			lms[pose.LeftHeel].Y = 0.99
			return lms
		}(), ""},
		{"wrist near bottom", func() []pose.Landmark {
			lms := standing()
			lms[pose.RightWrist].Y = 0.99
			return lms
		}(), ""},
		{"left edge", transform(standing(), shift(-0.39, 0)), MsgTooCloseEdge},
		{"right edge", transform(standing(), shift(0.39, 0)), MsgTooCloseEdge},
		{"too close by height", transform(transform(standing(), shift(0, -0.055)), scaleAbout(0.5, 0.5, 1.24)), MsgTooClose},
		{"tall without knees", hide(standing(), knees...), MsgCannotSeeKnees},
		{"short without knees", hide(transform(standing(), scaleAbout(0.5, 0.55, 0.7)), knees...), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.lms)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Message)
			assert.Equal(t, FeedbackWarning, got.Type)
		})
	}
}

// A subject both cropped at the bottom and too tall is reported as the
// crop, not as too close.
func TestEvaluate_EdgeBeforeHeight(t *testing.T) {
	lms := transform(standing(), scaleAbout(0.5, 0.5, 1.3))
	lms[pose.Nose].Y = 0.05
	fb := Evaluate(lms)
	require.NotNil(t, fb)
	assert.Equal(t, MsgTooCloseBottom, fb.Message)
}

func TestEvaluate_ShortLandmarkSlice(t *testing.T) {
	lms := standing()[:pose.LeftShoulder]
	fb := Evaluate(lms)
	require.NotNil(t, fb)
	assert.Equal(t, MsgMoveBackForBody, fb.Message)
}

func TestIsCameraFeedback(t *testing.T) {
	tests := []struct {
		name string
		json string
		want bool
	}{
		{"warning", `{"message":"Too far, move closer","type":"warning"}`, true},
		{"success", `{"message":"Great","type":"success"}`, true},
		{"null", `null`, false},
		{"empty object", `{}`, false},
		{"numeric message", `{"message":3,"type":"info"}`, false},
		{"empty message", `{"message":"","type":"info"}`, false},
		{"unknown type", `{"message":"hi","type":"error"}`, false},
		{"missing type", `{"message":"hi"}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v any
			require.NoError(t, json.Unmarshal([]byte(tt.json), &v))
			assert.Equal(t, tt.want, IsCameraFeedback(v))
		})
	}

	assert.True(t, IsCameraFeedback(Recovered()))
	assert.True(t, IsCameraFeedback(*Evaluate(nil)))
	assert.False(t, IsCameraFeedback((*CameraFeedback)(nil)))
	assert.False(t, IsCameraFeedback(nil))
}

func allIndices() []int {
	idx := make([]int, pose.NumLandmarks)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func shift(dx, dy float64) func(x, y float64) (float64, float64) {
	return func(x, y float64) (float64, float64) { return x + dx, y + dy }
}

func scaleAbout(cx, cy, f float64) func(x, y float64) (float64, float64) {
	return func(x, y float64) (float64, float64) {
		return cx + (x-cx)*f, cy + (y-cy)*f
	}
}
