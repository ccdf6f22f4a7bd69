package l3phases

import (
	"math"
	"time"

	"github.com/banshee-data/posture.report/internal/pose"
)

var fixtureStart = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func frameAt(i int, lms []pose.Landmark) pose.Frame {
	return pose.Frame{
		Timestamp: fixtureStart.Add(time.Duration(i) * 33 * time.Millisecond),
		Landmarks: lms,
	}
}

func setLM(lms []pose.Landmark, idx int, x, y float64) {
	lms[idx] = pose.Landmark{X: x, Y: y, Visibility: 0.95}
}

// sideView returns a side-on pose facing +x with the trunk leaning by
// leanDeg from vertical: positive leans forward, negative backward.
// Standing straight (leanDeg 0) gives a hip angle of 180.
func sideView(leanDeg float64) []pose.Landmark {
	lms := make([]pose.Landmark, pose.NumLandmarks)
	for i := range lms {
		lms[i] = pose.Landmark{X: 0.5, Y: 0.5, Visibility: 0.95}
	}
	const hipX, hipY, trunk = 0.5, 0.55, 0.25
	rad := leanDeg * math.Pi / 180
	sx, sy := hipX+trunk*math.Sin(rad), hipY-trunk*math.Cos(rad)

	for _, idx := range pose.HeadIndices {
		setLM(lms, idx, sx, sy-0.12)
	}
	setLM(lms, pose.Nose, sx+0.03, sy-0.12)
	setLM(lms, pose.LeftShoulder, sx, sy)
	setLM(lms, pose.RightShoulder, sx, sy)
	setLM(lms, pose.LeftHip, hipX, hipY)
	setLM(lms, pose.RightHip, hipX, hipY)
	setLM(lms, pose.LeftKnee, hipX, 0.72)
	setLM(lms, pose.RightKnee, hipX, 0.72)
	setLM(lms, pose.LeftAnkle, hipX, 0.9)
	setLM(lms, pose.RightAnkle, hipX, 0.9)
	setLM(lms, pose.LeftHeel, hipX-0.01, 0.92)
	setLM(lms, pose.RightHeel, hipX-0.01, 0.92)
	setLM(lms, pose.LeftFootIndex, hipX+0.05, 0.92)
	setLM(lms, pose.RightFootIndex, hipX+0.05, 0.92)
	return lms
}

// frontView returns a camera-facing pose with the trunk tilted by tiltDeg
// about the hip midpoint. Positive tilts drop the left shoulder.
func frontView(tiltDeg float64) []pose.Landmark {
	lms := make([]pose.Landmark, pose.NumLandmarks)
	for i := range lms {
		lms[i] = pose.Landmark{X: 0.5, Y: 0.5, Visibility: 0.95}
	}
	const hipY, trunk, halfShoulder = 0.55, 0.25, 0.1
	rad := tiltDeg * math.Pi / 180
	mx, my := 0.5+trunk*math.Sin(rad), hipY-trunk*math.Cos(rad)
	ox, oy := halfShoulder*math.Cos(rad), halfShoulder*math.Sin(rad)

	for _, idx := range pose.HeadIndices {
		setLM(lms, idx, mx, my-0.12)
	}
	setLM(lms, pose.LeftShoulder, mx+ox, my+oy)
	setLM(lms, pose.RightShoulder, mx-ox, my-oy)
	setLM(lms, pose.LeftHip, 0.58, hipY)
	setLM(lms, pose.RightHip, 0.42, hipY)
	setLM(lms, pose.LeftKnee, 0.58, 0.72)
	setLM(lms, pose.RightKnee, 0.42, 0.72)
	setLM(lms, pose.LeftAnkle, 0.58, 0.9)
	setLM(lms, pose.RightAnkle, 0.42, 0.9)
	setLM(lms, pose.LeftHeel, 0.58, 0.92)
	setLM(lms, pose.RightHeel, 0.42, 0.92)
	setLM(lms, pose.LeftFootIndex, 0.58, 0.93)
	setLM(lms, pose.RightFootIndex, 0.42, 0.93)
	return lms
}

// poseFor returns a pose whose controlling angle for m is about angleDeg.
func poseFor(m Movement, angleDeg float64) []pose.Landmark {
	dev := 180 - angleDeg
	switch m {
	case LumbarExtension:
		return sideView(-dev)
	case LumbarSideBend:
		return frontView(dev)
	}
	return sideView(dev)
}

// runFrames analyzes lms in order, applying each result to the state.
func runFrames(a *Analyzer, state *SessionState, seq ...[]pose.Landmark) []AnalysisResult {
	results := make([]AnalysisResult, 0, len(seq))
	for i, lms := range seq {
		r := a.Analyze(frameAt(i, lms), state)
		state.Apply(r)
		results = append(results, r)
	}
	return results
}

func countReps(results []AnalysisResult) int {
	n := 0
	for _, r := range results {
		if r.RepIncremented {
			n++
		}
	}
	return n
}
