package pose

import (
	"math"
	"time"
)

// Body landmark indices in the standard 33-point pose topology.
const (
	Nose           = 0
	LeftEyeInner   = 1
	LeftEye        = 2
	LeftEyeOuter   = 3
	RightEyeInner  = 4
	RightEye       = 5
	RightEyeOuter  = 6
	LeftEar        = 7
	RightEar       = 8
	MouthLeft      = 9
	MouthRight     = 10
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftPinky      = 17
	RightPinky     = 18
	LeftIndex      = 19
	RightIndex     = 20
	LeftThumb      = 21
	RightThumb     = 22
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32
	NumLandmarks   = 33
)

// Anatomical index groups used for visibility checks.
var (
	HeadIndices  = []int{Nose, LeftEyeInner, LeftEye, LeftEyeOuter, RightEyeInner, RightEye, RightEyeOuter, LeftEar, RightEar, MouthLeft, MouthRight}
	HipIndices   = []int{LeftHip, RightHip}
	KneeIndices  = []int{LeftKnee, RightKnee}
	AnkleIndices = []int{LeftAnkle, RightAnkle}
)

// Landmark is one tracked body point. X and Y are normalized to [0,1] in
// camera-frame space with the origin at the top-left; Z is a relative depth
// estimate on the detector's own scale. Visibility is the detector's
// confidence in [0,1] that the point is present and unoccluded.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// IsFinite reports whether every coordinate of the landmark is finite.
func (l Landmark) IsFinite() bool {
	for _, v := range [...]float64{l.X, l.Y, l.Z, l.Visibility} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Frame carries the landmarks produced by the detector for one video frame
// together with the frame's capture time.
type Frame struct {
	Timestamp time.Time  `json:"timestamp"`
	Landmarks []Landmark `json:"landmarks"`
}

// At returns the landmark at idx and whether the frame has one.
func (f Frame) At(idx int) (Landmark, bool) {
	if idx < 0 || idx >= len(f.Landmarks) {
		return Landmark{}, false
	}
	return f.Landmarks[idx], true
}

// Side identifies the left or right half of the body.
type Side string

const (
	SideNone  Side = ""
	SideLeft  Side = "left"
	SideRight Side = "right"
)
