package l3phases

import (
	"math"

	"github.com/banshee-data/posture.report/internal/pose"
	"github.com/banshee-data/posture.report/internal/pose/l2geometry"
)

// formRule checks one posture tolerance and reports a violation without a
// timestamp; the engine stamps it with the frame time.
type formRule func(lms []pose.Landmark, th Thresholds) (FormError, bool)

func checkHipDrop(lms []pose.Landmark, th Thresholds) (FormError, bool) {
	if !visibleAll(lms, th, pose.LeftHip, pose.RightHip) {
		return FormError{}, false
	}
	if math.Abs(lms[pose.LeftHip].Y-lms[pose.RightHip].Y) <= th.HipDropTolerance {
		return FormError{}, false
	}
	return FormError{
		Type:     ErrorHipDrop,
		Message:  "Keep your hips level",
		Severity: SeverityWarning,
	}, true
}

// checkKneeBend flags the most bent visible knee.
func checkKneeBend(lms []pose.Landmark, th Thresholds) (FormError, bool) {
	minAngle := math.Inf(1)
	for _, c := range []chain{leftChain, rightChain} {
		if !visibleAll(lms, th, c.hip, c.knee, c.ankle) {
			continue
		}
		minAngle = math.Min(minAngle, l2geometry.JointAngle(lms[c.hip], lms[c.knee], lms[c.ankle], th.UseDepth))
	}
	if minAngle >= th.KneeMinAngle {
		return FormError{}, false
	}
	return FormError{
		Type:     ErrorKneeBend,
		Message:  "Keep your knees straight",
		Severity: SeverityError,
	}, true
}

// checkTrunkRotation flags a shoulder line turned out of the image plane,
// estimated from the shoulders' relative depth.
func checkTrunkRotation(lms []pose.Landmark, th Thresholds) (FormError, bool) {
	if !visibleAll(lms, th, pose.LeftShoulder, pose.RightShoulder) {
		return FormError{}, false
	}
	l, r := lms[pose.LeftShoulder], lms[pose.RightShoulder]
	rotation := math.Atan2(math.Abs(l.Z-r.Z), math.Abs(l.X-r.X)) * 180 / math.Pi
	if rotation <= th.TrunkRotationMax {
		return FormError{}, false
	}
	return FormError{
		Type:     ErrorTrunkRotation,
		Message:  "Keep your shoulders facing the camera",
		Severity: SeverityWarning,
	}, true
}
