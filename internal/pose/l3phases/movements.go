package l3phases

import (
	"math"

	"github.com/banshee-data/posture.report/internal/pose"
	"github.com/banshee-data/posture.report/internal/pose/l2geometry"
)

// measurement is the controlling angle of a frame plus the body side it
// implies, if any.
type measurement struct {
	angle float64
	side  pose.Side
}

// movementDef binds a movement to its phase label, angle extraction,
// default thresholds and posture rules.
type movementDef struct {
	slug     string
	active   Phase
	defaults Thresholds
	sided    bool // tracks LastExtendedSide
	measure  func(lms []pose.Landmark, th Thresholds) (measurement, bool)
	rules    []formRule
}

var definitions = map[Movement]movementDef{
	LumbarFlexion: {
		slug:   "lumbar_flexion",
		active: PhaseFlexion,
		defaults: Thresholds{
			ActiveAngle:      150,
			NeutralAngle:     165,
			MinVisibility:    0.5,
			HipDropTolerance: 0.05,
			KneeMinAngle:     155,
			TrunkRotationMax: 25,
			ScorePenalty:     20,
		},
		measure: measureHipHinge,
		rules:   []formRule{checkKneeBend, checkHipDrop},
	},
	LumbarExtension: {
		slug:   "lumbar_extension",
		active: PhaseExtension,
		defaults: Thresholds{
			ActiveAngle:      165,
			NeutralAngle:     175,
			MinVisibility:    0.5,
			HipDropTolerance: 0.05,
			KneeMinAngle:     155,
			TrunkRotationMax: 25,
			ScorePenalty:     20,
		},
		measure: measureBackwardLean,
		rules:   []formRule{checkKneeBend, checkHipDrop},
	},
	LumbarSideBend: {
		slug:   "lumbar_side_bend",
		active: PhaseSideBend,
		defaults: Thresholds{
			ActiveAngle:        160,
			NeutralAngle:       172,
			MinVisibility:      0.5,
			HipDropTolerance:   0.05,
			KneeMinAngle:       155,
			TrunkRotationMax:   25,
			ScorePenalty:       20,
			RequireAlternation: true,
		},
		sided:   true,
		measure: measureLateralTilt,
		rules:   []formRule{checkKneeBend, checkHipDrop, checkTrunkRotation},
	},
}

// chain is one side's shoulder-hip-knee-ankle landmark chain.
type chain struct {
	shoulder, hip, knee, ankle int
}

var (
	leftChain  = chain{pose.LeftShoulder, pose.LeftHip, pose.LeftKnee, pose.LeftAnkle}
	rightChain = chain{pose.RightShoulder, pose.RightHip, pose.RightKnee, pose.RightAnkle}
)

// trunkVisibility is the weakest visibility among the chain's trunk points.
func (c chain) trunkVisibility(lms []pose.Landmark) float64 {
	return math.Min(lms[c.shoulder].Visibility, math.Min(lms[c.hip].Visibility, lms[c.knee].Visibility))
}

// sideViewChain picks the chain facing the camera in a side-on view.
func sideViewChain(lms []pose.Landmark, th Thresholds) (chain, bool) {
	if len(lms) < pose.NumLandmarks {
		return chain{}, false
	}
	c := leftChain
	if rightChain.trunkVisibility(lms) > leftChain.trunkVisibility(lms) {
		c = rightChain
	}
	return c, c.trunkVisibility(lms) >= th.MinVisibility
}

func visibleAll(lms []pose.Landmark, th Thresholds, idx ...int) bool {
	for _, i := range idx {
		if i >= len(lms) || lms[i].Visibility < th.MinVisibility {
			return false
		}
	}
	return true
}

// measureHipHinge uses the shoulder-hip-knee angle; standing is about 180
// and a forward bend closes it.
func measureHipHinge(lms []pose.Landmark, th Thresholds) (measurement, bool) {
	c, ok := sideViewChain(lms, th)
	if !ok {
		return measurement{}, false
	}
	return measurement{angle: l2geometry.JointAngle(lms[c.shoulder], lms[c.hip], lms[c.knee], th.UseDepth)}, true
}

// measureBackwardLean reports 180 minus the backward trunk lean. Forward
// lean does not count as extension. When facing cannot be determined the
// unsigned hip angle is used instead.
func measureBackwardLean(lms []pose.Landmark, th Thresholds) (measurement, bool) {
	c, ok := sideViewChain(lms, th)
	if !ok {
		return measurement{}, false
	}
	facing := l2geometry.Facing(lms)
	if facing == 0 {
		return measurement{angle: l2geometry.JointAngle(lms[c.shoulder], lms[c.hip], lms[c.knee], th.UseDepth)}, true
	}
	lean := l2geometry.SagittalLean(lms[c.shoulder], lms[c.hip], facing)
	return measurement{angle: 180 - math.Max(0, -lean)}, true
}

// minSideDrop is the shoulder height difference below which no side is
// attributed to a bend.
const minSideDrop = 0.01

// measureLateralTilt reports 180 minus the absolute trunk tilt in a
// frontal view. The bending side is the side whose shoulder sits lower.
func measureLateralTilt(lms []pose.Landmark, th Thresholds) (measurement, bool) {
	if !visibleAll(lms, th, pose.LeftShoulder, pose.RightShoulder, pose.LeftHip, pose.RightHip) {
		return measurement{}, false
	}
	shoulders := l2geometry.Midpoint(lms[pose.LeftShoulder], lms[pose.RightShoulder])
	hips := l2geometry.Midpoint(lms[pose.LeftHip], lms[pose.RightHip])
	m := measurement{angle: 180 - math.Abs(l2geometry.LateralTilt(shoulders, hips))}

	drop := lms[pose.LeftShoulder].Y - lms[pose.RightShoulder].Y
	switch {
	case drop > minSideDrop:
		m.side = pose.SideLeft
	case drop < -minSideDrop:
		m.side = pose.SideRight
	}
	return m, true
}
