package l2geometry

import (
	"math"

	"github.com/banshee-data/posture.report/internal/pose"
	"gonum.org/v1/gonum/spatial/r3"
)

// minLimbLength is the shortest segment treated as a real limb; shorter
// segments have no meaningful direction.
const minLimbLength = 1e-9

func toVec(l pose.Landmark, useDepth bool) r3.Vec {
	v := r3.Vec{X: l.X, Y: l.Y}
	if useDepth {
		v.Z = l.Z
	}
	return v
}

// JointAngle returns the angle in degrees at vertex between the segments
// to proximal and distal, in [0, 180]. Depth is included only when
// useDepth is set. A zero-length segment yields 180 (a straight joint).
func JointAngle(proximal, vertex, distal pose.Landmark, useDepth bool) float64 {
	v := toVec(vertex, useDepth)
	a := r3.Sub(toVec(proximal, useDepth), v)
	b := r3.Sub(toVec(distal, useDepth), v)

	na, nb := r3.Norm(a), r3.Norm(b)
	if na < minLimbLength || nb < minLimbLength {
		return 180
	}
	cos := r3.Dot(a, b) / (na * nb)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// Midpoint returns the point halfway between a and b. Its visibility is
// the lower of the two, since the midpoint is only as reliable as its
// weakest input.
func Midpoint(a, b pose.Landmark) pose.Landmark {
	return pose.Landmark{
		X:          (a.X + b.X) / 2,
		Y:          (a.Y + b.Y) / 2,
		Z:          (a.Z + b.Z) / 2,
		Visibility: math.Min(a.Visibility, b.Visibility),
	}
}

// LateralTilt returns the signed angle in degrees between the trunk
// (hip midpoint to shoulder midpoint) and image vertical. Positive values
// mean the shoulders are displaced toward +x.
func LateralTilt(shoulderMid, hipMid pose.Landmark) float64 {
	dx := shoulderMid.X - hipMid.X
	up := hipMid.Y - shoulderMid.Y // image y grows downward
	return math.Atan2(dx, up) * 180 / math.Pi
}

// SagittalLean returns the trunk lean in degrees from vertical as seen
// from the side. Positive is a forward lean in the facing direction,
// negative a backward lean. facing is +1 when the subject faces +x and -1
// when facing -x.
func SagittalLean(shoulderMid, hipMid pose.Landmark, facing float64) float64 {
	return LateralTilt(shoulderMid, hipMid) * facing
}

// Facing estimates which horizontal direction a side-on subject faces
// from heel-to-toe vectors, falling back to the nose relative to the ears.
// It returns +1, -1, or 0 when undetermined.
func Facing(lms []pose.Landmark) float64 {
	if len(lms) < pose.NumLandmarks {
		return 0
	}
	toes := (lms[pose.LeftFootIndex].X - lms[pose.LeftHeel].X) +
		(lms[pose.RightFootIndex].X - lms[pose.RightHeel].X)
	if math.Abs(toes) > 1e-3 {
		return sign(toes)
	}
	ears := Midpoint(lms[pose.LeftEar], lms[pose.RightEar])
	return sign(lms[pose.Nose].X - ears.X)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
