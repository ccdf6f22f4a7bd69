package l3phases

import "github.com/banshee-data/posture.report/internal/config"

// Thresholds holds the resolved tunables for one movement. Angles are in
// degrees on the movement's controlling angle, where 180 is upright.
type Thresholds struct {
	ActiveAngle  float64 `json:"active_angle_deg"`  // below this the subject is in the active phase
	NeutralAngle float64 `json:"neutral_angle_deg"` // at or above this the subject is back in neutral

	MinVisibility float64 `json:"min_visibility"` // required landmarks below this skip the frame
	UseDepth      bool    `json:"use_depth"`      // include z in joint angles

	HipDropTolerance float64 `json:"hip_drop_tolerance"`     // max normalized height difference between hips
	KneeMinAngle     float64 `json:"knee_min_angle_deg"`     // knee angle below this is a bent knee
	TrunkRotationMax float64 `json:"trunk_rotation_max_deg"` // max shoulder-line rotation out of the image plane
	ScorePenalty     int     `json:"score_penalty"`          // points removed per violated posture rule

	RequireAlternation bool `json:"require_alternation"` // consecutive reps must use opposite sides
}

// DefaultThresholds returns the built-in thresholds for m.
func DefaultThresholds(m Movement) Thresholds {
	return definitions[m].defaults
}

// ThresholdsFromTuning overlays a MovementTuning on the movement defaults.
// A nil tuning yields the defaults unchanged.
func ThresholdsFromTuning(m Movement, t *config.MovementTuning) Thresholds {
	d := DefaultThresholds(m)
	return Thresholds{
		ActiveAngle:        t.GetActiveAngle(d.ActiveAngle),
		NeutralAngle:       t.GetNeutralAngle(d.NeutralAngle),
		MinVisibility:      t.GetMinVisibility(d.MinVisibility),
		UseDepth:           t.GetUseDepth(d.UseDepth),
		HipDropTolerance:   t.GetHipDropTolerance(d.HipDropTolerance),
		KneeMinAngle:       t.GetKneeMinAngle(d.KneeMinAngle),
		TrunkRotationMax:   t.GetTrunkRotationMax(d.TrunkRotationMax),
		ScorePenalty:       t.GetScorePenalty(d.ScorePenalty),
		RequireAlternation: t.GetRequireAlternation(d.RequireAlternation),
	}
}
