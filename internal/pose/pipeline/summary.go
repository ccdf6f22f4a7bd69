package pipeline

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/posture.report/internal/pose/l3phases"
)

// Summary aggregates a session's processed frames.
type Summary struct {
	SessionID string `json:"session_id"`
	Movement  string `json:"movement"`
	RepCount  int    `json:"rep_count"`

	Frames         int `json:"frames"`
	LostFrames     int `json:"lost_frames"`
	DegradedFrames int `json:"degraded_frames"`
	BankResets     int `json:"bank_resets"`

	// Form score statistics over analyzed (non-degraded) frames.
	MeanFormScore   float64 `json:"mean_form_score"`
	StdDevFormScore float64 `json:"stddev_form_score"`
	MedianFormScore float64 `json:"median_form_score"`
	// RepFormScores holds the form score of each crediting frame.
	RepFormScores []int `json:"rep_form_scores"`

	MinAngle float64 `json:"min_angle_deg"`
	MaxAngle float64 `json:"max_angle_deg"`

	ErrorCounts map[string]int `json:"error_counts"`
}

type stats struct {
	frames, lost, degraded, resets int
	scores                         []float64
	angles                         []float64
	repScores                      []int
	errors                         map[string]int
}

func (st *stats) add(r FrameResult) {
	st.frames++
	if r.Lost {
		st.lost++
	}
	a := r.Analysis
	if a.Degraded {
		st.degraded++
		return
	}
	st.scores = append(st.scores, float64(a.FormScore))
	st.angles = append(st.angles, a.Angle)
	if a.RepIncremented {
		st.repScores = append(st.repScores, a.FormScore)
	}
	for _, fe := range a.Errors {
		if st.errors == nil {
			st.errors = make(map[string]int)
		}
		st.errors[fe.Type]++
	}
}

func (st *stats) summary(id string, m l3phases.Movement, reps int) Summary {
	sum := Summary{
		SessionID:      id,
		Movement:       m.String(),
		RepCount:       reps,
		Frames:         st.frames,
		LostFrames:     st.lost,
		DegradedFrames: st.degraded,
		BankResets:     st.resets,
		RepFormScores:  append([]int(nil), st.repScores...),
		ErrorCounts:    make(map[string]int, len(st.errors)),
	}
	for k, v := range st.errors {
		sum.ErrorCounts[k] = v
	}
	if len(st.scores) == 0 {
		return sum
	}

	sum.MeanFormScore, sum.StdDevFormScore = stat.MeanStdDev(st.scores, nil)
	if len(st.scores) == 1 {
		sum.StdDevFormScore = 0
	}
	sorted := append([]float64(nil), st.scores...)
	sort.Float64s(sorted)
	sum.MedianFormScore = stat.Quantile(0.5, stat.Empirical, sorted, nil)

	angles := append([]float64(nil), st.angles...)
	sort.Float64s(angles)
	sum.MinAngle, sum.MaxAngle = angles[0], angles[len(angles)-1]
	return sum
}
