package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/posture.report/internal/pose/l3phases"
	"github.com/banshee-data/posture.report/internal/pose/pipeline"
)

func sampleTimeline() *Timeline {
	tl := NewTimeline("lumbar_flexion", l3phases.DefaultThresholds(l3phases.LumbarFlexion))
	start := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	angles := []float64{180, 170, 140, 125, 155, 172, 180}
	for i, a := range angles {
		r := pipeline.FrameResult{
			Timestamp: start.Add(time.Duration(i) * 100 * time.Millisecond),
			Analysis: l3phases.AnalysisResult{
				Phase:          l3phases.PhaseNeutral,
				Angle:          a,
				FormScore:      100,
				RepIncremented: i == 4,
			},
		}
		tl.Add(r)
	}
	tl.Add(pipeline.FrameResult{
		Timestamp: start.Add(700 * time.Millisecond),
		Analysis:  l3phases.AnalysisResult{Phase: l3phases.PhaseNeutral, Degraded: true},
	})
	return tl
}

func TestTimeline_Add(t *testing.T) {
	tl := sampleTimeline()
	require.Len(t, tl.Points, 8)
	assert.InDelta(t, 0.4, tl.Points[4].Seconds, 1e-9)
	assert.True(t, tl.Points[4].Rep)
	assert.True(t, tl.Points[7].Degraded)
	assert.Equal(t, 1, tl.Reps())
}

func TestTimeline_UntimedFramesUseNominalRate(t *testing.T) {
	tl := NewTimeline("x", l3phases.Thresholds{})
	for i := 0; i < 3; i++ {
		tl.Add(pipeline.FrameResult{})
	}
	assert.InDelta(t, 2.0/30, tl.Points[2].Seconds, 1e-9)
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleTimeline().RenderHTML(&buf))

	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "lumbar_flexion")
	assert.Contains(t, html, "rep 1")
	assert.Contains(t, html, "reps=1")
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "angle.png")
	require.NoError(t, sampleTimeline().SavePNG(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestSavePNG_EmptyTimeline(t *testing.T) {
	tl := NewTimeline("empty", l3phases.DefaultThresholds(l3phases.LumbarExtension))
	assert.NoError(t, tl.SavePNG(filepath.Join(t.TempDir(), "empty.png")))
}
