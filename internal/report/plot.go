package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	angleColor   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	activeColor  = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	neutralColor = color.RGBA{R: 44, G: 160, B: 44, A: 255}
)

// SavePNG writes a static plot of the controlling angle with threshold
// lines and rep markers. The format follows the file extension.
func (tl *Timeline) SavePNG(path string) error {
	p := plot.New()
	p.Title.Text = tl.Title
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = "angle (deg)"
	p.Y.Min, p.Y.Max = 0, 180

	var pts, reps plotter.XYs
	for _, pt := range tl.Points {
		if pt.Degraded {
			continue
		}
		pts = append(pts, plotter.XY{X: pt.Seconds, Y: pt.Angle})
		if pt.Rep {
			reps = append(reps, plotter.XY{X: pt.Seconds, Y: pt.Angle})
		}
	}

	if len(pts) > 0 {
		angleLine, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		angleLine.Color = angleColor
		angleLine.Width = vg.Points(1)
		p.Add(angleLine)
		p.Legend.Add("angle", angleLine)
	}
	if len(reps) > 0 {
		repMarks, err := plotter.NewScatter(reps)
		if err != nil {
			return err
		}
		repMarks.Color = activeColor
		repMarks.Radius = vg.Points(3)
		p.Add(repMarks)
		p.Legend.Add("rep", repMarks)
	}

	for _, th := range []struct {
		name  string
		value float64
		color color.Color
	}{
		{"active", tl.Thresholds.ActiveAngle, activeColor},
		{"neutral", tl.Thresholds.NeutralAngle, neutralColor},
	} {
		v := th.value
		fn := plotter.NewFunction(func(float64) float64 { return v })
		fn.Color = th.color
		fn.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(fn)
		p.Legend.Add(th.name, fn)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
