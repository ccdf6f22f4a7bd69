package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderHTML writes an interactive chart of the controlling angle and
// form score. Degraded frames show as gaps.
func (tl *Timeline) RenderHTML(w io.Writer) error {
	x := make([]string, len(tl.Points))
	angles := make([]opts.LineData, len(tl.Points))
	scores := make([]opts.LineData, len(tl.Points))
	var reps []opts.ScatterData
	for i, p := range tl.Points {
		x[i] = strconv.FormatFloat(p.Seconds, 'f', 2, 64)
		if p.Degraded {
			angles[i] = opts.LineData{Value: "-"}
			scores[i] = opts.LineData{Value: "-"}
			continue
		}
		angles[i] = opts.LineData{Value: p.Angle, Name: string(p.Phase)}
		scores[i] = opts.LineData{Value: p.FormScore}
		if p.Rep {
			reps = append(reps, opts.ScatterData{Value: []any{x[i], p.Angle}, Name: fmt.Sprintf("rep %d", len(reps)+1)})
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: tl.Title, Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: tl.Title, Subtitle: fmt.Sprintf("frames=%d reps=%d", len(tl.Points), tl.Reps())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t (s)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "angle (deg)", Min: 0, Max: 180}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.ExtendYAxis(opts.YAxis{Name: "form score", Min: 0, Max: 100})

	line.SetXAxis(x).
		AddSeries("angle", angles,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithMarkLineNameYAxisItemOpts(
				opts.MarkLineNameYAxisItem{Name: "active", YAxis: tl.Thresholds.ActiveAngle},
				opts.MarkLineNameYAxisItem{Name: "neutral", YAxis: tl.Thresholds.NeutralAngle},
			),
		).
		AddSeries("form score", scores,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false), YAxisIndex: 1}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "#9e9e9e"}),
		)

	scatter := charts.NewScatter()
	scatter.AddSeries("reps", reps,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 12}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#ff5252"}),
	)
	line.Overlap(scatter)

	page := components.NewPage()
	page.AddCharts(line)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
