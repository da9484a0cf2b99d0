package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/san-kum/switchctl/internal/integrators"
)

// TrajectoryChart renders x1(t) and x2(t) as a line chart.
func TrajectoryChart(w io.Writer, title string, tr *integrators.Trajectory) error {
	if tr == nil || tr.Len() == 0 {
		return fmt.Errorf("empty trajectory")
	}

	times := make([]string, tr.Len())
	for i, t := range tr.Times {
		times[i] = strconv.FormatFloat(t, 'g', 6, 64)
	}

	series := func(col []float64) []opts.LineData {
		out := make([]opts.LineData, len(col))
		for i, v := range col {
			out[i] = opts.LineData{Value: v}
		}
		return out
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t"}),
	)
	line.SetXAxis(times).
		AddSeries("x1", series(tr.Column(0))).
		AddSeries("x2", series(tr.Column(1)))

	return line.Render(w)
}
