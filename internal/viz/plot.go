package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/switchctl/internal/integrators"
	"github.com/san-kum/switchctl/internal/switching"
)

const (
	plotWidth  = 70
	plotHeight = 10
)

// TrajectoryPlot draws x1(t) and x2(t) as two stacked plots; their scales
// usually differ too much to share an axis.
func TrajectoryPlot(tr *integrators.Trajectory) string {
	if tr == nil || tr.Len() < 2 {
		return ""
	}
	tEnd := tr.Times[tr.Len()-1]

	var sb strings.Builder
	for i, color := range []asciigraph.AnsiColor{asciigraph.Cyan, asciigraph.Magenta} {
		chart := asciigraph.Plot(tr.Column(i),
			asciigraph.Height(plotHeight),
			asciigraph.Width(plotWidth),
			asciigraph.SeriesColors(color),
			asciigraph.Caption(fmt.Sprintf("x%d(t), t in [0, %g]", i+1, tEnd)),
		)
		sb.WriteString(chart)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// ControlPlot draws both control channels of candidate x, sampled
// samplesPerInterval times per switching interval.
func ControlPlot(s *switching.Schedule, x []float64, samplesPerInterval int) string {
	if samplesPerInterval < 1 {
		samplesPerInterval = 1
	}
	c := switching.NewPiecewiseConstant(s)
	c.Load(x)

	total := s.Len() * samplesPerInterval
	u1 := make([]float64, total)
	u2 := make([]float64, total)
	dt := s.Tmax() / float64(total)
	for k := 0; k < total; k++ {
		u := c.Compute(nil, (float64(k)+0.5)*dt)
		u1[k], u2[k] = u[0], u[1]
	}

	return asciigraph.PlotMany([][]float64{u1, u2},
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Magenta),
		asciigraph.Caption("u1 (cyan), u2 (magenta)"),
	)
}
