package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/san-kum/switchctl/internal/storage"
)

// ParetoChart renders the objective values of a multi-objective run as a
// scatter plot of I1 against I2.
func ParetoChart(w io.Writer, rec *storage.Record) error {
	if len(rec.Results) == 0 {
		return fmt.Errorf("run %s has no results", rec.ID)
	}

	points := make([]opts.ScatterData, 0, len(rec.Results))
	for _, res := range rec.Results {
		if len(res.Objectives) != 2 {
			return fmt.Errorf("run %s is not a two-objective run", rec.ID)
		}
		points = append(points, opts.ScatterData{
			Value:      []float64{res.Objectives[0], res.Objectives[1]},
			Symbol:     "circle",
			SymbolSize: 10,
		})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s N=%d T=%g", rec.Problem.Name, rec.Problem.NSwitches, rec.Problem.Tmax),
			Subtitle: fmt.Sprintf("%s, run %d", rec.Optimizer, rec.Run),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "I1",
			SplitLine: &opts.SplitLine{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "I2",
			SplitLine: &opts.SplitLine{Show: opts.Bool(true)},
		}),
	)

	scatter.AddSeries("Pareto front", points).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}),
		)

	return scatter.Render(w)
}
